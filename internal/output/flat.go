package output

import (
	"fmt"
	"io"

	"github.com/tmoreno/trxd/internal/classify"
	"github.com/tmoreno/trxd/internal/types"
	"github.com/tmoreno/trxd/internal/utils"
)

const unknownMetadataPlaceholder = "unknown"

// flatRenderer prints one path per line, streaming, with O(1) memory beyond
// the current entry.
type flatRenderer struct {
	writer       io.Writer
	showMetadata bool
}

func newFlatRenderer(writer io.Writer, showMetadata bool) Renderer {
	return &flatRenderer{writer: writer, showMetadata: showMetadata}
}

func (renderer *flatRenderer) Handle(entry types.Entry) error {
	if !renderer.showMetadata {
		_, writeError := fmt.Fprintln(renderer.writer, entry.Path)
		return writeError
	}
	_, writeError := fmt.Fprintf(renderer.writer, "%s%s\n", entry.Path, metadataSuffix(entry, true))
	return writeError
}

func (renderer *flatRenderer) Flush() error {
	return nil
}

// metadataSuffix formats the bracketed human-readable metadata appended after
// a name or path. Directories show their file count and total size, plus the
// modification time outside flat style; files show size and modification
// time. Entries without metadata yield an empty string.
func metadataSuffix(entry types.Entry, flatStyle bool) string {
	if entry.IsDir() {
		if entry.Directory == nil {
			return ""
		}
		if flatStyle {
			return fmt.Sprintf(" [%s, %s]", fileCountLabel(entry.Directory.FileCount), classify.FormatSize(entry.Directory.TotalSizeBytes))
		}
		return fmt.Sprintf(" [%s, %s, %s]",
			fileCountLabel(entry.Directory.FileCount),
			classify.FormatSize(entry.Directory.TotalSizeBytes),
			timestampOrPlaceholder(utils.FormatTimestamp(entry.Directory.Modified)))
	}
	if entry.File == nil {
		return ""
	}
	if entry.File.IsUnknown() {
		return " [" + unknownMetadataPlaceholder + "]"
	}
	return fmt.Sprintf(" [%s, %s]",
		classify.FormatSize(entry.File.SizeBytes),
		timestampOrPlaceholder(utils.FormatTimestamp(entry.File.Modified)))
}

// fileCountLabel pluralizes the directory file count: "1 file", "3 files".
func fileCountLabel(fileCount int) string {
	if fileCount == 1 {
		return "1 file"
	}
	return fmt.Sprintf("%d files", fileCount)
}

func timestampOrPlaceholder(formatted string) string {
	if formatted == "" {
		return unknownMetadataPlaceholder
	}
	return formatted
}
