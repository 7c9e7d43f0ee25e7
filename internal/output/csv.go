package output

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/tmoreno/trxd/internal/types"
	"github.com/tmoreno/trxd/internal/utils"
)

// csvBaseHeader lists the columns always present; csvMetadataHeader extends
// it when metadata collection was requested.
var (
	csvBaseHeader     = []string{"type", "path", "name", "extension"}
	csvMetadataHeader = []string{"size", "modified", "file_count", "total_size"}
)

// csvRenderer streams one row per entry. Field quoting and escaping is
// delegated to encoding/csv, so names containing the delimiter or quote
// character are emitted as valid quoted fields rather than rejected.
type csvRenderer struct {
	csvWriter     *csv.Writer
	showMetadata  bool
	headerWritten bool
}

func newCSVRenderer(writer io.Writer, showMetadata bool) Renderer {
	return &csvRenderer{csvWriter: csv.NewWriter(writer), showMetadata: showMetadata}
}

func (renderer *csvRenderer) Handle(entry types.Entry) error {
	if !renderer.headerWritten {
		renderer.headerWritten = true
		if headerError := renderer.csvWriter.Write(renderer.header()); headerError != nil {
			return headerError
		}
	}
	return renderer.csvWriter.Write(renderer.row(entry))
}

func (renderer *csvRenderer) Flush() error {
	renderer.csvWriter.Flush()
	return renderer.csvWriter.Error()
}

func (renderer *csvRenderer) header() []string {
	if !renderer.showMetadata {
		return csvBaseHeader
	}
	return append(append([]string{}, csvBaseHeader...), csvMetadataHeader...)
}

// row produces the record for one entry. Timestamps use ISO-8601; metadata
// columns that do not apply to the entry kind stay empty, as does any column
// whose value is the unknown sentinel.
func (renderer *csvRenderer) row(entry types.Entry) []string {
	record := []string{entry.Kind, entry.Path, entry.Name, entry.Extension}
	if !renderer.showMetadata {
		return record
	}

	size, modified, fileCount, totalSize := "", "", "", ""
	switch {
	case entry.IsDir() && entry.Directory != nil:
		modified = utils.FormatTimestampISO(entry.Directory.Modified)
		fileCount = strconv.Itoa(entry.Directory.FileCount)
		totalSize = strconv.FormatInt(entry.Directory.TotalSizeBytes, 10)
	case !entry.IsDir() && entry.File != nil:
		if !entry.File.IsUnknown() {
			size = strconv.FormatInt(entry.File.SizeBytes, 10)
			modified = utils.FormatTimestampISO(entry.File.Modified)
		}
	}
	return append(record, size, modified, fileCount, totalSize)
}
