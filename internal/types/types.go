// Package types defines every cross‑package data structure used by the trxd CLI.
package types

import (
	"fmt"
	"time"
)

const (
	EntryKindFile      = "file"
	EntryKindDirectory = "directory"

	FormatTree  = "tree"
	FormatASCII = "ascii"
	FormatFlat  = "flat"
	FormatCSV   = "csv"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// SupportedFormats lists every recognized output format name.
var SupportedFormats = []string{FormatTree, FormatASCII, FormatFlat, FormatCSV, FormatJSON, FormatYAML}

// IsSupportedFormat reports whether the provided format name is recognized.
func IsSupportedFormat(formatName string) bool {
	for _, supportedFormat := range SupportedFormats {
		if formatName == supportedFormat {
			return true
		}
	}
	return false
}

// FileMetadata carries the size and modification time of a single file.
// The zero value is the sentinel for a file whose attributes could not be read.
type FileMetadata struct {
	SizeBytes int64
	Modified  time.Time
}

// IsUnknown reports whether the metadata is the unreadable-file sentinel.
func (metadata FileMetadata) IsUnknown() bool {
	return metadata.SizeBytes == 0 && metadata.Modified.IsZero()
}

// DirectoryMetadata aggregates every surviving file below a directory, however
// deep. Modified is the most recent timestamp across the directory itself and
// all of its surviving descendants.
type DirectoryMetadata struct {
	FileCount      int
	TotalSizeBytes int64
	Modified       time.Time
}

// Fold merges child directory metadata into the receiver. The operation is
// associative and commutative so sibling processing order cannot change the
// result.
func (metadata DirectoryMetadata) Fold(child DirectoryMetadata) DirectoryMetadata {
	result := metadata
	result.FileCount += child.FileCount
	result.TotalSizeBytes += child.TotalSizeBytes
	if child.Modified.After(result.Modified) {
		result.Modified = child.Modified
	}
	return result
}

// FoldFile merges a single file's metadata into the receiver.
func (metadata DirectoryMetadata) FoldFile(file FileMetadata) DirectoryMetadata {
	result := metadata
	result.FileCount++
	result.TotalSizeBytes += file.SizeBytes
	if file.Modified.After(result.Modified) {
		result.Modified = file.Modified
	}
	return result
}

// Entry is one surviving filesystem node produced by the walker. Entries are
// immutable once yielded and unique per Path within a single traversal.
type Entry struct {
	// Path is slash-separated and rooted at the base name of the traversal
	// root, so the root entry's Path equals that base name.
	Path      string
	Name      string
	Kind      string
	Depth     int
	Extension string
	File      *FileMetadata
	Directory *DirectoryMetadata
}

// IsDir reports whether the entry describes a directory.
func (entry Entry) IsDir() bool {
	return entry.Kind == EntryKindDirectory
}

// RootNotFoundError reports that the traversal root does not exist or is not
// a directory. It is returned before the first entry is produced.
type RootNotFoundError struct {
	Path string
}

func (rootError *RootNotFoundError) Error() string {
	return fmt.Sprintf("the path '%s' is not a valid directory", rootError.Path)
}
