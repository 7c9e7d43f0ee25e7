// Package walk performs the filtered, pruned depth-first traversal and yields
// an ordered sequence of entries annotated with depth and optional metadata.
package walk

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tmoreno/trxd/internal/filter"
	"github.com/tmoreno/trxd/internal/types"
)

const (
	warningReadDirectoryFormat = "Warning: unable to read directory %s, listing it as empty: %v"
	warningStatEntryFormat     = "Warning: unable to stat %s: %v"

	pathSeparator = "/"
)

// Options configures a traversal.
type Options struct {
	// Root is the directory to list. It must exist and be a directory.
	Root string
	// Filter holds the compiled exclusion pattern sets; nil excludes nothing.
	Filter *filter.Spec
	// CollectMetadata attaches file and directory metadata to every entry.
	CollectMetadata bool
	// Warn receives human-readable messages for recovered per-entry failures.
	Warn func(message string)
}

// EmitFunc receives each surviving entry in traversal order. Returning an
// error stops the walk.
type EmitFunc func(entry types.Entry) error

// Walker produces the entry sequence for a single traversal. The sequence is
// single-pass; construct a new Walker for a fresh traversal.
type Walker struct {
	options Options
}

// NewWalker constructs a Walker for the given options.
func NewWalker(options Options) *Walker {
	if options.Warn == nil {
		options.Warn = func(string) {}
	}
	return &Walker{options: options}
}

// Walk validates the root once and then emits entries depth-first. Within a
// directory, surviving children are emitted directories before files, each
// group in ordinal name order, and a directory's entire subtree precedes its
// next sibling. With metadata collection enabled, a directory's entry carries
// aggregates over its whole surviving subtree even though it is still emitted
// before its children; this requires holding a subtree's entries until the
// subtree has been fully walked.
func (walker *Walker) Walk(ctx context.Context, emit EmitFunc) error {
	absoluteRoot, absolutePathError := filepath.Abs(walker.options.Root)
	if absolutePathError != nil {
		return &types.RootNotFoundError{Path: walker.options.Root}
	}
	rootInfo, rootStatError := os.Stat(absoluteRoot)
	if rootStatError != nil || !rootInfo.IsDir() {
		return &types.RootNotFoundError{Path: walker.options.Root}
	}

	rootLabel := filepath.Base(absoluteRoot)
	rootEntry := types.Entry{
		Path:  rootLabel,
		Name:  rootLabel,
		Kind:  types.EntryKindDirectory,
		Depth: 0,
	}

	if !walker.options.CollectMetadata {
		if emitError := emit(rootEntry); emitError != nil {
			return emitError
		}
		return walker.stream(ctx, absoluteRoot, rootLabel, 1, emit)
	}

	rootMetadata, subtreeEntries, collectError := walker.collect(ctx, absoluteRoot, rootLabel, 1, rootInfo)
	if collectError != nil {
		return collectError
	}
	rootEntry.Directory = &rootMetadata
	if emitError := emit(rootEntry); emitError != nil {
		return emitError
	}
	for _, entry := range subtreeEntries {
		if contextError := ctx.Err(); contextError != nil {
			return contextError
		}
		if emitError := emit(entry); emitError != nil {
			return emitError
		}
	}
	return nil
}

// partitionedChildren lists a directory, drops excluded names, and returns the
// surviving directories and files each sorted in case-sensitive ordinal order.
// A listing failure is recovered by reporting the directory as empty.
func (walker *Walker) partitionedChildren(directoryPath string) (directories []os.DirEntry, files []os.DirEntry) {
	directoryEntries, readDirectoryError := os.ReadDir(directoryPath)
	if readDirectoryError != nil {
		walker.options.Warn(warningFormat(warningReadDirectoryFormat, directoryPath, readDirectoryError))
		return nil, nil
	}

	for _, directoryEntry := range directoryEntries {
		if directoryEntry.IsDir() {
			if walker.options.Filter.ExcludesDirectory(directoryEntry.Name()) {
				continue
			}
			directories = append(directories, directoryEntry)
			continue
		}
		if walker.options.Filter.ExcludesFile(directoryEntry.Name()) {
			continue
		}
		files = append(files, directoryEntry)
	}

	sort.Slice(directories, func(left, right int) bool { return directories[left].Name() < directories[right].Name() })
	sort.Slice(files, func(left, right int) bool { return files[left].Name() < files[right].Name() })
	return directories, files
}

// stream emits entries as they are discovered, pre-order, with no metadata.
func (walker *Walker) stream(ctx context.Context, directoryPath string, relativePath string, depth int, emit EmitFunc) error {
	directories, files := walker.partitionedChildren(directoryPath)

	for _, childDirectory := range directories {
		if contextError := ctx.Err(); contextError != nil {
			return contextError
		}
		childPath := filepath.Join(directoryPath, childDirectory.Name())
		childRelative := relativePath + pathSeparator + childDirectory.Name()
		if emitError := emit(directoryEntryValue(childRelative, childDirectory.Name(), depth, nil)); emitError != nil {
			return emitError
		}
		if walkError := walker.stream(ctx, childPath, childRelative, depth+1, emit); walkError != nil {
			return walkError
		}
	}

	for _, childFile := range files {
		if contextError := ctx.Err(); contextError != nil {
			return contextError
		}
		childRelative := relativePath + pathSeparator + childFile.Name()
		if emitError := emit(fileEntryValue(childRelative, childFile.Name(), depth, nil)); emitError != nil {
			return emitError
		}
	}

	return nil
}

// collect walks a directory's children and returns the directory's aggregated
// metadata together with the child entries in emission order. The aggregate
// folds the directory's own modification time with every surviving
// descendant, so a parent's entry is finalized only after its subtree.
func (walker *Walker) collect(ctx context.Context, directoryPath string, relativePath string, depth int, directoryInfo os.FileInfo) (types.DirectoryMetadata, []types.Entry, error) {
	aggregate := types.DirectoryMetadata{}
	if directoryInfo != nil {
		aggregate.Modified = directoryInfo.ModTime()
	}

	directories, files := walker.partitionedChildren(directoryPath)
	var entries []types.Entry

	for _, childDirectory := range directories {
		if contextError := ctx.Err(); contextError != nil {
			return aggregate, nil, contextError
		}
		childPath := filepath.Join(directoryPath, childDirectory.Name())
		childRelative := relativePath + pathSeparator + childDirectory.Name()

		childInfo, childInfoError := childDirectory.Info()
		if childInfoError != nil {
			walker.options.Warn(warningFormat(warningStatEntryFormat, childPath, childInfoError))
			childInfo = nil
		}

		childMetadata, childEntries, collectError := walker.collect(ctx, childPath, childRelative, depth+1, childInfo)
		if collectError != nil {
			return aggregate, nil, collectError
		}
		metadataCopy := childMetadata
		entries = append(entries, directoryEntryValue(childRelative, childDirectory.Name(), depth, &metadataCopy))
		entries = append(entries, childEntries...)
		aggregate = aggregate.Fold(childMetadata)
	}

	for _, childFile := range files {
		if contextError := ctx.Err(); contextError != nil {
			return aggregate, nil, contextError
		}
		childPath := filepath.Join(directoryPath, childFile.Name())
		childRelative := relativePath + pathSeparator + childFile.Name()

		fileMetadata := walker.fileMetadata(childPath, childFile)
		entries = append(entries, fileEntryValue(childRelative, childFile.Name(), depth, &fileMetadata))
		aggregate = aggregate.FoldFile(fileMetadata)
	}

	return aggregate, entries, nil
}

// fileMetadata reads a file's size and modification time. An access failure
// (permission denied, broken link, entry deleted mid-walk) is recovered by
// returning the unknown-metadata sentinel so the listing still completes.
func (walker *Walker) fileMetadata(filePath string, fileEntry os.DirEntry) types.FileMetadata {
	fileInfo, fileInfoError := fileEntry.Info()
	if fileInfoError != nil {
		walker.options.Warn(warningFormat(warningStatEntryFormat, filePath, fileInfoError))
		return types.FileMetadata{}
	}
	return types.FileMetadata{SizeBytes: fileInfo.Size(), Modified: fileInfo.ModTime()}
}

func directoryEntryValue(path string, name string, depth int, metadata *types.DirectoryMetadata) types.Entry {
	return types.Entry{
		Path:      path,
		Name:      name,
		Kind:      types.EntryKindDirectory,
		Depth:     depth,
		Directory: metadata,
	}
}

func fileEntryValue(path string, name string, depth int, metadata *types.FileMetadata) types.Entry {
	return types.Entry{
		Path:      path,
		Name:      name,
		Kind:      types.EntryKindFile,
		Depth:     depth,
		Extension: extensionOf(name),
		File:      metadata,
	}
}

// extensionOf returns the lower-case extension without the leading dot, or an
// empty string when the name has none.
func extensionOf(name string) string {
	extension := filepath.Ext(name)
	if extension == "" {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(extension, "."))
}

func warningFormat(format string, path string, cause error) string {
	return strings.TrimRight(fmt.Sprintf(format, path, cause), "\n")
}
