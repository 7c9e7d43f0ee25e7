package walk_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/tmoreno/trxd/internal/filter"
	"github.com/tmoreno/trxd/internal/types"
	"github.com/tmoreno/trxd/internal/walk"
)

// buildSampleTree creates src/main.py (1200 bytes) and src/utils/helpers.py
// (800 bytes) under a fresh temporary directory and returns the src path.
func buildSampleTree(t *testing.T) string {
	t.Helper()
	sourceDirectory := filepath.Join(t.TempDir(), "src")
	utilsDirectory := filepath.Join(sourceDirectory, "utils")
	if makeError := os.MkdirAll(utilsDirectory, 0o755); makeError != nil {
		t.Fatalf("creating fixture directories: %v", makeError)
	}
	writeFixtureFile(t, filepath.Join(sourceDirectory, "main.py"), 1200)
	writeFixtureFile(t, filepath.Join(utilsDirectory, "helpers.py"), 800)
	return sourceDirectory
}

func writeFixtureFile(t *testing.T, path string, size int) {
	t.Helper()
	if writeError := os.WriteFile(path, bytes.Repeat([]byte{'a'}, size), 0o644); writeError != nil {
		t.Fatalf("writing fixture file %s: %v", path, writeError)
	}
}

func collectEntries(t *testing.T, options walk.Options) []types.Entry {
	t.Helper()
	var entries []types.Entry
	walker := walk.NewWalker(options)
	walkError := walker.Walk(context.Background(), func(entry types.Entry) error {
		entries = append(entries, entry)
		return nil
	})
	if walkError != nil {
		t.Fatalf("unexpected walk error: %v", walkError)
	}
	return entries
}

func entryPaths(entries []types.Entry) []string {
	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		paths = append(paths, entry.Path)
	}
	return paths
}

func TestWalkOrderingDirectoriesBeforeFiles(t *testing.T) {
	root := buildSampleTree(t)
	entries := collectEntries(t, walk.Options{Root: root})

	expectedPaths := []string{"src", "src/utils", "src/utils/helpers.py", "src/main.py"}
	if !reflect.DeepEqual(entryPaths(entries), expectedPaths) {
		t.Fatalf("expected paths %v, got %v", expectedPaths, entryPaths(entries))
	}

	expectedDepths := []int{0, 1, 2, 1}
	for entryIndex, entry := range entries {
		if entry.Depth != expectedDepths[entryIndex] {
			t.Errorf("entry %s: expected depth %d, got %d", entry.Path, expectedDepths[entryIndex], entry.Depth)
		}
	}
}

func TestWalkEntryFields(t *testing.T) {
	root := buildSampleTree(t)
	entries := collectEntries(t, walk.Options{Root: root})

	byPath := map[string]types.Entry{}
	for _, entry := range entries {
		byPath[entry.Path] = entry
	}

	helperEntry := byPath["src/utils/helpers.py"]
	if helperEntry.Kind != types.EntryKindFile {
		t.Errorf("expected a file entry, got kind %q", helperEntry.Kind)
	}
	if helperEntry.Name != "helpers.py" {
		t.Errorf("expected name helpers.py, got %q", helperEntry.Name)
	}
	if helperEntry.Extension != "py" {
		t.Errorf("expected extension py, got %q", helperEntry.Extension)
	}
	if helperEntry.File != nil || helperEntry.Directory != nil {
		t.Errorf("metadata must be absent when collection is disabled")
	}

	utilsEntry := byPath["src/utils"]
	if utilsEntry.Kind != types.EntryKindDirectory {
		t.Errorf("expected a directory entry, got kind %q", utilsEntry.Kind)
	}
	if utilsEntry.Extension != "" {
		t.Errorf("directories carry no extension, got %q", utilsEntry.Extension)
	}
}

func TestWalkMetadataAggregation(t *testing.T) {
	root := buildSampleTree(t)
	entries := collectEntries(t, walk.Options{Root: root, CollectMetadata: true})

	byPath := map[string]types.Entry{}
	for _, entry := range entries {
		byPath[entry.Path] = entry
	}

	rootEntry := byPath["src"]
	if rootEntry.Directory == nil {
		t.Fatalf("root entry is missing directory metadata")
	}
	if rootEntry.Directory.FileCount != 2 || rootEntry.Directory.TotalSizeBytes != 2000 {
		t.Errorf("expected root aggregate of 2 files / 2000 bytes, got %d / %d",
			rootEntry.Directory.FileCount, rootEntry.Directory.TotalSizeBytes)
	}

	utilsEntry := byPath["src/utils"]
	if utilsEntry.Directory == nil {
		t.Fatalf("utils entry is missing directory metadata")
	}
	if utilsEntry.Directory.FileCount != 1 || utilsEntry.Directory.TotalSizeBytes != 800 {
		t.Errorf("expected utils aggregate of 1 file / 800 bytes, got %d / %d",
			utilsEntry.Directory.FileCount, utilsEntry.Directory.TotalSizeBytes)
	}

	mainEntry := byPath["src/main.py"]
	if mainEntry.File == nil {
		t.Fatalf("main.py entry is missing file metadata")
	}
	if mainEntry.File.SizeBytes != 1200 {
		t.Errorf("expected main.py size 1200, got %d", mainEntry.File.SizeBytes)
	}
	if mainEntry.File.Modified.IsZero() {
		t.Errorf("expected a modification time for main.py")
	}
	if rootEntry.Directory.Modified.Before(mainEntry.File.Modified) {
		t.Errorf("root modified time must not precede a descendant's")
	}
}

func TestWalkPruningIsTransitive(t *testing.T) {
	root := buildSampleTree(t)
	spec, compileError := filter.Compile(nil, []string{"utils"}, nil)
	if compileError != nil {
		t.Fatalf("unexpected compile error: %v", compileError)
	}
	entries := collectEntries(t, walk.Options{Root: root, Filter: spec, CollectMetadata: true})

	expectedPaths := []string{"src", "src/main.py"}
	if !reflect.DeepEqual(entryPaths(entries), expectedPaths) {
		t.Fatalf("expected paths %v, got %v", expectedPaths, entryPaths(entries))
	}
	rootEntry := entries[0]
	if rootEntry.Directory.FileCount != 1 || rootEntry.Directory.TotalSizeBytes != 1200 {
		t.Errorf("pruned subtree must not contribute to ancestors: got %d files / %d bytes",
			rootEntry.Directory.FileCount, rootEntry.Directory.TotalSizeBytes)
	}
}

func TestWalkFileExclusion(t *testing.T) {
	root := buildSampleTree(t)
	spec, compileError := filter.Compile(nil, nil, []string{"*.py"})
	if compileError != nil {
		t.Fatalf("unexpected compile error: %v", compileError)
	}
	entries := collectEntries(t, walk.Options{Root: root, Filter: spec, CollectMetadata: true})

	expectedPaths := []string{"src", "src/utils"}
	if !reflect.DeepEqual(entryPaths(entries), expectedPaths) {
		t.Fatalf("expected paths %v, got %v", expectedPaths, entryPaths(entries))
	}
	for _, entry := range entries {
		if entry.Directory.FileCount != 0 || entry.Directory.TotalSizeBytes != 0 {
			t.Errorf("entry %s: excluded files must not be counted", entry.Path)
		}
	}
}

func TestWalkDeterminismAndUniqueness(t *testing.T) {
	root := buildSampleTree(t)

	firstRun := entryPaths(collectEntries(t, walk.Options{Root: root, CollectMetadata: true}))
	secondRun := entryPaths(collectEntries(t, walk.Options{Root: root, CollectMetadata: true}))
	if !reflect.DeepEqual(firstRun, secondRun) {
		t.Fatalf("two walks of an unmodified tree diverged: %v vs %v", firstRun, secondRun)
	}

	seenPaths := map[string]struct{}{}
	for _, path := range firstRun {
		if _, duplicate := seenPaths[path]; duplicate {
			t.Errorf("path %s yielded more than once", path)
		}
		seenPaths[path] = struct{}{}
	}
}

func TestWalkUnreadableDirectoryListedAsEmpty(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}
	root := buildSampleTree(t)
	sealedDirectory := filepath.Join(root, "sealed")
	if makeError := os.Mkdir(sealedDirectory, 0o755); makeError != nil {
		t.Fatalf("creating fixture directory: %v", makeError)
	}
	writeFixtureFile(t, filepath.Join(sealedDirectory, "secret.txt"), 64)
	if chmodError := os.Chmod(sealedDirectory, 0o000); chmodError != nil {
		t.Fatalf("revoking directory permissions: %v", chmodError)
	}
	t.Cleanup(func() { _ = os.Chmod(sealedDirectory, 0o755) })

	var warnings []string
	entries := collectEntries(t, walk.Options{
		Root:            root,
		CollectMetadata: true,
		Warn:            func(message string) { warnings = append(warnings, message) },
	})

	byPath := map[string]types.Entry{}
	for _, entry := range entries {
		byPath[entry.Path] = entry
	}
	sealedEntry, sealedListed := byPath["src/sealed"]
	if !sealedListed {
		t.Fatalf("the unreadable directory itself must still be listed")
	}
	if sealedEntry.Directory == nil || sealedEntry.Directory.FileCount != 0 || sealedEntry.Directory.TotalSizeBytes != 0 {
		t.Errorf("an unreadable directory must aggregate as empty, got %+v", sealedEntry.Directory)
	}
	if _, secretListed := byPath["src/sealed/secret.txt"]; secretListed {
		t.Errorf("children of an unreadable directory must not be listed")
	}
	if rootEntry := byPath["src"]; rootEntry.Directory.FileCount != 2 || rootEntry.Directory.TotalSizeBytes != 2000 {
		t.Errorf("the unreadable subtree must not contribute to ancestors, got %+v", rootEntry.Directory)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "unable to read directory") {
		t.Errorf("expected one read warning, got %v", warnings)
	}
}

func TestWalkUnstatableFileYieldsUnknownSentinel(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}
	root := buildSampleTree(t)
	opaqueDirectory := filepath.Join(root, "opaque")
	if makeError := os.Mkdir(opaqueDirectory, 0o755); makeError != nil {
		t.Fatalf("creating fixture directory: %v", makeError)
	}
	writeFixtureFile(t, filepath.Join(opaqueDirectory, "ghost.log"), 64)
	// Readable but not traversable: listing succeeds, stat of children fails.
	if chmodError := os.Chmod(opaqueDirectory, 0o444); chmodError != nil {
		t.Fatalf("revoking directory permissions: %v", chmodError)
	}
	t.Cleanup(func() { _ = os.Chmod(opaqueDirectory, 0o755) })

	var warnings []string
	entries := collectEntries(t, walk.Options{
		Root:            root,
		CollectMetadata: true,
		Warn:            func(message string) { warnings = append(warnings, message) },
	})

	byPath := map[string]types.Entry{}
	for _, entry := range entries {
		byPath[entry.Path] = entry
	}
	ghostEntry, ghostListed := byPath["src/opaque/ghost.log"]
	if !ghostListed {
		t.Fatalf("an unstatable file must still be listed")
	}
	if ghostEntry.File == nil || !ghostEntry.File.IsUnknown() {
		t.Errorf("an unstatable file must carry the unknown sentinel, got %+v", ghostEntry.File)
	}
	opaqueEntry := byPath["src/opaque"]
	if opaqueEntry.Directory == nil || opaqueEntry.Directory.FileCount != 1 || opaqueEntry.Directory.TotalSizeBytes != 0 {
		t.Errorf("a sentinel file counts with zero size, got %+v", opaqueEntry.Directory)
	}
	if len(warnings) == 0 || !strings.Contains(warnings[0], "unable to stat") {
		t.Errorf("expected a stat warning, got %v", warnings)
	}
}

func TestWalkRootNotFound(t *testing.T) {
	walker := walk.NewWalker(walk.Options{Root: filepath.Join(t.TempDir(), "missing")})
	walkError := walker.Walk(context.Background(), func(entry types.Entry) error {
		t.Fatalf("no entry may be produced for a missing root")
		return nil
	})
	var rootError *types.RootNotFoundError
	if !errors.As(walkError, &rootError) {
		t.Fatalf("expected RootNotFoundError, got %v", walkError)
	}
}

func TestWalkRootMustBeDirectory(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "plain.txt")
	writeFixtureFile(t, filePath, 10)
	walker := walk.NewWalker(walk.Options{Root: filePath})
	walkError := walker.Walk(context.Background(), func(entry types.Entry) error { return nil })
	var rootError *types.RootNotFoundError
	if !errors.As(walkError, &rootError) {
		t.Fatalf("expected RootNotFoundError for a file root, got %v", walkError)
	}
}

func TestWalkConsumerStopsEarly(t *testing.T) {
	root := buildSampleTree(t)
	stopError := errors.New("stop")
	walker := walk.NewWalker(walk.Options{Root: root})
	emitted := 0
	walkError := walker.Walk(context.Background(), func(entry types.Entry) error {
		emitted++
		if emitted == 2 {
			return stopError
		}
		return nil
	})
	if !errors.Is(walkError, stopError) {
		t.Fatalf("expected the consumer error to surface, got %v", walkError)
	}
	if emitted != 2 {
		t.Fatalf("expected the walk to stop after the consumer error, got %d entries", emitted)
	}
}
