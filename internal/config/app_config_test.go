package config_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/tmoreno/trxd/internal/config"
)

func boolPointer(value bool) *bool {
	return &value
}

// isolateHome points the user home at an empty directory so a developer's
// real global configuration cannot leak into the test.
func isolateHome(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
}

func writeConfigFile(t *testing.T, directory string, fileName string, contents string) string {
	t.Helper()
	path := filepath.Join(directory, fileName)
	if writeError := os.WriteFile(path, []byte(contents), 0o644); writeError != nil {
		t.Fatalf("writing configuration fixture: %v", writeError)
	}
	return path
}

func TestMergeOverlaySemantics(t *testing.T) {
	base := config.ApplicationConfiguration{
		Format:   "tree",
		Exclude:  []string{"*.pyc"},
		Metadata: boolPointer(false),
	}
	override := config.ApplicationConfiguration{
		Format:     "json",
		ExcludeDir: []string{"node_modules"},
		Metadata:   boolPointer(true),
	}

	merged := base.Merge(override)

	if merged.Format != "json" {
		t.Errorf("a set override scalar must win, got %q", merged.Format)
	}
	if !reflect.DeepEqual(merged.Exclude, []string{"*.pyc"}) {
		t.Errorf("an unset override list must keep the base value, got %v", merged.Exclude)
	}
	if !reflect.DeepEqual(merged.ExcludeDir, []string{"node_modules"}) {
		t.Errorf("a set override list must replace the base value, got %v", merged.ExcludeDir)
	}
	if merged.Metadata == nil || !*merged.Metadata {
		t.Errorf("a set override boolean must win")
	}
	if merged.NoEmoji != nil {
		t.Errorf("booleans unset on both sides must stay unset")
	}
}

func TestMergeEmptyOverrideKeepsBase(t *testing.T) {
	base := config.ApplicationConfiguration{
		Format: "flat",
		Copy:   boolPointer(true),
	}
	merged := base.Merge(config.ApplicationConfiguration{})
	if merged.Format != "flat" || merged.Copy == nil || !*merged.Copy {
		t.Errorf("an empty override must change nothing, got %+v", merged)
	}
}

func TestLoadApplicationConfigurationFromLocalFile(t *testing.T) {
	isolateHome(t)
	workingDirectory := t.TempDir()
	writeConfigFile(t, workingDirectory, config.ConfigFileName, `
format: yaml
exclude:
  - "*.pyc"
  - "*.pyc"
  - "*.log"
exclude_dir:
  - __pycache__
metadata: true
no_emoji: false
`)

	loaded, loadError := config.LoadApplicationConfiguration(config.LoadOptions{WorkingDirectory: workingDirectory})
	if loadError != nil {
		t.Fatalf("unexpected load error: %v", loadError)
	}

	if loaded.Format != "yaml" {
		t.Errorf("expected format yaml, got %q", loaded.Format)
	}
	if !reflect.DeepEqual(loaded.Exclude, []string{"*.pyc", "*.log"}) {
		t.Errorf("expected deduplicated patterns, got %v", loaded.Exclude)
	}
	if !reflect.DeepEqual(loaded.ExcludeDir, []string{"__pycache__"}) {
		t.Errorf("expected exclude_dir patterns, got %v", loaded.ExcludeDir)
	}
	if loaded.Metadata == nil || !*loaded.Metadata {
		t.Errorf("expected metadata to be enabled")
	}
	if loaded.NoEmoji == nil || *loaded.NoEmoji {
		t.Errorf("expected no_emoji to be explicitly false")
	}
	if loaded.Copy != nil {
		t.Errorf("expected copy to stay unset")
	}
}

func TestLoadApplicationConfigurationMissingFileIsNotAnError(t *testing.T) {
	isolateHome(t)
	loaded, loadError := config.LoadApplicationConfiguration(config.LoadOptions{WorkingDirectory: t.TempDir()})
	if loadError != nil {
		t.Fatalf("a missing configuration file must not fail: %v", loadError)
	}
	if loaded.Format != "" || loaded.Metadata != nil {
		t.Errorf("expected an empty configuration, got %+v", loaded)
	}
}

func TestLoadApplicationConfigurationExplicitPath(t *testing.T) {
	isolateHome(t)
	workingDirectory := t.TempDir()
	explicitPath := writeConfigFile(t, workingDirectory, "custom.yaml", "format: csv\n")

	loaded, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: explicitPath,
	})
	if loadError != nil {
		t.Fatalf("unexpected load error: %v", loadError)
	}
	if loaded.Format != "csv" {
		t.Errorf("expected format csv from the explicit file, got %q", loaded.Format)
	}
}

func TestLoadApplicationConfigurationRejectsDirectoryPath(t *testing.T) {
	isolateHome(t)
	workingDirectory := t.TempDir()
	directoryPath := filepath.Join(workingDirectory, "confdir")
	if makeError := os.Mkdir(directoryPath, 0o755); makeError != nil {
		t.Fatalf("creating fixture directory: %v", makeError)
	}

	_, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: directoryPath,
	})
	if loadError == nil {
		t.Fatalf("expected an error for a directory configuration path")
	}
}

func TestLoadApplicationConfigurationRejectsMalformedYAML(t *testing.T) {
	isolateHome(t)
	workingDirectory := t.TempDir()
	writeConfigFile(t, workingDirectory, config.ConfigFileName, "format: [unclosed\n")

	_, loadError := config.LoadApplicationConfiguration(config.LoadOptions{WorkingDirectory: workingDirectory})
	if loadError == nil {
		t.Fatalf("expected an error for malformed configuration")
	}
}
