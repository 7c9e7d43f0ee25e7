// Package filter compiles and evaluates the exclusion pattern sets applied
// during traversal.
package filter

import (
	"fmt"
	"path/filepath"

	"github.com/tmoreno/trxd/internal/utils"
)

const (
	// errorInvalidPatternFormat reports a glob pattern rejected by filepath.Match.
	errorInvalidPatternFormat = "invalid exclusion pattern '%s': %w"
	// patternProbeName is matched once per pattern to surface syntax errors at compile time.
	patternProbeName = "probe"
)

// Spec holds the three compiled exclusion pattern sets. A name is excluded
// when it matches any pattern in the relevant set; patterns are evaluated
// against the bare entry name, never the full path.
type Spec struct {
	excludeBoth      []string
	excludeDirectory []string
	excludeFile      []string
}

// Compile validates the provided pattern sets and returns a Spec. Duplicate
// patterns are dropped while preserving order. Any syntactically invalid glob
// aborts compilation before a traversal can start.
func Compile(excludeBoth, excludeDirectory, excludeFile []string) (*Spec, error) {
	spec := &Spec{
		excludeBoth:      utils.DeduplicatePatterns(excludeBoth),
		excludeDirectory: utils.DeduplicatePatterns(excludeDirectory),
		excludeFile:      utils.DeduplicatePatterns(excludeFile),
	}
	for _, patternSet := range [][]string{spec.excludeBoth, spec.excludeDirectory, spec.excludeFile} {
		for _, pattern := range patternSet {
			if _, matchError := filepath.Match(pattern, patternProbeName); matchError != nil {
				return nil, fmt.Errorf(errorInvalidPatternFormat, pattern, matchError)
			}
		}
	}
	return spec, nil
}

// ExcludesDirectory reports whether a directory with the given bare name is
// excluded. An excluded directory is pruned: it is never yielded, never
// descended into, and never counted by any ancestor.
func (spec *Spec) ExcludesDirectory(name string) bool {
	if spec == nil {
		return false
	}
	return matchesAny(spec.excludeBoth, name) || matchesAny(spec.excludeDirectory, name)
}

// ExcludesFile reports whether a file with the given bare name is excluded.
func (spec *Spec) ExcludesFile(name string) bool {
	if spec == nil {
		return false
	}
	return matchesAny(spec.excludeBoth, name) || matchesAny(spec.excludeFile, name)
}

// matchesAny evaluates name against each pattern with filepath.Match
// semantics. Pattern syntax was validated at compile time, so match errors
// cannot occur here.
func matchesAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		isMatched, _ := filepath.Match(pattern, name)
		if isMatched {
			return true
		}
	}
	return false
}
