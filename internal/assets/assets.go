// Package assets discovers build output files eligible for upload and
// removes them again after a publish when cleanup is enabled.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
)

// DefaultInclude matches JavaScript bundles and their source maps.
var DefaultInclude = regexp.MustCompile(`\.js$|\.map$`)

// DefaultDeletePattern matches the source maps removed by cleanup.
var DefaultDeletePattern = regexp.MustCompile(`\.map$`)

// Scan maps asset names to absolute paths for the regular files directly
// under dir. Subdirectories are not descended into; bundler output for a
// release lives flat in its output directory.
func Scan(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read output directory: %w", err)
	}
	found := make(map[string]string, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path, err := filepath.Abs(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("resolve asset path: %w", err)
		}
		found[entry.Name()] = path
	}
	return found, nil
}

// Select filters assets by name: keep what include matches, then drop what
// exclude matches. A nil include falls back to DefaultInclude; a nil
// exclude excludes nothing.
func Select(found map[string]string, include, exclude *regexp.Regexp) map[string]string {
	if include == nil {
		include = DefaultInclude
	}
	selected := make(map[string]string, len(found))
	for name, path := range found {
		if !include.MatchString(name) {
			continue
		}
		if exclude != nil && exclude.MatchString(name) {
			continue
		}
		selected[name] = path
	}
	return selected
}

// SortedNames returns the asset names in lexical order, for deterministic
// task construction and output.
func SortedNames(selected map[string]string) []string {
	names := make([]string, 0, len(selected))
	for name := range selected {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Cleanup removes files under dir whose names match pattern and returns the
// names it removed. Deletion is best effort: a file that no longer exists
// is not an error, and the first real failure is returned after the
// remaining files were attempted.
func Cleanup(dir string, pattern *regexp.Regexp) ([]string, error) {
	if pattern == nil {
		pattern = DefaultDeletePattern
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read output directory: %w", err)
	}

	var removed []string
	var firstErr error
	for _, entry := range entries {
		if entry.IsDir() || !pattern.MatchString(entry.Name()) {
			continue
		}
		err := os.Remove(filepath.Join(dir, entry.Name()))
		switch {
		case err == nil:
			removed = append(removed, entry.Name())
		case errors.Is(err, fs.ErrNotExist):
			// Already gone; cleanup is best effort.
		case firstErr == nil:
			firstErr = fmt.Errorf("remove %s: %w", entry.Name(), err)
		}
	}
	return removed, firstErr
}
