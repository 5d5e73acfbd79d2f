package assets_test

import (
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"sort"
	"testing"

	"relpub/internal/assets"
	"relpub/internal/testsupport"
)

func TestSelectAppliesIncludePattern(t *testing.T) {
	found := map[string]string{
		"a.js":     "p1",
		"a.js.map": "p2",
		"a.css":    "p3",
	}

	selected := assets.Select(found, regexp.MustCompile(`\.js$|\.map$`), nil)

	names := assets.SortedNames(selected)
	want := []string{"a.js", "a.js.map"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("selected %v, want %v", names, want)
	}
}

func TestSelectDefaultsAndExcludes(t *testing.T) {
	found := map[string]string{
		"bundle.js":     "p1",
		"bundle.js.map": "p2",
		"vendor.js":     "p3",
		"index.html":    "p4",
	}

	selected := assets.Select(found, nil, regexp.MustCompile(`^vendor\.`))

	names := assets.SortedNames(selected)
	want := []string{"bundle.js", "bundle.js.map"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("selected %v, want %v", names, want)
	}
}

func TestScanSkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(dir, "bundle.js"), "x")
	testsupport.WriteFile(t, filepath.Join(dir, "bundle.js.map"), "y")
	if err := os.Mkdir(filepath.Join(dir, "static"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	found, err := assets.Scan(dir)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}

	names := make([]string, 0, len(found))
	for name := range found {
		names = append(names, name)
	}
	sort.Strings(names)
	want := []string{"bundle.js", "bundle.js.map"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("found %v, want %v", names, want)
	}
	for name, path := range found {
		if !filepath.IsAbs(path) {
			t.Fatalf("path for %s not absolute: %s", name, path)
		}
	}
}

func TestCleanupRemovesMatchingFiles(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(dir, "bundle.js"), "x")
	testsupport.WriteFile(t, filepath.Join(dir, "bundle.js.map"), "y")
	testsupport.WriteFile(t, filepath.Join(dir, "styles.css.map"), "z")

	removed, err := assets.Cleanup(dir, nil)
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	sort.Strings(removed)
	want := []string{"bundle.js.map", "styles.css.map"}
	if !reflect.DeepEqual(removed, want) {
		t.Fatalf("removed %v, want %v", removed, want)
	}

	if _, err := os.Stat(filepath.Join(dir, "bundle.js")); err != nil {
		t.Fatalf("bundle.js should survive cleanup: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "bundle.js.map")); !os.IsNotExist(err) {
		t.Fatal("bundle.js.map should be gone")
	}
}

func TestCleanupIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(dir, "app.js.map"), "m")

	if _, err := assets.Cleanup(dir, nil); err != nil {
		t.Fatalf("first cleanup: %v", err)
	}
	removed, err := assets.Cleanup(dir, nil)
	if err != nil {
		t.Fatalf("second cleanup: %v", err)
	}
	if len(removed) != 0 {
		t.Fatalf("second cleanup removed %v", removed)
	}
}
