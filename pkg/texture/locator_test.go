package texture

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("tex"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLocate_ExactMatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "CITY01.TGA"))

	l := NewLocator([]string{dir})
	path, ok := l.Locate("CITY01.TGA")
	if !ok {
		t.Fatal("texture not found")
	}
	if path != filepath.Join(dir, "CITY01.TGA") {
		t.Errorf("resolved to %q", path)
	}
}

func TestLocate_CaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "city01.tga"))

	l := NewLocator([]string{dir})
	if _, ok := l.Locate("CITY01.TGA"); !ok {
		t.Error("case-insensitive lookup failed")
	}
}

func TestLocate_Backslashes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "maps", "wall.tga"))

	l := NewLocator([]string{dir})
	if _, ok := l.Locate(`MAPS\WALL.TGA`); !ok {
		t.Error("backslash path lookup failed")
	}
}

func TestLocate_SearchOrder(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeFile(t, filepath.Join(first, "shared.tga"))
	writeFile(t, filepath.Join(second, "shared.tga"))

	l := NewLocator([]string{first, second})
	path, ok := l.Locate("shared.tga")
	if !ok || path != filepath.Join(first, "shared.tga") {
		t.Errorf("expected hit in first directory, got %q (found %v)", path, ok)
	}
}

func TestLocate_NotFound(t *testing.T) {
	l := NewLocator([]string{t.TempDir()})
	if _, ok := l.Locate("missing.tga"); ok {
		t.Error("expected miss for absent texture")
	}
	if _, ok := l.Locate(""); ok {
		t.Error("expected miss for empty reference")
	}
}

func TestLocate_ZeroValue(t *testing.T) {
	var l Locator
	if _, ok := l.Locate("any.tga"); ok {
		t.Error("zero-value locator resolved a texture")
	}
}
