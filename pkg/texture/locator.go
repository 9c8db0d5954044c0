// Package texture resolves the relative texture paths found in 4DS
// material slots against a configured set of map directories. The codec
// itself never touches the filesystem; it only carries the reference
// strings, and a Locator is handed to validation or tooling explicitly.
package texture

import (
	"os"
	"path/filepath"
	"strings"
)

// Locator searches an ordered list of directories for texture files.
// Matching is case-insensitive, since 4DS files reference textures with
// the casing of a case-insensitive filesystem. The zero value resolves
// nothing.
type Locator struct {
	dirs []string
}

// NewLocator returns a Locator over the given search directories. The
// slice is copied; the Locator is immutable and safe for concurrent use.
func NewLocator(dirs []string) *Locator {
	return &Locator{dirs: append([]string(nil), dirs...)}
}

// Locate returns the resolved path of a texture reference and whether it
// was found. Directories are searched in configuration order; the first
// hit wins.
func (l *Locator) Locate(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	rel := filepath.FromSlash(strings.ReplaceAll(name, "\\", "/"))

	for _, dir := range l.dirs {
		path := filepath.Join(dir, rel)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
		if path, ok := locateFold(dir, rel); ok {
			return path, true
		}
	}
	return "", false
}

// locateFold walks rel under dir one component at a time, matching each
// component case-insensitively against the directory listing.
func locateFold(dir, rel string) (string, bool) {
	current := dir
	components := strings.Split(rel, string(filepath.Separator))

	for i, component := range components {
		entries, err := os.ReadDir(current)
		if err != nil {
			return "", false
		}

		matched := ""
		for _, entry := range entries {
			if strings.EqualFold(entry.Name(), component) {
				isLast := i == len(components)-1
				if isLast == !entry.IsDir() {
					matched = entry.Name()
					break
				}
			}
		}
		if matched == "" {
			return "", false
		}
		current = filepath.Join(current, matched)
	}
	return current, true
}
