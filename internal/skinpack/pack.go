// Package skinpack locates skins on disk, either as directories or as
// zip, 7z or rar archives.
package skinpack

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/frudas24/padtouch/internal/skin"
)

// ErrNotFound is returned when no skin with the given name exists.
var ErrNotFound = errors.New("skin not found")

// ErrInvalidName is returned for names that would escape the skins root.
var ErrInvalidName = errors.New("invalid skin name")

// archiveExts lists the archive extensions probed for a skin name, in order.
var archiveExts = []string{".zip", ".7z", ".rar"}

// Open returns a source for the named skin under root. A directory
// root/name wins over an archive root/name.{zip,7z,rar}.
func Open(root, name string) (skin.Source, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	dir := filepath.Join(root, name)
	if isFile(filepath.Join(dir, skin.ConfigFile)) {
		return skin.DirSource(dir), nil
	}
	for _, ext := range archiveExts {
		path := dir + ext
		if !isFile(path) {
			continue
		}
		src, err := openArchive(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
		}
		return src, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// List returns the sorted, de-duplicated names of every skin under root.
func List(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	seen := make(map[string]struct{})
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if e.IsDir() {
			if isFile(filepath.Join(root, name, skin.ConfigFile)) {
				seen[name] = struct{}{}
			}
			continue
		}
		ext := strings.ToLower(filepath.Ext(name))
		for _, a := range archiveExts {
			if ext == a {
				seen[strings.TrimSuffix(name, filepath.Ext(name))] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

// validateName rejects empty names and names containing path elements.
func validateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// isFile reports whether a path exists and is a regular file.
func isFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
