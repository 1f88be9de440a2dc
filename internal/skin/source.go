package skin

import (
	"os"
	"path/filepath"
)

// Source reads skin assets by relative name.
type Source interface {
	ReadFile(name string) ([]byte, error)
}

// DirSource reads assets from a directory on disk.
type DirSource string

// ReadFile reads name relative to the directory.
func (d DirSource) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(string(d), filepath.FromSlash(name)))
}

// MapSource serves assets from memory, keyed by slash-separated name.
type MapSource map[string][]byte

// ReadFile returns the named asset or os.ErrNotExist.
func (m MapSource) ReadFile(name string) ([]byte, error) {
	data, ok := m[name]
	if !ok {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrNotExist}
	}
	return data, nil
}
