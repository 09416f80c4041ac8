package classfile

import (
	"errors"
	"os"
	"path/filepath"
)

// ErrClassNotFound is returned by a Loader when no bytes exist for the
// requested internal class name (§6: "None means class not found").
var ErrClassNotFound = errors.New("classfile: class not found")

// Loader is the consumed external collaborator of §6: a function from an
// internal class name (slash-separated, no ".class" suffix) to the raw
// bytes a Parser can turn into a ClassDescriptor. It returns
// ErrClassNotFound, wrapped or not, when the class does not exist.
type Loader interface {
	Load(internalName string) ([]byte, error)
}

// LoaderFunc adapts a plain function to the Loader interface.
type LoaderFunc func(internalName string) ([]byte, error)

// Load implements Loader.
func (f LoaderFunc) Load(internalName string) ([]byte, error) { return f(internalName) }

// DirLoader loads "<internalName>.class" files rooted at Dir, with '/' in
// the internal name treated as a path separator. It is the default,
// filesystem-backed Loader used by the CLI.
type DirLoader struct {
	Dir string
}

// Load implements Loader.
func (d DirLoader) Load(internalName string) ([]byte, error) {
	path := filepath.Join(d.Dir, filepath.FromSlash(internalName)+".class")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}
	return data, nil
}

// MapLoader serves class bytes from an in-memory map, keyed by internal
// name. Used by tests and by embedders that assemble classes in memory.
type MapLoader map[string][]byte

// Load implements Loader.
func (m MapLoader) Load(internalName string) ([]byte, error) {
	data, ok := m[internalName]
	if !ok {
		return nil, ErrClassNotFound
	}
	return data, nil
}
