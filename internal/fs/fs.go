// Package fs provides a filesystem interface for tinman.
// The FS interface exists so file-touching components can be stubbed in tests;
// RealFS is the production implementation.
package fs

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
)

// FS is the filesystem interface used throughout tinman.
type FS interface {
	ReadFile(path string) ([]byte, error)
	// WriteFile replaces the file contents. RealFS writes via temp file +
	// rename so readers never observe a torn file.
	WriteFile(path string, data []byte, perm fs.FileMode) error
	// AppendFile appends data to the file, creating it if missing.
	AppendFile(path string, data []byte, perm fs.FileMode) error
	Stat(path string) (fs.FileInfo, error)
	MkdirAll(path string, perm fs.FileMode) error
	Remove(path string) error
}

// RealFS implements FS against the host filesystem.
type RealFS struct{}

// NewRealFS creates a new RealFS.
func NewRealFS() RealFS {
	return RealFS{}
}

func (RealFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (RealFS) WriteFile(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}

func (RealFS) AppendFile(path string, data []byte, perm fs.FileMode) (err error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, perm)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	_, err = f.Write(data)
	return err
}

func (RealFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

func (RealFS) MkdirAll(path string, perm fs.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (RealFS) Remove(path string) error {
	return os.Remove(path)
}

// WriteJSONAtomic marshals v with indentation and writes it through fsys.
// With RealFS the write is atomic (temp file + rename).
func WriteJSONAtomic(fsys FS, path string, v any, perm fs.FileMode) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return fsys.WriteFile(path, data, perm)
}
