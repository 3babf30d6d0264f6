package fs

import (
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
)

// TempPattern names temporary dataset files. Listings skip them.
const TempPattern = ".salvo-*.tmp"

// TempFile is a dataset file being written before it is renamed into place.
type TempFile interface {
	io.WriteCloser
	Name() string
	Sync() error
}

// FileSystem is the set of operations the local dataset store and the
// path-based query boundary perform on disk.
type FileSystem interface {
	// Open opens a dataset for sequential reading.
	Open(name string) (io.ReadCloser, error)
	ReadFile(name string) ([]byte, error)
	CreateTemp(dir, pattern string) (TempFile, error)
	Rename(oldpath, newpath string) error
	Remove(name string) error
	MkdirAll(path string, perm os.FileMode) error
	WalkDir(root string, fn iofs.WalkDirFunc) error
}

// LocalFS is the os-backed FileSystem.
type LocalFS struct{}

func (LocalFS) Open(name string) (io.ReadCloser, error) { return os.Open(name) }
func (LocalFS) ReadFile(name string) ([]byte, error)    { return os.ReadFile(name) }

func (LocalFS) CreateTemp(dir, pattern string) (TempFile, error) {
	return os.CreateTemp(dir, pattern)
}

func (LocalFS) Rename(oldpath, newpath string) error         { return os.Rename(oldpath, newpath) }
func (LocalFS) Remove(name string) error                     { return os.Remove(name) }
func (LocalFS) MkdirAll(path string, perm os.FileMode) error { return os.MkdirAll(path, perm) }

func (LocalFS) WalkDir(root string, fn iofs.WalkDirFunc) error {
	return filepath.WalkDir(root, fn)
}

// Default is the file system used when none is configured.
var Default FileSystem = LocalFS{}

// WriteFile writes data to name through a synced temporary file in the same
// directory, so readers see either the old content or all of data.
func WriteFile(fsys FileSystem, name string, data []byte) error {
	dir := filepath.Dir(name)
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := fsys.CreateTemp(dir, TempPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()

	_, err = f.Write(data)
	if err == nil {
		err = f.Sync()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = fsys.Rename(tmp, name)
	}
	if err != nil {
		_ = fsys.Remove(tmp)
		return err
	}
	return nil
}
