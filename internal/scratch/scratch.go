// Package scratch provides uniquely named temporary files which are owned by
// exactly one processing step and removed when that step returns.
//
// Use it like so:
//
//	f, err := scratch.Create(dir, ".jpg")
//	if err != nil {
//		return err
//	}
//	defer f.Release()
package scratch

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Dir returns dir, or the default temporary directory if dir is empty. TMPDIR
// is respected by os.TempDir.
func Dir(dir string) string {
	if dir != "" {
		return dir
	}
	return os.TempDir()
}

// File is a temporary file, waiting to be removed by Release.
type File struct {
	*os.File

	released bool
}

// Create creates a new file named by a random UUID and suffix in dir (see
// Dir). The file is created with O_EXCL, so an existing file is never reused.
func Create(dir, suffix string) (*File, error) {
	path := filepath.Join(Dir(dir), "pdfzen-"+uuid.NewString()+suffix)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return nil, err
	}
	return &File{File: f}, nil
}

// Path returns the file system path of the file.
func (f *File) Path() string {
	return f.File.Name()
}

// Release closes and removes the file. It is safe to call Release more than
// once, and after Close.
func (f *File) Release() error {
	if f.released {
		return nil
	}
	f.released = true
	// The file may already be closed by the caller; that error carries no
	// information.
	f.File.Close()
	if err := os.Remove(f.Path()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
