package uploader

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
)

// FileHandle is a file picked by the user. Open is called once per upload
// attempt, so a failed upload can be retried with the same handle.
type FileHandle interface {
	Name() string
	Open() (io.ReadCloser, error)
}

// LocalFile is a file on disk.
type LocalFile struct {
	Path string
}

// Name returns the base name, which is what gets sent as the upload filename.
func (f LocalFile) Name() string { return filepath.Base(f.Path) }

// Open opens the file for reading.
func (f LocalFile) Open() (io.ReadCloser, error) { return os.Open(f.Path) }

// MemoryFile is a file held in memory.
type MemoryFile struct {
	FileName string
	Data     []byte
}

// Name returns the file name.
func (f MemoryFile) Name() string { return f.FileName }

// Open returns a reader over the data.
func (f MemoryFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.Data)), nil
}
