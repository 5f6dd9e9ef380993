package sink

import (
	"os"
	"sync"

	"github.com/Morgan-Stanley/binlog/errors"
)

// File writes the stream to a file and supports rotation.
//
// After Rotate, the new file starts empty and is not self-describing:
// the caller is expected to follow up with Session.ReconsumeMetadata on
// this sink, which re-emits a clock sync and the already-consumed event
// sources so readers can interpret the rotated file on its own.
type File struct {
	mu   sync.Mutex
	file *os.File
	path string
}

// NewFile creates a file sink writing to path. An existing file is
// truncated.
func NewFile(path string) (*File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.WrapTransient(err, "File", "NewFile", "create file")
	}
	return &File{file: f, path: path}, nil
}

// Write appends p to the current file.
func (f *File) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.file.Write(p)
}

// Path returns the path of the current file.
func (f *File) Path() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.path
}

// Rotate closes the current file and starts a new one at newPath.
// If newPath cannot be created, the current file stays in place and
// remains usable. If closing the current file fails, the new file is
// removed and the current file is left closed.
func (f *File) Rotate(newPath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	next, err := os.Create(newPath)
	if err != nil {
		return errors.WrapTransient(err, "File", "Rotate", "create file")
	}
	if err := f.file.Close(); err != nil {
		_ = next.Close()
		_ = os.Remove(newPath)
		return errors.WrapTransient(err, "File", "Rotate", "close previous file")
	}
	f.file = next
	f.path = newPath
	return nil
}

// Sync flushes the current file to stable storage.
func (f *File) Sync() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.file.Sync()
}

// Close closes the current file.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.file.Close()
}
