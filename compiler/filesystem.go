package compiler

import (
	"io"
	"os"
)

// OutputFileSystem creates the per-country range tables.
type OutputFileSystem interface {
	// Create creates or truncates the named file.
	Create(name string) (io.WriteCloser, error)
}

// NewOutputFileSystem returns an OutputFileSystem backed by the operating system.
func NewOutputFileSystem() OutputFileSystem {
	return &outputFileSystemImpl{}
}

type outputFileSystemImpl struct{}

func (fs *outputFileSystemImpl) Create(name string) (io.WriteCloser, error) {
	return os.Create(name)
}
