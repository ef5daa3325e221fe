package csvfeed

import (
	"io"
	"os"
)

// FileSystem opens feeds for reading.
type FileSystem interface {
	Open(name string) (io.ReadCloser, error)
}

// NewFileSystem returns a FileSystem backed by the operating system.
func NewFileSystem() FileSystem {
	return &fileSystemImpl{}
}

type fileSystemImpl struct{}

func (fs *fileSystemImpl) Open(name string) (io.ReadCloser, error) {
	return os.Open(name)
}
