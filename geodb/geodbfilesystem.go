package geodb

import (
	"io/fs"
	"os"
)

// FileSystem is the interface to list and read compiled range tables.
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
	ReadDir(name string) ([]fs.DirEntry, error)
}

// NewFileSystem creates a FileSystem backed by the operating system.
func NewFileSystem() FileSystem {
	return &fileSystemImpl{}
}

type fileSystemImpl struct{}

func (sys *fileSystemImpl) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

func (sys *fileSystemImpl) ReadDir(name string) ([]fs.DirEntry, error) {
	return os.ReadDir(name)
}
