package logging

import (
	"os"
)

// LogFile is the interface to handle log file append
type LogFile interface {
	Append(content []byte) (err error)
	Close() error
}

// LogFileSystem is the interface to handle log file directory creation and file open
type LogFileSystem interface {
	MkDir(dirname string) error
	Open(name string) (f LogFile, err error)
}

// NewLogFileSystem returns a LogFileSystem backed by the operating system.
func NewLogFileSystem() LogFileSystem {
	return &logFileSystemImpl{}
}

type logFileImpl struct {
	f *os.File
}

func (lf *logFileImpl) Append(content []byte) (err error) {
	_, err = lf.f.Write(content)
	return
}

func (lf *logFileImpl) Close() error {
	return lf.f.Close()
}

type logFileSystemImpl struct{}

// MkDir creates a directory along with any necessary parents.
func (fs *logFileSystemImpl) MkDir(name string) error {
	return os.MkdirAll(name, 0755)
}

// Open opens a file for appending, creating it if it does not exist.
func (fs *logFileSystemImpl) Open(name string) (LogFile, error) {
	f, err := os.OpenFile(name, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &logFileImpl{f: f}, nil
}
