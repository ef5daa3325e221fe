package testutils

import (
	"bytes"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// MemFileSystem is an in-memory file system for tests. It can stand in for the
// feed, output and table file systems alike. Files only become visible once
// the writer returned by Create is closed.
type MemFileSystem struct {
	mu    sync.Mutex
	files map[string][]byte

	// FailOpen and FailCreate make Open and Create fail for the named files.
	FailOpen   map[string]bool
	FailCreate map[string]bool
	// FailWrite makes every write to the named files fail.
	FailWrite map[string]bool
}

// NewMemFileSystem returns an empty MemFileSystem.
func NewMemFileSystem() *MemFileSystem {
	return &MemFileSystem{
		files:      map[string][]byte{},
		FailOpen:   map[string]bool{},
		FailCreate: map[string]bool{},
		FailWrite:  map[string]bool{},
	}
}

// Put stores a file.
func (m *MemFileSystem) Put(name string, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path.Clean(name)] = []byte(content)
}

// Get returns a file's content and whether it exists.
func (m *MemFileSystem) Get(name string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.files[path.Clean(name)]
	return b, ok
}

// Names returns the names of all files, sorted.
func (m *MemFileSystem) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.files))
	for name := range m.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open implements the feed file system.
func (m *MemFileSystem) Open(name string) (io.ReadCloser, error) {
	b, err := m.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

// ReadFile returns a copy of a file's content.
func (m *MemFileSystem) ReadFile(name string) ([]byte, error) {
	name = path.Clean(name)
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailOpen[name] {
		return nil, errors.Errorf("open %s: injected failure", name)
	}
	b, ok := m.files[name]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: os.ErrNotExist}
	}
	return append([]byte(nil), b...), nil
}

// ReadDir lists the files directly under dir.
func (m *MemFileSystem) ReadDir(dir string) ([]fs.DirEntry, error) {
	prefix := ""
	if d := path.Clean(dir); d != "." {
		prefix = d + "/"
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var entries []fs.DirEntry
	for name, b := range m.files {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		rest := name[len(prefix):]
		if strings.Contains(rest, "/") {
			continue
		}
		entries = append(entries, memEntry{name: rest, size: int64(len(b))})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

// Create implements the output file system.
func (m *MemFileSystem) Create(name string) (io.WriteCloser, error) {
	name = path.Clean(name)
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailCreate[name] {
		return nil, errors.Errorf("create %s: injected failure", name)
	}
	m.files[name] = nil
	return &memFile{fs: m, name: name, failWrite: m.FailWrite[name]}, nil
}

type memFile struct {
	fs        *MemFileSystem
	name      string
	buf       bytes.Buffer
	failWrite bool
	closed    bool
}

func (f *memFile) Write(p []byte) (int, error) {
	if f.closed {
		return 0, os.ErrClosed
	}
	if f.failWrite {
		return 0, errors.Errorf("write %s: injected failure", f.name)
	}
	return f.buf.Write(p)
}

func (f *memFile) Close() error {
	if f.closed {
		return os.ErrClosed
	}
	f.closed = true

	f.fs.mu.Lock()
	defer f.fs.mu.Unlock()
	f.fs.files[f.name] = f.buf.Bytes()
	return nil
}

type memEntry struct {
	name string
	size int64
}

func (e memEntry) Name() string               { return e.name }
func (e memEntry) IsDir() bool                { return false }
func (e memEntry) Type() fs.FileMode          { return 0 }
func (e memEntry) Info() (fs.FileInfo, error) { return e, nil }
func (e memEntry) Size() int64                { return e.size }
func (e memEntry) Mode() fs.FileMode          { return 0o644 }
func (e memEntry) ModTime() time.Time         { return time.Time{} }
func (e memEntry) Sys() any                   { return nil }
