package testutils

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemFileSystemCreateVisibleAfterClose(t *testing.T) {
	assert := assert.New(t)

	// Arrange
	m := NewMemFileSystem()

	// Act
	w, err := m.Create("/out/DE.iv4")
	assert.Nil(err)
	_, err = w.Write([]byte{1, 2, 3, 4})
	assert.Nil(err)
	before, _ := m.Get("/out/DE.iv4")
	assert.Nil(w.Close())
	after, ok := m.Get("/out/DE.iv4")

	// Assert
	assert.Empty(before)
	assert.True(ok)
	assert.Equal([]byte{1, 2, 3, 4}, after)
	assert.ErrorIs(w.Close(), os.ErrClosed)
}

func TestMemFileSystemOpenAndReadDir(t *testing.T) {
	assert := assert.New(t)

	m := NewMemFileSystem()
	m.Put("/data/b.csv", "b")
	m.Put("/data/a.csv", "a")
	m.Put("/data/sub/c.csv", "c")

	r, err := m.Open("/data/a.csv")
	assert.Nil(err)
	b, _ := io.ReadAll(r)
	assert.Equal("a", string(b))

	entries, err := m.ReadDir("/data")
	assert.Nil(err)
	if assert.Len(entries, 2) {
		assert.Equal("a.csv", entries[0].Name())
		assert.Equal("b.csv", entries[1].Name())
	}

	_, err = m.Open("/data/missing.csv")
	assert.ErrorIs(err, os.ErrNotExist)
}

func TestMemFileSystemInjectedFailures(t *testing.T) {
	assert := assert.New(t)

	m := NewMemFileSystem()
	m.Put("/in.csv", "x")
	m.FailOpen["/in.csv"] = true
	m.FailCreate["/out/A1.iv4"] = true
	m.FailWrite["/out/A2.iv4"] = true

	_, err := m.Open("/in.csv")
	assert.Error(err)

	_, err = m.Create("/out/A1.iv4")
	assert.Error(err)

	w, err := m.Create("/out/A2.iv4")
	assert.Nil(err)
	_, err = w.Write([]byte{0})
	assert.Error(err)
}

func TestFeeds(t *testing.T) {
	assert := assert.New(t)

	feed := LocationsFeed(Location("2921044", "EU", "DE", "Germany"))

	assert.Equal(LocationsHeader+"\n2921044,en,EU,,DE,Germany,0\n", feed)
	assert.Equal(BlocksHeader+"\n", BlocksFeed())
	assert.Equal("1.0.0.0/24,5,6,,0,1", Block("1.0.0.0/24", "5", "6", "0", "1"))
}
