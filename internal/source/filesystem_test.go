package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVirtualFileSystem_ScanRespectsIncludeExclude(t *testing.T) {
	vfs := NewVirtualFileSystem()
	vfs.Put("app", "/proj/src/a.ember", []byte("a"), 100)
	vfs.Put("app", "/proj/src/b.txt", []byte("b"), 100)
	vfs.Put("app", "/proj/vendor/c.ember", []byte("c"), 100)

	files, err := vfs.Scan("app", "/proj", []string{"**/*.ember"}, []string{"vendor/**"})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "/proj/src/a.ember", files[0].AbsolutePath)
}

func TestVirtualFileSystem_ReadFileRoundTrips(t *testing.T) {
	vfs := NewVirtualFileSystem()
	vfs.Put("app", "/proj/a.ember", []byte("hello"), 1)

	text, err := vfs.ReadFile("/proj/a.ember")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(text))
}

func TestVirtualFileSystem_RemoveDropsFromScan(t *testing.T) {
	vfs := NewVirtualFileSystem()
	vfs.Put("app", "/proj/a.ember", []byte("hello"), 1)
	vfs.Remove("/proj/a.ember")

	files, err := vfs.Scan("app", "/proj", []string{"**/*.ember"}, nil)
	require.NoError(t, err)
	assert.Empty(t, files)
}
