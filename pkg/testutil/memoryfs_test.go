// pkg/testutil/memoryfs_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test MemoryFS implementation

package testutil

import (
	"errors"
	"io/fs"
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryFS_BasicOperations(t *testing.T) {
	mfs := NewMemoryFS()

	t.Run("WriteAndRead", func(t *testing.T) {
		content := []byte("{'name': 'Sale'}")
		require.NoError(t, mfs.WriteFile("/addons/sale/__manifest__.py", content, 0644))

		read, err := mfs.ReadFile("/addons/sale/__manifest__.py")
		require.NoError(t, err)
		assert.Equal(t, content, read)
	})

	t.Run("MkdirAll", func(t *testing.T) {
		require.NoError(t, mfs.MkdirAll("/path/to/dir", 0755))
		require.NoError(t, mfs.MkdirAll("/path/to/dir", 0755))

		info, err := mfs.Stat("/path/to/dir")
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("MkdirAllOverFile", func(t *testing.T) {
		require.NoError(t, mfs.WriteFile("/plain", nil, 0644))
		err := mfs.MkdirAll("/plain/sub", 0755)
		assert.Error(t, err)
	})

	t.Run("ReadDirSorted", func(t *testing.T) {
		require.NoError(t, mfs.MkdirAll("/sorted/b", 0755))
		require.NoError(t, mfs.MkdirAll("/sorted/a", 0755))
		require.NoError(t, mfs.WriteFile("/sorted/c", nil, 0644))

		entries, err := mfs.ReadDir("/sorted")
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, "a", entries[0].Name())
		assert.True(t, entries[0].IsDir())
		assert.Equal(t, "c", entries[2].Name())
		assert.False(t, entries[2].IsDir())
	})

	t.Run("MissingPath", func(t *testing.T) {
		_, err := mfs.ReadDir("/does/not/exist")
		assert.True(t, errors.Is(err, fs.ErrNotExist))
		assert.True(t, IsNotExist(err))
	})
}

func TestMemoryFS_Symlinks(t *testing.T) {
	mfs := NewMemoryFS()
	require.NoError(t, mfs.WriteFile("/real/sale/__manifest__.py", []byte("{}"), 0644))

	require.NoError(t, mfs.Symlink("/real", "/alias"))

	t.Run("StatFollows", func(t *testing.T) {
		info, err := mfs.Stat("/alias")
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("LstatDoesNotFollow", func(t *testing.T) {
		info, err := mfs.Lstat("/alias")
		require.NoError(t, err)
		assert.NotZero(t, info.Mode()&os.ModeSymlink)
		assert.False(t, info.IsDir())
	})

	t.Run("TraverseThroughLink", func(t *testing.T) {
		content, err := mfs.ReadFile("/alias/sale/__manifest__.py")
		require.NoError(t, err)
		assert.Equal(t, "{}", string(content))

		real, err := mfs.EvalSymlinks("/alias/sale")
		require.NoError(t, err)
		assert.Equal(t, "/real/sale", real)
	})

	t.Run("Readlink", func(t *testing.T) {
		dest, err := mfs.Readlink("/alias")
		require.NoError(t, err)
		assert.Equal(t, "/real", dest)
	})

	t.Run("SymlinkOverExisting", func(t *testing.T) {
		err := mfs.Symlink("/elsewhere", "/alias")
		assert.True(t, errors.Is(err, fs.ErrExist))
	})

	t.Run("RelativeTarget", func(t *testing.T) {
		require.NoError(t, mfs.Symlink("../real/sale", "/real/up"))
		real, err := mfs.EvalSymlinks("/real/up")
		require.NoError(t, err)
		assert.Equal(t, "/real/sale", real)
	})

	t.Run("DanglingLink", func(t *testing.T) {
		require.NoError(t, mfs.Symlink("/nowhere", "/dangling"))

		_, err := mfs.Stat("/dangling")
		assert.True(t, errors.Is(err, fs.ErrNotExist))

		_, err = mfs.Lstat("/dangling")
		assert.NoError(t, err)
	})

	t.Run("Loop", func(t *testing.T) {
		require.NoError(t, mfs.Symlink("/loop-b", "/loop-a"))
		require.NoError(t, mfs.Symlink("/loop-a", "/loop-b"))

		_, err := mfs.Stat("/loop-a")
		assert.True(t, errors.Is(err, syscall.ELOOP))
	})
}

func TestMemoryFS_ErrorInjection(t *testing.T) {
	mfs := NewMemoryFS()
	require.NoError(t, mfs.MkdirAll("/locked", 0755))

	mfs.WithError("/locked", fs.ErrPermission)

	_, err := mfs.ReadDir("/locked")
	assert.True(t, errors.Is(err, fs.ErrPermission))

	_, err = mfs.Lstat("/locked")
	assert.True(t, errors.Is(err, fs.ErrPermission))
}

func TestMemoryFS_Stats(t *testing.T) {
	mfs := NewMemoryFS()
	require.NoError(t, mfs.MkdirAll("/a", 0755))

	_, err := mfs.ReadDir("/a")
	require.NoError(t, err)
	require.NoError(t, mfs.Symlink("/a", "/b"))

	reads, symlinks := mfs.Stats()
	assert.Equal(t, 1, reads)
	assert.Equal(t, 1, symlinks)
}
