package filesystem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOS(t *testing.T) {
	fs := NewOS()
	assert.NotNil(t, fs)

	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "__manifest__.py")
	testContent := []byte("{'name': 'Sale'}")
	require.NoError(t, os.WriteFile(testFile, testContent, 0644))

	// Stat
	info, err := fs.Stat(testFile)
	require.NoError(t, err)
	assert.Equal(t, "__manifest__.py", info.Name())
	assert.Equal(t, int64(len(testContent)), info.Size())

	// ReadFile
	content, err := fs.ReadFile(testFile)
	require.NoError(t, err)
	assert.Equal(t, testContent, content)

	// MkdirAll creates intermediate levels and tolerates existing ones
	subDir := filepath.Join(tmpDir, "sub", "dir")
	require.NoError(t, fs.MkdirAll(subDir, 0755))
	require.NoError(t, fs.MkdirAll(subDir, 0755))

	// ReadDir
	entries, err := fs.ReadDir(tmpDir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestOSSymlinks(t *testing.T) {
	fs := NewOS()
	tmpDir := t.TempDir()

	target := filepath.Join(tmpDir, "target")
	require.NoError(t, os.Mkdir(target, 0755))
	link := filepath.Join(tmpDir, "link")

	require.NoError(t, fs.Symlink(target, link))

	dest, err := fs.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, target, dest)

	info, err := fs.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink)

	info, err = fs.Stat(link)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	real, err := fs.EvalSymlinks(link)
	require.NoError(t, err)
	expected, err := filepath.EvalSymlinks(target)
	require.NoError(t, err)
	assert.Equal(t, expected, real)
}
