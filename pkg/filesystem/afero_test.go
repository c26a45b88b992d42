package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAfero_MemMapFs(t *testing.T) {
	mem := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(mem, "/addons/sale/__manifest__.py", []byte("{}"), 0644))
	require.NoError(t, afero.WriteFile(mem, "/addons/sale/__init__.py", nil, 0644))

	fsys := NewAfero(mem)

	entries, err := fsys.ReadDir("/addons/sale")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "__init__.py", entries[0].Name())
	assert.Equal(t, "__manifest__.py", entries[1].Name())

	content, err := fsys.ReadFile("/addons/sale/__manifest__.py")
	require.NoError(t, err)
	assert.Equal(t, "{}", string(content))

	info, err := fsys.Lstat("/addons/sale")
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	require.NoError(t, fsys.MkdirAll("/result/sub", 0755))
	info, err = fsys.Stat("/result/sub")
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	resolved, err := fsys.EvalSymlinks("/addons/./sale/../sale")
	require.NoError(t, err)
	assert.Equal(t, "/addons/sale", resolved)

	_, err = fsys.Stat("/missing")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	// the memory backend has no symlinks
	assert.Error(t, fsys.Symlink("/addons/sale", "/result/sale"))
}

func TestReadOnly(t *testing.T) {
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	module := filepath.Join(dir, "oca", "sale_extra")
	require.NoError(t, os.MkdirAll(module, 0755))
	require.NoError(t, os.Symlink(filepath.Join(dir, "oca"), filepath.Join(dir, "alias")))
	require.NoError(t, os.Symlink("alias", filepath.Join(dir, "relative")))

	fsys := NewReadOnly()

	t.Run("reads", func(t *testing.T) {
		info, err := fsys.Lstat(filepath.Join(dir, "alias"))
		require.NoError(t, err)
		assert.NotZero(t, info.Mode()&fs.ModeSymlink)

		info, err = fsys.Stat(filepath.Join(dir, "alias"))
		require.NoError(t, err)
		assert.True(t, info.IsDir())

		target, err := fsys.Readlink(filepath.Join(dir, "relative"))
		require.NoError(t, err)
		assert.Equal(t, "alias", target)

		entries, err := fsys.ReadDir(filepath.Join(dir, "alias"))
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "sale_extra", entries[0].Name())
	})

	t.Run("eval symlinks", func(t *testing.T) {
		got, err := fsys.EvalSymlinks(filepath.Join(dir, "relative", "sale_extra"))
		require.NoError(t, err)
		assert.Equal(t, module, got)

		_, err = fsys.EvalSymlinks(filepath.Join(dir, "nowhere"))
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("symlink loop", func(t *testing.T) {
		require.NoError(t, os.Symlink("loop-b", filepath.Join(dir, "loop-a")))
		require.NoError(t, os.Symlink("loop-a", filepath.Join(dir, "loop-b")))

		_, err := fsys.EvalSymlinks(filepath.Join(dir, "loop-a"))
		assert.Error(t, err)
	})

	t.Run("writes are refused", func(t *testing.T) {
		assert.Error(t, fsys.MkdirAll(filepath.Join(dir, "result"), 0755))
		assert.Error(t, fsys.Symlink(module, filepath.Join(dir, "link")))

		_, err := os.Lstat(filepath.Join(dir, "result"))
		assert.True(t, os.IsNotExist(err))
		_, err = os.Lstat(filepath.Join(dir, "link"))
		assert.True(t, os.IsNotExist(err))
	})
}
