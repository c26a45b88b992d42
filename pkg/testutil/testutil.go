package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TempDir returns a fresh temporary directory with symlinks resolved, so
// paths compare equal to what the locator reports on macOS (/var -> /private/var).
func TempDir(t *testing.T) string {
	t.Helper()

	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err, "resolve temp dir")
	return dir
}

// CreateFile writes content to dir/name, creating parent directories
func CreateFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// CreateSymlink creates link pointing at target, creating link's parent
func CreateSymlink(t *testing.T, target, link string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(link), 0755))
	require.NoError(t, os.Symlink(target, link))
}

// AssertSymlink checks that link is a symlink whose target is exactly want
func AssertSymlink(t *testing.T, link, want string) {
	t.Helper()

	info, err := os.Lstat(link)
	require.NoError(t, err, "symlink %s", link)
	require.True(t, info.Mode()&os.ModeSymlink != 0, "%s is not a symlink", link)

	got, err := os.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, want, got, "target of %s", link)
}

// AssertNoFile checks that nothing exists at path, not even a dangling link.
func AssertNoFile(t *testing.T, path string) {
	t.Helper()

	_, err := os.Lstat(path)
	assert.True(t, os.IsNotExist(err), "%s exists but should not", path)
}

// Chmod changes mode and restores owner access on cleanup so the temp
// dir can be removed.
func Chmod(t *testing.T, path string, mode os.FileMode) {
	t.Helper()

	require.NoError(t, os.Chmod(path, mode))
	t.Cleanup(func() { _ = os.Chmod(path, 0755) })
}

// SkipIfRoot skips tests that rely on permission errors, which root bypasses.
func SkipIfRoot(t *testing.T) {
	t.Helper()

	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
}

func SkipOnWindows(t *testing.T) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("symlinks need elevated privileges on windows")
	}
}
