package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// Default layout file names used by fixtures
const (
	ManifestFile = "__manifest__.py"
	OpenerpFile  = "__openerp__.py"
	InitFile     = "__init__.py"
)

// writer abstracts where fixture files land
type writer interface {
	MkdirAll(path string, perm os.FileMode) error
	WriteFile(name string, data []byte, perm os.FileMode) error
}

type osWriter struct{}

func (osWriter) MkdirAll(path string, perm os.FileMode) error { return os.MkdirAll(path, perm) }
func (osWriter) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

// AddonTree builds module directory trees for tests, either on disk or in a
// MemoryFS.
type AddonTree struct {
	Root string
	w    writer
}

// NewAddonTree creates a tree rooted at a fresh temporary directory
func NewAddonTree(t *testing.T) *AddonTree {
	t.Helper()
	return &AddonTree{Root: TempDir(t), w: osWriter{}}
}

// NewMemAddonTree creates a tree rooted at root inside fs
func NewMemAddonTree(t *testing.T, fs *MemoryFS, root string) *AddonTree {
	t.Helper()
	require.NoError(t, fs.MkdirAll(root, 0755))
	return &AddonTree{Root: root, w: fs}
}

// Path returns the absolute path of rel inside the tree
func (at *AddonTree) Path(rel string) string {
	return filepath.Join(at.Root, rel)
}

// AddModule creates a module at rel with the default manifest file name and
// an empty initializer.
func (at *AddonTree) AddModule(t *testing.T, rel, manifest string) string {
	t.Helper()
	return at.AddModuleWith(t, rel, map[string]string{
		ManifestFile: manifest,
		InitFile:     "",
	})
}

// AddModuleWith creates the directory rel holding exactly the given files
func (at *AddonTree) AddModuleWith(t *testing.T, rel string, files map[string]string) string {
	t.Helper()

	dir := at.Path(rel)
	require.NoError(t, at.w.MkdirAll(dir, 0755))
	for name, content := range files {
		require.NoError(t, at.w.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

// AddDir creates a plain directory at rel
func (at *AddonTree) AddDir(t *testing.T, rel string) string {
	t.Helper()

	dir := at.Path(rel)
	require.NoError(t, at.w.MkdirAll(dir, 0755))
	return dir
}

// AddFile writes a file at rel
func (at *AddonTree) AddFile(t *testing.T, rel, content string) string {
	t.Helper()

	path := at.Path(rel)
	require.NoError(t, at.w.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, at.w.WriteFile(path, []byte(content), 0644))
	return path
}
