package linker

import (
	stderrors "errors"
	"io/fs"

	"github.com/arthur-debert/addonlink/pkg/types"
	sfsfs "github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
)

// opsFS exposes a types.FS to synthfs. Only the calls made by directory
// and symlink operations are backed; the rest report ErrUnsupported, since
// the linker never reads, writes, removes or renames anything.
type opsFS struct {
	fs types.FS
}

var _ sfsfs.FullFileSystem = (*opsFS)(nil)

func newOpsFS(fsys types.FS) *opsFS {
	return &opsFS{fs: fsys}
}

func unsupported(op, name string) error {
	return &fs.PathError{Op: op, Path: name, Err: stderrors.ErrUnsupported}
}

func (o *opsFS) Stat(name string) (fs.FileInfo, error) {
	return o.fs.Stat(name)
}

func (o *opsFS) MkdirAll(path string, perm fs.FileMode) error {
	return o.fs.MkdirAll(path, perm)
}

func (o *opsFS) Symlink(oldname, newname string) error {
	return o.fs.Symlink(oldname, newname)
}

func (o *opsFS) Readlink(name string) (string, error) {
	return o.fs.Readlink(name)
}

func (o *opsFS) Open(name string) (fs.File, error) {
	return nil, unsupported("open", name)
}

func (o *opsFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return unsupported("write", name)
}

func (o *opsFS) Remove(name string) error {
	return unsupported("remove", name)
}

func (o *opsFS) RemoveAll(name string) error {
	return unsupported("removeall", name)
}

func (o *opsFS) Rename(oldpath, newpath string) error {
	return unsupported("rename", oldpath)
}
