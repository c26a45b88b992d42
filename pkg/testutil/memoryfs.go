package testutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/arthur-debert/addonlink/pkg/types"
)

// maxLinkHops bounds symlink resolution the way the kernel does with ELOOP
const maxLinkHops = 40

// MemoryFS implements types.FS with in-memory storage.
// Paths are resolved component by component, so symlinked directories can be
// traversed and symlink loops surface as ELOOP just like on a real system.
type MemoryFS struct {
	mu    sync.RWMutex
	root  *fileNode
	umask os.FileMode

	// Error injection
	errorPaths map[string]error

	// Statistics
	readCount    int
	symlinkCount int
}

// fileNode represents a file, directory or symlink in memory
type fileNode struct {
	name     string
	mode     os.FileMode
	modTime  time.Time
	content  []byte
	isDir    bool
	isLink   bool
	linkDest string
	children map[string]*fileNode
}

var _ types.FS = (*MemoryFS)(nil)

// NewMemoryFS creates a new in-memory filesystem
func NewMemoryFS() *MemoryFS {
	return &MemoryFS{
		root: &fileNode{
			name:     "/",
			mode:     0755 | os.ModeDir,
			modTime:  time.Now(),
			isDir:    true,
			children: make(map[string]*fileNode),
		},
		umask:      0022,
		errorPaths: make(map[string]error),
	}
}

func normalizePath(path string) string {
	if !filepath.IsAbs(path) {
		path = "/" + path
	}
	return filepath.Clean(path)
}

func splitPath(path string) []string {
	var parts []string
	for _, p := range strings.Split(path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// resolve walks path from the root, following symlinks in intermediate
// components and, if followLast is set, in the final one. It returns the node
// together with its symlink-free path.
func (m *MemoryFS) resolve(op, path string, followLast bool) (*fileNode, string, error) {
	path = normalizePath(path)
	if err, ok := m.errorPaths[path]; ok {
		return nil, "", &fs.PathError{Op: op, Path: path, Err: err}
	}

	pending := splitPath(path)
	node := m.root
	current := "/"
	hops := 0

	for len(pending) > 0 {
		name := pending[0]
		pending = pending[1:]

		if !node.isDir {
			return nil, "", &fs.PathError{Op: op, Path: path, Err: syscall.ENOTDIR}
		}
		child, ok := node.children[name]
		if !ok {
			return nil, "", &fs.PathError{Op: op, Path: path, Err: fs.ErrNotExist}
		}

		if child.isLink && (len(pending) > 0 || followLast) {
			hops++
			if hops > maxLinkHops {
				return nil, "", &fs.PathError{Op: op, Path: path, Err: syscall.ELOOP}
			}
			dest := child.linkDest
			if !filepath.IsAbs(dest) {
				dest = filepath.Join(current, dest)
			}
			pending = append(splitPath(filepath.Clean(dest)), pending...)
			node = m.root
			current = "/"
			continue
		}

		node = child
		current = filepath.Join(current, name)
	}

	return node, current, nil
}

// parentOf resolves the directory that should hold path
func (m *MemoryFS) parentOf(op, path string) (*fileNode, string, error) {
	path = normalizePath(path)
	if err, ok := m.errorPaths[path]; ok {
		return nil, "", &fs.PathError{Op: op, Path: path, Err: err}
	}
	parent, _, err := m.resolve(op, filepath.Dir(path), true)
	if err != nil {
		return nil, "", err
	}
	if !parent.isDir {
		return nil, "", &fs.PathError{Op: op, Path: filepath.Dir(path), Err: syscall.ENOTDIR}
	}
	return parent, filepath.Base(path), nil
}

// ReadFile reads the entire file content
func (m *MemoryFS) ReadFile(name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.readCount++

	node, _, err := m.resolve("open", name, true)
	if err != nil {
		return nil, err
	}
	if node.isDir {
		return nil, &fs.PathError{Op: "read", Path: name, Err: syscall.EISDIR}
	}

	content := make([]byte, len(node.content))
	copy(content, node.content)
	return content, nil
}

// WriteFile writes data to a file, creating parent directories as needed
func (m *MemoryFS) WriteFile(name string, data []byte, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.mkdirAll(filepath.Dir(normalizePath(name)), 0755); err != nil {
		return err
	}
	parent, filename, err := m.parentOf("open", name)
	if err != nil {
		return err
	}
	if existing, ok := parent.children[filename]; ok && existing.isDir {
		return &fs.PathError{Op: "open", Path: name, Err: syscall.EISDIR}
	}

	node := &fileNode{
		name:    filename,
		mode:    perm &^ m.umask,
		modTime: time.Now(),
		content: make([]byte, len(data)),
	}
	copy(node.content, data)
	parent.children[filename] = node
	return nil
}

// Stat returns file info, following symlinks
func (m *MemoryFS) Stat(name string) (os.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	node, _, err := m.resolve("stat", name, true)
	if err != nil {
		return nil, err
	}
	return &fileInfo{node: node, name: filepath.Base(normalizePath(name))}, nil
}

// Lstat returns file info without following a final symlink
func (m *MemoryFS) Lstat(name string) (os.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	node, _, err := m.resolve("lstat", name, false)
	if err != nil {
		return nil, err
	}
	return &fileInfo{node: node, name: filepath.Base(normalizePath(name))}, nil
}

// MkdirAll creates a directory and all necessary parents
func (m *MemoryFS) MkdirAll(path string, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.mkdirAll(path, perm)
}

func (m *MemoryFS) mkdirAll(path string, perm os.FileMode) error {
	path = normalizePath(path)
	if err, ok := m.errorPaths[path]; ok {
		return &fs.PathError{Op: "mkdir", Path: path, Err: err}
	}

	if node, _, err := m.resolve("mkdir", path, true); err == nil {
		if !node.isDir {
			return &fs.PathError{Op: "mkdir", Path: path, Err: syscall.ENOTDIR}
		}
		return nil
	}

	if parent := filepath.Dir(path); parent != path {
		if err := m.mkdirAll(parent, perm); err != nil {
			return err
		}
	}

	parent, name, err := m.parentOf("mkdir", path)
	if err != nil {
		return err
	}
	if _, exists := parent.children[name]; exists {
		return &fs.PathError{Op: "mkdir", Path: path, Err: fs.ErrExist}
	}
	parent.children[name] = &fileNode{
		name:     name,
		mode:     perm | os.ModeDir,
		modTime:  time.Now(),
		isDir:    true,
		children: make(map[string]*fileNode),
	}
	return nil
}

// Readlink returns the destination of a symbolic link
func (m *MemoryFS) Readlink(name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	node, _, err := m.resolve("readlink", name, false)
	if err != nil {
		return "", err
	}
	if !node.isLink {
		return "", &fs.PathError{Op: "readlink", Path: name, Err: syscall.EINVAL}
	}
	return node.linkDest, nil
}

// Symlink creates a symbolic link at link pointing to target
func (m *MemoryFS) Symlink(target, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	parent, filename, err := m.parentOf("symlink", link)
	if err != nil {
		return err
	}
	if _, exists := parent.children[filename]; exists {
		return &fs.PathError{Op: "symlink", Path: link, Err: fs.ErrExist}
	}

	parent.children[filename] = &fileNode{
		name:     filename,
		mode:     0777 | os.ModeSymlink,
		modTime:  time.Now(),
		isLink:   true,
		linkDest: target,
	}
	m.symlinkCount++
	return nil
}

// EvalSymlinks returns the path with every symlink resolved
func (m *MemoryFS) EvalSymlinks(path string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, real, err := m.resolve("lstat", path, true)
	if err != nil {
		return "", err
	}
	return real, nil
}

// ReadDir reads a directory and returns its entries sorted by name
func (m *MemoryFS) ReadDir(name string) ([]fs.DirEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.readCount++

	node, _, err := m.resolve("open", name, true)
	if err != nil {
		return nil, err
	}
	if !node.isDir {
		return nil, &fs.PathError{Op: "readdirent", Path: name, Err: syscall.ENOTDIR}
	}

	entries := make([]fs.DirEntry, 0, len(node.children))
	for childName, child := range node.children {
		entries = append(entries, &dirEntry{
			name: childName,
			info: &fileInfo{node: child, name: childName},
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

// WithError configures the filesystem to return an error for a specific path
func (m *MemoryFS) WithError(path string, err error) *MemoryFS {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.errorPaths[normalizePath(path)] = err
	return m
}

// Stats returns the number of reads and created symlinks
func (m *MemoryFS) Stats() (reads, symlinks int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.readCount, m.symlinkCount
}

// IsNotExist reports whether err is a not-exist error from any FS
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// fileInfo implements os.FileInfo
type fileInfo struct {
	node *fileNode
	name string
}

func (fi *fileInfo) Name() string       { return fi.name }
func (fi *fileInfo) Size() int64        { return int64(len(fi.node.content)) }
func (fi *fileInfo) Mode() os.FileMode  { return fi.node.mode }
func (fi *fileInfo) ModTime() time.Time { return fi.node.modTime }
func (fi *fileInfo) IsDir() bool        { return fi.node.isDir }
func (fi *fileInfo) Sys() interface{}   { return nil }

// dirEntry implements fs.DirEntry
type dirEntry struct {
	name string
	info os.FileInfo
}

func (de *dirEntry) Name() string               { return de.name }
func (de *dirEntry) IsDir() bool                { return de.info.IsDir() }
func (de *dirEntry) Type() os.FileMode          { return de.info.Mode().Type() }
func (de *dirEntry) Info() (os.FileInfo, error) { return de.info, nil }
