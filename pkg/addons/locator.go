package addons

import (
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/arthur-debert/addonlink/pkg/errors"
	"github.com/arthur-debert/addonlink/pkg/logging"
	"github.com/arthur-debert/addonlink/pkg/types"
)

// DiscoverOptions tunes module discovery
type DiscoverOptions struct {
	// DetectCycles stops the walk from entering a directory whose real path
	// was already visited, so symlinked directory loops terminate.
	DetectCycles bool
}

// Classify reports whether the directory at path is a module and, if so,
// returns the full path of its manifest file.
//
// The immediate entries of path are filtered to the layout's manifest names
// and initializer name. Exactly two survivors, one of them the initializer,
// make a module. A directory holding two different manifest names plus the
// initializer is therefore not a module. A path that does not exist or is
// not a directory is not a module either; any other listing failure is
// returned.
func Classify(fsys types.FS, layout Layout, path string) (string, bool, error) {
	entries, err := fsys.ReadDir(path)
	if err != nil {
		if isAbsent(err) {
			return "", false, nil
		}
		return "", false, errors.Wrap(err, errors.ErrFileAccess, "cannot list directory").
			WithDetail("path", path)
	}

	var matched []string
	for _, entry := range entries {
		if layout.Recognized(entry.Name()) {
			matched = append(matched, entry.Name())
		}
	}

	if len(matched) != 2 {
		return "", false, nil
	}
	switch layout.InitFile {
	case matched[0]:
		return filepath.Join(path, matched[1]), true, nil
	case matched[1]:
		return filepath.Join(path, matched[0]), true, nil
	}
	return "", false, nil
}

// Discover walks root depth-first and returns the paths of every module
// below it, sorted. Module directories are not descended into; any other
// directory is. Entries are directories when Stat says so, which means
// symlinked directories are followed.
//
// A directory that vanished (or never existed) contributes no modules, root
// included. Every other filesystem failure aborts the walk.
func Discover(fsys types.FS, layout Layout, root string, opts DiscoverOptions) ([]string, error) {
	logger := logging.GetLogger("addons.locator")
	logger.Trace().Str("root", root).Msg("Discovering modules")

	visited := make(map[string]bool)
	if opts.DetectCycles {
		markVisited(fsys, visited, root)
	}

	var modules []string
	stack := []string{root}
	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := fsys.ReadDir(dir)
		if err != nil {
			if isNotExist(err) {
				logger.Debug().Str("path", dir).Msg("Directory not found, no modules here")
				continue
			}
			code := errors.ErrFileAccess
			if stderrors.Is(err, syscall.ENOTDIR) {
				code = errors.ErrInvalidInput
			}
			return nil, errors.Wrap(err, code, "cannot list directory").
				WithDetail("path", dir)
		}

		var subdirs []string
		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())
			if !isDir(fsys, path) {
				continue
			}

			manifest, ok, err := Classify(fsys, layout, path)
			if err != nil {
				return nil, err
			}
			if ok {
				logger.Trace().
					Str("path", path).
					Str("manifest", filepath.Base(manifest)).
					Msg("Found module")
				modules = append(modules, path)
				continue
			}

			if opts.DetectCycles && !markVisited(fsys, visited, path) {
				logger.Debug().Str("path", path).Msg("Directory already visited, skipping")
				continue
			}
			subdirs = append(subdirs, path)
		}

		// pushed in reverse so the first entry is walked first
		for i := len(subdirs) - 1; i >= 0; i-- {
			stack = append(stack, subdirs[i])
		}
	}

	sort.Strings(modules)
	logger.Debug().Str("root", root).Int("count", len(modules)).Msg("Discovered modules")
	return modules, nil
}

// markVisited records the real path of dir and reports whether it was new
func markVisited(fsys types.FS, visited map[string]bool, dir string) bool {
	resolved, err := fsys.EvalSymlinks(dir)
	if err != nil {
		resolved = filepath.Clean(dir)
	}
	if visited[resolved] {
		return false
	}
	visited[resolved] = true
	return true
}

// isDir follows symlinks; anything that cannot be stat'ed is not a directory
func isDir(fsys types.FS, path string) bool {
	info, err := fsys.Stat(path)
	return err == nil && info.IsDir()
}

func isNotExist(err error) bool {
	return stderrors.Is(err, fs.ErrNotExist)
}

func isAbsent(err error) bool {
	return isNotExist(err) || stderrors.Is(err, syscall.ENOTDIR)
}
