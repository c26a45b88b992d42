package cli

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/addonlink/pkg/core"
	"github.com/arthur-debert/addonlink/pkg/errors"
)

// pathSpec describes one of the three link paths
type pathSpec struct {
	label string // name printed in messages and used as env fallback
	flag  string
	value string
	// mayBeMissing lets a non-existent path through (result path with --mkdir)
	mayBeMissing bool
}

// linkPaths holds the three resolved link paths
type linkPaths struct {
	Main, Ext, Result string
}

func resolveLinkPaths(mainPath, extPath, resultPath string, mkdir bool) (*linkPaths, error) {
	specs := []pathSpec{
		{label: core.MainPathLabel, flag: "main-path", value: mainPath},
		{label: core.ExtPathLabel, flag: "ext-path", value: extPath},
		{label: core.ResultPathLabel, flag: "result-path", value: resultPath, mayBeMissing: mkdir},
	}

	resolved := make([]string, len(specs))
	for i, spec := range specs {
		p, err := resolvePath(spec)
		if err != nil {
			return nil, err
		}
		resolved[i] = p
	}
	return &linkPaths{Main: resolved[0], Ext: resolved[1], Result: resolved[2]}, nil
}

// resolvePath returns the absolute, symlink-free form of the path given by
// flag or, failing that, by the environment variable named after the label.
func resolvePath(spec pathSpec) (string, error) {
	value := spec.value
	if value == "" {
		value = os.Getenv(spec.label)
	}
	if value == "" {
		return "", errors.Newf(errors.ErrUsage, MsgErrPathMissing, spec.label, spec.flag, spec.label)
	}

	abs, err := filepath.Abs(value)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInvalidInput, "cannot make path absolute").
			WithDetail("path", value)
	}

	info, err := os.Stat(abs)
	switch {
	case err == nil && !info.IsDir():
		return "", errors.Newf(errors.ErrUsage, MsgErrPathNotDir, spec.label, abs)
	case os.IsNotExist(err) && spec.mayBeMissing:
		return abs, nil
	case os.IsNotExist(err):
		return "", errors.Newf(errors.ErrUsage, MsgErrPathNotExist, spec.label, abs)
	case err != nil:
		return "", errors.Wrap(err, errors.ErrFileAccess, "cannot access path").
			WithDetail("path", abs)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrFileAccess, "cannot resolve path").
			WithDetail("path", abs)
	}
	return resolved, nil
}
