package addons

import (
	"path/filepath"

	"github.com/arthur-debert/addonlink/pkg/errors"
	"github.com/arthur-debert/addonlink/pkg/logging"
	"github.com/arthur-debert/addonlink/pkg/manifest"
	"github.com/arthur-debert/addonlink/pkg/types"
)

// Parse reads the module at path: it re-derives the manifest through
// classification, decodes it and extracts the dependency list.
func Parse(fsys types.FS, layout Layout, decoder *manifest.Decoder, path string) (*types.Module, error) {
	manifestPath, ok, err := Classify(fsys, layout, path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New(errors.ErrManifestNotFound, "directory is not a module").
			WithDetail("path", path)
	}

	data, err := fsys.ReadFile(manifestPath)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrFileAccess, "cannot read manifest").
			WithDetail("file", manifestPath)
	}

	decoded, err := decoder.Decode(manifestPath, data)
	if err != nil {
		return nil, err
	}

	depends, err := manifest.Depends(decoded)
	if err != nil {
		logger := logging.GetLogger("addons.parse")
		logger.Warn().
			Err(err).
			Str("file", manifestPath).
			Strs("kept", depends).
			Msg("Ignoring malformed dependency entries")
	}

	return &types.Module{
		Name:         filepath.Base(path),
		Path:         path,
		ManifestPath: manifestPath,
		Manifest:     decoded,
		Depends:      depends,
	}, nil
}

// ParseAll parses every path into a set keyed by directory name. When two
// paths share a name the later one replaces the earlier one.
func ParseAll(fsys types.FS, layout Layout, decoder *manifest.Decoder, paths []string) (types.ModuleSet, error) {
	logger := logging.GetLogger("addons.parse")

	set := make(types.ModuleSet, len(paths))
	for _, path := range paths {
		module, err := Parse(fsys, layout, decoder, path)
		if err != nil {
			return nil, err
		}

		if previous, ok := set[module.Name]; ok {
			logger.Debug().
				Str("module", module.Name).
				Str("previous", previous.Path).
				Str("path", module.Path).
				Msg("Module name seen twice, keeping the later path")
		}
		set[module.Name] = module

		logger.Trace().
			Str("module", module.Name).
			Strs("depends", module.Depends).
			Msg("Parsed module")
	}
	return set, nil
}
