package core

import (
	"github.com/arthur-debert/addonlink/pkg/addons"
	"github.com/arthur-debert/addonlink/pkg/config"
	"github.com/arthur-debert/addonlink/pkg/logging"
	"github.com/arthur-debert/addonlink/pkg/manifest"
	"github.com/arthur-debert/addonlink/pkg/types"
)

// LoadModules discovers every module under root and parses its manifest
func LoadModules(fsys types.FS, cfg *config.Config, root string) (types.ModuleSet, error) {
	logger := logging.GetLogger("core.modules")
	if cfg == nil {
		cfg = config.Default()
	}

	paths, err := addons.Discover(fsys, cfg.Layout(), root, addons.DiscoverOptions{
		DetectCycles: cfg.Discovery.DetectCycles,
	})
	if err != nil {
		return nil, err
	}

	decoder := manifest.NewDecoder(manifest.Options{
		AllowExpressions: cfg.Manifest.AllowExpressions,
	})
	set, err := addons.ParseAll(fsys, cfg.Layout(), decoder, paths)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Str("root", root).
		Int("paths", len(paths)).
		Int("modules", len(set)).
		Msg("Loaded modules")
	return set, nil
}

// ListModules returns the modules found under root
func ListModules(fsys types.FS, cfg *config.Config, root string) (types.ModuleSet, error) {
	done := logging.LogOperationStart(logging.GetLogger("core.list"), "list")
	defer done()

	return LoadModules(fsys, cfg, root)
}

// Dependencies aggregates the dependencies declared under root
func Dependencies(fsys types.FS, cfg *config.Config, root string) (*types.DependencyReport, error) {
	done := logging.LogOperationStart(logging.GetLogger("core.deps"), "deps")
	defer done()

	set, err := LoadModules(fsys, cfg, root)
	if err != nil {
		return nil, err
	}

	depends := addons.AggregateDepends(set)
	external := addons.Missing(depends, set)
	if external == nil {
		external = []string{}
	}
	return &types.DependencyReport{
		Root:     root,
		Depends:  depends,
		External: external,
	}, nil
}
