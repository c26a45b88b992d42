package core

import (
	"fmt"
	"io"

	"github.com/arthur-debert/addonlink/pkg/addons"
	"github.com/arthur-debert/addonlink/pkg/config"
	"github.com/arthur-debert/addonlink/pkg/errors"
	"github.com/arthur-debert/addonlink/pkg/linker"
	"github.com/arthur-debert/addonlink/pkg/logging"
	"github.com/arthur-debert/addonlink/pkg/types"
)

// Names under which the three paths are announced
const (
	MainPathLabel   = "MAIN_ADDONS_PATH"
	ExtPathLabel    = "EXT_ADDONS_PATH"
	ResultPathLabel = "RESULT_EXT_ADDONS_PATH"
)

// LinkOptions holds the inputs of the link pipeline
type LinkOptions struct {
	FS     types.FS
	Config *config.Config
	Out    io.Writer

	MainPath   string
	ExtPath    string
	ResultPath string

	DryRun bool
}

// Link runs the whole pipeline. Output lines go to opts.Out. When linking
// fails part way the report holds the results gathered before the failure.
func Link(opts LinkOptions) (*types.LinkReport, error) {
	logger := logging.GetLogger("core.link")
	done := logging.LogOperationStart(logger, "link")
	defer done()

	if opts.FS == nil {
		return nil, errors.New(errors.ErrInternal, "link needs a filesystem")
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	for _, line := range [][2]string{
		{MainPathLabel, opts.MainPath},
		{ExtPathLabel, opts.ExtPath},
		{ResultPathLabel, opts.ResultPath},
	} {
		if _, err := fmt.Fprintf(out, "%s: %s\n", line[0], line[1]); err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "cannot write output")
		}
	}

	report := &types.LinkReport{
		MainPath:   opts.MainPath,
		ExtPath:    opts.ExtPath,
		ResultPath: opts.ResultPath,
		DryRun:     opts.DryRun,
	}

	mainSet, err := LoadModules(opts.FS, cfg, opts.MainPath)
	if err != nil {
		return nil, err
	}
	report.Main = mainSet
	report.MainDepends = addons.AggregateDepends(mainSet)
	logger.Debug().
		Int("modules", len(mainSet)).
		Strs("depends", report.MainDepends).
		Msg("Main modules loaded")

	ext, err := LoadModules(opts.FS, cfg, opts.ExtPath)
	if err != nil {
		return nil, err
	}
	report.Ext = ext

	toLink := ext
	if cfg.Link.SkipMain {
		toLink = ext.Without(mainSet)
		logger.Info().
			Int("skipped", len(ext)-len(toLink)).
			Msg("Leaving out external modules already present in main")
	}

	l := linker.New(linker.Options{
		FS:      opts.FS,
		Out:     out,
		DryRun:  opts.DryRun,
		DirMode: cfg.Link.DirMode,
	})
	results, err := l.Materialize(opts.ResultPath, toLink)
	report.Results = results
	if err != nil {
		return report, err
	}
	return report, nil
}
