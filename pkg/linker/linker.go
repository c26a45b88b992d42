package linker

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/addonlink/pkg/errors"
	"github.com/arthur-debert/addonlink/pkg/logging"
	"github.com/arthur-debert/addonlink/pkg/types"
	"github.com/arthur-debert/synthfs/pkg/synthfs"
	"github.com/rs/zerolog"
)

// DefaultDirMode is used for destination directories when none is configured
const DefaultDirMode fs.FileMode = 0755

// Options configures a Linker
type Options struct {
	FS types.FS
	// Out receives one "<source> -> <destination>" line per module
	Out     io.Writer
	DryRun  bool
	DirMode fs.FileMode
}

// Linker creates the destination symlink farm
type Linker struct {
	logger  zerolog.Logger
	fs      types.FS
	out     io.Writer
	dryRun  bool
	dirMode fs.FileMode
}

// New creates a linker from options
func New(opts Options) *Linker {
	dirMode := opts.DirMode
	if dirMode == 0 {
		dirMode = DefaultDirMode
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	return &Linker{
		logger:  logging.GetLogger("linker"),
		fs:      opts.FS,
		out:     out,
		dryRun:  opts.DryRun,
		dirMode: dirMode,
	}
}

// Materialize creates dest (with any missing parents) and links every
// module of set into it, in name order. A name that already exists in dest
// is skipped, including broken symlinks and regular files. The announcement
// line is written for every module, linked or not.
//
// Directory and symlink creation run as one synthfs pipeline. On failure
// the results gathered so far are returned with the error.
func (l *Linker) Materialize(dest string, set types.ModuleSet) ([]types.LinkResult, error) {
	done := logging.LogOperationStart(l.logger, "materialize")
	defer done()

	destExists, err := l.checkDestination(dest)
	if err != nil {
		return nil, err
	}

	planned, failed := l.plan(dest, set)

	results := planned
	if l.dryRun {
		if !destExists {
			l.logger.Info().Str("path", dest).Msg("Would create destination directory")
		}
	} else {
		var applyErr error
		results, applyErr = l.apply(dest, destExists, planned)
		if applyErr != nil {
			failed = applyErr
		}
	}

	for _, result := range results {
		if _, err := fmt.Fprintf(l.out, "%s -> %s\n", result.Source, result.Target); err != nil {
			return results, errors.Wrap(err, errors.ErrInternal, "cannot write output")
		}
	}
	if failed != nil {
		return results, failed
	}

	counts := types.CountByStatus(results)
	l.logger.Info().
		Str("destination", dest).
		Int("created", counts[types.LinkCreated]).
		Int("skipped", counts[types.LinkSkipped]).
		Int("planned", counts[types.LinkPlanned]).
		Msg("Materialized links")
	return results, nil
}

// checkDestination reports whether dest already exists as a directory.
func (l *Linker) checkDestination(dest string) (bool, error) {
	info, err := l.fs.Stat(dest)
	if err == nil {
		if !info.IsDir() {
			return false, errors.New(errors.ErrDirCreate, "destination is not a directory").
				WithDetail("path", dest)
		}
		return true, nil
	}
	if !stderrors.Is(err, fs.ErrNotExist) {
		return false, errors.Wrap(err, errors.ErrFileAccess, "cannot access destination").
			WithDetail("path", dest)
	}
	return false, nil
}

// plan decides, per module, whether a link is needed. Every entry is either
// LinkSkipped or LinkPlanned. Planning stops at the first entry that cannot
// be checked; the entries before it are still returned.
func (l *Linker) plan(dest string, set types.ModuleSet) ([]types.LinkResult, error) {
	planned := make([]types.LinkResult, 0, len(set))
	for _, module := range set.Sorted() {
		result := types.LinkResult{
			Name:   module.Name,
			Source: module.Path,
			Target: filepath.Join(dest, module.Name),
		}

		_, err := l.fs.Lstat(result.Target)
		switch {
		case err == nil:
			result.Status = types.LinkSkipped
			l.logger.Debug().Str("target", result.Target).Msg("Entry exists, skipping")
		case stderrors.Is(err, fs.ErrNotExist):
			result.Status = types.LinkPlanned
		default:
			return planned, errors.Wrap(err, errors.ErrFileAccess, "cannot check link target").
				WithDetail("target", result.Target)
		}
		planned = append(planned, result)
	}
	return planned, nil
}

const mkdirOpID = "mkdir_destination"

func linkOpID(name string) string {
	return fmt.Sprintf("link_%s", name)
}

// apply turns a plan into synthfs operations and runs them in order,
// stopping at the first failure. Planned entries become LinkCreated;
// entries from the failing one onwards are left out of the results.
func (l *Linker) apply(dest string, destExists bool, planned []types.LinkResult) ([]types.LinkResult, error) {
	sfs := synthfs.New()

	var ops []synthfs.Operation
	if !destExists {
		ops = append(ops, sfs.CreateDirWithID(mkdirOpID, dest, l.dirMode))
	}
	for _, result := range planned {
		if result.Status == types.LinkPlanned {
			ops = append(ops, sfs.CreateSymlinkWithID(linkOpID(result.Name), result.Source, result.Target))
		}
	}
	if len(ops) == 0 {
		return planned, nil
	}

	l.logger.Debug().Int("operations", len(ops)).Msg("Executing operations through synthfs")
	runResult, runErr := synthfs.RunWithOptions(context.Background(), newOpsFS(l.fs), synthfs.DefaultPipelineOptions(), ops...)

	outcomes := make(map[synthfs.OperationID]synthfs.OperationResult)
	if runResult != nil {
		for _, op := range runResult.GetOperations() {
			if opResult, ok := op.(synthfs.OperationResult); ok {
				outcomes[opResult.OperationID] = opResult
			}
		}
	}

	// a rejected operation means nothing ran at all
	var rejected *synthfs.ValidationError
	if stderrors.As(runErr, &rejected) && string(rejected.OperationID) != mkdirOpID {
		return nil, errors.Wrap(runErr, errors.ErrSymlinkCreate, "cannot create symlink").
			WithDetail("target", rejected.OperationDesc.Path)
	}

	if !destExists {
		if err := failure(outcomes, mkdirOpID, runErr); err != nil {
			return nil, errors.Wrap(err, errors.ErrDirCreate, "cannot create destination").
				WithDetail("path", dest)
		}
		l.logger.Debug().Str("path", dest).Msg("Created destination directory")
	}

	results := make([]types.LinkResult, 0, len(planned))
	for _, result := range planned {
		if result.Status == types.LinkPlanned {
			if err := failure(outcomes, linkOpID(result.Name), runErr); err != nil {
				return results, errors.Wrap(err, errors.ErrSymlinkCreate, "cannot create symlink").
					WithDetail("source", result.Source).
					WithDetail("target", result.Target)
			}
			result.Status = types.LinkCreated
			l.logger.Trace().Str("source", result.Source).Str("target", result.Target).Msg("Created symlink")
		}
		results = append(results, result)
	}
	return results, nil
}

// failure returns nil when the operation id ran successfully, and the best
// available cause otherwise.
func failure(outcomes map[synthfs.OperationID]synthfs.OperationResult, id string, runErr error) error {
	outcome, ok := outcomes[synthfs.OperationID(id)]
	switch {
	case ok && outcome.Status == synthfs.StatusSuccess:
		return nil
	case ok && outcome.Error != nil:
		return outcome.Error
	case runErr != nil:
		return runErr
	}
	return stderrors.New("operation " + id + " did not run")
}
