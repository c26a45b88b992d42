package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/arthur-debert/addonlink/pkg/errors"
	"github.com/arthur-debert/addonlink/pkg/style"
	"github.com/spf13/cobra"
)

// Process exit codes
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// Execute runs the command line of the current process and returns its
// exit code.
func Execute() int {
	return Run(os.Args[1:], os.Stdout, os.Stderr)
}

// Run executes the command tree with args, writing to stdout and stderr,
// and returns the exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	cmd, err := rootCmd.ExecuteC()
	if err == nil {
		return ExitOK
	}
	if cmd == nil {
		cmd = rootCmd
	}

	verbosity, _ := rootCmd.PersistentFlags().GetCount("verbose")
	return reportError(stderr, cmd, err, verbosity > 0)
}

// reportError prints err and picks the exit code. Usage errors are followed
// by the usage of the failing command.
func reportError(w io.Writer, cmd *cobra.Command, err error, verbose bool) int {
	style.Configure(w)

	fmt.Fprintln(w, style.ErrorStyle.Render(MsgErrorPrefix+errors.Summary(err)))
	if verbose {
		for _, line := range errors.FormatDetails(err) {
			fmt.Fprintln(w, style.Indent(style.MutedStyle.Render(line), 1))
		}
	}

	if errors.IsErrorCode(err, errors.ErrUsage) {
		fmt.Fprintln(w)
		fmt.Fprint(w, cmd.UsageString())
		return ExitUsage
	}
	return ExitError
}
