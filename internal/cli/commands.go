package cli

import (
	"embed"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/addonlink/internal/version"
	"github.com/arthur-debert/addonlink/pkg/cobrax/topics"
	"github.com/arthur-debert/addonlink/pkg/config"
	"github.com/arthur-debert/addonlink/pkg/core"
	"github.com/arthur-debert/addonlink/pkg/errors"
	"github.com/arthur-debert/addonlink/pkg/filesystem"
	"github.com/arthur-debert/addonlink/pkg/logging"
	"github.com/arthur-debert/addonlink/pkg/style"
	"github.com/arthur-debert/addonlink/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

//go:embed topics/*.md
var topicsFS embed.FS

// globalOptions holds the persistent flags shared by every command
type globalOptions struct {
	verbosity        int
	dryRun           bool
	configPath       string
	allowExpressions bool
}

// linkFlags holds the flags of the link step
type linkFlags struct {
	mainPath   string
	extPath    string
	resultPath string
	mkdir      bool
	skipMain   bool
	report     string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	opts := &globalOptions{}
	rootLink := &linkFlags{}

	rootCmd := &cobra.Command{
		Use:     "addonlink",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Example: MsgLinkExample,
		Version: version.Version,
		Args:    usageArgs(cobra.NoArgs),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLoggerWithWriter(cmd.ErrOrStderr(), opts.verbosity)
			style.Configure(cmd.OutOrStdout())
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLink(cmd, opts, rootLink)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().BoolVar(&opts.dryRun, "dry-run", false, MsgFlagDryRun)
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", MsgFlagConfig)
	rootCmd.PersistentFlags().BoolVar(&opts.allowExpressions, "allow-expressions", false, MsgFlagAllowExpressions)
	addLinkFlags(rootCmd, rootLink)

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errors.Wrap(err, errors.ErrUsage, "invalid flags")
	})

	rootCmd.AddGroup(
		&cobra.Group{ID: "core", Title: "Commands"},
		&cobra.Group{ID: "misc", Title: "Other Commands"},
	)
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newLinkCmd(opts))
	rootCmd.AddCommand(newListCmd(opts))
	rootCmd.AddCommand(newDepsCmd(opts))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())

	// Topic-based help replaces cobra's help command
	tm, err := topics.InitializeWithOptions(rootCmd, topicsFS, "topics", topics.Options{
		Renderer: topics.NewGlamourRenderer(stdoutIsTerminal()),
	})
	if err == nil {
		rootCmd.AddCommand(newTopicsCmd(tm))
	}

	return rootCmd
}

func addLinkFlags(cmd *cobra.Command, lf *linkFlags) {
	cmd.Flags().StringVar(&lf.mainPath, "main-path", "", MsgFlagMainPath)
	cmd.Flags().StringVar(&lf.extPath, "ext-path", "", MsgFlagExtPath)
	cmd.Flags().StringVar(&lf.resultPath, "result-path", "", MsgFlagResultPath)
	cmd.Flags().BoolVar(&lf.mkdir, "mkdir", false, MsgFlagMkdir)
	cmd.Flags().BoolVar(&lf.skipMain, "skip-main", false, MsgFlagSkipMain)
	cmd.Flags().StringVar(&lf.report, "report", "", MsgFlagReport)
	_ = cmd.MarkFlagDirname("main-path")
	_ = cmd.MarkFlagDirname("ext-path")
	_ = cmd.MarkFlagDirname("result-path")
}

// usageArgs turns argument validation failures into usage errors
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return errors.Wrap(err, errors.ErrUsage, "invalid arguments")
		}
		return nil
	}
}

// loadConfig layers the command line over the configuration file
func loadConfig(cmd *cobra.Command, opts *globalOptions, lf *linkFlags) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	overrides := make(map[string]interface{})
	if cmd.Flags().Changed("allow-expressions") {
		overrides["manifest.allow_expressions"] = opts.allowExpressions
	}
	if lf != nil && cmd.Flags().Changed("skip-main") {
		overrides["link.skip_main"] = lf.skipMain
	}
	if len(overrides) == 0 {
		return cfg, nil
	}
	return config.Overrides(cfg, overrides)
}

func runLink(cmd *cobra.Command, opts *globalOptions, lf *linkFlags) error {
	var renderer ui.Renderer
	if lf.report != "" {
		r, err := newRenderer(cmd, lf.report)
		if err != nil {
			return err
		}
		renderer = r
	}

	paths, err := resolveLinkPaths(lf.mainPath, lf.extPath, lf.resultPath, lf.mkdir)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, opts, lf)
	if err != nil {
		return err
	}

	fsys := filesystem.NewOS()
	if opts.dryRun {
		fsys = filesystem.NewReadOnly()
	}

	report, err := core.Link(core.LinkOptions{
		FS:         fsys,
		Config:     cfg,
		Out:        cmd.OutOrStdout(),
		MainPath:   paths.Main,
		ExtPath:    paths.Ext,
		ResultPath: paths.Result,
		DryRun:     opts.dryRun,
	})
	if err != nil {
		return err
	}

	log.Info().
		Strs("main_depends", report.MainDepends).
		Int("links", len(report.Results)).
		Msg("Link finished")

	if renderer != nil {
		if err := renderer.RenderResult(report); err != nil {
			return errors.Wrap(err, errors.ErrInternal, "cannot render link report")
		}
	}
	if opts.dryRun {
		fmt.Fprintln(cmd.ErrOrStderr(), style.WarningStyle.Render(MsgDryRunNotice))
	}
	return nil
}

func newLinkCmd(opts *globalOptions) *cobra.Command {
	lf := &linkFlags{}
	cmd := &cobra.Command{
		Use:     "link",
		Short:   MsgLinkShort,
		Long:    MsgLinkLong,
		Example: MsgLinkExample,
		GroupID: "core",
		Args:    usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLink(cmd, opts, lf)
		},
	}
	addLinkFlags(cmd, lf)
	return cmd
}

func addFormatFlag(cmd *cobra.Command, format *string) {
	cmd.Flags().StringVarP(format, "format", "f", "auto", MsgFlagFormat)
	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return ui.FormatNames(), cobra.ShellCompDirectiveNoFileComp
	})
}

func newRenderer(cmd *cobra.Command, name string) (ui.Renderer, error) {
	format, err := ui.ParseFormat(name)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrUsage, "invalid output format").
			WithDetail("accepted", strings.Join(ui.FormatNames(), ", "))
	}
	return ui.NewRenderer(format, cmd.OutOrStdout())
}

func newListCmd(opts *globalOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:     "list <root>",
		Short:   MsgListShort,
		Long:    MsgListLong,
		GroupID: "core",
		Args:    usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := newRenderer(cmd, format)
			if err != nil {
				return err
			}
			root, err := filepath.Abs(args[0])
			if err != nil {
				return errors.Wrap(err, errors.ErrInvalidInput, "cannot make path absolute")
			}
			cfg, err := loadConfig(cmd, opts, nil)
			if err != nil {
				return err
			}

			log.Info().Str("root", root).Msg("Listing modules")
			set, err := core.ListModules(filesystem.NewOS(), cfg, root)
			if err != nil {
				return err
			}
			return renderer.RenderResult(set.List(root))
		},
	}
	addFormatFlag(cmd, &format)
	return cmd
}

func newDepsCmd(opts *globalOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:     "deps <root>",
		Short:   MsgDepsShort,
		Long:    MsgDepsLong,
		GroupID: "core",
		Args:    usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := newRenderer(cmd, format)
			if err != nil {
				return err
			}
			root, err := filepath.Abs(args[0])
			if err != nil {
				return errors.Wrap(err, errors.ErrInvalidInput, "cannot make path absolute")
			}
			cfg, err := loadConfig(cmd, opts, nil)
			if err != nil {
				return err
			}

			report, err := core.Dependencies(filesystem.NewOS(), cfg, root)
			if err != nil {
				return err
			}
			return renderer.RenderResult(report)
		},
	}
	addFormatFlag(cmd, &format)
	return cmd
}

func newTopicsCmd(tm *topics.TopicManager) *cobra.Command {
	return &cobra.Command{
		Use:     "topics [topic]",
		Short:   MsgTopicsShort,
		Long:    MsgTopicsLong,
		GroupID: "misc",
		Args:    usageArgs(cobra.MaximumNArgs(1)),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return tm.ListTopics(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				tm.WriteTopicList(cmd.OutOrStdout(), cmd.Root().Name())
				return nil
			}
			rendered, ok := tm.RenderTopic(args[0])
			if !ok {
				return errors.Newf(errors.ErrUsage, MsgErrUnknownTopic, args[0])
			}
			fmt.Fprint(cmd.OutOrStdout(), rendered)
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    usageArgs(cobra.NoArgs),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  usageArgs(cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs)),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}

func newManCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "man [dir]",
		Short:   MsgManShort,
		Long:    MsgManLong,
		GroupID: "misc",
		Args:    usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			header := &doc.GenManHeader{
				Title:   "ADDONLINK",
				Section: "1",
				Source:  "addonlink " + version.Version,
			}
			if err := doc.GenManTree(cmd.Root(), header, dir); err != nil {
				return errors.Wrap(err, errors.ErrFileAccess, "cannot write man pages").
					WithDetail("dir", dir)
			}
			fmt.Fprintf(cmd.OutOrStdout(), MsgManWritten, dir)
			return nil
		},
	}
}
