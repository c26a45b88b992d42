package cli

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Link Odoo addons from many trees into one folder"
	MsgLinkShort       = "Link external modules into the result folder"
	MsgListShort       = "List the modules found under a directory"
	MsgListLong        = "List walks the given directory, printing every module found with its path and declared dependencies."
	MsgDepsShort       = "Show the combined dependencies of the modules under a directory"
	MsgDepsLong        = "Deps prints the deduplicated, sorted union of the depends lists of every module under the given directory. Dependencies that no module under that directory provides are marked external."
	MsgTopicsShort     = "Display available documentation topics"
	MsgTopicsLong      = "Display a list of all available help topics, or the topic given as argument."
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate man pages"
	MsgManLong         = "Generate man pages for addonlink and its commands into the given directory (default: current directory)."

	// Status messages
	MsgDryRunNotice  = "\nDRY RUN MODE - No changes were made"
	MsgVersionFormat = "addonlink version %s\n  commit: %s\n  built:  %s\n"
	MsgManWritten    = "Man pages written to %s\n"
	MsgErrorPrefix   = "Error: "

	// Usage errors
	MsgErrPathMissing  = "%s is required (use --%s or set %s)"
	MsgErrPathNotExist = "%s does not exist: %s"
	MsgErrPathNotDir   = "%s is not a directory: %s"
	MsgErrUnknownTopic = "unknown help topic %q"

	// Flag descriptions
	MsgFlagVerbose          = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun           = "Preview changes without executing them"
	MsgFlagConfig           = "Config file (default is $XDG_CONFIG_HOME/addonlink/config.toml)"
	MsgFlagMainPath         = "Main addons directory (env MAIN_ADDONS_PATH)"
	MsgFlagExtPath          = "External addons directory to link from (env EXT_ADDONS_PATH)"
	MsgFlagResultPath       = "Directory receiving the links (env RESULT_EXT_ADDONS_PATH)"
	MsgFlagMkdir            = "Create the result directory if it does not exist"
	MsgFlagSkipMain         = "Do not link external modules that share a name with a main module"
	MsgFlagAllowExpressions = "Accept '+' concatenation of literals in manifests"
	MsgFlagFormat           = "Output format (auto, terminal, text, json, yaml)"
	MsgFlagReport           = "After linking, print a report of every link in this format (terminal, text, json, yaml)"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/link-long.txt
	msgLinkLongRaw string
	MsgLinkLong    = strings.TrimSpace(msgLinkLongRaw)

	//go:embed msgs/link-example.txt
	msgLinkExampleRaw string
	MsgLinkExample    = strings.TrimRight(msgLinkExampleRaw, "\n")

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)
)
