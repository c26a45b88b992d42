package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arthur-debert/addonlink/pkg/style"
	"github.com/muesli/termenv"
)

// Format represents the output format type
type Format int

const (
	// FormatAuto picks terminal or text output from the capabilities of the writer
	FormatAuto Format = iota
	// FormatTerminal renders rich terminal output with colors and tables
	FormatTerminal
	// FormatText renders plain text output without any styling
	FormatText
	// FormatJSON renders machine-readable JSON output
	FormatJSON
	// FormatYAML renders machine-readable YAML output
	FormatYAML
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatTerminal:
		return "term"
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// ParseFormat parses a string into a Format value
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "auto", "":
		return FormatAuto, nil
	case "term", "terminal":
		return FormatTerminal, nil
	case "text", "plain":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return FormatAuto, fmt.Errorf("unknown format: %s", s)
	}
}

// FormatNames lists the accepted format names, for flag help and completion
func FormatNames() []string {
	return []string{"auto", "term", "text", "json", "yaml"}
}

// DetectFormat determines the output format for w from the environment and
// terminal capabilities.
func DetectFormat(w io.Writer) Format {
	if os.Getenv("NO_COLOR") != "" {
		return FormatText
	}

	// piped or redirected
	if !style.IsTerminal(w) {
		return FormatText
	}

	if termenv.NewOutput(w).EnvColorProfile() == termenv.Ascii {
		return FormatText
	}
	return FormatTerminal
}
