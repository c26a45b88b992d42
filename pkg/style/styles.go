package style

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/pterm/pterm"
)

// Base styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(HeadingColor).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	PathStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Italic(true)

	ModuleStyle = lipgloss.NewStyle().
			Foreground(ModuleColor).
			Bold(true)

	CodeStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)
)

// IsTerminal reports whether w is a terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Configure picks the color profile for output written to w. Styling is
// turned off when w is not a terminal, when NO_COLOR is set or when the
// terminal cannot show colors.
func Configure(w io.Writer) {
	profile := termenv.NewOutput(w).EnvColorProfile()
	if !IsTerminal(w) || os.Getenv("NO_COLOR") != "" {
		profile = termenv.Ascii
	}

	lipgloss.SetColorProfile(profile)
	if profile == termenv.Ascii {
		pterm.DisableStyling()
	} else {
		pterm.EnableStyling()
	}
}

// Indent pads s by two spaces per level
func Indent(s string, level int) string {
	return lipgloss.NewStyle().PaddingLeft(level * 2).Render(s)
}
