package style

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// markupTag pairs an inline tag such as [module]...[/module] with its style
type markupTag struct {
	pattern *regexp.Regexp
	style   func() lipgloss.Style
}

// Styles are looked up on every render so a later Configure call is honored.
var markupTags = compileTags(map[string]func() lipgloss.Style{
	"title":   func() lipgloss.Style { return TitleStyle },
	"success": func() lipgloss.Style { return SuccessStyle },
	"error":   func() lipgloss.Style { return ErrorStyle },
	"warning": func() lipgloss.Style { return WarningStyle },
	"code":    func() lipgloss.Style { return CodeStyle },
	"path":    func() lipgloss.Style { return PathStyle },
	"muted":   func() lipgloss.Style { return MutedStyle },
	"module":  func() lipgloss.Style { return ModuleStyle },
	"bold":    func() lipgloss.Style { return lipgloss.NewStyle().Bold(true) },
})

func compileTags(styles map[string]func() lipgloss.Style) []markupTag {
	tags := make([]markupTag, 0, len(styles))
	for name, st := range styles {
		tags = append(tags, markupTag{
			pattern: regexp.MustCompile(`\[` + name + `\](.*?)\[/` + name + `\]`),
			style:   st,
		})
	}
	return tags
}

// Render replaces markup tags in text with their styled content. Nested
// tags are resolved innermost first by repeating until nothing changes.
func Render(text string) string {
	for {
		before := text
		for _, tag := range markupTags {
			st := tag.style()
			text = tag.pattern.ReplaceAllStringFunc(text, func(match string) string {
				sub := tag.pattern.FindStringSubmatch(match)
				return st.Render(sub[1])
			})
		}
		if text == before {
			return text
		}
	}
}

// RenderTemplate substitutes {{key}} placeholders and then renders markup
func RenderTemplate(template string, vars map[string]string) string {
	for key, value := range vars {
		template = strings.ReplaceAll(template, "{{"+key+"}}", value)
	}
	return Render(template)
}
