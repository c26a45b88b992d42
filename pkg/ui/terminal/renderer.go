// Package terminal provides rich terminal output with colors and tables
package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/addonlink/pkg/style"
	"github.com/arthur-debert/addonlink/pkg/types"
	"github.com/pterm/pterm"
)

// Renderer provides rich terminal output using lipgloss styles and pterm tables
type Renderer struct {
	output io.Writer
}

// New creates a new terminal renderer
func New(w io.Writer) *Renderer {
	return &Renderer{output: w}
}

// RenderResult renders a result with rich terminal formatting
func (r *Renderer) RenderResult(result interface{}) error {
	switch v := result.(type) {
	case *types.ModuleList:
		return r.renderModules(v)
	case *types.DependencyReport:
		return r.renderDependencies(v)
	case *types.LinkReport:
		return r.renderLinks(v)
	default:
		_, err := fmt.Fprintf(r.output, "%v\n", result)
		return err
	}
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, style.Render(msg))
	return err
}

func (r *Renderer) renderModules(list *types.ModuleList) error {
	title := style.TitleStyle.Render(fmt.Sprintf("Modules in %s", list.Root))
	if len(list.Modules) == 0 {
		_, err := fmt.Fprintf(r.output, "%s\n%s\n", title, style.MutedStyle.Render("No modules found"))
		return err
	}

	data := pterm.TableData{{"Module", "Path", "Depends"}}
	for _, m := range list.Modules {
		data = append(data, []string{
			style.ModuleStyle.Render(m.Name),
			style.PathStyle.Render(m.Path),
			strings.Join(m.Depends, ", "),
		})
	}
	return r.table(title, data)
}

func (r *Renderer) renderDependencies(report *types.DependencyReport) error {
	external := make(map[string]bool, len(report.External))
	for _, name := range report.External {
		external[name] = true
	}

	var sb strings.Builder
	sb.WriteString(style.TitleStyle.Render(fmt.Sprintf("Dependencies of %s", report.Root)) + "\n")
	if len(report.Depends) == 0 {
		sb.WriteString(style.MutedStyle.Render("No dependencies declared") + "\n")
	}
	for _, dep := range report.Depends {
		line := style.ModuleStyle.Render(dep)
		if external[dep] {
			line += " " + style.MutedStyle.Render("(external)")
		}
		sb.WriteString(style.Indent(line, 1) + "\n")
	}
	_, err := io.WriteString(r.output, sb.String())
	return err
}

func (r *Renderer) renderLinks(report *types.LinkReport) error {
	title := style.TitleStyle.Render(fmt.Sprintf("Links in %s", report.ResultPath))

	data := pterm.TableData{{"Status", "Module", "Source"}}
	for _, res := range report.Results {
		data = append(data, []string{
			style.RenderLinkStatus(res.Status),
			style.ModuleStyle.Render(res.Name),
			style.PathStyle.Render(res.Source),
		})
	}
	return r.table(title, data)
}

func (r *Renderer) table(title string, data pterm.TableData) error {
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(r.output, "%s\n%s\n", title, table)
	return err
}
