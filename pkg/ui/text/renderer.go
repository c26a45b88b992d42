// Package text provides plain text output without any styling
package text

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/addonlink/pkg/types"
)

// Renderer provides plain text output without colors or styling
type Renderer struct {
	output io.Writer
}

// New creates a new text renderer
func New(output io.Writer) *Renderer {
	return &Renderer{output: output}
}

// RenderResult renders a result as plain text
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
	_, err := fmt.Fprintln(r.output, msg)
	return err
}

func (r *Renderer) renderModules(list *types.ModuleList) error {
	if len(list.Modules) == 0 {
		return r.RenderMessage("No modules found in " + list.Root)
	}

	var sb strings.Builder
	for _, m := range list.Modules {
		fmt.Fprintf(&sb, "%s %s\n", m.Name, m.Path)
		if len(m.Depends) > 0 {
			fmt.Fprintf(&sb, "  depends: %s\n", strings.Join(m.Depends, ", "))
		}
	}
	_, err := io.WriteString(r.output, sb.String())
	return err
}

func (r *Renderer) renderDependencies(report *types.DependencyReport) error {
	external := make(map[string]bool, len(report.External))
	for _, name := range report.External {
		external[name] = true
	}

	var sb strings.Builder
	for _, dep := range report.Depends {
		if external[dep] {
			fmt.Fprintf(&sb, "%s (external)\n", dep)
			continue
		}
		sb.WriteString(dep + "\n")
	}
	_, err := io.WriteString(r.output, sb.String())
	return err
}

func (r *Renderer) renderLinks(report *types.LinkReport) error {
	var sb strings.Builder
	for _, res := range report.Results {
		fmt.Fprintf(&sb, "%-12s %s -> %s\n", res.Status, res.Name, res.Target)
	}
	_, err := io.WriteString(r.output, sb.String())
	return err
}
