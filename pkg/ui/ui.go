// Package ui renders command results as rich terminal output, plain text,
// JSON or YAML.
package ui

import (
	"fmt"
	"io"

	"github.com/arthur-debert/addonlink/pkg/ui/json"
	"github.com/arthur-debert/addonlink/pkg/ui/terminal"
	"github.com/arthur-debert/addonlink/pkg/ui/text"
	"github.com/arthur-debert/addonlink/pkg/ui/yaml"
)

// Renderer is the common interface for all output renderers
type Renderer interface {
	// RenderResult renders a result (*types.ModuleList, *types.DependencyReport
	// or *types.LinkReport)
	RenderResult(result interface{}) error

	// RenderMessage renders a simple message
	RenderMessage(msg string) error
}

// NewRenderer creates a renderer for format. FormatAuto is resolved against
// the capabilities of output.
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	switch format {
	case FormatAuto:
		return NewRenderer(DetectFormat(output), output)
	case FormatTerminal:
		return terminal.New(output), nil
	case FormatText:
		return text.New(output), nil
	case FormatJSON:
		return json.New(output), nil
	case FormatYAML:
		return yaml.New(output), nil
	default:
		return nil, fmt.Errorf("unknown format: %v", format)
	}
}
