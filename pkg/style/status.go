package style

import (
	"github.com/arthur-debert/addonlink/pkg/types"
	"github.com/pterm/pterm"
)

// LinkStatusStyle returns the pterm style for a link status
func LinkStatusStyle(status types.LinkStatus) *pterm.Style {
	switch status {
	case types.LinkCreated:
		return pterm.NewStyle(pterm.FgGreen, pterm.Bold)
	case types.LinkPlanned:
		return pterm.NewStyle(pterm.FgYellow)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

// RenderLinkStatus renders status as a styled label
func RenderLinkStatus(status types.LinkStatus) string {
	return LinkStatusStyle(status).Sprint(string(status))
}
