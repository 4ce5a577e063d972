package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/gsconsole/internal/power"
	"github.com/rileyhilliard/gsconsole/internal/session"
)

// ConnectionBadge renders the connection status indicator.
func ConnectionBadge(s session.Status) string {
	var sym string
	var style lipgloss.Style
	switch s {
	case session.StatusConnected:
		sym, style = SymbolComplete, SuccessStyle()
	case session.StatusConnecting:
		sym, style = SymbolProgress, WarningStyle()
	case session.StatusError:
		sym, style = SymbolFail, ErrorStyle()
	default:
		sym, style = SymbolPending, MutedStyle()
	}
	return style.Render(sym + " " + s.String())
}

// PowerBadge renders the server power state indicator.
func PowerBadge(s power.State) string {
	var sym string
	var style lipgloss.Style
	switch s {
	case power.Running:
		sym, style = SymbolComplete, SuccessStyle()
	case power.Starting, power.Stopping:
		sym, style = SymbolProgress, WarningStyle()
	default:
		sym, style = SymbolPending, ErrorStyle()
	}
	return style.Render(sym + " " + s.String())
}

// ActionLabel renders a power control label, muted and struck through when
// the action is unavailable.
func ActionLabel(label string, enabled bool) string {
	if enabled {
		return lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true).Render(label)
	}
	return MutedStyle().Strikethrough(true).Render(label)
}
