package monitor

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/rileyhilliard/gsconsole/internal/power"
)

// KeyMap holds the dashboard's control keys. Printable keys are reserved for
// the command line, so controls live on function and navigation keys.
type KeyMap struct {
	Start     key.Binding
	Stop      key.Binding
	Restart   key.Binding
	Kill      key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Bottom    key.Binding
	Reconnect key.Binding
	Quit      key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Start:     key.NewBinding(key.WithKeys("f1"), key.WithHelp("F1", "start")),
		Stop:      key.NewBinding(key.WithKeys("f2"), key.WithHelp("F2", "stop")),
		Restart:   key.NewBinding(key.WithKeys("f3"), key.WithHelp("F3", "restart")),
		Kill:      key.NewBinding(key.WithKeys("f4"), key.WithHelp("F4", "kill")),
		PageUp:    key.NewBinding(key.WithKeys("pgup"), key.WithHelp("PgUp", "scroll up")),
		PageDown:  key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("PgDn", "scroll down")),
		Bottom:    key.NewBinding(key.WithKeys("end"), key.WithHelp("End", "follow")),
		Reconnect: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("Ctrl+R", "reconnect")),
		Quit:      key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("Ctrl+C", "quit")),
	}
}

// ShortHelp implements help.KeyMap. Disabled bindings are hidden by the
// help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Stop, k.Restart, k.Kill, k.PageUp, k.PageDown, k.Reconnect, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Stop, k.Restart, k.Kill},
		{k.PageUp, k.PageDown, k.Bottom, k.Reconnect, k.Quit},
	}
}

// binding returns the key for a power action.
func (k *KeyMap) binding(a power.Action) *key.Binding {
	switch a {
	case power.ActionStart:
		return &k.Start
	case power.ActionStop:
		return &k.Stop
	case power.ActionRestart:
		return &k.Restart
	default:
		return &k.Kill
	}
}

// applyAffordances enables exactly the power keys allowed in state s.
// Disabled bindings never match, so pressing them does nothing.
func (k *KeyMap) applyAffordances(s power.State) {
	for a, enabled := range power.Affordances(s) {
		k.binding(a).SetEnabled(enabled)
	}
}
