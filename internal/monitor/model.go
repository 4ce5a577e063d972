package monitor

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/rileyhilliard/gsconsole/internal/console"
	"github.com/rileyhilliard/gsconsole/internal/power"
	"github.com/rileyhilliard/gsconsole/internal/session"
	"github.com/rileyhilliard/gsconsole/internal/terminal"
)

// Controller is the slice of a session the dashboard drives.
// *session.Session satisfies it.
type Controller interface {
	terminal.Source
	Snapshot() session.Snapshot
	SendCommand(command string)
	SendPowerAction(action power.Action)
	Reconnect()
	Updates() <-chan struct{}
}

// Layout constants
const (
	headerHeight = 1
	statsHeight  = 3
	// blank line, panel border top+bottom, input line, footer
	chromeHeight = 5
	minViewport  = 3
	graphHeight  = 2
)

// tickInterval drives the connecting spinner.
const tickInterval = 250 * time.Millisecond

const confirmKey = "kill"

// Model is the Bubble Tea model for a single server's console dashboard.
type Model struct {
	ctrl Controller
	name string

	keys KeyMap
	help help.Model

	surface *consoleSurface
	bridge  *terminal.Bridge
	snap    session.Snapshot

	confirm *huh.Form

	width    int
	height   int
	ready    bool
	frame    int
	lastSent string
	quitting bool
}

// updateMsg signals that the session state changed.
type updateMsg struct{}

// sessionClosedMsg signals that the session loop has exited.
type sessionClosedMsg struct{}

// tickMsg advances animations.
type tickMsg time.Time

// NewModel creates a dashboard for ctrl. name labels the server in the
// header; capacity bounds the lines kept on screen.
func NewModel(ctrl Controller, name string, capacity int) Model {
	if capacity <= 0 {
		capacity = console.DefaultCapacity
	}
	surface := newConsoleSurface(capacity)
	m := Model{
		ctrl:    ctrl,
		name:    name,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		surface: surface,
		bridge:  terminal.NewBridge(surface),
	}
	m.refresh()
	return m
}

// Init starts listening for session updates.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForUpdate(m.ctrl.Updates()), tickCmd())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.layout()
		m.ready = true
		return m, nil

	case updateMsg:
		m.refresh()
		return m, waitForUpdate(m.ctrl.Updates())

	case sessionClosedMsg:
		m.quitting = true
		return m, tea.Quit

	case tickMsg:
		m.frame++
		return m, tickCmd()
	}

	if m.confirm != nil {
		return m, m.updateConfirm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tea.MouseMsg:
		return m, m.scroll(msg)
	}
	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return fmt.Sprintf("Connecting to %s...", m.name)
	}
	if m.confirm != nil {
		return m.renderConfirmOverlay()
	}
	return m.renderDashboard()
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return tea.Quit
	case key.Matches(msg, m.keys.Start):
		m.ctrl.SendPowerAction(power.ActionStart)
		return nil
	case key.Matches(msg, m.keys.Stop):
		m.ctrl.SendPowerAction(power.ActionStop)
		return nil
	case key.Matches(msg, m.keys.Restart):
		m.ctrl.SendPowerAction(power.ActionRestart)
		return nil
	case key.Matches(msg, m.keys.Kill):
		return m.openKillConfirm()
	case key.Matches(msg, m.keys.Reconnect):
		m.ctrl.Reconnect()
		return nil
	case key.Matches(msg, m.keys.PageUp, m.keys.PageDown):
		return m.scroll(msg)
	case key.Matches(msg, m.keys.Bottom):
		m.surface.viewport.GotoBottom()
		m.bridge.OnScroll(m.surface.scrollPosition())
		return nil
	}

	for _, k := range terminalKeys(msg) {
		if cmd, ok := m.bridge.HandleKey(k); ok {
			m.ctrl.SendCommand(cmd)
			m.lastSent = cmd
		}
	}
	return nil
}

// scroll forwards a scroll gesture to the viewport and samples the
// resulting position for autoscroll.
func (m *Model) scroll(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.surface.viewport, cmd = m.surface.viewport.Update(msg)
	m.bridge.OnScroll(m.surface.scrollPosition())
	return cmd
}

func (m *Model) openKillConfirm() tea.Cmd {
	m.confirm = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key(confirmKey).
				Title(fmt.Sprintf("Kill %s?", m.name)).
				Description("The process is terminated immediately. Unsaved data is lost.").
				Affirmative("Kill").
				Negative("Cancel"),
		),
	).WithShowHelp(false)
	return m.confirm.Init()
}

func (m *Model) updateConfirm(msg tea.Msg) tea.Cmd {
	if k, ok := msg.(tea.KeyMsg); ok && (k.Type == tea.KeyEsc || k.Type == tea.KeyCtrlC) {
		m.confirm = nil
		return nil
	}

	form, cmd := m.confirm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.confirm = f
	}

	switch m.confirm.State {
	case huh.StateCompleted:
		confirmed := m.confirm.GetBool(confirmKey)
		m.confirm = nil
		m.resolveKill(confirmed)
		return nil
	case huh.StateAborted:
		m.confirm = nil
		return nil
	}
	return cmd
}

// resolveKill sends the kill intent once the user has confirmed it, provided
// kill is still allowed; the state may have changed while the prompt was up.
func (m *Model) resolveKill(confirmed bool) {
	if !confirmed || !m.keys.Kill.Enabled() {
		return
	}
	m.ctrl.SendPowerAction(power.ActionKill)
}

// refresh pulls the latest session state and writes new console lines.
func (m *Model) refresh() {
	m.snap = m.ctrl.Snapshot()
	m.bridge.Sync(m.ctrl)
	m.surface.flush()

	if m.snap.Status == session.StatusConnected {
		m.keys.applyAffordances(m.snap.Power)
		return
	}
	for _, a := range power.Actions {
		m.keys.binding(a).SetEnabled(false)
	}
}

func (m *Model) layout() {
	h := m.height - headerHeight - statsHeight - chromeHeight
	if h < minViewport {
		h = minViewport
	}
	w := m.width - 4
	if w < 1 {
		w = 1
	}
	m.surface.resize(w, h)
	if m.bridge.AtBottom() {
		m.surface.ScrollToBottom()
	}
	m.surface.flush()
}

// Pending returns the locally echoed, unsubmitted command line.
func (m Model) Pending() string {
	return m.bridge.Pending()
}

// Confirming reports whether the kill confirmation is open.
func (m Model) Confirming() bool {
	return m.confirm != nil
}

// LastSent returns the last submitted command.
func (m Model) LastSent() string {
	return m.lastSent
}

// terminalKeys converts a Bubble Tea key event into raw bridge keystrokes.
func terminalKeys(msg tea.KeyMsg) []terminal.Key {
	switch msg.Type {
	case tea.KeyEnter:
		return []terminal.Key{{Type: terminal.KeyEnter, Alt: msg.Alt}}
	case tea.KeyBackspace:
		return []terminal.Key{{Type: terminal.KeyBackspace, Alt: msg.Alt}}
	case tea.KeySpace:
		return []terminal.Key{{Type: terminal.KeyRune, Rune: ' ', Alt: msg.Alt}}
	case tea.KeyRunes:
		keys := make([]terminal.Key, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			keys = append(keys, terminal.Key{Type: terminal.KeyRune, Rune: r, Alt: msg.Alt})
		}
		return keys
	default:
		// Remaining key types are control sequences: Ctrl chords, arrows,
		// function keys.
		return []terminal.Key{{Type: terminal.KeyOther, Ctrl: true, Alt: msg.Alt}}
	}
}

func waitForUpdate(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return sessionClosedMsg{}
		}
		return updateMsg{}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
