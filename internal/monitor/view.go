package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/gsconsole/internal/session"
	"github.com/rileyhilliard/gsconsole/internal/stats"
	"github.com/rileyhilliard/gsconsole/internal/ui"
)

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderStats())
	b.WriteString("\n\n")
	b.WriteString(PanelStyle.Render(m.surface.viewport.View()))
	b.WriteString("\n")
	b.WriteString(m.renderInput())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderHeader renders the title line with connection and power badges.
func (m Model) renderHeader() string {
	title := TitleStyle.Render("gsconsole")
	name := LabelStyle.Render(" | " + m.name + " | ")

	conn := ui.ConnectionBadge(m.snap.Status)
	if m.snap.Status == session.StatusConnecting {
		spinner := ConnectingSpinnerFrames[m.frame%len(ConnectingSpinnerFrames)]
		conn = lipgloss.NewStyle().Foreground(ColorWarning).Render(spinner + " " + m.snap.Status.String())
	}

	sep := LabelStyle.Render(" | ")
	return HeaderStyle.Render(title + name + conn + sep + ui.PowerBadge(m.snap.Power) + sep + m.renderControls())
}

// renderControls lists the power keys, striking out the ones the current
// state doesn't allow.
func (m Model) renderControls() string {
	bindings := []key.Binding{m.keys.Start, m.keys.Stop, m.keys.Restart, m.keys.Kill}
	labels := make([]string, len(bindings))
	for i, b := range bindings {
		labels[i] = ui.ActionLabel(b.Help().Key+" "+b.Help().Desc, b.Enabled())
	}
	return strings.Join(labels, " ")
}

// renderStats renders the CPU and memory graphs and the resource readouts.
func (m Model) renderStats() string {
	if !m.snap.HasStats {
		return LabelStyle.Render("waiting for stats...") + strings.Repeat("\n", statsHeight-1)
	}

	s := m.snap.Stats
	gw := m.graphWidth()

	cpu := m.renderGraphBlock("CPU", s.CPUPercent, stats.CPUSeries(m.snap.Window), gw)
	mem := m.renderGraphBlock("MEM", s.MemoryPercent(), stats.MemorySeries(m.snap.Window), gw)

	info := strings.Join([]string{
		fmt.Sprintf("%s %s", LabelStyle.Render("MEM "), usageReadout(s.MemoryBytes, s.MemoryLimitBytes)),
		fmt.Sprintf("%s %s", LabelStyle.Render("DISK"), usageReadout(s.DiskBytes, s.DiskLimitBytes)),
		fmt.Sprintf("%s %s %s", LabelStyle.Render("NET "),
			ValueStyle.Render("↓ "+ui.FormatBytes(s.NetworkRxBytes)),
			ValueStyle.Render("↑ "+ui.FormatBytes(s.NetworkTxBytes))),
	}, "\n")
	uptime := LabelStyle.Render("UP ") + ValueStyle.Render(ui.FormatUptime(s.Uptime))

	return lipgloss.JoinHorizontal(lipgloss.Top, cpu, "  ", mem, "  ", info, "  ", uptime)
}

// usageBarWidth is the width of the MEM and DISK bars.
const usageBarWidth = 10

// usageReadout renders "used / limit" behind a fill bar. Without a limit
// there is nothing to fill, so only the usage is shown.
func usageReadout(used, limit uint64) string {
	text := ValueStyle.Render(ui.FormatUsage(used, limit))
	if limit == 0 {
		return text
	}
	pct := float64(used) / float64(limit) * 100
	return RenderGradientBar(usageBarWidth, pct) + " " + text
}

func (m Model) renderGraphBlock(label string, current float64, series []float64, width int) string {
	head := fmt.Sprintf("%s %s", LabelStyle.Render(label), MetricStyle(current).Render(fmt.Sprintf("%5.1f%%", current)))
	return lipgloss.JoinVertical(lipgloss.Left, head, RenderBrailleGraph(series, width, graphHeight))
}

// graphWidth sizes the graphs so a full window of 1s samples fits when the
// terminal allows it.
func (m Model) graphWidth() int {
	w := (m.width - 60) / 2
	if w > 30 {
		w = 30
	}
	if w < 8 {
		w = 8
	}
	return w
}

// renderInput renders the locally echoed command line.
func (m Model) renderInput() string {
	line := PromptStyle.Render("> ") + InputStyle.Render(m.bridge.Pending()+"█")
	if !m.bridge.AtBottom() {
		line += "  " + HintStyle.Render("scrolled back, End to follow")
	}
	return line
}

// renderFooter renders the key hints. Unavailable power controls are hidden.
func (m Model) renderFooter() string {
	return FooterStyle.Render(m.help.View(m.keys))
}

// renderConfirmOverlay centers the kill confirmation over the screen.
func (m Model) renderConfirmOverlay() string {
	box := ConfirmStyle.Render(m.confirm.View())
	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(ColorDarkBg),
	)
}
