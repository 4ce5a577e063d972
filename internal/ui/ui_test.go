package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"

	"github.com/rileyhilliard/gsconsole/internal/power"
	"github.com/rileyhilliard/gsconsole/internal/session"
)

func init() {
	// Plain output keeps rendered strings comparable.
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestRenderSparkline(t *testing.T) {
	tests := []struct {
		name  string
		data  []float64
		width int
		want  string
	}{
		{name: "empty", data: nil, width: 10, want: ""},
		{name: "zero width", data: []float64{50}, width: 0, want: ""},
		{name: "bounds", data: []float64{0, 100}, width: 10, want: "▁█"},
		{name: "keeps last width points", data: []float64{100, 100, 0, 0}, width: 2, want: "▁▁"},
		{name: "clamps out of range", data: []float64{-20, 250}, width: 4, want: "▁█"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RenderSparkline(tt.data, tt.width))
		})
	}
}

func TestThresholdColor(t *testing.T) {
	assert.Equal(t, ColorSuccess, ThresholdColor(10))
	assert.Equal(t, ColorWarning, ThresholdColor(60))
	assert.Equal(t, ColorError, ThresholdColor(95))
}

func TestConnectionBadge(t *testing.T) {
	assert.Equal(t, SymbolComplete+" connected", ConnectionBadge(session.StatusConnected))
	assert.Equal(t, SymbolProgress+" connecting", ConnectionBadge(session.StatusConnecting))
	assert.Equal(t, SymbolFail+" error", ConnectionBadge(session.StatusError))
	assert.Equal(t, SymbolPending+" disconnected", ConnectionBadge(session.StatusDisconnected))
}

func TestPowerBadge(t *testing.T) {
	assert.Equal(t, SymbolComplete+" running", PowerBadge(power.Running))
	assert.Equal(t, SymbolProgress+" starting", PowerBadge(power.Starting))
	assert.Equal(t, SymbolProgress+" stopping", PowerBadge(power.Stopping))
	assert.Equal(t, SymbolPending+" offline", PowerBadge(power.Offline))
}

func TestActionLabel(t *testing.T) {
	assert.Contains(t, ActionLabel("F1 start", true), "F1 start")
	assert.Contains(t, ActionLabel("F1 start", false), "F1 start")
}

func TestDisableColors(t *testing.T) {
	assert.NotPanics(t, DisableColors)
	assert.Equal(t, "ok", SuccessStyle().Render("ok"))
}
