package monitor

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"

	"github.com/rileyhilliard/gsconsole/internal/console"
)

// consoleSurface is the dashboard's terminal surface: a scrollable viewport
// over its own bounded copy of the written lines.
type consoleSurface struct {
	viewport viewport.Model
	lines    *console.Buffer
	capacity int

	dirty  bool
	bottom bool
}

func newConsoleSurface(capacity int) *consoleSurface {
	return &consoleSurface{
		viewport: viewport.New(0, 0),
		lines:    console.NewBuffer(capacity),
		capacity: capacity,
	}
}

// WriteLine implements terminal.Surface.
func (s *consoleSurface) WriteLine(text string) {
	s.lines.Append(text)
	s.dirty = true
}

// ScrollToBottom implements terminal.Surface. It takes effect on flush.
func (s *consoleSurface) ScrollToBottom() {
	s.bottom = true
}

// Reset implements terminal.Resetter.
func (s *consoleSurface) Reset() {
	s.lines = console.NewBuffer(s.capacity)
	s.dirty = true
}

// flush pushes written lines into the viewport.
func (s *consoleSurface) flush() {
	if s.dirty {
		s.viewport.SetContent(strings.Join(s.lines.Lines(), "\n"))
		s.dirty = false
	}
	if s.bottom {
		s.viewport.GotoBottom()
		s.bottom = false
	}
}

func (s *consoleSurface) resize(width, height int) {
	s.viewport.Width = width
	s.viewport.Height = height
	s.dirty = true
}

// scrollPosition reports the viewport offset and the largest offset it can
// reach.
func (s *consoleSurface) scrollPosition() (offset, max int) {
	max = s.viewport.TotalLineCount() - s.viewport.Height
	if max < 0 {
		max = 0
	}
	return s.viewport.YOffset, max
}
