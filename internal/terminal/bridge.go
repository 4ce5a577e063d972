// Package terminal connects a session's console buffer to an append-only
// terminal surface and turns raw keystrokes into command submissions.
package terminal

import (
	"strings"
	"unicode"

	"github.com/rileyhilliard/gsconsole/internal/console"
)

// Surface is an append-only terminal that console lines are written to.
type Surface interface {
	WriteLine(text string)
	ScrollToBottom()
}

// Resetter is implemented by surfaces that can be cleared. The bridge uses
// it when the console history is replaced wholesale.
type Resetter interface {
	Reset()
}

// Source reports the console lines a reader positioned at (epoch, seq) has
// not seen. *session.Session satisfies it.
type Source interface {
	ConsoleDelta(epoch, seq uint64) console.Delta
}

// Bridge tracks what has been written to the surface, whether the viewer is
// pinned to the bottom, and the locally echoed input line.
//
// A Bridge is not safe for concurrent use. Drive it from the goroutine that
// owns the surface.
type Bridge struct {
	surface Surface

	epoch    uint64
	next     uint64
	atBottom bool

	pending []rune
}

// NewBridge creates a bridge writing to surface. The viewer starts at the
// bottom.
func NewBridge(surface Surface) *Bridge {
	return &Bridge{surface: surface, atBottom: true}
}

// Sync writes the lines src holds beyond the cursor and advances it.
// Lines already written are never written again, except once after a
// history replacement when the surface can be reset. Returns the number of
// lines written.
func (b *Bridge) Sync(src Source) int {
	d := src.ConsoleDelta(b.epoch, b.next)
	if d.Reset {
		if r, ok := b.surface.(Resetter); ok {
			r.Reset()
		}
	}
	b.epoch, b.next = d.Epoch, d.Next

	for _, line := range d.Lines {
		b.surface.WriteLine(line)
	}
	if len(d.Lines) > 0 && b.atBottom {
		b.surface.ScrollToBottom()
	}
	return len(d.Lines)
}

// OnScroll records a scroll notification from the surface. The viewer is at
// the bottom when offset has reached max. The value is sampled here and
// nowhere else.
func (b *Bridge) OnScroll(offset, max int) {
	b.atBottom = offset >= max
}

// AtBottom reports whether new lines will pull the viewer to the bottom.
func (b *Bridge) AtBottom() bool {
	return b.atBottom
}

// KeyType classifies a keystroke.
type KeyType int

const (
	KeyOther KeyType = iota
	KeyRune
	KeyEnter
	KeyBackspace
)

// Key is one raw keystroke with its modifier flags.
type Key struct {
	Type KeyType
	Rune rune
	Ctrl bool
	Alt  bool
}

// HandleKey applies a keystroke to the pending input. It returns the command
// to submit and true when Enter completes a non-empty line.
func (b *Bridge) HandleKey(k Key) (string, bool) {
	switch k.Type {
	case KeyEnter:
		cmd := strings.TrimSpace(string(b.pending))
		b.pending = b.pending[:0]
		if cmd == "" {
			return "", false
		}
		return cmd, true
	case KeyBackspace:
		if n := len(b.pending); n > 0 {
			b.pending = b.pending[:n-1]
		}
	case KeyRune:
		if k.Ctrl || k.Alt || !unicode.IsPrint(k.Rune) {
			return "", false
		}
		b.pending = append(b.pending, k.Rune)
	}
	return "", false
}

// Pending returns the locally echoed input that has not been submitted.
func (b *Bridge) Pending() string {
	return string(b.pending)
}
