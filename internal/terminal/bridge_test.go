package terminal

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/gsconsole/internal/console"
)

// bufferSource serves deltas straight from a console buffer.
type bufferSource struct {
	buf *console.Buffer
}

func (s bufferSource) ConsoleDelta(epoch, seq uint64) console.Delta {
	return s.buf.Delta(epoch, seq)
}

type recordingSurface struct {
	lines   []string
	scrolls int
	resets  int
}

func (s *recordingSurface) WriteLine(text string) { s.lines = append(s.lines, text) }
func (s *recordingSurface) ScrollToBottom()       { s.scrolls++ }
func (s *recordingSurface) Reset() {
	s.resets++
	s.lines = nil
}

// appendOnlySurface cannot be reset.
type appendOnlySurface struct {
	lines []string
}

func (s *appendOnlySurface) WriteLine(text string) { s.lines = append(s.lines, text) }
func (s *appendOnlySurface) ScrollToBottom()       {}

func TestSync_WritesOnlyDelta(t *testing.T) {
	buf := console.NewBuffer(10)
	surface := &recordingSurface{}
	b := NewBridge(surface)
	src := bufferSource{buf}

	buf.Append("a")
	buf.Append("b")
	assert.Equal(t, 2, b.Sync(src))

	buf.Append("c")
	assert.Equal(t, 1, b.Sync(src))
	assert.Equal(t, 0, b.Sync(src), "no change writes nothing")

	assert.Equal(t, []string{"a", "b", "c"}, surface.lines)
}

func TestSync_KeepsWorkingAtCapacity(t *testing.T) {
	buf := console.NewBuffer(3)
	surface := &recordingSurface{}
	b := NewBridge(surface)
	src := bufferSource{buf}

	for i := 0; i < 3; i++ {
		buf.Append(fmt.Sprintf("l%d", i))
	}
	b.Sync(src)

	// The buffer is full; its length stays 3 but new lines still arrive.
	buf.Append("l3")
	buf.Append("l4")
	assert.Equal(t, 2, b.Sync(src))
	assert.Equal(t, []string{"l0", "l1", "l2", "l3", "l4"}, surface.lines)
}

func TestSync_SkipsEvictedLines(t *testing.T) {
	buf := console.NewBuffer(2)
	surface := &recordingSurface{}
	b := NewBridge(surface)
	src := bufferSource{buf}

	b.Sync(src)
	for _, l := range []string{"a", "b", "c", "d"} {
		buf.Append(l)
	}
	b.Sync(src)
	assert.Equal(t, []string{"c", "d"}, surface.lines)
}

func TestSync_HistoryReplacementResetsSurface(t *testing.T) {
	buf := console.NewBuffer(5)
	surface := &recordingSurface{}
	b := NewBridge(surface)
	src := bufferSource{buf}

	buf.Append("old")
	b.Sync(src)

	buf.ReplaceHistory([]string{"h1", "h2"})
	buf.Append("new")
	b.Sync(src)

	assert.Equal(t, 1, surface.resets)
	assert.Equal(t, []string{"h1", "h2", "new"}, surface.lines)

	assert.Equal(t, uint64(1), b.epoch)
	assert.Equal(t, uint64(3), b.next)
}

func TestSync_HistoryOnAppendOnlySurface(t *testing.T) {
	buf := console.NewBuffer(5)
	surface := &appendOnlySurface{}
	b := NewBridge(surface)
	src := bufferSource{buf}

	buf.Append("old")
	b.Sync(src)
	buf.ReplaceHistory([]string{"h1"})
	b.Sync(src)

	assert.Equal(t, []string{"old", "h1"}, surface.lines)
}

func TestAutoscroll(t *testing.T) {
	buf := console.NewBuffer(10)
	surface := &recordingSurface{}
	b := NewBridge(surface)
	src := bufferSource{buf}

	require.True(t, b.AtBottom())
	buf.Append("a")
	b.Sync(src)
	assert.Equal(t, 1, surface.scrolls)

	b.OnScroll(3, 10)
	assert.False(t, b.AtBottom())
	buf.Append("b")
	b.Sync(src)
	assert.Equal(t, 1, surface.scrolls, "scrolled up: no forced scroll")

	b.OnScroll(10, 10)
	buf.Append("c")
	b.Sync(src)
	assert.Equal(t, 2, surface.scrolls)

	b.Sync(src)
	assert.Equal(t, 2, surface.scrolls, "nothing new: no scroll")
}

func runes(s string) []Key {
	keys := make([]Key, 0, len(s))
	for _, r := range s {
		keys = append(keys, Key{Type: KeyRune, Rune: r})
	}
	return keys
}

func TestHandleKey_StopBackspaceArt(t *testing.T) {
	b := NewBridge(&recordingSurface{})

	keys := runes("stop")
	keys = append(keys, Key{Type: KeyBackspace})
	keys = append(keys, runes("art")...)

	for _, k := range keys {
		_, submitted := b.HandleKey(k)
		require.False(t, submitted)
	}
	assert.Equal(t, "star", b.Pending())

	cmd, ok := b.HandleKey(Key{Type: KeyEnter})
	assert.True(t, ok)
	assert.Equal(t, "star", cmd)
	assert.Empty(t, b.Pending())
}

func TestHandleKey(t *testing.T) {
	tests := []struct {
		name        string
		keys        []Key
		wantPending string
	}{
		{
			name:        "backspace on empty is a no-op",
			keys:        []Key{{Type: KeyBackspace}, {Type: KeyRune, Rune: 'a'}},
			wantPending: "a",
		},
		{
			name:        "ctrl and alt modified runes are ignored",
			keys:        []Key{{Type: KeyRune, Rune: 'c', Ctrl: true}, {Type: KeyRune, Rune: 'x', Alt: true}, {Type: KeyRune, Rune: 'y'}},
			wantPending: "y",
		},
		{
			name:        "non-printable runes are ignored",
			keys:        []Key{{Type: KeyRune, Rune: '\x1b'}, {Type: KeyRune, Rune: '\t'}},
			wantPending: "",
		},
		{
			name:        "other keys are ignored",
			keys:        []Key{{Type: KeyOther}, {Type: KeyRune, Rune: 'é'}},
			wantPending: "é",
		},
		{
			name:        "backspace removes a whole rune",
			keys:        []Key{{Type: KeyRune, Rune: 'a'}, {Type: KeyRune, Rune: 'ü'}, {Type: KeyBackspace}},
			wantPending: "a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBridge(&recordingSurface{})
			for _, k := range tt.keys {
				b.HandleKey(k)
			}
			assert.Equal(t, tt.wantPending, b.Pending())
		})
	}
}

func TestHandleKey_EnterOnBlankClears(t *testing.T) {
	b := NewBridge(&recordingSurface{})
	for _, k := range runes("   ") {
		b.HandleKey(k)
	}

	cmd, ok := b.HandleKey(Key{Type: KeyEnter})
	assert.False(t, ok)
	assert.Empty(t, cmd)
	assert.Empty(t, b.Pending())
}

func TestHandleKey_TrimsSubmission(t *testing.T) {
	b := NewBridge(&recordingSurface{})
	for _, k := range runes("  say hi  ") {
		b.HandleKey(k)
	}
	cmd, ok := b.HandleKey(Key{Type: KeyEnter})
	assert.True(t, ok)
	assert.Equal(t, "say hi", cmd)
}

func TestLineWriter(t *testing.T) {
	var out bytes.Buffer
	w := NewLineWriter(&out, "[mc] ")
	b := NewBridge(w)

	buf := console.NewBuffer(4)
	buf.Append("Server started")
	buf.Append("Done (3.2s)!")
	b.Sync(bufferSource{buf})

	assert.Equal(t, "[mc] Server started\n[mc] Done (3.2s)!\n", out.String())
	assert.NoError(t, w.Err())
}

type failingWriter struct{ n int }

func (f *failingWriter) Write(p []byte) (int, error) {
	f.n++
	return 0, errors.New("broken pipe")
}

func TestLineWriter_StopsAfterError(t *testing.T) {
	fw := &failingWriter{}
	w := NewLineWriter(fw, "")
	w.WriteLine("a")
	w.WriteLine("b")

	assert.Error(t, w.Err())
	assert.Equal(t, 1, fw.n)
}
