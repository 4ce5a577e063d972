package terminal

import (
	"fmt"
	"io"
	"sync"
)

// LineWriter is a Surface that prints each console line to an io.Writer.
// Scrolling is a no-op; the writer is always at the bottom.
type LineWriter struct {
	mu     sync.Mutex
	w      io.Writer
	prefix string
	err    error
}

// NewLineWriter creates a surface that writes to w, prefixing each line.
func NewLineWriter(w io.Writer, prefix string) *LineWriter {
	return &LineWriter{w: w, prefix: prefix}
}

// WriteLine implements Surface. The first write error is kept and later
// writes are skipped.
func (l *LineWriter) WriteLine(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return
	}
	_, l.err = fmt.Fprintf(l.w, "%s%s\n", l.prefix, text)
}

// ScrollToBottom implements Surface.
func (l *LineWriter) ScrollToBottom() {}

// Err returns the first write error, if any.
func (l *LineWriter) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}
