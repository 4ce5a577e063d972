package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rileyhilliard/gsconsole/internal/transport"
)

var errFakeClosed = errors.New("fake connection closed")

// fakeConn is an in-memory transport.Conn. Tests push inbound frames with
// send and observe outbound frames on writes.
type fakeConn struct {
	in        chan []byte
	writes    chan []byte
	closed    chan struct{}
	closeOnce sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		in:     make(chan []byte, 16),
		writes: make(chan []byte, 64),
		closed: make(chan struct{}),
	}
}

func (c *fakeConn) ReadMessage() ([]byte, error) {
	select {
	case data := <-c.in:
		return data, nil
	case <-c.closed:
		return nil, errFakeClosed
	}
}

func (c *fakeConn) WriteMessage(data []byte) error {
	select {
	case <-c.closed:
		return errFakeClosed
	default:
	}
	c.writes <- data
	return nil
}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) send(frame string) {
	c.in <- []byte(frame)
}

func (c *fakeConn) isClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

type dialResult struct {
	conn *fakeConn
	err  error
}

// fakeDialer hands out scripted results in order.
type fakeDialer struct {
	results chan dialResult
	dials   atomic.Int32
}

func newFakeDialer() *fakeDialer {
	return &fakeDialer{results: make(chan dialResult, 32)}
}

func (d *fakeDialer) Dial(ctx context.Context, url string) (transport.Conn, error) {
	d.dials.Add(1)
	select {
	case r := <-d.results:
		if r.err != nil {
			return nil, r.err
		}
		return r.conn, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (d *fakeDialer) succeed() *fakeConn {
	c := newFakeConn()
	d.results <- dialResult{conn: c}
	return c
}

func (d *fakeDialer) fail(err error) {
	d.results <- dialResult{err: err}
}

type manualTimer struct {
	delay   time.Duration
	f       func()
	stopped atomic.Bool
}

func (t *manualTimer) Stop() bool {
	return !t.stopped.Swap(true)
}

// manualScheduler records timers instead of running them; tests fire them.
type manualScheduler struct {
	mu     sync.Mutex
	timers []*manualTimer
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{delay: d, f: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *manualScheduler) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

func (s *manualScheduler) delays() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]time.Duration, len(s.timers))
	for i, t := range s.timers {
		out[i] = t.delay
	}
	return out
}

func (s *manualScheduler) timer(i int) *manualTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timers[i]
}

// fire runs timer i unless it was stopped.
func (s *manualScheduler) fire(t *testing.T, i int) {
	t.Helper()
	tm := s.timer(i)
	if tm.stopped.Load() {
		return
	}
	tm.f()
}

// gatedDialer holds every dial until release is called and ignores ctx,
// like a handshake that completes just as the session is torn down.
type gatedDialer struct {
	started chan struct{}
	gate    chan struct{}
	mu      sync.Mutex
	conns   []*fakeConn
}

func newGatedDialer() *gatedDialer {
	return &gatedDialer{started: make(chan struct{}, 8), gate: make(chan struct{})}
}

func (d *gatedDialer) Dial(ctx context.Context, url string) (transport.Conn, error) {
	d.started <- struct{}{}
	<-d.gate
	c := newFakeConn()
	d.mu.Lock()
	d.conns = append(d.conns, c)
	d.mu.Unlock()
	return c, nil
}

func (d *gatedDialer) release() {
	close(d.gate)
}

func (d *gatedDialer) allClosed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.conns) == 0 {
		return false
	}
	for _, c := range d.conns {
		if !c.isClosed() {
			return false
		}
	}
	return true
}
