// Package session owns one live connection to a game server's console
// socket: the connect/reconnect state machine, the authentication and
// subscription handshake, and the console, stats and power state fed by it.
//
// Each Session runs a single event loop goroutine (Run). Transport reads,
// timer callbacks and caller sends are all posted to that loop, so session
// state is only ever mutated from one goroutine. Readers take snapshots.
//
// Sessions are independent: every Session owns its connection, buffers and
// timers, and any number may run side by side.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/rileyhilliard/gsconsole/internal/console"
	"github.com/rileyhilliard/gsconsole/internal/logger"
	"github.com/rileyhilliard/gsconsole/internal/power"
	"github.com/rileyhilliard/gsconsole/internal/protocol"
	"github.com/rileyhilliard/gsconsole/internal/stats"
	"github.com/rileyhilliard/gsconsole/internal/transport"
)

// Reconnect backoff defaults.
const (
	DefaultBackoffBase = 1 * time.Second
	DefaultBackoffMax  = 30 * time.Second
)

// ErrAlreadyRunning is returned when Run is called twice on one session.
var ErrAlreadyRunning = errors.New("session is already running")

// Options configures a Session.
type Options struct {
	// URL is the fully built socket URL for the target server.
	URL string
	// ServerID identifies the target server; sent in the auth frame.
	ServerID string
	// Name is a display name used in log prefixes. Defaults to ServerID.
	Name string

	Tokens TokenSource
	Dialer transport.Dialer

	ConsoleCapacity int
	StatsWindow     time.Duration
	BackoffBase     time.Duration
	BackoffMax      time.Duration

	Logger    logger.Logger
	Scheduler Scheduler
	Now       func() time.Time
}

// Snapshot is a copy of the state exposed to the UI.
type Snapshot struct {
	ID       string
	ServerID string
	Status   Status
	Power    power.State
	Stats    stats.Sample
	HasStats bool
	Window   []stats.Point
	// ConsoleLines is the number of retained console lines.
	ConsoleLines int
}

// Session is one server's live telemetry and console connection.
type Session struct {
	id   string
	opts Options
	log  logger.Logger

	events   chan interface{}
	updates  chan struct{}
	quit     chan struct{}
	stopping chan struct{}
	done     chan struct{}

	// postMu orders posts against loop exit: once stopped is set no event
	// can enter the channel, so the final drain sees every queued event.
	postMu  sync.RWMutex
	stopped bool

	started   atomic.Bool
	closeOnce sync.Once

	// mu guards the fields below; they are written only by the loop.
	mu      sync.RWMutex
	status  Status
	console *console.Buffer
	stats   *stats.Aggregator
	power   power.Tracker

	// Loop-owned.
	ctx   context.Context
	conn  transport.Conn
	gen   uint64
	retry int
	timer Timer
}

// Loop events. gen ties transport and timer events to the connection attempt
// that produced them; stale ones are dropped.
type (
	dialedEvent struct {
		gen  uint64
		conn transport.Conn
		err  error
	}
	frameEvent struct {
		gen  uint64
		data []byte
	}
	closedEvent struct {
		gen uint64
		err error
	}
	retryEvent struct {
		gen uint64
	}
	sendEvent struct {
		what  string
		frame []byte
	}
	reconnectEvent struct{}
)

// New creates a session. It does not connect until Run is called.
func New(opts Options) (*Session, error) {
	if opts.URL == "" {
		return nil, fmt.Errorf("session: URL is required")
	}
	if opts.Dialer == nil {
		return nil, fmt.Errorf("session: Dialer is required")
	}
	if opts.Tokens == nil {
		return nil, fmt.Errorf("session: Tokens is required")
	}
	if opts.BackoffBase <= 0 {
		opts.BackoffBase = DefaultBackoffBase
	}
	if opts.BackoffMax <= 0 {
		opts.BackoffMax = DefaultBackoffMax
	}
	if opts.BackoffMax < opts.BackoffBase {
		opts.BackoffMax = opts.BackoffBase
	}
	if opts.Scheduler == nil {
		opts.Scheduler = realScheduler{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Name == "" {
		opts.Name = opts.ServerID
	}

	id := uuid.NewString()
	log := opts.Logger
	if log == nil {
		log = logger.NewEnvLogger(fmt.Sprintf("[session %s/%s]", opts.Name, id[:8]))
	}

	return &Session{
		id:       id,
		opts:     opts,
		log:      log,
		events:   make(chan interface{}, 64),
		updates:  make(chan struct{}, 1),
		quit:     make(chan struct{}),
		stopping: make(chan struct{}),
		done:     make(chan struct{}),
		status:   StatusDisconnected,
		console:  console.NewBuffer(opts.ConsoleCapacity),
		stats:    stats.NewAggregator(opts.StatsWindow, opts.Now),
	}, nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// Run connects and processes events until ctx is cancelled or Close is
// called. It reconnects forever with capped exponential backoff.
func (s *Session) Run(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer close(s.done)
	defer close(s.updates)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.ctx = ctx

	select {
	case <-s.quit:
		return nil
	default:
	}

	s.connect()

	for {
		select {
		case <-ctx.Done():
			s.shutdown()
			return ctx.Err()
		case <-s.quit:
			s.shutdown()
			return nil
		case ev := <-s.events:
			s.handle(ev)
		}
	}
}

// Close tears the session down: sends queued before Close are written, then
// the live transport is closed and any pending reconnect is cancelled. No
// reconnect happens afterwards. Close blocks until the loop has exited if Run
// was started, and is safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() { close(s.quit) })
	if s.started.Load() {
		<-s.done
	}
}

// Done is closed once Run has returned.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Updates signals that state changed. Signals coalesce; receivers should
// re-read Snapshot and ConsoleDelta. The channel closes when Run returns.
func (s *Session) Updates() <-chan struct{} {
	return s.updates
}

// SendCommand sends a console command. Best effort: when no transport is
// open the command is dropped without error.
func (s *Session) SendCommand(command string) {
	s.post(sendEvent{what: "command", frame: protocol.SendCommand(command)})
}

// SendPowerAction sends a power intent. Best effort, like SendCommand.
// Confirmation for destructive actions is the caller's job.
func (s *Session) SendPowerAction(action power.Action) {
	s.post(sendEvent{what: "power " + string(action), frame: protocol.SendPowerAction(action)})
}

// Reconnect drops the current transport (if any), resets the backoff, and
// dials immediately. Useful after the session has gone into the error state.
func (s *Session) Reconnect() {
	s.post(reconnectEvent{})
}

// Snapshot returns a copy of the UI-visible state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sample, ok := s.stats.Latest()
	return Snapshot{
		ID:           s.id,
		ServerID:     s.opts.ServerID,
		Status:       s.status,
		Power:        s.power.State(),
		Stats:        sample,
		HasStats:     ok,
		Window:       s.stats.Points(),
		ConsoleLines: s.console.Len(),
	}
}

// Status returns the current connection status.
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Console returns a copy of the retained console lines.
func (s *Session) Console() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.console.Lines()
}

// ConsoleDelta returns the console lines a reader at (epoch, seq) has not seen.
func (s *Session) ConsoleDelta(epoch, seq uint64) console.Delta {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.console.Delta(epoch, seq)
}

// post hands an event to the loop. It returns false if the loop is exiting,
// in which case the caller still owns anything the event carries.
func (s *Session) post(ev interface{}) bool {
	s.postMu.RLock()
	defer s.postMu.RUnlock()
	if s.stopped {
		return false
	}
	select {
	case <-s.quit:
		return false
	case <-s.stopping:
		return false
	default:
	}
	select {
	case s.events <- ev:
		return true
	case <-s.stopping:
		return false
	case <-s.quit:
		return false
	}
}

func (s *Session) handle(ev interface{}) {
	switch ev := ev.(type) {
	case dialedEvent:
		s.onDialed(ev)
	case frameEvent:
		if ev.gen == s.gen && s.conn != nil {
			s.onFrame(ev.data)
		}
	case closedEvent:
		if ev.gen == s.gen && s.conn != nil {
			s.onClosed(ev.err)
		}
	case retryEvent:
		if ev.gen == s.gen {
			s.timer = nil
			s.connect()
		}
	case sendEvent:
		s.onSend(ev)
	case reconnectEvent:
		s.stopTimer()
		s.dropConn()
		s.retry = 0
		s.connect()
	}
}

// connect starts a new connection attempt without blocking the loop.
func (s *Session) connect() {
	s.gen++
	gen := s.gen
	s.setStatus(StatusConnecting)
	s.log.Debug("dialing %s", s.opts.URL)

	go func() {
		conn, err := s.opts.Dialer.Dial(s.ctx, s.opts.URL)
		if !s.post(dialedEvent{gen: gen, conn: conn, err: err}) && conn != nil {
			conn.Close()
		}
	}()
}

func (s *Session) onDialed(ev dialedEvent) {
	if ev.gen != s.gen {
		if ev.conn != nil {
			ev.conn.Close()
		}
		return
	}
	if ev.err != nil {
		s.onError(ev.err)
		return
	}

	token, err := s.opts.Tokens.Token()
	if err != nil {
		s.log.Error("no credential for %s: %v", s.opts.ServerID, err)
		ev.conn.Close()
		s.onError(err)
		return
	}

	s.conn = ev.conn
	s.retry = 0
	s.setStatus(StatusConnected)
	s.log.Debug("connected")

	go s.readLoop(ev.gen, ev.conn)

	// Subscriptions go out without waiting for auth_success; the server
	// rejects them if the credential is not accepted.
	for _, frame := range [][]byte{
		protocol.Auth(token, s.opts.ServerID),
		protocol.SubscribeConsole(),
		protocol.SubscribeStats(),
	} {
		if err := s.conn.WriteMessage(frame); err != nil {
			s.onClosed(err)
			return
		}
	}
}

func (s *Session) readLoop(gen uint64, conn transport.Conn) {
	for {
		data, err := conn.ReadMessage()
		if err != nil {
			s.post(closedEvent{gen: gen, err: err})
			return
		}
		if !s.post(frameEvent{gen: gen, data: data}) {
			return
		}
	}
}

func (s *Session) onFrame(data []byte) {
	ev, err := protocol.Decode(data)
	if err != nil {
		s.log.Debug("ignoring frame: %v", err)
		return
	}

	s.mu.Lock()
	switch ev := ev.(type) {
	case protocol.ConsoleOutput:
		s.console.Append(ev.Line)
	case protocol.ConsoleHistory:
		s.console.ReplaceHistory(ev.Lines)
	case protocol.StatsUpdate:
		s.stats.Ingest(ev.Sample)
		if ev.HasState {
			s.power.Set(ev.State)
		}
	case protocol.PowerStateChanged:
		s.power.Set(ev.State)
	case protocol.AuthSuccess:
		s.mu.Unlock()
		s.log.Debug("authenticated")
		return
	case protocol.ServerError:
		s.mu.Unlock()
		s.log.Debug("server error frame: %s", ev.Message)
		return
	}
	s.mu.Unlock()
	s.notify()
}

// onClosed handles the transport closing after it had opened.
func (s *Session) onClosed(err error) {
	if err != nil && !transport.IsNormalClose(err) {
		s.log.Warn("connection lost: %v", err)
	}
	s.dropConn()
	s.setDown(StatusDisconnected)
	s.scheduleRetry()
}

// onError handles a transport that failed to open. A failed dial never
// produces a close, so it takes the backoff path itself.
func (s *Session) onError(err error) {
	s.log.Warn("connect failed: %v", err)
	s.setDown(StatusError)
	s.scheduleRetry()
}

func (s *Session) scheduleRetry() {
	delay := Backoff(s.retry, s.opts.BackoffBase, s.opts.BackoffMax)
	s.retry++
	gen := s.gen
	s.log.Debug("reconnecting in %s (attempt %d)", delay, s.retry)
	s.timer = s.opts.Scheduler.AfterFunc(delay, func() {
		s.post(retryEvent{gen: gen})
	})
}

func (s *Session) onSend(ev sendEvent) {
	if s.conn == nil {
		s.log.Debug("dropping %s: not connected", ev.what)
		return
	}
	if err := s.conn.WriteMessage(ev.frame); err != nil {
		s.onClosed(err)
	}
}

// shutdown stops accepting events, then drains the queue: sends queued
// before the loop stopped are written and sockets from dials that finished
// during teardown are closed. Everything else is discarded.
func (s *Session) shutdown() {
	close(s.stopping)
	s.postMu.Lock()
	s.stopped = true
	s.postMu.Unlock()

	for {
		select {
		case ev := <-s.events:
			switch ev := ev.(type) {
			case sendEvent:
				s.onSend(ev)
			case dialedEvent:
				if ev.conn != nil {
					ev.conn.Close()
				}
			}
		default:
			s.teardown()
			return
		}
	}
}

func (s *Session) teardown() {
	s.stopTimer()
	s.dropConn()
	s.gen++
	s.setDown(StatusDisconnected)
	s.log.Debug("closed")
}

func (s *Session) stopTimer() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Session) dropConn() {
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
}

func (s *Session) setStatus(st Status) {
	s.mu.Lock()
	s.status = st
	s.mu.Unlock()
	s.notify()
}

// setDown records a lost or failed connection. Power goes offline at once;
// the last reported state is not trusted once we can't see the server.
func (s *Session) setDown(st Status) {
	s.mu.Lock()
	s.status = st
	s.power.Reset()
	s.mu.Unlock()
	s.notify()
}

func (s *Session) notify() {
	select {
	case s.updates <- struct{}{}:
	default:
	}
}
