package session

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Status is the connection state of a session's socket.
type Status int

const (
	StatusConnecting Status = iota
	StatusConnected
	StatusDisconnected
	StatusError
)

// String returns a human-readable status string.
func (s Status) String() string {
	switch s {
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	case StatusDisconnected:
		return "disconnected"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Backoff returns the reconnect delay after retry consecutive failures:
// base * 2^retry, capped at max.
func Backoff(retry int, base, max time.Duration) time.Duration {
	if retry < 0 {
		retry = 0
	}
	d := base
	for i := 0; i < retry; i++ {
		if d >= max/2 {
			return max
		}
		d *= 2
	}
	if d > max {
		return max
	}
	return d
}

// TokenSource supplies the bearer credential. It is consulted every time a
// connection opens so rotated tokens are picked up on reconnect.
type TokenSource interface {
	Token() (string, error)
}

// StaticToken is a fixed credential.
type StaticToken string

// Token returns the credential.
func (t StaticToken) Token() (string, error) {
	if t == "" {
		return "", fmt.Errorf("no access token configured")
	}
	return string(t), nil
}

// FileToken reads the credential from a file on every call.
type FileToken struct {
	Path string
}

// Token returns the trimmed file contents.
func (f FileToken) Token() (string, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return "", fmt.Errorf("read token file: %w", err)
	}
	tok := strings.TrimSpace(string(data))
	if tok == "" {
		return "", fmt.Errorf("token file %s is empty", f.Path)
	}
	return tok, nil
}

// Timer is a cancellable scheduled callback.
type Timer interface {
	Stop() bool
}

// Scheduler runs f after d. Tests substitute a manual scheduler.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
