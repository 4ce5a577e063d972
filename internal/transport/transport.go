// Package transport provides the full-duplex message channel the session
// runs over, plus a gorilla/websocket implementation of it.
package transport

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Conn is one open message channel. ReadMessage is called from a single
// reader goroutine; WriteMessage from a single writer. Close may be called
// from any goroutine and unblocks a pending ReadMessage.
type Conn interface {
	ReadMessage() ([]byte, error)
	WriteMessage(data []byte) error
	Close() error
}

// Dialer opens new channels. A failed Dial corresponds to a transport
// error; a successful one to the transport opening.
type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

// ServerURL joins the panel base URL and a path template, replacing {id} with
// the escaped server identifier. Credentials never go into the URL.
func ServerURL(base, pathTemplate, serverID string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse panel url: %w", err)
	}
	switch u.Scheme {
	case "ws", "wss":
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("panel url %q: unsupported scheme %q", base, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("panel url %q has no host", base)
	}

	path := strings.ReplaceAll(pathTemplate, "{id}", url.PathEscape(serverID))
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	u.RawQuery = ""
	return u.String(), nil
}
