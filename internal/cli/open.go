package cli

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rileyhilliard/gsconsole/internal/config"
	"github.com/rileyhilliard/gsconsole/internal/errors"
	"github.com/rileyhilliard/gsconsole/internal/session"
	"github.com/rileyhilliard/gsconsole/internal/transport"
)

// target is a server resolved from config.
type target struct {
	cfg    *config.Config
	name   string
	server config.Server
}

// resolveTarget loads and validates config, then picks the named server.
func resolveTarget(name string) (*target, error) {
	cfg, _, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	name, srv, err := cfg.ResolveServer(name)
	if err != nil {
		return nil, err
	}
	return &target{cfg: cfg, name: name, server: srv}, nil
}

// tokenSource picks the credential store. A token file wins over an inline
// token so rotation works without restarting.
func tokenSource(p config.PanelConfig) (session.TokenSource, error) {
	switch {
	case p.TokenFile != "":
		return session.FileToken{Path: p.TokenFile}, nil
	case p.Token != "":
		return session.StaticToken(p.Token), nil
	default:
		return nil, errors.New(errors.ErrAuth,
			"No panel token configured",
			"Set GSCONSOLE_PANEL_TOKEN, or panel.token_file in .gsconsole.yaml.")
	}
}

// newSession builds an unstarted session for t.
func newSession(t *target) (*session.Session, error) {
	url, err := transport.ServerURL(t.cfg.Panel.URL, t.cfg.Panel.Path, t.server.ID)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Can't build the console socket URL",
			"Check panel.url and panel.path in .gsconsole.yaml.")
	}
	tokens, err := tokenSource(t.cfg.Panel)
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	header.Set("User-Agent", "gsconsole/"+GetVersion())

	s, err := session.New(session.Options{
		URL:      url,
		ServerID: t.server.ID,
		Name:     t.name,
		Tokens:   tokens,
		Dialer: &transport.WebSocketDialer{
			HandshakeTimeout: t.cfg.Panel.DialTimeout,
			WriteTimeout:     t.cfg.Panel.WriteTimeout,
			Header:           header,
		},
		ConsoleCapacity: t.cfg.Console.Capacity,
		StatsWindow:     t.cfg.Stats.Window,
		BackoffBase:     t.cfg.Reconnect.Base,
		BackoffMax:      t.cfg.Reconnect.Max,
	})
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConn, "Failed to create session", "")
	}
	return s, nil
}

// waitConnected blocks until s reports connected, the session exits, or
// timeout passes.
func waitConnected(parent context.Context, s *session.Session, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	for {
		if s.Status() == session.StatusConnected {
			return nil
		}
		select {
		case _, ok := <-s.Updates():
			if !ok {
				if err := parent.Err(); err != nil {
					return err
				}
				return errors.New(errors.ErrConn,
					"Session closed before it connected",
					"Run with --verbose to see dial errors.")
			}
		case <-ctx.Done():
			if err := parent.Err(); err != nil {
				return err
			}
			return errors.New(errors.ErrConn,
				fmt.Sprintf("Couldn't connect within %s", timeout),
				"Check panel.url and the server id, or raise --timeout. Run with --verbose to see dial errors.")
		}
	}
}
