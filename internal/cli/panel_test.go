package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/gsconsole/internal/config"
	"github.com/rileyhilliard/gsconsole/internal/session"
)

// fakePanel is a websocket endpoint that plays the panel side. greet runs
// once per connection before the panel starts reading client frames.
type fakePanel struct {
	srv    *httptest.Server
	frames chan map[string]interface{}
}

func newFakePanel(t *testing.T, greet func(c *websocket.Conn)) *fakePanel {
	t.Helper()
	p := &fakePanel{frames: make(chan map[string]interface{}, 64)}
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

	p.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		if greet != nil {
			greet(conn)
		}
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var frame map[string]interface{}
			if json.Unmarshal(data, &frame) == nil {
				p.frames <- frame
			}
		}
	}))
	t.Cleanup(p.srv.Close)
	return p
}

// next returns the next frame the client sent.
func (p *fakePanel) next(t *testing.T) map[string]interface{} {
	t.Helper()
	select {
	case f := <-p.frames:
		return f
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a client frame")
		return nil
	}
}

func sendText(c *websocket.Conn, frame string) {
	_ = c.WriteMessage(websocket.TextMessage, []byte(frame))
}

func testTarget(panelURL string) *target {
	cfg := config.DefaultConfig()
	cfg.Panel.URL = panelURL
	cfg.Panel.Token = "secret-token"
	cfg.Panel.DialTimeout = 2 * time.Second
	cfg.Servers["survival"] = config.Server{ID: "abc"}
	cfg.Default = "survival"
	return &target{cfg: cfg, name: "survival", server: cfg.Servers["survival"]}
}

func newTestSession(t *testing.T, panelURL string) *session.Session {
	t.Helper()
	s, err := newSession(testTarget(panelURL))
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

// syncBuffer is a bytes.Buffer safe for one writer and one reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
