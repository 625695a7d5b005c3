package binance_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"bncollector/pkg/binance"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// streamServer sends frames on every connection, then closes it when
// dropAfterSend is set or waits for the client to go away otherwise.
func streamServer(t *testing.T, frames []string, dropAfterSend bool, conns *atomic.Int32) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		conns.Add(1)

		for _, f := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(f)); err != nil {
				return
			}
		}
		if dropAfterSend {
			return
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

type collected struct {
	mu   sync.Mutex
	msgs []string
}

func (c *collected) add(b []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, string(b))
}

func (c *collected) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.msgs)
}

// go test -v --run TestSessionDeliversFrames
func TestSessionDeliversFrames(t *testing.T) {
	var conns atomic.Int32
	url := streamServer(t, []string{`{"n":1}`, `{"n":2}`, `{"n":3}`}, false, &conns)

	got := &collected{}
	s := binance.NewSession(url, binance.SessionConfig{PingInterval: 50 * time.Millisecond}, got.add, zap.NewNop())
	require.NotEmpty(t, s.ID())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return got.len() == 3 }, 5*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("session did not stop after cancel")
	}
	assert.Equal(t, []string{`{"n":1}`, `{"n":2}`, `{"n":3}`}, got.msgs)
	assert.Equal(t, int32(1), conns.Load())
}

// go test -v --run TestSessionReconnects
func TestSessionReconnects(t *testing.T) {
	var conns atomic.Int32
	url := streamServer(t, []string{`{"n":1}`}, true, &conns)

	got := &collected{}
	cfg := binance.SessionConfig{MinBackoff: 10 * time.Millisecond, MaxBackoff: 20 * time.Millisecond}
	s := binance.NewSession(url, cfg, got.add, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return conns.Load() >= 3 && got.len() >= 3 }, 5*time.Second, 10*time.Millisecond)
	cancel()
	assert.NoError(t, <-done)
}

// go test -v --run TestSessionStopsWhileDialing
func TestSessionStopsWhileDialing(t *testing.T) {
	// nothing listens on this port
	s := binance.NewSession("ws://127.0.0.1:1/ws", binance.SessionConfig{MinBackoff: time.Second}, func([]byte) {}, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	assert.NoError(t, s.Run(ctx))
}
