package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"bncollector/config"
	"bncollector/pkg/binance"
	"bncollector/pkg/storage/postgres"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const tradeFrame = `{"e":"trade","E":1555444333222,"s":"BNBBTC","t":12345,"p":"0.001","q":"100",` +
	`"b":88,"a":50,"T":1666555444333,"m":true,"M":true}`

func testConfig(wsURL, dbPath string) *config.Config {
	return &config.Config{
		Binance: config.BinanceConfig{
			REST: config.RESTConfig{BaseURL: "http://127.0.0.1:1", Timeout: time.Second},
			WS: config.WSConfig{
				URL:          wsURL,
				PingInterval: time.Second,
				ReadTimeout:  5 * time.Second,
				MinBackoff:   10 * time.Millisecond,
				MaxBackoff:   50 * time.Millisecond,
				StoreTimeout: time.Second,
			},
			Streams: []config.StreamConfig{{Kind: "trade", Symbol: "BNBBTC"}},
		},
		Storage: config.StorageConfig{Driver: "sqlite", SQLitePath: dbPath},
	}
}

// go test -v --run TestRunStoresStreamedTrades
func TestRunStoresStreamedTrades(t *testing.T) {
	upgrader := websocket.Upgrader{}
	paths := make(chan string, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		paths <- r.URL.Path

		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"e":"trade","s":"NOPE"}`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(tradeFrame))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	dbPath := filepath.Join(t.TempDir(), "collector.db")
	cfg := testConfig("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", dbPath)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- Run(ctx, cfg, zap.NewNop()) }()

	select {
	case p := <-paths:
		assert.Equal(t, "/ws/bnbbtc@trade", p)
	case <-time.After(5 * time.Second):
		t.Fatal("collector never connected")
	}

	reader, err := postgres.NewSQLiteClient(dbPath)
	require.NoError(t, err)
	defer reader.Close()

	assert.Eventually(t, func() bool {
		trades, err := reader.RecentTrades(context.Background(), binance.MustSymbol("BNBBTC"), 10)
		return err == nil && len(trades) == 1 && trades[0].TradeID == 12345
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("collector did not stop after cancel")
	}
}

// go test -v --run TestOpenStorage
func TestOpenStorage(t *testing.T) {
	cfg := testConfig("ws://127.0.0.1:1/ws", filepath.Join(t.TempDir(), "open.db"))

	s, err := openStorage(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.NotNil(t, s.db)
	assert.Len(t, s.sinks, 2)
	s.close(zap.NewNop())

	cfg.Storage.Driver = "memory"
	s, err = openStorage(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, s.db)
	assert.Len(t, s.sinks, 1)

	cfg.Storage.Driver = "mongo"
	_, err = openStorage(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}
