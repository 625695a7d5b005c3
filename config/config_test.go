package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"bncollector/config"
	"bncollector/pkg/binance"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
binance:
  streams:
    - kind: trade
      symbol: BNBBTC
    - kind: kline
      symbol: BTCUSDT
      interval: 4h
    - kind: miniTicker
      quote: PAX
    - kind: allMiniTickers
decoder:
  launch_epoch: "2018-01-01T00:00:00Z"
storage:
  driver: sqlite
  sqlite_path: /tmp/bncollector.db
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644))
	return dir
}

// go test -v --run TestLoadFrom
func TestLoadFrom(t *testing.T) {
	cfg, err := config.LoadFrom(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	// defaults
	assert.Equal(t, "wss://stream.binance.com:9443/ws", cfg.Binance.WS.URL)
	assert.Equal(t, 25*time.Second, cfg.Binance.WS.PingInterval)
	assert.Equal(t, 2*time.Second, cfg.Binance.WS.StoreTimeout)
	assert.Equal(t, 5, cfg.Binance.Backfill.Concurrency)
	assert.Equal(t, "info", cfg.Log.Level)

	policy, err := cfg.Decoder.Policy()
	require.NoError(t, err)
	assert.Equal(t, binance.DefaultUnitThreshold, policy.UnitThreshold)
	assert.Equal(t, time.Date(2018, time.January, 1, 0, 0, 0, 0, time.UTC), policy.Launch)
}

// go test -v --run TestLoadFromEnvOverride
func TestLoadFromEnvOverride(t *testing.T) {
	t.Setenv("BINANCE_WS_URL", "wss://testnet.binance.vision/ws")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := config.LoadFrom(writeConfig(t, sampleConfig))
	require.NoError(t, err)
	assert.Equal(t, "wss://testnet.binance.vision/ws", cfg.Binance.WS.URL)
	assert.Equal(t, "debug", cfg.Log.Level)
}

// go test -v --run TestSubscriptions
func TestSubscriptions(t *testing.T) {
	cfg, err := config.LoadFrom(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	subs, err := cfg.Subscriptions()
	require.NoError(t, err)

	pax := binance.SymbolsByQuote(binance.QuotePAX)
	require.Len(t, subs, 3+len(pax))

	assert.Equal(t, "bnbbtc@trade", subs[0].StreamName())
	assert.Equal(t, "btcusdt@kline_4h", subs[1].StreamName())
	for i, sym := range pax {
		assert.Equal(t, sym, subs[2+i].Symbol)
		assert.Equal(t, binance.StreamMiniTicker, subs[2+i].Kind)
	}
	assert.Equal(t, "!miniTicker@arr", subs[len(subs)-1].StreamName())
}

// go test -v --run TestValidate
func TestValidate(t *testing.T) {
	cases := map[string]string{
		"unknown symbol":   "binance:\n  streams:\n    - kind: trade\n      symbol: NOTASYMBOL\n",
		"lowercase symbol": "binance:\n  streams:\n    - kind: trade\n      symbol: bnbbtc\n",
		"bad interval":     "binance:\n  streams:\n    - kind: kline\n      symbol: BNBBTC\n      interval: 2m\n",
		"no streams":       "log:\n  level: info\n",
		"bad driver":       "binance:\n  streams:\n    - kind: trade\n      symbol: BNBBTC\nstorage:\n  driver: mongo\n",
		"bad launch":       "binance:\n  streams:\n    - kind: trade\n      symbol: BNBBTC\ndecoder:\n  launch_epoch: yesterday\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.LoadFrom(writeConfig(t, body))
			require.Error(t, err)
		})
	}
}

// go test -v --run TestPostgresDSN
func TestPostgresDSN(t *testing.T) {
	cfg := config.PostgresConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "yourpw",
		DBName:   "bncollector",
		SSLMode:  "disable",
		TimeZone: "UTC",
	}

	dsn := cfg.DSN("dev")
	assert.Equal(t, "host=localhost port=5432 user=postgres password=yourpw dbname=bncollector sslmode=disable TimeZone=UTC", dsn)
	assert.True(t, strings.Contains(cfg.AdminDSN("dev"), "dbname=postgres "))
}
