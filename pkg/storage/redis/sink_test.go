package redis_test

import (
	"context"
	"os"
	"testing"
	"time"

	"bncollector/pkg/binance"
	"bncollector/pkg/storage/redis"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// go test -v --run TestSinkKeys
func TestSinkKeys(t *testing.T) {
	s := redis.New(nil, "", 0)
	assert.Equal(t, "bncollector:latest:trade", s.LatestKey(binance.StreamTrade))
	assert.Equal(t, "bncollector:miniTicker", s.StreamKey(binance.StreamMiniTicker))

	s = redis.New(nil, "md", 100)
	assert.Equal(t, "md:latest:kline", s.LatestKey(binance.StreamKline))
}

// go test -v --run TestSinkStore
func TestSinkStore(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rdb, err := redis.Dial(ctx, addr, "", 0)
	require.NoError(t, err)
	defer rdb.Close()

	prefix := "bncollector-test-" + time.Now().Format("150405.000")
	s := redis.New(rdb, prefix, 10)
	defer rdb.Del(context.Background(), s.LatestKey(binance.StreamTrade), s.StreamKey(binance.StreamTrade))

	sym := binance.MustSymbol("BNBBTC")
	for id := int64(1); id <= 3; id++ {
		require.NoError(t, s.Store(ctx, binance.TradeRecord{TradeID: id, Symbol: sym, EventType: "trade"}))
	}

	raw, err := s.Latest(ctx, binance.StreamTrade, sym)
	require.NoError(t, err)

	var got binance.TradeRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &got))
	assert.Equal(t, int64(3), got.TradeID)
	assert.Equal(t, sym, got.Symbol)

	n, err := rdb.XLen(ctx, s.StreamKey(binance.StreamTrade)).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
