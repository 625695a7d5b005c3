package snapshot_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"bncollector/config"
	"bncollector/internal/memorystore"
	"bncollector/internal/snapshot"
	"bncollector/pkg/binance"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newBinanceServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v3/depth":
			if r.URL.Query().Get("symbol") == "ETHBTC" {
				w.WriteHeader(http.StatusBadRequest)
				fmt.Fprint(w, `{"code":-1121,"msg":"Invalid symbol."}`)
				return
			}
			fmt.Fprint(w, `{"lastUpdateId":160,"bids":[["0.0024","10"]],"asks":[["0.0026","100"]]}`)
		case "/api/v3/klines":
			fmt.Fprint(w, `[
				[1700000000000,"0.0010","0.0025","0.0015","0.0020","1000",1700000059999,"1.0000",100,"500","0.500","0"],
				[1700000060000,"0.0020","0.0030","0.0018","0.0028","10",1700000119999,"0.0250",3,"4","0.011","0"]
			]`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

type countingWriter struct {
	mu    sync.Mutex
	count int
}

func (w *countingWriter) InsertKlines(_ context.Context, klines []binance.KlineRecord) (int64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.count += len(klines)
	return int64(len(klines)), nil
}

// go test -v --run TestLoaderRun
func TestLoaderRun(t *testing.T) {
	srv := newBinanceServer(t)
	store := memorystore.NewRecordStore(0)

	loader := &snapshot.Loader{
		Cfg:        config.BackfillConfig{Enabled: true, Lookback: 2 * time.Minute, Concurrency: 2, DepthLimit: 5},
		RestClient: binance.NewRESTClient(srv.URL, 5*time.Second, binance.DefaultDecoder()),
		Store:      store,
		Logger:     zap.NewNop(),
		Timeout:    5 * time.Second,
	}

	bnbbtc := binance.MustSymbol("BNBBTC")
	subs := []binance.Subscription{
		{Kind: binance.StreamDepth, Symbol: bnbbtc},
		{Kind: binance.StreamPartialDepth, Symbol: binance.MustSymbol("ETHBTC"), Levels: 5},
		{Kind: binance.StreamKline, Symbol: bnbbtc, Interval: binance.Interval1m},
		{Kind: binance.StreamTrade, Symbol: bnbbtc},
	}
	require.NoError(t, loader.Run(context.Background(), subs))

	depth, ok := store.Latest(bnbbtc, binance.StreamPartialDepth)
	require.True(t, ok)
	assert.Equal(t, int64(160), depth.(binance.PartialBookDepth).LastUpdateID)

	// the ETHBTC snapshot failed and is only logged
	_, ok = store.Latest(binance.MustSymbol("ETHBTC"), binance.StreamPartialDepth)
	assert.False(t, ok)

	klines := store.GetBySymbol(bnbbtc, binance.StreamKline)
	require.Len(t, klines, 2)
	assert.True(t, klines[0].(binance.KlineRecord).IsClosed)
}

// go test -v --run TestLoaderUsesKlineWriter
func TestLoaderUsesKlineWriter(t *testing.T) {
	srv := newBinanceServer(t)
	store := memorystore.NewRecordStore(0)
	writer := &countingWriter{}

	loader := &snapshot.Loader{
		Cfg:        config.BackfillConfig{Lookback: time.Hour, Concurrency: 1},
		RestClient: binance.NewRESTClient(srv.URL, 5*time.Second, binance.DefaultDecoder()),
		Store:      store,
		Klines:     writer,
		Logger:     zap.NewNop(),
		Timeout:    5 * time.Second,
	}
	sub := binance.Subscription{Kind: binance.StreamKline, Symbol: binance.MustSymbol("BNBBTC"), Interval: binance.Interval1m}
	require.NoError(t, loader.Run(context.Background(), []binance.Subscription{sub}))

	assert.Equal(t, 2, writer.count)
	assert.Equal(t, 0, store.CountAll())
}
