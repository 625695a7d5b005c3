package binance_test

import (
	"testing"

	"bncollector/pkg/binance"

	"github.com/stretchr/testify/assert"
)

// go test -v --run TestBuildStreamURL
func TestBuildStreamURL(t *testing.T) {
	sym := binance.MustSymbol("BNBBTC")

	assert.Equal(t, "wss://stream.binance.com:9443/ws/bnbbtc@trade",
		binance.BuildStreamURL(binance.DefaultStreamBaseURL, sym, "trade"))
	assert.Equal(t, "wss://stream.binance.com:9443/ws/bnbbtc@trade",
		binance.BuildStreamURL(binance.DefaultStreamBaseURL+"/", sym, "trade"))
}

// go test -v --run TestSubscriptionURL
func TestSubscriptionURL(t *testing.T) {
	sym := binance.MustSymbol("ETHUSDT")
	base := "wss://example.test/ws"

	cases := []struct {
		sub  binance.Subscription
		want string
	}{
		{binance.Subscription{Kind: binance.StreamTrade, Symbol: sym}, base + "/ethusdt@trade"},
		{binance.Subscription{Kind: binance.StreamAggTrade, Symbol: sym}, base + "/ethusdt@aggTrade"},
		{binance.Subscription{Kind: binance.StreamDepth, Symbol: sym}, base + "/ethusdt@depth"},
		{binance.Subscription{Kind: binance.StreamPartialDepth, Symbol: sym, Levels: 10}, base + "/ethusdt@depth10"},
		{binance.Subscription{Kind: binance.StreamKline, Symbol: sym, Interval: binance.Interval4h}, base + "/ethusdt@kline_4h"},
		{binance.Subscription{Kind: binance.StreamTicker, Symbol: sym}, base + "/ethusdt@ticker"},
		{binance.Subscription{Kind: binance.StreamMiniTicker, Symbol: sym}, base + "/ethusdt@miniTicker"},
		{binance.Subscription{Kind: binance.StreamAllMiniTickers}, base + "/!miniTicker@arr"},
	}
	for _, tc := range cases {
		assert.NoError(t, tc.sub.Validate(), tc.want)
		assert.Equal(t, tc.want, tc.sub.URL(base))
	}
}

// go test -v --run TestSubscriptionValidate
func TestSubscriptionValidate(t *testing.T) {
	sym := binance.MustSymbol("ETHUSDT")

	assert.Error(t, binance.Subscription{Kind: binance.StreamTrade}.Validate())
	assert.Error(t, binance.Subscription{Kind: binance.StreamKline, Symbol: sym, Interval: "2m"}.Validate())
	assert.Error(t, binance.Subscription{Kind: binance.StreamPartialDepth, Symbol: sym, Levels: 15}.Validate())
	assert.Error(t, binance.Subscription{Kind: "bookTicker", Symbol: sym}.Validate())
}

// go test -v --run TestParseKlineInterval
func TestParseKlineInterval(t *testing.T) {
	iv, err := binance.ParseKlineInterval("1M")
	assert.NoError(t, err)
	assert.Equal(t, binance.Interval1M, iv)

	iv, err = binance.ParseKlineInterval("1m")
	assert.NoError(t, err)
	assert.Equal(t, binance.Interval1m, iv)
	assert.Equal(t, "1m0s", iv.Duration().String())

	_, err = binance.ParseKlineInterval("1H")
	assert.ErrorIs(t, err, binance.ErrMalformedFrame)
}
