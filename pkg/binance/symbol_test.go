package binance_test

import (
	"strings"
	"testing"

	"bncollector/pkg/binance"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// go test -v --run TestSymbolRoundTrip
func TestSymbolRoundTrip(t *testing.T) {
	all := binance.AllSymbols()
	require.Greater(t, len(all), 400)

	for _, sym := range all {
		name := sym.String()
		got, err := binance.DecodeSymbol(name)
		require.NoError(t, err, name)
		assert.Equal(t, sym, got)
		assert.Equal(t, strings.ToLower(name), got.WireString())
		assert.NotEmpty(t, got.Quote(), "%s has no quote asset", name)
	}
}

// go test -v --run TestDecodeSymbolIsExact
func TestDecodeSymbolIsExact(t *testing.T) {
	_, err := binance.DecodeSymbol("BNBBTC")
	require.NoError(t, err)

	for _, in := range []string{"bnbbtc", "BNB-BTC", "BNB_BTC", " BNBBTC", "NOTASYMBOL", ""} {
		_, err := binance.DecodeSymbol(in)
		assert.ErrorIs(t, err, binance.ErrUnknownSymbol, "input %q", in)
	}
}

// go test -v --run TestSymbolQuote
func TestSymbolQuote(t *testing.T) {
	cases := map[string]binance.Quote{
		"BNBBTC":    binance.QuoteBTC,
		"BTCUSDT":   binance.QuoteUSDT,
		"ADATUSD":   binance.QuoteTUSD,
		"BNBUSDC":   binance.QuoteUSDC,
		"BTCPAX":    binance.QuotePAX,
		"ADABNB":    binance.QuoteBNB,
		"ADAETH":    binance.QuoteETH,
		"TRXXRP":    binance.QuoteXRP,
		"BCHABCBTC": binance.QuoteBTC,
	}
	for name, want := range cases {
		sym := binance.MustSymbol(name)
		assert.Equal(t, want, sym.Quote(), name)
	}
	assert.Equal(t, "BCHABC", binance.MustSymbol("BCHABCBTC").Base())

	usdt := binance.SymbolsByQuote(binance.QuoteUSDT)
	require.NotEmpty(t, usdt)
	for _, s := range usdt {
		assert.True(t, strings.HasSuffix(s.String(), "USDT"))
	}
}

// go test -v --run TestSymbolText
func TestSymbolText(t *testing.T) {
	type holder struct {
		Symbol binance.Symbol `json:"symbol"`
	}
	out, err := json.Marshal(holder{Symbol: binance.MustSymbol("ETHBTC")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"symbol":"ETHBTC"}`, string(out))

	var h holder
	require.NoError(t, json.Unmarshal(out, &h))
	assert.Equal(t, binance.MustSymbol("ETHBTC"), h.Symbol)

	assert.Error(t, json.Unmarshal([]byte(`{"symbol":"ethbtc"}`), &h))

	var zero binance.Symbol
	assert.False(t, zero.IsValid())
	_, err = json.Marshal(holder{})
	assert.Error(t, err)
}
