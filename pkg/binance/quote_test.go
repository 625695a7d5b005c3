package binance_test

import (
	"testing"

	"bncollector/pkg/binance"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// go test -v --run TestDecodeQuotePairSequence
func TestDecodeQuotePairSequence(t *testing.T) {
	want := binance.QuotePair{Price: 0.0024, Quantity: 10}

	cases := map[string][]any{
		"two strings":         {"0.0024", "10"},
		"one trailing array":  {"0.0024", "10", []any{}},
		"many trailing array": {"0.0024", "10", []any{}, []any{}, []any{}},
		"leading array":       {[]any{}, "0.0024", "10"},
		"json numbers":        {json.Number("0.0024"), json.Number("10")},
		"trailing scalar":     {"0.0024", "10", "ignored"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := binance.DecodeQuotePair(in)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

// go test -v --run TestDecodeQuotePairMap
func TestDecodeQuotePairMap(t *testing.T) {
	got, err := binance.DecodeQuotePair(map[string]any{"price": 0.0026, "quantity": "100"})
	require.NoError(t, err)
	assert.Equal(t, binance.QuotePair{Price: 0.0026, Quantity: 100}, got)

	_, err = binance.DecodeQuotePair(map[string]any{"price": 0.0026})
	assert.ErrorIs(t, err, binance.ErrIncompleteQuote)
}

// go test -v --run TestDecodeQuotePairErrors
func TestDecodeQuotePairErrors(t *testing.T) {
	_, err := binance.DecodeQuotePair([]any{"0.0024"})
	assert.ErrorIs(t, err, binance.ErrIncompleteQuote)

	_, err = binance.DecodeQuotePair([]any{"0.0024", []any{}})
	assert.ErrorIs(t, err, binance.ErrIncompleteQuote)

	_, err = binance.DecodeQuotePair([]any{})
	assert.ErrorIs(t, err, binance.ErrIncompleteQuote)

	_, err = binance.DecodeQuotePair([]any{nil, "10"})
	assert.ErrorIs(t, err, binance.ErrInvalidNumber)

	_, err = binance.DecodeQuotePair([]any{"0.0024", "-10"})
	assert.ErrorIs(t, err, binance.ErrInvalidNumber)

	_, err = binance.DecodeQuotePair("0.0024")
	assert.ErrorIs(t, err, binance.ErrMalformedFrame)
}

// go test -v --run TestQuotePairUnmarshalJSON
func TestQuotePairUnmarshalJSON(t *testing.T) {
	var levels []binance.QuotePair
	err := json.Unmarshal([]byte(`[["0.0024","10",[]],{"price":0.0026,"quantity":100}]`), &levels)
	require.NoError(t, err)
	assert.Equal(t, []binance.QuotePair{{Price: 0.0024, Quantity: 10}, {Price: 0.0026, Quantity: 100}}, levels)

	// the map form is also what Marshal produces, so stored levels read back
	stored, err := json.Marshal(levels)
	require.NoError(t, err)
	var back []binance.QuotePair
	require.NoError(t, json.Unmarshal(stored, &back))
	assert.Equal(t, levels, back)
}
