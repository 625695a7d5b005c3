package binance

import (
	"fmt"
	"strings"
)

// DefaultStreamBaseURL is the raw-stream endpoint; one stream per connection.
const DefaultStreamBaseURL = "wss://stream.binance.com:9443/ws"

// StreamKind names a market-data feed.
type StreamKind string

const (
	StreamTrade          StreamKind = "trade"
	StreamAggTrade       StreamKind = "aggTrade"
	StreamDepth          StreamKind = "depth"
	StreamPartialDepth   StreamKind = "partialDepth"
	StreamKline          StreamKind = "kline"
	StreamTicker         StreamKind = "ticker"
	StreamMiniTicker     StreamKind = "miniTicker"
	StreamAllMiniTickers StreamKind = "allMiniTickers"
)

// Record is a decoded canonical record of any stream kind.
type Record interface {
	Kind() StreamKind
	RecordSymbol() Symbol
}

// Subscription identifies one stream: a kind for a symbol, plus the kline
// interval or partial-book depth where the kind needs one.
type Subscription struct {
	Kind     StreamKind
	Symbol   Symbol
	Interval KlineInterval
	Levels   int
}

// Validate checks the fields the kind requires.
func (s Subscription) Validate() error {
	switch s.Kind {
	case StreamAllMiniTickers:
		return nil
	case StreamTrade, StreamAggTrade, StreamDepth, StreamTicker, StreamMiniTicker:
	case StreamKline:
		if !s.Interval.IsValid() {
			return fmt.Errorf("kline subscription: invalid interval %q", s.Interval)
		}
	case StreamPartialDepth:
		if s.Levels != 5 && s.Levels != 10 && s.Levels != 20 {
			return fmt.Errorf("partial depth subscription: levels must be 5, 10 or 20, got %d", s.Levels)
		}
	default:
		return fmt.Errorf("unknown stream kind %q", s.Kind)
	}
	if !s.Symbol.IsValid() {
		return fmt.Errorf("%s subscription: symbol is required", s.Kind)
	}
	return nil
}

// Suffix returns the part of the stream name after "@".
func (s Subscription) Suffix() string {
	switch s.Kind {
	case StreamKline:
		return "kline_" + string(s.Interval)
	case StreamPartialDepth:
		return fmt.Sprintf("depth%d", s.Levels)
	case StreamAllMiniTickers:
		return "arr"
	default:
		return string(s.Kind)
	}
}

// StreamName returns the stream name, e.g. "bnbbtc@trade" or "!miniTicker@arr".
func (s Subscription) StreamName() string {
	if s.Kind == StreamAllMiniTickers {
		return "!miniTicker@arr"
	}
	return s.Symbol.WireString() + "@" + s.Suffix()
}

// URL returns the stream endpoint under base.
func (s Subscription) URL(base string) string {
	if s.Kind == StreamAllMiniTickers {
		return strings.TrimRight(base, "/") + "/" + s.StreamName()
	}
	return BuildStreamURL(base, s.Symbol, s.Suffix())
}

func (s Subscription) String() string {
	return s.StreamName()
}

// BuildStreamURL formats <base>/<symbol>@<suffix> with the lowercase symbol.
func BuildStreamURL(base string, symbol Symbol, suffix string) string {
	return strings.TrimRight(base, "/") + "/" + symbol.WireString() + "@" + suffix
}
