package binance

import "fmt"

// Decoder turns raw stream frames into canonical records. It holds only the
// timestamp policy, so one value can be shared by any number of goroutines.
type Decoder struct {
	policy TimestampPolicy
}

// NewDecoder returns a Decoder that reads timestamps with policy. Zero
// fields of policy fall back to DefaultTimestampPolicy.
func NewDecoder(policy TimestampPolicy) Decoder {
	return Decoder{policy: policy.withDefaults()}
}

// Policy returns the timestamp policy the decoder applies.
func (d Decoder) Policy() TimestampPolicy {
	return d.policy.withDefaults()
}

var defaultDecoder = NewDecoder(DefaultTimestampPolicy())

// DefaultDecoder returns the decoder behind the package-level Decode functions.
func DefaultDecoder() Decoder {
	return defaultDecoder
}

// DecodeFrame decodes one message of the stream described by sub. Every kind
// yields exactly one record except the all-markets mini ticker, which yields
// one per market.
func (d Decoder) DecodeFrame(sub Subscription, raw []byte) ([]Record, error) {
	var (
		rec Record
		err error
	)
	switch sub.Kind {
	case StreamTrade:
		rec, err = d.DecodeTrade(raw)
	case StreamAggTrade:
		rec, err = d.DecodeAggregateTrade(raw)
	case StreamDepth:
		rec, err = d.DecodeBookDepthDelta(raw)
	case StreamPartialDepth:
		rec, err = d.DecodePartialBookDepth(sub.Symbol, raw)
	case StreamKline:
		rec, err = d.DecodeKline(raw)
	case StreamTicker:
		rec, err = d.DecodeTicker(raw)
	case StreamMiniTicker:
		rec, err = d.DecodeMiniTicker(raw)
	case StreamAllMiniTickers:
		tickers, err := d.DecodeMiniTickers(raw)
		if err != nil {
			return nil, err
		}
		out := make([]Record, len(tickers))
		for i, t := range tickers {
			out[i] = t
		}
		return out, nil
	default:
		return nil, fmt.Errorf("binance: no decoder for stream kind %q", sub.Kind)
	}
	if err != nil {
		return nil, err
	}
	return []Record{rec}, nil
}

// DecodeTrade decodes a trade frame with the default timestamp policy.
func DecodeTrade(raw []byte) (TradeRecord, error) { return defaultDecoder.DecodeTrade(raw) }

// DecodeAggregateTrade decodes an aggTrade frame with the default timestamp policy.
func DecodeAggregateTrade(raw []byte) (AggregateTradeRecord, error) {
	return defaultDecoder.DecodeAggregateTrade(raw)
}

// DecodeBookDepthDelta decodes a depthUpdate frame with the default timestamp policy.
func DecodeBookDepthDelta(raw []byte) (BookDepthDelta, error) {
	return defaultDecoder.DecodeBookDepthDelta(raw)
}

// DecodeKline decodes a kline frame with the default timestamp policy.
func DecodeKline(raw []byte) (KlineRecord, error) { return defaultDecoder.DecodeKline(raw) }

// DecodeTicker decodes a 24hrTicker frame with the default timestamp policy.
func DecodeTicker(raw []byte) (TickerRecord, error) { return defaultDecoder.DecodeTicker(raw) }

// DecodeMiniTicker decodes a 24hrMiniTicker frame with the default timestamp policy.
func DecodeMiniTicker(raw []byte) (MiniTickerRecord, error) {
	return defaultDecoder.DecodeMiniTicker(raw)
}
