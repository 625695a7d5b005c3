package binance

import "time"

// BookDepthDelta is one diff-depth update. Applying deltas in update-id
// order is up to the consumer.
type BookDepthDelta struct {
	EventType     string      `json:"event_type"`
	EventTime     time.Time   `json:"event_time"`
	Symbol        Symbol      `json:"symbol"`
	UpdateIDFirst int64       `json:"update_id_first"`
	UpdateIDLast  int64       `json:"update_id_last"`
	Bids          []QuotePair `json:"bids"`
	Asks          []QuotePair `json:"asks"`
}

func (BookDepthDelta) Kind() StreamKind       { return StreamDepth }
func (r BookDepthDelta) RecordSymbol() Symbol { return r.Symbol }

// DecodeBookDepthDelta decodes a depthUpdate frame. Levels arrive as
// ["price", "qty", []].
func (d Decoder) DecodeBookDepthDelta(raw []byte) (BookDepthDelta, error) {
	f, err := parseFrame(raw)
	if err != nil {
		return BookDepthDelta{}, err
	}

	var r BookDepthDelta
	if r.Symbol, err = f.symbol("s"); err != nil {
		return BookDepthDelta{}, err
	}
	if r.EventType, err = f.event("depthUpdate"); err != nil {
		return BookDepthDelta{}, err
	}
	if r.EventTime, err = f.timestamp(d.policy, "E"); err != nil {
		return BookDepthDelta{}, err
	}
	if r.UpdateIDFirst, err = f.integer("U"); err != nil {
		return BookDepthDelta{}, err
	}
	if r.UpdateIDLast, err = f.integer("u"); err != nil {
		return BookDepthDelta{}, err
	}
	if r.UpdateIDFirst > r.UpdateIDLast {
		return BookDepthDelta{}, malformed("U", "first update id after last update id")
	}
	if r.Bids, err = f.quotes("b"); err != nil {
		return BookDepthDelta{}, err
	}
	if r.Asks, err = f.quotes("a"); err != nil {
		return BookDepthDelta{}, err
	}
	return r, nil
}

// PartialBookDepth is a top-of-book snapshot from a <symbol>@depthN stream or
// the REST depth endpoint. Neither payload names the symbol, so it comes from
// the subscription.
type PartialBookDepth struct {
	Symbol       Symbol      `json:"symbol"`
	LastUpdateID int64       `json:"last_update_id"`
	Bids         []QuotePair `json:"bids"`
	Asks         []QuotePair `json:"asks"`
}

func (PartialBookDepth) Kind() StreamKind       { return StreamPartialDepth }
func (r PartialBookDepth) RecordSymbol() Symbol { return r.Symbol }

// DecodePartialBookDepth decodes {"lastUpdateId":160,"bids":[...],"asks":[...]}.
func (d Decoder) DecodePartialBookDepth(symbol Symbol, raw []byte) (PartialBookDepth, error) {
	if !symbol.IsValid() {
		return PartialBookDepth{}, &DecodeError{Kind: UnknownSymbol, Value: symbol.String()}
	}
	f, err := parseFrame(raw)
	if err != nil {
		return PartialBookDepth{}, err
	}

	r := PartialBookDepth{Symbol: symbol}
	if r.LastUpdateID, err = f.integer("lastUpdateId"); err != nil {
		return PartialBookDepth{}, err
	}
	if r.Bids, err = f.quotes("bids"); err != nil {
		return PartialBookDepth{}, err
	}
	if r.Asks, err = f.quotes("asks"); err != nil {
		return PartialBookDepth{}, err
	}
	return r, nil
}
