package binance

import (
	"errors"
	"fmt"
	"time"
)

// MiniTickerRecord is the reduced 24h statistics record; its fields are a
// subset of TickerRecord's.
type MiniTickerRecord struct {
	EventType   string    `json:"event_type"`
	EventTime   time.Time `json:"event_time"`
	Symbol      Symbol    `json:"symbol"`
	ClosePrice  float64   `json:"close_price"`
	OpenPrice   float64   `json:"open_price"`
	HighPrice   float64   `json:"high_price"`
	LowPrice    float64   `json:"low_price"`
	BaseVolume  float64   `json:"base_volume"`
	QuoteVolume float64   `json:"quote_volume"`
}

func (MiniTickerRecord) Kind() StreamKind       { return StreamMiniTicker }
func (r MiniTickerRecord) RecordSymbol() Symbol { return r.Symbol }

// DecodeMiniTicker decodes a 24hrMiniTicker frame.
func (d Decoder) DecodeMiniTicker(raw []byte) (MiniTickerRecord, error) {
	f, err := parseFrame(raw)
	if err != nil {
		return MiniTickerRecord{}, err
	}
	return d.miniTicker(f)
}

func (d Decoder) miniTicker(f frame) (MiniTickerRecord, error) {
	var (
		r   MiniTickerRecord
		err error
	)
	if r.Symbol, err = f.symbol("s"); err != nil {
		return MiniTickerRecord{}, err
	}
	if r.EventType, err = f.event("24hrMiniTicker"); err != nil {
		return MiniTickerRecord{}, err
	}
	if r.EventTime, err = f.timestamp(d.policy, "E"); err != nil {
		return MiniTickerRecord{}, err
	}
	if r.ClosePrice, err = f.number("c"); err != nil {
		return MiniTickerRecord{}, err
	}
	if r.OpenPrice, err = f.number("o"); err != nil {
		return MiniTickerRecord{}, err
	}
	if r.HighPrice, err = f.number("h"); err != nil {
		return MiniTickerRecord{}, err
	}
	if r.LowPrice, err = f.number("l"); err != nil {
		return MiniTickerRecord{}, err
	}
	if r.BaseVolume, err = f.quantity("v"); err != nil {
		return MiniTickerRecord{}, err
	}
	if r.QuoteVolume, err = f.quantity("q"); err != nil {
		return MiniTickerRecord{}, err
	}
	return r, nil
}

// DecodeMiniTickers decodes the !miniTicker@arr payload, an array with one
// mini ticker per market that changed. The feed covers every listed market,
// so elements outside the symbol table are skipped; any other bad element
// fails the frame.
func (d Decoder) DecodeMiniTickers(raw []byte) ([]MiniTickerRecord, error) {
	v, err := parseValue(raw)
	if err != nil {
		return nil, err
	}
	elems, ok := v.([]any)
	if !ok {
		return nil, malformed("", "expected array, got "+describe(v))
	}
	out := make([]MiniTickerRecord, 0, len(elems))
	for i, el := range elems {
		obj, ok := el.(map[string]any)
		if !ok {
			return nil, malformed(fmt.Sprintf("[%d]", i), "expected object, got "+describe(el))
		}
		r, err := d.miniTicker(frame(obj))
		if errors.Is(err, ErrUnknownSymbol) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
