package binance

import "time"

// TickerRecord holds rolling 24h statistics for one symbol, keyed by
// (Symbol, EventTime).
type TickerRecord struct {
	EventType          string    `json:"event_type"`
	EventTime          time.Time `json:"event_time"`
	Symbol             Symbol    `json:"symbol"`
	PriceChange        float64   `json:"price_change"`
	PriceChangePercent float64   `json:"price_change_percent"`
	WeightedAvgPrice   float64   `json:"weighted_avg_price"`
	FirstTradePrice    float64   `json:"first_trade_price"`
	LastPrice          float64   `json:"last_price"`
	LastQuantity       float64   `json:"last_quantity"`
	BestBidPrice       float64   `json:"best_bid_price"`
	BestBidQuantity    float64   `json:"best_bid_quantity"`
	BestAskPrice       float64   `json:"best_ask_price"`
	BestAskQuantity    float64   `json:"best_ask_quantity"`
	OpenPrice          float64   `json:"open_price"`
	HighPrice          float64   `json:"high_price"`
	LowPrice           float64   `json:"low_price"`
	BaseVolume         float64   `json:"base_volume"`
	QuoteVolume        float64   `json:"quote_volume"`
	OpenTime           time.Time `json:"open_time"`
	CloseTime          time.Time `json:"close_time"`
	FirstTradeID       int64     `json:"first_trade_id"`
	LastTradeID        int64     `json:"last_trade_id"`
	NumOfTrades        int64     `json:"num_of_trades"`
}

func (TickerRecord) Kind() StreamKind       { return StreamTicker }
func (r TickerRecord) RecordSymbol() Symbol { return r.Symbol }

// DecodeTicker decodes a 24hrTicker frame. Price change and its percentage
// may be negative; every quantity and volume must not be.
func (d Decoder) DecodeTicker(raw []byte) (TickerRecord, error) {
	f, err := parseFrame(raw)
	if err != nil {
		return TickerRecord{}, err
	}

	var r TickerRecord
	if r.Symbol, err = f.symbol("s"); err != nil {
		return TickerRecord{}, err
	}
	if r.EventType, err = f.event("24hrTicker"); err != nil {
		return TickerRecord{}, err
	}
	if r.EventTime, err = f.timestamp(d.policy, "E"); err != nil {
		return TickerRecord{}, err
	}

	numbers := []struct {
		key string
		dst *float64
	}{
		{"p", &r.PriceChange},
		{"P", &r.PriceChangePercent},
		{"w", &r.WeightedAvgPrice},
		{"x", &r.FirstTradePrice},
		{"c", &r.LastPrice},
		{"b", &r.BestBidPrice},
		{"a", &r.BestAskPrice},
		{"o", &r.OpenPrice},
		{"h", &r.HighPrice},
		{"l", &r.LowPrice},
	}
	for _, n := range numbers {
		if *n.dst, err = f.number(n.key); err != nil {
			return TickerRecord{}, err
		}
	}

	quantities := []struct {
		key string
		dst *float64
	}{
		{"Q", &r.LastQuantity},
		{"B", &r.BestBidQuantity},
		{"A", &r.BestAskQuantity},
		{"v", &r.BaseVolume},
		{"q", &r.QuoteVolume},
	}
	for _, q := range quantities {
		if *q.dst, err = f.quantity(q.key); err != nil {
			return TickerRecord{}, err
		}
	}

	if r.OpenTime, err = f.timestamp(d.policy, "O"); err != nil {
		return TickerRecord{}, err
	}
	if r.CloseTime, err = f.timestamp(d.policy, "C"); err != nil {
		return TickerRecord{}, err
	}
	if r.FirstTradeID, err = f.integer("F"); err != nil {
		return TickerRecord{}, err
	}
	if r.LastTradeID, err = f.integer("L"); err != nil {
		return TickerRecord{}, err
	}
	if r.NumOfTrades, err = f.integer("n"); err != nil {
		return TickerRecord{}, err
	}
	return r, nil
}
