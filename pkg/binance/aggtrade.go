package binance

import "time"

// AggregateTradeRecord summarizes the trades FirstTradeID..LastTradeID that
// filled at one price from one taker order.
type AggregateTradeRecord struct {
	TradeID            int64     `json:"trade_id"`
	EventType          string    `json:"event_type"`
	EventTime          time.Time `json:"event_time"`
	Symbol             Symbol    `json:"symbol"`
	Price              float64   `json:"price"`
	Quantity           float64   `json:"quantity"`
	FirstTradeID       int64     `json:"first_trade_id"`
	LastTradeID        int64     `json:"last_trade_id"`
	TradeTime          time.Time `json:"trade_time"`
	IsBuyerMarketMaker bool      `json:"is_buyer_market_maker"`
}

func (AggregateTradeRecord) Kind() StreamKind       { return StreamAggTrade }
func (r AggregateTradeRecord) RecordSymbol() Symbol { return r.Symbol }

// DecodeAggregateTrade decodes an aggTrade frame; "a" is the aggregate id.
func (d Decoder) DecodeAggregateTrade(raw []byte) (AggregateTradeRecord, error) {
	f, err := parseFrame(raw)
	if err != nil {
		return AggregateTradeRecord{}, err
	}

	var r AggregateTradeRecord
	if r.Symbol, err = f.symbol("s"); err != nil {
		return AggregateTradeRecord{}, err
	}
	if r.EventType, err = f.event("aggTrade"); err != nil {
		return AggregateTradeRecord{}, err
	}
	if r.EventTime, err = f.timestamp(d.policy, "E"); err != nil {
		return AggregateTradeRecord{}, err
	}
	if r.TradeID, err = f.integer("a"); err != nil {
		return AggregateTradeRecord{}, err
	}
	if r.Price, err = f.number("p"); err != nil {
		return AggregateTradeRecord{}, err
	}
	if r.Quantity, err = f.quantity("q"); err != nil {
		return AggregateTradeRecord{}, err
	}
	if r.FirstTradeID, err = f.integer("f"); err != nil {
		return AggregateTradeRecord{}, err
	}
	if r.LastTradeID, err = f.integer("l"); err != nil {
		return AggregateTradeRecord{}, err
	}
	if r.FirstTradeID > r.LastTradeID {
		return AggregateTradeRecord{}, malformed("f", "first trade id after last trade id")
	}
	if r.TradeTime, err = f.timestamp(d.policy, "T"); err != nil {
		return AggregateTradeRecord{}, err
	}
	if r.IsBuyerMarketMaker, err = f.boolean("m"); err != nil {
		return AggregateTradeRecord{}, err
	}
	return r, nil
}
