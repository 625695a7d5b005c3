package binance

import "time"

// TradeRecord is a single trade from the <symbol>@trade stream.
type TradeRecord struct {
	TradeID            int64      `json:"trade_id"`
	EventType          string     `json:"event_type"`
	EventTime          time.Time  `json:"event_time"`
	Symbol             Symbol     `json:"symbol"`
	Price              float64    `json:"price"`
	Quantity           float64    `json:"quantity"`
	BuyerOrderID       int64      `json:"buyer_order_id"`
	SellerOrderID      int64      `json:"seller_order_id"`
	TradeTime          *time.Time `json:"trade_time,omitempty"`
	IsBuyerMarketMaker bool       `json:"is_buyer_market_maker"`
}

func (TradeRecord) Kind() StreamKind       { return StreamTrade }
func (r TradeRecord) RecordSymbol() Symbol { return r.Symbol }

// DecodeTrade decodes
//
//	{"e":"trade","E":1555444333222,"s":"BNBBTC","t":12345,"p":"0.001","q":"100",
//	 "b":88,"a":50,"T":1666555444333,"m":true,"M":true}
//
// "M" is a deprecated flag and is ignored.
func (d Decoder) DecodeTrade(raw []byte) (TradeRecord, error) {
	f, err := parseFrame(raw)
	if err != nil {
		return TradeRecord{}, err
	}

	var r TradeRecord
	if r.Symbol, err = f.symbol("s"); err != nil {
		return TradeRecord{}, err
	}
	if r.EventType, err = f.event("trade"); err != nil {
		return TradeRecord{}, err
	}
	if r.EventTime, err = f.timestamp(d.policy, "E"); err != nil {
		return TradeRecord{}, err
	}
	if r.TradeID, err = f.integer("t"); err != nil {
		return TradeRecord{}, err
	}
	if r.Price, err = f.number("p"); err != nil {
		return TradeRecord{}, err
	}
	if r.Quantity, err = f.quantity("q"); err != nil {
		return TradeRecord{}, err
	}
	if r.BuyerOrderID, err = f.integer("b"); err != nil {
		return TradeRecord{}, err
	}
	if r.SellerOrderID, err = f.integer("a"); err != nil {
		return TradeRecord{}, err
	}
	if r.TradeTime, err = f.optionalTimestamp(d.policy, "T"); err != nil {
		return TradeRecord{}, err
	}
	if r.IsBuyerMarketMaker, err = f.boolean("m"); err != nil {
		return TradeRecord{}, err
	}
	return r, nil
}
