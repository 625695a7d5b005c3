package binance

import (
	"fmt"
	"time"
)

// KlineRecord is a candle flattened out of the kline event envelope: the
// outer event fields and the inner "k" object share one record.
type KlineRecord struct {
	EventType           string        `json:"event_type"`
	EventTime           time.Time     `json:"event_time"`
	StartTime           time.Time     `json:"start_time"`
	CloseTime           time.Time     `json:"close_time"`
	Symbol              Symbol        `json:"symbol"`
	Interval            KlineInterval `json:"interval"`
	FirstTradeID        int64         `json:"first_trade_id"`
	LastTradeID         int64         `json:"last_trade_id"`
	Open                float64       `json:"open"`
	Close               float64       `json:"close"`
	High                float64       `json:"high"`
	Low                 float64       `json:"low"`
	Volume              float64       `json:"volume"`
	NumOfTrades         int64         `json:"num_of_trades"`
	IsClosed            bool          `json:"is_closed"`
	QuoteAssetVolume    float64       `json:"quote_asset_volume"`
	TakerBuyBaseVolume  float64       `json:"taker_buy_base_volume"`
	TakerBuyQuoteVolume float64       `json:"taker_buy_quote_volume"`
}

func (KlineRecord) Kind() StreamKind       { return StreamKline }
func (r KlineRecord) RecordSymbol() Symbol { return r.Symbol }

// DecodeKline decodes a kline event. The inner "B" field is unused by the
// exchange and ignored.
func (d Decoder) DecodeKline(raw []byte) (KlineRecord, error) {
	f, err := parseFrame(raw)
	if err != nil {
		return KlineRecord{}, err
	}

	var r KlineRecord
	if r.Symbol, err = f.symbol("s"); err != nil {
		return KlineRecord{}, err
	}
	if r.EventType, err = f.event("kline"); err != nil {
		return KlineRecord{}, err
	}
	if r.EventTime, err = f.timestamp(d.policy, "E"); err != nil {
		return KlineRecord{}, err
	}

	k, err := f.object("k")
	if err != nil {
		return KlineRecord{}, err
	}
	if _, ok := k["s"]; ok {
		inner, err := k.symbol("s")
		if err != nil {
			return KlineRecord{}, inField(err, "k.s")
		}
		if inner != r.Symbol {
			return KlineRecord{}, malformed("k.s", fmt.Sprintf("symbol %s does not match event symbol %s", inner, r.Symbol))
		}
	}
	if err := d.decodeCandle(k, &r); err != nil {
		return KlineRecord{}, err
	}
	return r, nil
}

func (d Decoder) decodeCandle(k frame, r *KlineRecord) error {
	var err error
	if r.StartTime, err = k.timestamp(d.policy, "t"); err != nil {
		return err
	}
	if r.CloseTime, err = k.timestamp(d.policy, "T"); err != nil {
		return err
	}
	iv, err := k.str("i")
	if err != nil {
		return err
	}
	if r.Interval, err = ParseKlineInterval(iv); err != nil {
		return inField(err, "i")
	}
	if r.FirstTradeID, err = k.integer("f"); err != nil {
		return err
	}
	if r.LastTradeID, err = k.integer("L"); err != nil {
		return err
	}
	if r.Open, err = k.number("o"); err != nil {
		return err
	}
	if r.Close, err = k.number("c"); err != nil {
		return err
	}
	if r.High, err = k.number("h"); err != nil {
		return err
	}
	if r.Low, err = k.number("l"); err != nil {
		return err
	}
	if r.Volume, err = k.quantity("v"); err != nil {
		return err
	}
	if r.NumOfTrades, err = k.integer("n"); err != nil {
		return err
	}
	if r.IsClosed, err = k.boolean("x"); err != nil {
		return err
	}
	if r.QuoteAssetVolume, err = k.quantity("q"); err != nil {
		return err
	}
	if r.TakerBuyBaseVolume, err = k.quantity("V"); err != nil {
		return err
	}
	if r.TakerBuyQuoteVolume, err = k.quantity("Q"); err != nil {
		return err
	}
	return nil
}

// klineRowLen is the column count of a /api/v3/klines row:
// open time, open, high, low, close, volume, close time, quote volume,
// trade count, taker base volume, taker quote volume, unused.
const klineRowLen = 11

// DecodeKlineRow decodes one REST kline row. Rows carry no trade ids, so
// FirstTradeID and LastTradeID are -1, the value the stream uses for candles
// without trades. A candle whose close time is after asOf is still open.
func (d Decoder) DecodeKlineRow(symbol Symbol, interval KlineInterval, row []any, asOf time.Time) (KlineRecord, error) {
	if !symbol.IsValid() {
		return KlineRecord{}, &DecodeError{Kind: UnknownSymbol, Value: symbol.String()}
	}
	if !interval.IsValid() {
		return KlineRecord{}, malformed("interval", "invalid kline interval "+string(interval))
	}
	if len(row) < klineRowLen {
		return KlineRecord{}, malformed("", fmt.Sprintf("kline row has %d columns, want %d", len(row), klineRowLen))
	}

	r := KlineRecord{
		EventType:    "kline",
		Symbol:       symbol,
		Interval:     interval,
		FirstTradeID: -1,
		LastTradeID:  -1,
	}
	var err error
	col := func(i int) string { return fmt.Sprintf("[%d]", i) }

	if r.StartTime, err = d.policy.Decode(row[0]); err != nil {
		return KlineRecord{}, inField(err, col(0))
	}
	prices := []*float64{&r.Open, &r.High, &r.Low, &r.Close}
	for i, dst := range prices {
		if *dst, err = DecodeNumber(row[1+i]); err != nil {
			return KlineRecord{}, inField(err, col(1+i))
		}
	}
	if r.Volume, err = DecodeQuantity(row[5]); err != nil {
		return KlineRecord{}, inField(err, col(5))
	}
	if r.CloseTime, err = d.policy.Decode(row[6]); err != nil {
		return KlineRecord{}, inField(err, col(6))
	}
	if r.QuoteAssetVolume, err = DecodeQuantity(row[7]); err != nil {
		return KlineRecord{}, inField(err, col(7))
	}
	if r.NumOfTrades, err = DecodeInt(row[8]); err != nil {
		return KlineRecord{}, inField(err, col(8))
	}
	if r.TakerBuyBaseVolume, err = DecodeQuantity(row[9]); err != nil {
		return KlineRecord{}, inField(err, col(9))
	}
	if r.TakerBuyQuoteVolume, err = DecodeQuantity(row[10]); err != nil {
		return KlineRecord{}, inField(err, col(10))
	}
	r.EventTime = r.CloseTime
	r.IsClosed = !r.CloseTime.After(asOf)
	return r, nil
}
