package postgres

import (
	"database/sql/driver"
	"fmt"
	"time"

	"bncollector/pkg/binance"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// QuotePairs is an order-book side stored as a JSON array of
// {"price","quantity"} objects.
type QuotePairs []binance.QuotePair

func (q QuotePairs) Value() (driver.Value, error) {
	if q == nil {
		q = QuotePairs{}
	}
	b, err := json.Marshal([]binance.QuotePair(q))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan reads the column back through the map-shape quote decoder.
func (q *QuotePairs) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	case nil:
		*q = nil
		return nil
	default:
		return fmt.Errorf("scan QuotePairs: unsupported type %T", src)
	}
	var levels []binance.QuotePair
	if err := json.Unmarshal(data, &levels); err != nil {
		return fmt.Errorf("scan QuotePairs: %w", err)
	}
	*q = levels
	return nil
}

func (QuotePairs) GormDataType() string { return "json" }

func (QuotePairs) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "JSONB"
	}
	return "JSON"
}

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

// TradeRecord is one row of the trades table.
type TradeRecord struct {
	ID uint `gorm:"primaryKey"`

	// unique index
	Symbol  string `gorm:"type:varchar(20);not null;index:idx_trade_symbol_id,unique"`
	TradeID int64  `gorm:"not null;index:idx_trade_symbol_id,unique"`

	EventType          string          `gorm:"type:varchar(32);not null"`
	EventTime          time.Time       `gorm:"not null;index:idx_trade_event_time"`
	Price              decimal.Decimal `gorm:"type:numeric;not null"`
	Quantity           decimal.Decimal `gorm:"type:numeric;not null"`
	BuyerOrderID       int64           `gorm:"not null"`
	SellerOrderID      int64           `gorm:"not null"`
	TradeTime          *time.Time
	IsBuyerMarketMaker bool `gorm:"not null"`

	RecordedAt time.Time `gorm:"autoCreateTime"`
}

func (TradeRecord) TableName() string { return "trades" }

func toTradeRecord(r binance.TradeRecord) *TradeRecord {
	return &TradeRecord{
		Symbol:             r.Symbol.String(),
		TradeID:            r.TradeID,
		EventType:          r.EventType,
		EventTime:          r.EventTime,
		Price:              dec(r.Price),
		Quantity:           dec(r.Quantity),
		BuyerOrderID:       r.BuyerOrderID,
		SellerOrderID:      r.SellerOrderID,
		TradeTime:          r.TradeTime,
		IsBuyerMarketMaker: r.IsBuyerMarketMaker,
	}
}

// AggregateTradeRecord is one row of the aggregate_trades table.
type AggregateTradeRecord struct {
	ID uint `gorm:"primaryKey"`

	// unique index
	Symbol  string `gorm:"type:varchar(20);not null;index:idx_agg_trade_symbol_id,unique"`
	TradeID int64  `gorm:"not null;index:idx_agg_trade_symbol_id,unique"`

	EventType          string          `gorm:"type:varchar(32);not null"`
	EventTime          time.Time       `gorm:"not null;index:idx_agg_trade_event_time"`
	Price              decimal.Decimal `gorm:"type:numeric;not null"`
	Quantity           decimal.Decimal `gorm:"type:numeric;not null"`
	FirstTradeID       int64           `gorm:"not null"`
	LastTradeID        int64           `gorm:"not null"`
	TradeTime          time.Time       `gorm:"not null"`
	IsBuyerMarketMaker bool            `gorm:"not null"`

	RecordedAt time.Time `gorm:"autoCreateTime"`
}

func (AggregateTradeRecord) TableName() string { return "aggregate_trades" }

func toAggregateTradeRecord(r binance.AggregateTradeRecord) *AggregateTradeRecord {
	return &AggregateTradeRecord{
		Symbol:             r.Symbol.String(),
		TradeID:            r.TradeID,
		EventType:          r.EventType,
		EventTime:          r.EventTime,
		Price:              dec(r.Price),
		Quantity:           dec(r.Quantity),
		FirstTradeID:       r.FirstTradeID,
		LastTradeID:        r.LastTradeID,
		TradeTime:          r.TradeTime,
		IsBuyerMarketMaker: r.IsBuyerMarketMaker,
	}
}

// BookDepthRecord is one row of the book_depth table.
type BookDepthRecord struct {
	ID uint `gorm:"primaryKey"`

	// unique index
	Symbol        string `gorm:"type:varchar(20);not null;index:idx_depth_symbol_update,unique"`
	UpdateIDFirst int64  `gorm:"not null;index:idx_depth_symbol_update,unique"`
	UpdateIDLast  int64  `gorm:"not null;index:idx_depth_symbol_update,unique"`

	EventType string     `gorm:"type:varchar(32);not null"`
	EventTime time.Time  `gorm:"not null;index:idx_depth_event_time"`
	Bids      QuotePairs `gorm:"not null"`
	Asks      QuotePairs `gorm:"not null"`

	RecordedAt time.Time `gorm:"autoCreateTime"`
}

func (BookDepthRecord) TableName() string { return "book_depth" }

func toBookDepthRecord(r binance.BookDepthDelta) *BookDepthRecord {
	return &BookDepthRecord{
		Symbol:        r.Symbol.String(),
		UpdateIDFirst: r.UpdateIDFirst,
		UpdateIDLast:  r.UpdateIDLast,
		EventType:     r.EventType,
		EventTime:     r.EventTime,
		Bids:          QuotePairs(r.Bids),
		Asks:          QuotePairs(r.Asks),
	}
}

// Delta converts the row back into the decoded form.
func (r *BookDepthRecord) Delta() (binance.BookDepthDelta, error) {
	sym, err := binance.DecodeSymbol(r.Symbol)
	if err != nil {
		return binance.BookDepthDelta{}, err
	}
	return binance.BookDepthDelta{
		EventType:     r.EventType,
		EventTime:     r.EventTime.UTC(),
		Symbol:        sym,
		UpdateIDFirst: r.UpdateIDFirst,
		UpdateIDLast:  r.UpdateIDLast,
		Bids:          []binance.QuotePair(r.Bids),
		Asks:          []binance.QuotePair(r.Asks),
	}, nil
}

// BookSnapshotRecord is one row of the book_depth_snapshot table, written for
// partial-depth streams and REST snapshots.
type BookSnapshotRecord struct {
	ID uint `gorm:"primaryKey"`

	// unique index
	Symbol       string `gorm:"type:varchar(20);not null;index:idx_snapshot_symbol_update,unique"`
	LastUpdateID int64  `gorm:"not null;index:idx_snapshot_symbol_update,unique"`

	Bids QuotePairs `gorm:"not null"`
	Asks QuotePairs `gorm:"not null"`

	RecordedAt time.Time `gorm:"autoCreateTime;index:idx_snapshot_recorded_at"`
}

func (BookSnapshotRecord) TableName() string { return "book_depth_snapshot" }

func toBookSnapshotRecord(r binance.PartialBookDepth) *BookSnapshotRecord {
	return &BookSnapshotRecord{
		Symbol:       r.Symbol.String(),
		LastUpdateID: r.LastUpdateID,
		Bids:         QuotePairs(r.Bids),
		Asks:         QuotePairs(r.Asks),
	}
}

// TickerRecord is one row of the tickers table.
type TickerRecord struct {
	ID uint `gorm:"primaryKey"`

	// unique index
	Symbol    string    `gorm:"type:varchar(20);not null;index:idx_ticker_symbol_time,unique"`
	EventTime time.Time `gorm:"not null;index:idx_ticker_symbol_time,unique"`

	EventType          string          `gorm:"type:varchar(32);not null"`
	PriceChange        decimal.Decimal `gorm:"type:numeric;not null"`
	PriceChangePercent decimal.Decimal `gorm:"type:numeric;not null"`
	WeightedAvgPrice   decimal.Decimal `gorm:"type:numeric;not null"`
	FirstTradePrice    decimal.Decimal `gorm:"type:numeric;not null"`
	LastPrice          decimal.Decimal `gorm:"type:numeric;not null"`
	LastQuantity       decimal.Decimal `gorm:"type:numeric;not null"`
	BestBidPrice       decimal.Decimal `gorm:"type:numeric;not null"`
	BestBidQuantity    decimal.Decimal `gorm:"type:numeric;not null"`
	BestAskPrice       decimal.Decimal `gorm:"type:numeric;not null"`
	BestAskQuantity    decimal.Decimal `gorm:"type:numeric;not null"`
	OpenPrice          decimal.Decimal `gorm:"type:numeric;not null"`
	HighPrice          decimal.Decimal `gorm:"type:numeric;not null"`
	LowPrice           decimal.Decimal `gorm:"type:numeric;not null"`
	BaseVolume         decimal.Decimal `gorm:"type:numeric;not null"`
	QuoteVolume        decimal.Decimal `gorm:"type:numeric;not null"`
	OpenTime           time.Time       `gorm:"not null"`
	CloseTime          time.Time       `gorm:"not null"`
	FirstTradeID       int64           `gorm:"not null"`
	LastTradeID        int64           `gorm:"not null"`
	NumOfTrades        int64           `gorm:"not null"`

	RecordedAt time.Time `gorm:"autoCreateTime"`
}

func (TickerRecord) TableName() string { return "tickers" }

func toTickerRecord(r binance.TickerRecord) *TickerRecord {
	return &TickerRecord{
		Symbol:             r.Symbol.String(),
		EventTime:          r.EventTime,
		EventType:          r.EventType,
		PriceChange:        dec(r.PriceChange),
		PriceChangePercent: dec(r.PriceChangePercent),
		WeightedAvgPrice:   dec(r.WeightedAvgPrice),
		FirstTradePrice:    dec(r.FirstTradePrice),
		LastPrice:          dec(r.LastPrice),
		LastQuantity:       dec(r.LastQuantity),
		BestBidPrice:       dec(r.BestBidPrice),
		BestBidQuantity:    dec(r.BestBidQuantity),
		BestAskPrice:       dec(r.BestAskPrice),
		BestAskQuantity:    dec(r.BestAskQuantity),
		OpenPrice:          dec(r.OpenPrice),
		HighPrice:          dec(r.HighPrice),
		LowPrice:           dec(r.LowPrice),
		BaseVolume:         dec(r.BaseVolume),
		QuoteVolume:        dec(r.QuoteVolume),
		OpenTime:           r.OpenTime,
		CloseTime:          r.CloseTime,
		FirstTradeID:       r.FirstTradeID,
		LastTradeID:        r.LastTradeID,
		NumOfTrades:        r.NumOfTrades,
	}
}

// MiniTickerRecord is one row of the mini_tickers table.
type MiniTickerRecord struct {
	ID uint `gorm:"primaryKey"`

	// unique index
	Symbol    string    `gorm:"type:varchar(20);not null;index:idx_mini_ticker_symbol_time,unique"`
	EventTime time.Time `gorm:"not null;index:idx_mini_ticker_symbol_time,unique"`

	EventType   string          `gorm:"type:varchar(32);not null"`
	ClosePrice  decimal.Decimal `gorm:"type:numeric;not null"`
	OpenPrice   decimal.Decimal `gorm:"type:numeric;not null"`
	HighPrice   decimal.Decimal `gorm:"type:numeric;not null"`
	LowPrice    decimal.Decimal `gorm:"type:numeric;not null"`
	BaseVolume  decimal.Decimal `gorm:"type:numeric;not null"`
	QuoteVolume decimal.Decimal `gorm:"type:numeric;not null"`

	RecordedAt time.Time `gorm:"autoCreateTime"`
}

func (MiniTickerRecord) TableName() string { return "mini_tickers" }

func toMiniTickerRecord(r binance.MiniTickerRecord) *MiniTickerRecord {
	return &MiniTickerRecord{
		Symbol:      r.Symbol.String(),
		EventTime:   r.EventTime,
		EventType:   r.EventType,
		ClosePrice:  dec(r.ClosePrice),
		OpenPrice:   dec(r.OpenPrice),
		HighPrice:   dec(r.HighPrice),
		LowPrice:    dec(r.LowPrice),
		BaseVolume:  dec(r.BaseVolume),
		QuoteVolume: dec(r.QuoteVolume),
	}
}

// allModels lists every table AutoMigrate creates.
var allModels = []any{
	&TradeRecord{},
	&AggregateTradeRecord{},
	&BookDepthRecord{},
	&BookSnapshotRecord{},
	&KlineRecord{},
	&TickerRecord{},
	&MiniTickerRecord{},
}
