package postgres

import (
	"time"

	"bncollector/pkg/binance"

	"github.com/shopspring/decimal"
)

// KlineRecord represents a candlestick stored in the database. Open and
// closed versions of the same candle are kept as separate rows.
type KlineRecord struct {
	ID uint `gorm:"primaryKey"`

	// unique index
	Symbol    string    `gorm:"type:varchar(20);not null;index:idx_kline_symbol;index:idx_symbol_interval_start_closed,unique"`
	Interval  string    `gorm:"type:varchar(10);not null;index:idx_symbol_interval_start_closed,unique"`
	StartTime time.Time `gorm:"not null;index:idx_symbol_interval_start_closed,unique"`
	IsClosed  bool      `gorm:"not null;index:idx_symbol_interval_start_closed,unique"`

	EventType    string    `gorm:"type:varchar(32);not null"`
	EventTime    time.Time `gorm:"not null;index:idx_kline_event_time"`
	CloseTime    time.Time `gorm:"not null"`
	FirstTradeID int64     `gorm:"not null"`
	LastTradeID  int64     `gorm:"not null"`

	Open  decimal.Decimal `gorm:"type:numeric;not null"`
	Close decimal.Decimal `gorm:"type:numeric;not null"`
	High  decimal.Decimal `gorm:"type:numeric;not null"`
	Low   decimal.Decimal `gorm:"type:numeric;not null"`

	Volume              decimal.Decimal `gorm:"type:numeric;not null"`
	NumOfTrades         int64           `gorm:"not null"`
	QuoteAssetVolume    decimal.Decimal `gorm:"type:numeric;not null"`
	TakerBuyBaseVolume  decimal.Decimal `gorm:"type:numeric;not null"`
	TakerBuyQuoteVolume decimal.Decimal `gorm:"type:numeric;not null"`

	RecordedAt time.Time `gorm:"autoCreateTime"`
}

// TableName overrides the default table name for GORM.
func (KlineRecord) TableName() string { return "klines" }

// ToKlineRecord converts a decoded kline into a row for insertion.
func ToKlineRecord(k binance.KlineRecord) *KlineRecord {
	return &KlineRecord{
		Symbol:              k.Symbol.String(),
		Interval:            string(k.Interval),
		StartTime:           k.StartTime,
		IsClosed:            k.IsClosed,
		EventType:           k.EventType,
		EventTime:           k.EventTime,
		CloseTime:           k.CloseTime,
		FirstTradeID:        k.FirstTradeID,
		LastTradeID:         k.LastTradeID,
		Open:                dec(k.Open),
		Close:               dec(k.Close),
		High:                dec(k.High),
		Low:                 dec(k.Low),
		Volume:              dec(k.Volume),
		NumOfTrades:         k.NumOfTrades,
		QuoteAssetVolume:    dec(k.QuoteAssetVolume),
		TakerBuyBaseVolume:  dec(k.TakerBuyBaseVolume),
		TakerBuyQuoteVolume: dec(k.TakerBuyQuoteVolume),
	}
}
