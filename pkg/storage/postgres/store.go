package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bncollector/pkg/binance"

	"gorm.io/gorm/clause"
)

// ErrDuplicate is returned when a record already exists under its natural key.
var ErrDuplicate = errors.New("duplicate record skipped")

// Store writes one decoded record into its table.
func (p *PostgresClient) Store(ctx context.Context, rec binance.Record) error {
	switch r := rec.(type) {
	case binance.TradeRecord:
		return p.insert(ctx, toTradeRecord(r), "trade_id="+fmt.Sprint(r.TradeID), "symbol", "trade_id")
	case binance.AggregateTradeRecord:
		return p.insert(ctx, toAggregateTradeRecord(r), "agg_trade_id="+fmt.Sprint(r.TradeID), "symbol", "trade_id")
	case binance.BookDepthDelta:
		return p.insert(ctx, toBookDepthRecord(r),
			fmt.Sprintf("update_ids=%d-%d", r.UpdateIDFirst, r.UpdateIDLast),
			"symbol", "update_id_first", "update_id_last")
	case binance.PartialBookDepth:
		return p.insert(ctx, toBookSnapshotRecord(r), "last_update_id="+fmt.Sprint(r.LastUpdateID), "symbol", "last_update_id")
	case binance.KlineRecord:
		return p.InsertKline(ctx, ToKlineRecord(r))
	case binance.TickerRecord:
		return p.insert(ctx, toTickerRecord(r), "event_time="+r.EventTime.Format(time.RFC3339Nano), "symbol", "event_time")
	case binance.MiniTickerRecord:
		return p.insert(ctx, toMiniTickerRecord(r), "event_time="+r.EventTime.Format(time.RFC3339Nano), "symbol", "event_time")
	default:
		return fmt.Errorf("unsupported record type %T", rec)
	}
}

func (p *PostgresClient) insert(ctx context.Context, row any, key string, conflict ...string) error {
	cols := make([]clause.Column, len(conflict))
	for i, name := range conflict {
		cols[i] = clause.Column{Name: name}
	}

	tx := p.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   cols,
		DoNothing: true,
	}).Create(row)

	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return fmt.Errorf("%w: %T %s", ErrDuplicate, row, key)
	}
	return nil
}

func (p *PostgresClient) InsertKline(ctx context.Context, record *KlineRecord) error {
	key := fmt.Sprintf("symbol=%s interval=%s start=%s closed=%t",
		record.Symbol,
		record.Interval,
		record.StartTime.Format(time.RFC3339),
		record.IsClosed,
	)
	return p.insert(ctx, record, key, "symbol", "interval", "start_time", "is_closed")
}

// InsertKlines writes a backfilled batch and reports how many rows were new.
func (p *PostgresClient) InsertKlines(ctx context.Context, klines []binance.KlineRecord) (int64, error) {
	if len(klines) == 0 {
		return 0, nil
	}
	rows := make([]*KlineRecord, len(klines))
	for i, k := range klines {
		rows[i] = ToKlineRecord(k)
	}

	tx := p.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "symbol"},
			{Name: "interval"},
			{Name: "start_time"},
			{Name: "is_closed"},
		},
		DoNothing: true,
	}).CreateInBatches(rows, 200)

	return tx.RowsAffected, tx.Error
}

// GetKline returns the candle starting at start, preferring the closed version.
func (p *PostgresClient) GetKline(ctx context.Context, symbol binance.Symbol, interval binance.KlineInterval, start time.Time) (*KlineRecord, error) {
	var kline KlineRecord
	err := p.DB.WithContext(ctx).
		Where(map[string]any{
			"symbol":     symbol.String(),
			"interval":   string(interval),
			"start_time": start.UTC(),
		}).
		Order("is_closed desc").
		First(&kline).Error

	if err != nil {
		return nil, err
	}
	return &kline, nil
}

// RecentTrades returns up to limit trades for symbol, newest first.
func (p *PostgresClient) RecentTrades(ctx context.Context, symbol binance.Symbol, limit int) ([]TradeRecord, error) {
	var trades []TradeRecord
	err := p.DB.WithContext(ctx).
		Where("symbol = ?", symbol.String()).
		Order("trade_id desc").
		Limit(limit).
		Find(&trades).Error
	return trades, err
}

// LatestBookDepth returns the newest stored depth delta for symbol.
func (p *PostgresClient) LatestBookDepth(ctx context.Context, symbol binance.Symbol) (binance.BookDepthDelta, error) {
	var row BookDepthRecord
	err := p.DB.WithContext(ctx).
		Where("symbol = ?", symbol.String()).
		Order("update_id_last desc").
		First(&row).Error
	if err != nil {
		return binance.BookDepthDelta{}, err
	}
	return row.Delta()
}

// DeleteOlderThan removes rows whose event time is before the cutoff from
// every table and returns the number of rows removed.
func (p *PostgresClient) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	before = before.UTC()
	var total int64
	for _, model := range allModels {
		column := "event_time"
		switch model.(type) {
		case *BookSnapshotRecord:
			column = "recorded_at"
		case *KlineRecord:
			column = "start_time"
		}

		tx := p.DB.WithContext(ctx).Where(column+" < ?", before).Delete(model)
		if tx.Error != nil {
			return total, fmt.Errorf("delete from %T: %w", model, tx.Error)
		}
		total += tx.RowsAffected
	}
	return total, nil
}
