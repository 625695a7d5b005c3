package snapshot

import (
	"context"
	"time"

	"bncollector/config"
	"bncollector/internal/sink"
	"bncollector/pkg/binance"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// KlineWriter stores a backfilled batch in one round trip.
type KlineWriter interface {
	InsertKlines(ctx context.Context, klines []binance.KlineRecord) (int64, error)
}

// Loader seeds storage from REST before the streams start: a depth snapshot
// per order-book subscription and recent candles per kline subscription.
type Loader struct {
	Cfg        config.BackfillConfig
	RestClient *binance.RESTClient
	Store      sink.Sink
	Klines     KlineWriter // optional; falls back to Store per record
	Logger     *zap.Logger
	Timeout    time.Duration
}

// Run loads depth snapshots and kline history for subs. Per-symbol failures
// are logged; only context cancellation is returned.
func (l *Loader) Run(ctx context.Context, subs []binance.Subscription) error {
	end := time.Now().UTC()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(l.Cfg.Concurrency, 1))

	for _, sub := range subs {
		switch sub.Kind {
		case binance.StreamDepth, binance.StreamPartialDepth:
			g.Go(func() error {
				l.loadDepth(gctx, sub.Symbol)
				return nil
			})
		case binance.StreamKline:
			g.Go(func() error {
				l.backfillKlines(gctx, sub.Symbol, sub.Interval, end.Add(-l.Cfg.Lookback), end)
				return nil
			})
		}
	}

	_ = g.Wait()
	return ctx.Err()
}

func (l *Loader) loadDepth(ctx context.Context, symbol binance.Symbol) {
	reqCtx, cancel := context.WithTimeout(ctx, l.Timeout)
	depth, err := l.RestClient.GetDepthSnapshot(reqCtx, symbol, l.Cfg.DepthLimit)
	cancel()
	if err != nil {
		l.Logger.Warn("failed to fetch depth snapshot", zap.Stringer("symbol", symbol), zap.Error(err))
		return
	}

	if err := l.Store.Store(ctx, depth); err != nil {
		l.Logger.Warn("failed to store depth snapshot", zap.Stringer("symbol", symbol), zap.Error(err))
		return
	}
	l.Logger.Info("loaded depth snapshot",
		zap.Stringer("symbol", symbol),
		zap.Int64("last_update_id", depth.LastUpdateID),
		zap.Int("bids", len(depth.Bids)),
		zap.Int("asks", len(depth.Asks)))
}

func (l *Loader) backfillKlines(ctx context.Context, symbol binance.Symbol, interval binance.KlineInterval, start, end time.Time) {
	reqCtx, cancel := context.WithTimeout(ctx, l.Timeout)
	klines, err := l.RestClient.GetKlines(reqCtx, symbol, interval, start, end)
	cancel()
	if err != nil {
		l.Logger.Warn("failed to fetch kline from REST", zap.Stringer("symbol", symbol), zap.Error(err))
		return
	}

	var (
		inserted int64
		failed   bool
	)
	if l.Klines != nil {
		inserted, err = l.Klines.InsertKlines(ctx, klines)
		if err != nil {
			l.Logger.Warn("failed to insert klines", zap.Stringer("symbol", symbol), zap.Error(err))
			failed = true
		}
	} else {
		for _, k := range klines {
			if err := l.Store.Store(ctx, k); err != nil {
				l.Logger.Warn("failed to store kline", zap.Stringer("symbol", symbol), zap.Error(err))
				failed = true
				continue
			}
			inserted++
		}
	}

	if failed {
		l.Logger.Warn("backfill finished with errors for symbol", zap.Stringer("symbol", symbol))
		return
	}
	l.Logger.Info("backfill completed for symbol",
		zap.Stringer("symbol", symbol),
		zap.String("interval", string(interval)),
		zap.Int("fetched", len(klines)),
		zap.Int64("inserted", inserted))
}
