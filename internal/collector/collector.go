package collector

import (
	"context"
	"fmt"
	"time"

	"bncollector/config"
	"bncollector/internal/memorystore"
	"bncollector/internal/sink"
	"bncollector/internal/snapshot"
	"bncollector/internal/stream"
	"bncollector/pkg/binance"
	"bncollector/pkg/storage/postgres"
	"bncollector/pkg/storage/redis"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const countLogInterval = 5 * time.Second

// storage holds the sinks opened for one run and how to release them.
type storage struct {
	memory  *memorystore.MemoryRecordStore
	db      *postgres.PostgresClient
	sinks   []sink.Sink
	closers []func() error
}

func (s *storage) close(logger *zap.Logger) {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			logger.Warn("failed to close storage", zap.Error(err))
		}
	}
}

// Run opens storage, backfills from REST when enabled, and keeps one
// WebSocket session per subscription until ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	policy, err := cfg.Decoder.Policy()
	if err != nil {
		return err
	}
	decoder := binance.NewDecoder(policy)

	subs, err := cfg.Subscriptions()
	if err != nil {
		return err
	}

	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.close(logger)

	out := sink.NewMulti(store.sinks...)
	logger.Info("collector starting",
		zap.Int("streams", len(subs)),
		zap.String("storage", cfg.Storage.Driver),
		zap.Int("sinks", out.Len()),
		zap.Time("launch_epoch", policy.Launch))

	g, gctx := errgroup.WithContext(ctx)

	// REST snapshot and kline backfill, repeated every UTC midnight
	if cfg.Binance.Backfill.Enabled {
		loader := &snapshot.Loader{
			Cfg:        cfg.Binance.Backfill,
			RestClient: binance.NewRESTClient(cfg.Binance.REST.BaseURL, cfg.Binance.REST.Timeout, decoder),
			Store:      out,
			Logger:     logger.Named("backfill"),
			Timeout:    cfg.Binance.REST.Timeout,
		}
		if store.db != nil {
			loader.Klines = store.db
		}
		scheduler := &snapshot.MidnightScheduler{Load: func(ctx context.Context) {
			if err := loader.Run(ctx, subs); err != nil {
				logger.Info("backfill interrupted", zap.Error(err))
			}
		}}
		done := scheduler.Start(gctx)
		g.Go(func() error {
			<-done
			return nil
		})
	}

	// Periodically print stored record count for visibility
	g.Go(func() error {
		ticker := time.NewTicker(countLogInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				logger.Info("current saved records",
					zap.Int("count", store.memory.CountAll()),
					zap.Int("symbols", len(store.memory.Symbols())))
			}
		}
	})

	sessionCfg := cfg.Binance.WS.SessionConfig()
	for _, sub := range subs {
		handler := stream.MakeMessageHandler(logger, sub, decoder, out, cfg.Binance.WS.StoreTimeout)
		session := binance.NewSession(sub.URL(cfg.Binance.WS.URL), sessionCfg, handler, logger)
		g.Go(func() error {
			return session.Run(gctx)
		})
	}

	return g.Wait()
}

func openStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*storage, error) {
	s := &storage{memory: memorystore.NewRecordStore(memorystore.DefaultCapacity)}
	s.sinks = append(s.sinks, s.memory)

	switch cfg.Storage.Driver {
	case "postgres":
		client, err := postgres.InitializeAndMigrate(cfg.Postgres, cfg.Storage.CreateDB, cfg.Log.Environment)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to DB: %w", err)
		}
		s.db = client
	case "sqlite":
		client, err := postgres.NewSQLiteClient(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := client.AutoMigrate(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("migration failed: %w", err)
		}
		s.db = client
	case "memory":
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	if s.db != nil {
		s.sinks = append(s.sinks, s.db)
		s.closers = append(s.closers, s.db.Close)
		logger.Info("database ready", zap.String("driver", cfg.Storage.Driver))
	}

	if cfg.Redis.Enabled {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		rdb, err := redis.Dial(pingCtx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		cancel()
		if err != nil {
			s.close(logger)
			return nil, fmt.Errorf("redis initialization failed: %w", err)
		}
		s.sinks = append(s.sinks, redis.New(rdb, cfg.Redis.Prefix, cfg.Redis.StreamLen))
		s.closers = append(s.closers, rdb.Close)
		logger.Info("redis ready", zap.String("addr", cfg.Redis.Addr), zap.Int("db", cfg.Redis.DB))
	}

	return s, nil
}
