package config

import (
	"errors"
	"fmt"
	"time"

	"bncollector/pkg/binance"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Binance.WS.URL == "" {
		return errors.New("binance.ws.url is required")
	}
	if c.Binance.REST.BaseURL == "" {
		return errors.New("binance.rest.base_url is required")
	}
	if len(c.Binance.Streams) == 0 {
		return errors.New("binance.streams must list at least one stream")
	}
	if _, err := c.Subscriptions(); err != nil {
		return err
	}
	if c.Binance.Backfill.Enabled {
		if c.Binance.Backfill.Concurrency < 1 {
			return errors.New("binance.backfill.concurrency must be >= 1")
		}
		if c.Binance.Backfill.Lookback <= 0 {
			return errors.New("binance.backfill.lookback must be > 0")
		}
	}

	if _, err := c.Decoder.Policy(); err != nil {
		return err
	}

	switch c.Storage.Driver {
	case "postgres":
		if c.Postgres.DBName == "" {
			return errors.New("postgres.dbname is required")
		}
	case "sqlite":
		if c.Storage.SQLitePath == "" {
			return errors.New("storage.sqlite_path is required")
		}
	case "memory":
	default:
		return fmt.Errorf("storage.driver must be postgres, sqlite or memory, got %q", c.Storage.Driver)
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		return errors.New("redis.addr is required")
	}
	return nil
}

// Policy builds the decoder timestamp policy.
func (d DecoderConfig) Policy() (binance.TimestampPolicy, error) {
	policy := binance.DefaultTimestampPolicy()
	if d.UnitThreshold != 0 {
		if d.UnitThreshold < 0 {
			return binance.TimestampPolicy{}, fmt.Errorf("decoder.unit_threshold must be > 0, got %d", d.UnitThreshold)
		}
		policy.UnitThreshold = d.UnitThreshold
	}
	if d.LaunchEpoch != "" {
		launch, err := time.Parse(time.RFC3339, d.LaunchEpoch)
		if err != nil {
			return binance.TimestampPolicy{}, fmt.Errorf("decoder.launch_epoch: %w", err)
		}
		policy.Launch = launch.UTC()
	}
	return policy, nil
}

// Subscriptions expands binance.streams into validated subscriptions. A
// stream with a quote instead of a symbol yields one subscription per pair.
func (c *Config) Subscriptions() ([]binance.Subscription, error) {
	var subs []binance.Subscription
	for i, s := range c.Binance.Streams {
		prefix := fmt.Sprintf("binance.streams[%d]", i)
		base := binance.Subscription{
			Kind:     binance.StreamKind(s.Kind),
			Interval: binance.KlineInterval(s.Interval),
			Levels:   s.Levels,
		}

		var symbols []binance.Symbol
		switch {
		case base.Kind == binance.StreamAllMiniTickers:
			symbols = []binance.Symbol{0}
		case s.Symbol != "" && s.Quote != "":
			return nil, fmt.Errorf("%s: set either symbol or quote, not both", prefix)
		case s.Symbol != "":
			sym, err := binance.DecodeSymbol(s.Symbol)
			if err != nil {
				return nil, fmt.Errorf("%s.symbol: %w", prefix, err)
			}
			symbols = []binance.Symbol{sym}
		case s.Quote != "":
			symbols = binance.SymbolsByQuote(binance.Quote(s.Quote))
			if len(symbols) == 0 {
				return nil, fmt.Errorf("%s.quote: no symbols quoted in %q", prefix, s.Quote)
			}
		default:
			return nil, fmt.Errorf("%s.symbol is required", prefix)
		}

		for _, sym := range symbols {
			sub := base
			sub.Symbol = sym
			if err := sub.Validate(); err != nil {
				return nil, fmt.Errorf("%s: %w", prefix, err)
			}
			subs = append(subs, sub)
		}
	}
	return subs, nil
}

// SessionConfig maps binance.ws onto the session settings.
func (w WSConfig) SessionConfig() binance.SessionConfig {
	return binance.SessionConfig{
		HandshakeTimeout: w.HandshakeTimeout,
		PingInterval:     w.PingInterval,
		ReadTimeout:      w.ReadTimeout,
		MinBackoff:       w.MinBackoff,
		MaxBackoff:       w.MaxBackoff,
	}
}
