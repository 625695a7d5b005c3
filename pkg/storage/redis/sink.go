package redis

import (
	"context"
	"fmt"
	"strings"

	"bncollector/pkg/binance"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const defaultStreamLen = 10000

// Sink keeps the newest record per symbol in a hash and appends every record
// to a capped stream:
//
//	HSET <prefix>:latest:<stream> <SYMBOL> <json>
//	XADD <prefix>:<stream> MAXLEN ~ <len> * symbol <SYMBOL> record <json>
type Sink struct {
	rdb       *redis.Client
	prefix    string
	streamLen int64
}

func New(rdb *redis.Client, prefix string, streamLen int64) *Sink {
	if strings.TrimSpace(prefix) == "" {
		prefix = "bncollector"
	}
	if streamLen <= 0 {
		streamLen = defaultStreamLen
	}
	return &Sink{rdb: rdb, prefix: prefix, streamLen: streamLen}
}

// Dial connects and pings before returning the client.
func Dial(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}

func (s *Sink) LatestKey(kind binance.StreamKind) string {
	return s.prefix + ":latest:" + string(kind)
}

func (s *Sink) StreamKey(kind binance.StreamKind) string {
	return s.prefix + ":" + string(kind)
}

func (s *Sink) Store(ctx context.Context, rec binance.Record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal %T: %w", rec, err)
	}
	symbol := rec.RecordSymbol().String()

	pipe := s.rdb.Pipeline()
	pipe.HSet(ctx, s.LatestKey(rec.Kind()), symbol, string(b))
	pipe.XAdd(ctx, &redis.XAddArgs{
		Stream: s.StreamKey(rec.Kind()),
		MaxLen: s.streamLen,
		Approx: true,
		Values: map[string]any{
			"symbol": symbol,
			"record": string(b),
		},
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis store %s %s: %w", rec.Kind(), symbol, err)
	}
	return nil
}

// Latest returns the newest raw record JSON stored for symbol.
func (s *Sink) Latest(ctx context.Context, kind binance.StreamKind, symbol binance.Symbol) (string, error) {
	return s.rdb.HGet(ctx, s.LatestKey(kind), symbol.String()).Result()
}
