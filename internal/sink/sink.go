package sink

import (
	"context"

	"bncollector/pkg/binance"
)

// Sink persists decoded records. Implementations must be safe for concurrent
// use; every stream session calls Store from its own goroutine.
type Sink interface {
	Store(ctx context.Context, rec binance.Record) error
}

// Func adapts a plain function to Sink.
type Func func(ctx context.Context, rec binance.Record) error

func (f Func) Store(ctx context.Context, rec binance.Record) error { return f(ctx, rec) }

// Multi hands each record to every sink in order and returns the first error.
// A failing sink does not stop the ones after it.
type Multi struct {
	sinks []Sink
}

func NewMulti(sinks ...Sink) *Multi {
	out := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return &Multi{sinks: out}
}

func (m *Multi) Store(ctx context.Context, rec binance.Record) error {
	var firstErr error
	for _, s := range m.sinks {
		if err := s.Store(ctx, rec); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m *Multi) Len() int { return len(m.sinks) }
