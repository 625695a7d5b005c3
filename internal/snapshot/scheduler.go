package snapshot

import (
	"context"
	"time"
)

// MidnightScheduler runs Load once at startup, then at every UTC midnight.
type MidnightScheduler struct {
	Load func(ctx context.Context)
}

// NextMidnight returns the first UTC midnight strictly after t.
func NextMidnight(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
}

// Start runs the schedule in a goroutine until ctx is cancelled. The returned
// channel is closed when it stops.
func (m *MidnightScheduler) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)

		// Run immediately once at startup
		m.Load(ctx)

		for {
			timer := time.NewTimer(time.Until(NextMidnight(time.Now())))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
				m.Load(ctx)
			}
		}
	}()
	return done
}
