package ratelimit

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// Sweepable is implemented by in-memory state that evicts stale entries.
type Sweepable interface {
	Sweep(now time.Time) int
}

// StartSweeper runs a periodic eviction pass over the given state until the
// context is cancelled. The interval approximates a TTL: entries survive at
// most one full extra interval past their natural expiry.
func StartSweeper(ctx context.Context, interval time.Duration, targets ...Sweepable) {
	if interval <= 0 {
		interval = time.Hour
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				removed := 0
				for _, target := range targets {
					removed += target.Sweep(now)
				}
				if removed > 0 {
					log.WithField("removed", removed).Debug("sweeper: evicted stale entries")
				}
			}
		}
	}()
}
