package ratelimit

import (
	"context"
	"strings"
	"sync"
	"time"
)

// dayLayout formats the calendar-day component of counter keys.
const dayLayout = "2006-01-02"

// DailyLimiter implements a fixed-window in-memory limiter keyed by user and
// UTC calendar day. Counters are process-local and lost on restart; quota
// enforcement is best-effort, not durable.
type DailyLimiter struct {
	mu       sync.Mutex
	counters map[string]int
}

// NewDailyLimiter constructs a DailyLimiter.
func NewDailyLimiter() *DailyLimiter {
	return &DailyLimiter{
		counters: make(map[string]int),
	}
}

// counterKey builds the composite (user, day) map key.
func counterKey(key string, now time.Time) string {
	return key + ":" + now.UTC().Format(dayLayout)
}

// Allow checks the daily count for the key. At or above the limit the call
// denies without mutation; otherwise the counter is incremented. Counts are
// monotonic within a day.
func (l *DailyLimiter) Allow(_ context.Context, key string, limit int, now time.Time) (Result, error) {
	if limit <= 0 || key == "" {
		return Result{Allowed: true}, nil
	}

	mapKey := counterKey(key, now)

	l.mu.Lock()
	defer l.mu.Unlock()

	count := l.counters[mapKey]
	if count >= limit {
		return Result{Allowed: false, Remaining: 0}, nil
	}
	l.counters[mapKey] = count + 1
	return Result{Allowed: true, Remaining: limit - count - 1}, nil
}

// Count returns the current counter for the key on the given day.
func (l *DailyLimiter) Count(key string, now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.counters[counterKey(key, now)]
}

// Sweep removes every counter whose day component is before today (UTC) and
// returns the removed count. Today's counters are never removed.
func (l *DailyLimiter) Sweep(now time.Time) int {
	today := now.UTC().Format(dayLayout)

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for mapKey := range l.counters {
		idx := strings.LastIndex(mapKey, ":")
		if idx < 0 {
			continue
		}
		if mapKey[idx+1:] < today {
			delete(l.counters, mapKey)
			removed++
		}
	}
	return removed
}
