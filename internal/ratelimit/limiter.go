package ratelimit

import (
	"context"
	"time"
)

// UnknownClientKey buckets requests whose client address cannot be determined.
const UnknownClientKey = "unknown"

// Decision is the outcome of a single rate-limit check.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// CounterStore accumulates request counts per key inside a fixed window. An
// increment that arrives strictly after resetAt starts a new window with
// count 1; otherwise the existing count grows.
type CounterStore interface {
	Increment(ctx context.Context, key string, window time.Duration) (count int, resetAt time.Time, err error)
}

// Limiter applies a fixed request budget per key and window.
type Limiter struct {
	store  CounterStore
	limit  int
	window time.Duration
}

func New(store CounterStore, limit int, window time.Duration) *Limiter {
	return &Limiter{store: store, limit: limit, window: window}
}

// Check counts the request and reports whether it fits the budget. Checking
// is the counting: every call consumes one slot.
func (l *Limiter) Check(ctx context.Context, key string) (Decision, error) {
	if key == "" {
		key = UnknownClientKey
	}
	count, resetAt, err := l.store.Increment(ctx, key, l.window)
	if err != nil {
		return Decision{}, err
	}
	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   count <= l.limit,
		Limit:     l.limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}
