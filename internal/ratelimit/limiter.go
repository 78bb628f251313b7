// Package ratelimit decides whether a chat subject may post again.
package ratelimit

import (
	"context"
	"log/slog"
	"time"

	"hachiko/internal/kv"
)

const (
	// DefaultLimit is the number of messages allowed per window.
	DefaultLimit = 5
	// DefaultWindow is the fixed counting window.
	DefaultWindow = 60 * time.Second

	keyPrefix = "rate_limit:"
)

// Limiter implements fixed-window counting on top of a counter store.
//
// Fixed windows admit up to twice the nominal rate across a window boundary
// and concurrent increments in the same instant may both pass the threshold.
// Both are accepted imprecision; the limiter promises approximate fairness,
// not exact quotas.
type Limiter struct {
	store  kv.Store
	limit  int64
	window time.Duration
	log    *slog.Logger
}

// NewLimiter builds a limiter enforcing `limit` actions per `window`.
func NewLimiter(store kv.Store, limit int, window time.Duration, log *slog.Logger) *Limiter {
	return &Limiter{store: store, limit: int64(limit), window: window, log: log}
}

// IsLimited records one action for the subject and reports whether the
// subject has exceeded its quota for the current window.
//
// The limiter fails open: if the counter backend errors, the action is
// allowed. Availability of the chat is worth more than strict quota
// enforcement during an infrastructure outage.
func (l *Limiter) IsLimited(ctx context.Context, subjectID string) bool {
	key := keyPrefix + subjectID

	count, err := l.store.Incr(ctx, key)
	if err != nil {
		l.log.WarnContext(ctx, "counter store unavailable, failing open", "subject", subjectID, "err", err)
		return false
	}

	if count == 1 {
		if err := l.store.Expire(ctx, key, l.window); err != nil {
			l.log.WarnContext(ctx, "failed to set rate limit window", "subject", subjectID, "err", err)
		}
	}

	return count > l.limit
}
