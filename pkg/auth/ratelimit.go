package auth

import (
	"context"
	"sync"
	"time"
)

// Limiter decides whether an authenticated request may proceed.
type Limiter interface {
	Allow(ctx context.Context, id *Identity) error
}

// TierLimit holds the per-tier request budget.
type TierLimit struct {
	RequestsPerMinute int
}

// WindowLimiter is an in-memory fixed-window rate limiter keyed by
// subject and tier.
type WindowLimiter struct {
	tiers      map[string]TierLimit
	defaultRPM int

	mu      sync.Mutex
	windows map[string]*window
}

type window struct {
	count     int
	startedAt time.Time
}

// NewWindowLimiter creates a limiter with per-tier budgets. Tiers not
// listed fall back to defaultRPM; a budget of zero or less means
// unlimited.
func NewWindowLimiter(tiers map[string]TierLimit, defaultRPM int) *WindowLimiter {
	return &WindowLimiter{
		tiers:      tiers,
		defaultRPM: defaultRPM,
		windows:    make(map[string]*window),
	}
}

// Allow checks the request against the caller's budget.
func (l *WindowLimiter) Allow(_ context.Context, id *Identity) error {
	tier := id.Tier
	if tier == "" {
		tier = "default"
	}

	rpm := l.defaultRPM
	if tl, ok := l.tiers[tier]; ok {
		rpm = tl.RequestsPerMinute
	}
	if rpm <= 0 {
		return nil
	}

	key := id.Subject + ":" + tier

	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, ok := l.windows[key]
	if !ok || now.Sub(w.startedAt) >= time.Minute {
		l.windows[key] = &window{count: 1, startedAt: now}
		return nil
	}

	w.count++
	if w.count > rpm {
		return ErrRateLimited
	}
	return nil
}
