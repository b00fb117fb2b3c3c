// Package ratelimit implements the passcode issuance limiter as an in-memory
// sliding window per key. The window survives process restarts only as long
// as the process does; the limit protects the SMS budget and the subscriber,
// not a security invariant.
package ratelimit

import (
	"sync"
	"time"

	"dispatch/internal/pkg/errs"
)

// SlidingWindowLimiter allows at most limit attempts per key within window.
type SlidingWindowLimiter struct {
	mu       sync.Mutex
	limit    int
	window   time.Duration
	attempts map[string][]time.Time
	now      func() time.Time
}

// NewSlidingWindowLimiter creates a limiter allowing limit attempts per key
// in any rolling window.
func NewSlidingWindowLimiter(limit int, window time.Duration) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		limit:    limit,
		window:   window,
		attempts: make(map[string][]time.Time),
		now:      time.Now,
	}
}

// Allow records an attempt for the key when within the limit. A denied
// attempt is not recorded: hammering a rate-limited number does not extend
// the lockout.
func (l *SlidingWindowLimiter) Allow(key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	live := l.attempts[key][:0]
	for _, at := range l.attempts[key] {
		if at.After(cutoff) {
			live = append(live, at)
		}
	}

	if len(live) >= l.limit {
		l.attempts[key] = live
		retryAfter := live[0].Add(l.window).Sub(now)
		return errs.NewRateLimitError(key, retryAfter)
	}

	l.attempts[key] = append(live, now)
	return nil
}
