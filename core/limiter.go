package core

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrRateLimited is returned by RateLimiter.Allow when a key has exhausted its
// window. Callers translate it into an admission-denied response; the caller
// may simply retry after the window has moved on.
var ErrRateLimited = errors.New("rate limit exceeded")

// RateLimiter enforces a maximum number of events per key within a sliding
// window. State is in-memory only and resets on restart.
type RateLimiter struct {
	limit  int
	window time.Duration
	mu     sync.Mutex
	hits   map[string][]time.Time

	now func() time.Time // test hook
}

// NewRateLimiter creates a limiter admitting at most limit events per window
// for each key. If limit <= 0, every call is admitted.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:  limit,
		window: window,
		hits:   map[string][]time.Time{},
		now:    time.Now,
	}
}

// Allow records one event for key, or returns ErrRateLimited (wrapped with the
// key's limit) when the window is full. Timestamps older than the window are
// pruned first, so denied calls do not extend the penalty.
func (rl *RateLimiter) Allow(key string) error {
	if rl.limit <= 0 {
		return nil
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cutoff := now.Add(-rl.window)

	kept := rl.hits[key][:0]
	for _, t := range rl.hits[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= rl.limit {
		rl.hits[key] = kept
		return fmt.Errorf("%w: max %d per %s", ErrRateLimited, rl.limit, rl.window)
	}

	rl.hits[key] = append(kept, now)
	return nil
}

// Remaining reports how many events key may still record in the current
// window, or -1 when the limiter is unlimited.
func (rl *RateLimiter) Remaining(key string) int {
	if rl.limit <= 0 {
		return -1
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.window)
	n := 0
	for _, t := range rl.hits[key] {
		if t.After(cutoff) {
			n++
		}
	}
	if n > rl.limit {
		n = rl.limit
	}
	return rl.limit - n
}
