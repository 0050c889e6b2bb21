package rate_limiter

import (
	"sync"
	"time"
)

// RateLimiter is a fixed-window in-process limiter keyed by client
// identifier, used to throttle login attempts.
type RateLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	limit    int
	window   time.Duration
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	r := &RateLimiter{
		attempts: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
	}

	go r.cleanupLoop()

	return r
}

// cleanupLoop evicts keys whose attempts have all aged out, so one-off
// clients do not accumulate in the map.
func (r *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		r.evictStale(time.Now())
	}
}

func (r *RateLimiter) evictStale(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := now.Add(-r.window)
	for key, times := range r.attempts {
		var recent []time.Time
		for _, t := range times {
			if t.After(cutoff) {
				recent = append(recent, t)
			}
		}
		if len(recent) == 0 {
			delete(r.attempts, key)
		} else {
			r.attempts[key] = recent
		}
	}
}

// IsAllowed records an attempt for key and reports whether it stays
// within the window's limit.
func (r *RateLimiter) IsAllowed(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-r.window)

	recent := r.attempts[key][:0]
	for _, t := range r.attempts[key] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= r.limit {
		r.attempts[key] = recent
		return false
	}

	r.attempts[key] = append(recent, now)
	return true
}

// GetRemainingRequests returns how many attempts are left for key in
// the current window.
func (r *RateLimiter) GetRemainingRequests(key string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-r.window)
	count := 0
	for _, t := range r.attempts[key] {
		if t.After(cutoff) {
			count++
		}
	}

	remaining := r.limit - count
	if remaining < 0 {
		return 0
	}
	return remaining
}
