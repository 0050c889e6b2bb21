package rate_limiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsAllowedEnforcesLimit(t *testing.T) {
	limiter := NewRateLimiter(3, time.Minute)

	assert.True(t, limiter.IsAllowed("10.0.0.5"))
	assert.True(t, limiter.IsAllowed("10.0.0.5"))
	assert.True(t, limiter.IsAllowed("10.0.0.5"))
	assert.False(t, limiter.IsAllowed("10.0.0.5"))

	// A different key has its own window.
	assert.True(t, limiter.IsAllowed("10.0.0.6"))
}

func TestGetRemainingRequests(t *testing.T) {
	limiter := NewRateLimiter(3, time.Minute)

	assert.Equal(t, 3, limiter.GetRemainingRequests("10.0.0.5"))
	limiter.IsAllowed("10.0.0.5")
	limiter.IsAllowed("10.0.0.5")
	assert.Equal(t, 1, limiter.GetRemainingRequests("10.0.0.5"))
}

func TestEvictStaleDropsIdleKeys(t *testing.T) {
	limiter := NewRateLimiter(3, time.Minute)

	limiter.IsAllowed("10.0.0.5")
	limiter.IsAllowed("10.0.0.6")

	limiter.mu.Lock()
	assert.Len(t, limiter.attempts, 2)
	limiter.mu.Unlock()

	// Sweep as if the window has long passed.
	limiter.evictStale(time.Now().Add(2 * time.Minute))

	limiter.mu.Lock()
	assert.Empty(t, limiter.attempts)
	limiter.mu.Unlock()
}

func TestEvictStaleKeepsActiveKeys(t *testing.T) {
	limiter := NewRateLimiter(3, time.Minute)

	limiter.IsAllowed("10.0.0.5")
	limiter.evictStale(time.Now())

	limiter.mu.Lock()
	assert.Len(t, limiter.attempts, 1)
	limiter.mu.Unlock()

	assert.Equal(t, 2, limiter.GetRemainingRequests("10.0.0.5"))
}
