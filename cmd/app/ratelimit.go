package main

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type action string

const (
	actionCreate  action = "create"
	actionLike    action = "like"
	actionComment action = "comment"
)

type limiterKey struct {
	userID string
	action action
}

// maxLimiters bounds the limiter map; it is reset when it grows past this.
const maxLimiters = 10_000

// rateLimiter allows each user a burst of requests per action, refilled
// evenly over window.
type rateLimiter struct {
	mu       sync.RWMutex
	limiters map[limiterKey]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func newRateLimiter(requests int, window time.Duration) *rateLimiter {
	if requests < 1 {
		requests = 1
	}

	return &rateLimiter{
		limiters: make(map[limiterKey]*rate.Limiter),
		rate:     rate.Every(window / time.Duration(requests)),
		burst:    requests,
	}
}

func (rl *rateLimiter) get(key limiterKey) *rate.Limiter {
	rl.mu.RLock()
	limiter, exists := rl.limiters[key]
	rl.mu.RUnlock()

	if exists {
		return limiter
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if limiter, exists = rl.limiters[key]; exists {
		return limiter
	}

	if len(rl.limiters) >= maxLimiters {
		rl.limiters = make(map[limiterKey]*rate.Limiter)
	}

	limiter = rate.NewLimiter(rl.rate, rl.burst)
	rl.limiters[key] = limiter
	return limiter
}

func (rl *rateLimiter) allow(userID string, a action) bool {
	return rl.get(limiterKey{userID: userID, action: a}).Allow()
}
