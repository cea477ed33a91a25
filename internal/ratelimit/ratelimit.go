// Package ratelimit provides a keyed minimum-interval limiter for outbound
// provider requests. Each key (one per catalog provider) gets its own
// limiter; concurrent callers against the same key serialize so that two
// requests are never issued closer together than the configured interval.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// KeyedLimiter manages per-key minimum-interval limiting.
type KeyedLimiter struct {
	mu        sync.RWMutex
	limiters  map[string]*rate.Limiter
	intervals map[string]time.Duration
	fallback  time.Duration
}

// New creates a keyed limiter. fallback is the minimum interval applied to
// keys that were not registered explicitly.
func New(fallback time.Duration) *KeyedLimiter {
	return &KeyedLimiter{
		limiters:  make(map[string]*rate.Limiter),
		intervals: make(map[string]time.Duration),
		fallback:  fallback,
	}
}

// Register sets the minimum inter-request interval for a key.
// Must be called before the first Wait on that key to take effect.
func (kl *KeyedLimiter) Register(key string, interval time.Duration) {
	kl.mu.Lock()
	defer kl.mu.Unlock()
	kl.intervals[key] = interval
}

// Wait blocks until a request for the given key is allowed or the context is
// canceled. Burst is 1, so the gap between any two permitted requests is at
// least the key's interval regardless of how many goroutines are waiting.
func (kl *KeyedLimiter) Wait(ctx context.Context, key string) error {
	return kl.getLimiter(key).Wait(ctx)
}

// Allow reports whether a request for the key may proceed right now,
// consuming the slot if so.
func (kl *KeyedLimiter) Allow(key string) bool {
	return kl.getLimiter(key).Allow()
}

// getLimiter returns the limiter for a key, creating one if needed.
func (kl *KeyedLimiter) getLimiter(key string) *rate.Limiter {
	// Fast path: read lock
	kl.mu.RLock()
	limiter, exists := kl.limiters[key]
	kl.mu.RUnlock()

	if exists {
		return limiter
	}

	// Slow path: write lock to create
	kl.mu.Lock()
	defer kl.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists = kl.limiters[key]; exists {
		return limiter
	}

	interval, ok := kl.intervals[key]
	if !ok {
		interval = kl.fallback
	}

	limiter = rate.NewLimiter(rate.Every(interval), 1)
	kl.limiters[key] = limiter
	return limiter
}
