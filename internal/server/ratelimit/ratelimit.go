// Package ratelimit provides per-client token bucket rate limiting for
// the screening API.
package ratelimit

import (
	"sync"
	"time"
)

// bucket is one client's token bucket. Tokens refill continuously at
// refillRate per second up to capacity.
type bucket struct {
	mu         sync.Mutex
	capacity   float64
	refillRate float64
	tokens     float64
	lastRefill time.Time
}

func (b *bucket) take() (allowed bool, remaining int, resetTime time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.tokens = min(b.capacity, b.tokens+now.Sub(b.lastRefill).Seconds()*b.refillRate)
	b.lastRefill = now

	if b.tokens >= 1.0 {
		b.tokens -= 1.0
		allowed = true
	}

	remaining = int(b.tokens)
	resetTime = now
	if b.tokens < b.capacity {
		secondsUntilFull := (b.capacity - b.tokens) / b.refillRate
		resetTime = now.Add(time.Duration(secondsUntilFull * float64(time.Second)))
	}
	return allowed, remaining, resetTime
}

// Info describes the rate limit state returned with each decision.
type Info struct {
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Limiter tracks one token bucket per client. Idle buckets are evicted
// by a background sweep so long-running servers do not accumulate one
// bucket per IP ever seen.
type Limiter struct {
	mu         sync.Mutex
	buckets    map[string]*bucket
	lastAccess map[string]time.Time

	limit  int
	window time.Duration

	sweepTicker *time.Ticker
	sweepStop   chan struct{}
}

// NewLimiter creates a limiter allowing limit requests per window for
// each client.
func NewLimiter(limit int, window time.Duration) *Limiter {
	l := &Limiter{
		buckets:     make(map[string]*bucket),
		lastAccess:  make(map[string]time.Time),
		limit:       limit,
		window:      window,
		sweepTicker: time.NewTicker(5 * time.Minute),
		sweepStop:   make(chan struct{}),
	}
	go l.sweep()
	return l
}

// Allow reports whether a request from the given client may proceed.
func (l *Limiter) Allow(clientID string) (bool, Info) {
	l.mu.Lock()
	b, ok := l.buckets[clientID]
	if !ok {
		b = &bucket{
			capacity:   float64(l.limit),
			refillRate: float64(l.limit) / l.window.Seconds(),
			tokens:     float64(l.limit),
			lastRefill: time.Now(),
		}
		l.buckets[clientID] = b
	}
	l.lastAccess[clientID] = time.Now()
	l.mu.Unlock()

	allowed, remaining, resetTime := b.take()

	info := Info{Limit: l.limit, Remaining: remaining, ResetTime: resetTime}
	if !allowed {
		info.RetryAfter = max(time.Until(resetTime), 0)
	}
	return allowed, info
}

func (l *Limiter) sweep() {
	for {
		select {
		case <-l.sweepTicker.C:
			cutoff := time.Now().Add(-time.Hour)
			l.mu.Lock()
			for id, last := range l.lastAccess {
				if last.Before(cutoff) {
					delete(l.buckets, id)
					delete(l.lastAccess, id)
				}
			}
			l.mu.Unlock()
		case <-l.sweepStop:
			return
		}
	}
}

// Stop terminates the background sweep.
func (l *Limiter) Stop() {
	l.sweepTicker.Stop()
	close(l.sweepStop)
}
