// Package ratelimit bounds the rate of mutating API requests per caller.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter hands out a token-bucket limiter per caller key and enforces it.
// Keys are user ids for authenticated requests, remote IPs otherwise.
type Limiter struct {
	mu       sync.Mutex
	limiters map[string]*clientLimiter
	rps      rate.Limit
	burst    int
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewLimiter(rps float64, burst int) *Limiter {
	return &Limiter{
		limiters: make(map[string]*clientLimiter),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
}

// Allow reports whether the caller identified by key may proceed.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.limiters[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.limiters[key] = c
	}
	c.lastSeen = time.Now()
	return c.limiter.Allow()
}

// Cleanup removes limiters idle longer than maxIdle. Call periodically to
// prevent unbounded growth.
func (l *Limiter) Cleanup(maxIdle time.Duration) {
	cutoff := time.Now().Add(-maxIdle)

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, c := range l.limiters {
		if c.lastSeen.Before(cutoff) {
			delete(l.limiters, key)
		}
	}
}
