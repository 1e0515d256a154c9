package http

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultRefreshInterval is the minimum time between refresh requests from
// one client.
const DefaultRefreshInterval = time.Minute

// ClientLimiter throttles requests per client using token buckets. Each
// client gets its own limiter, so a busy client does not lock out others.
// Limiters that have refilled to their full burst are dropped, since a new
// limiter would behave the same.
type ClientLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*rate.Limiter
	limit     rate.Limit
	burst     int
	interval  time.Duration
	lastSweep time.Time
}

// NewClientLimiter creates a ClientLimiter that allows one request per
// interval per client, with the given burst.
func NewClientLimiter(interval time.Duration, burst int) *ClientLimiter {
	if burst < 1 {
		burst = 1
	}
	return &ClientLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:     rate.Every(interval),
		burst:     burst,
		interval:  interval,
		lastSweep: time.Now(),
	}
}

// Allow reports whether client may make a request now. It never blocks.
func (c *ClientLimiter) Allow(client string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if now.Sub(c.lastSweep) >= c.interval {
		c.sweep(now)
	}

	limiter, ok := c.limiters[client]
	if !ok {
		limiter = rate.NewLimiter(c.limit, c.burst)
		c.limiters[client] = limiter
	}
	return limiter.AllowN(now, 1)
}

// Len returns the number of clients currently tracked.
func (c *ClientLimiter) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.limiters)
}

// sweep drops limiters that are back at full burst. Callers hold c.mu.
func (c *ClientLimiter) sweep(now time.Time) {
	for client, limiter := range c.limiters {
		if limiter.TokensAt(now) >= float64(c.burst) {
			delete(c.limiters, client)
		}
	}
	c.lastSweep = now
}
