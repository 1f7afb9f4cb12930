package api

import (
	"context"
	"sync"
	"time"

	"cyrus/internal/errors"

	"golang.org/x/time/rate"
)

// Pacer manages a collection of rate limiters keyed by operation type. The
// rewrite flow can fire a burst of per-bullet requests at once; the pacer
// spreads them out instead of letting the service reject the tail.
type Pacer struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	lastSeen map[string]time.Time
	rate     rate.Limit
	burst    int
	done     chan struct{}
	logger   *errors.Logger
}

// NewPacer creates a new pacer.
// requestsPerMin is the number of requests allowed per minute per key.
// burstCapacity is the token bucket size.
func NewPacer(requestsPerMin int, burstCapacity int, logger *errors.Logger) *Pacer {
	// The rate.Limit is specified in requests per second.
	r := rate.Limit(float64(requestsPerMin) / 60.0)

	p := &Pacer{
		limiters: make(map[string]*rate.Limiter),
		lastSeen: make(map[string]time.Time),
		rate:     r,
		burst:    burstCapacity,
		done:     make(chan struct{}),
		logger:   logger,
	}

	// Start the cleanup goroutine
	go p.cleanupRoutine(10 * time.Minute)
	return p
}

// getLimiter retrieves or creates a limiter for a given key
func (p *Pacer) getLimiter(key string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	limiter, exists := p.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(p.rate, p.burst)
		p.limiters[key] = limiter
	}
	p.lastSeen[key] = time.Now()

	return limiter
}

// Wait blocks until the operation may proceed or the context is canceled.
// Blocking rather than rejecting keeps concurrent rewrites queued instead of
// failed.
func (p *Pacer) Wait(ctx context.Context, key string) error {
	if p == nil {
		return nil
	}
	return p.getLimiter(key).Wait(ctx)
}

// GetStats returns current pacer statistics
func (p *Pacer) GetStats() map[string]any {
	p.mu.Lock()
	defer p.mu.Unlock()

	return map[string]any{
		"active_limiters": len(p.limiters),
		"rate_per_second": float64(p.rate),
		"rate_per_minute": float64(p.rate) * 60.0,
		"burst_capacity":  p.burst,
	}
}

// cleanupRoutine periodically removes inactive limiters
func (p *Pacer) cleanupRoutine(cleanupInterval time.Duration) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.cleanup(cleanupInterval)
		case <-p.done:
			return
		}
	}
}

// cleanup removes limiters that haven't been used for the specified duration
func (p *Pacer) cleanup(evictionAge time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	for key, lastSeen := range p.lastSeen {
		if now.Sub(lastSeen) > evictionAge {
			delete(p.limiters, key)
			delete(p.lastSeen, key)
		}
	}

	if p.logger != nil {
		p.logger.Debug("Pacer cleanup completed",
			"remaining_limiters", len(p.limiters))
	}
}

// Close stops the cleanup goroutine. Should be called when shutting down.
func (p *Pacer) Close() {
	if p == nil {
		return
	}
	close(p.done)
}
