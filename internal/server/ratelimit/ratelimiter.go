package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter tracks request counts in fixed windows per client key (the
// client IP for the JSON API and the session endpoint).
type Limiter struct {
	mu     sync.Mutex
	limits map[string]*window
	now    func() time.Time
}

type window struct {
	count     int
	windowEnd time.Time
}

// NewLimiter creates a limiter with in-memory tracking.
func NewLimiter() *Limiter {
	return &Limiter{
		limits: make(map[string]*window),
		now:    time.Now,
	}
}

// Allow returns true if the request is within limit for the current window.
func (l *Limiter) Allow(key string, limit int, windowSeconds int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	windowDuration := time.Duration(windowSeconds) * time.Second

	win := l.limits[key]
	if win == nil || now.After(win.windowEnd) {
		l.limits[key] = &window{
			count:     1,
			windowEnd: now.Add(windowDuration),
		}
		return true
	}

	if win.count < limit {
		win.count++
		return true
	}

	return false
}

// Remaining reports how long until key's current window resets.
func (l *Limiter) Remaining(key string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	win := l.limits[key]
	if win == nil {
		return 0
	}
	if d := win.windowEnd.Sub(l.now()); d > 0 {
		return d
	}
	return 0
}

// StartCleanup periodically evicts stale windows until ctx is done.
func (l *Limiter) StartCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				l.evict(5 * time.Minute)
			}
		}
	}()
}

func (l *Limiter) evict(grace time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key, win := range l.limits {
		if now.After(win.windowEnd.Add(grace)) {
			delete(l.limits, key)
		}
	}
}
