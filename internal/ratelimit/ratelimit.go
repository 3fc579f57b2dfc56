// Package ratelimit implements a per-token sliding-window request limiter.
package ratelimit

import (
	"sync"
	"time"
)

const (
	// DefaultLimit is the number of requests allowed per window.
	DefaultLimit = 60
	// DefaultWindow is the length of the sliding window.
	DefaultWindow = 60 * time.Second
)

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock replaces time.Now. Tests use it to step time by hand.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

// Limiter admits at most limit requests per token in any window-long span.
// A request's timestamp is forgotten once it is strictly older than window.
// Limiter is safe for concurrent use.
type Limiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu     sync.Mutex
	queues map[string][]time.Time
}

// New creates a Limiter. Non-positive arguments fall back to the defaults.
func New(limit int, window time.Duration, opts ...Option) *Limiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	l := &Limiter{
		limit:  limit,
		window: window,
		now:    time.Now,
		queues: make(map[string][]time.Time),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Limit returns the number of requests allowed per window.
func (l *Limiter) Limit() int { return l.limit }

// Window returns the window length.
func (l *Limiter) Window() time.Duration { return l.window }

// Allow records a request for token and reports whether it is admitted.
// Rejected requests are not recorded.
func (l *Limiter) Allow(token string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	q := l.evict(l.queues[token], now)
	if len(q) >= l.limit {
		l.queues[token] = q
		return false
	}
	l.queues[token] = append(q, now)
	return true
}

// RetryAfter returns how long token must wait before its next request can be
// admitted. It is zero when a request would be admitted now.
func (l *Limiter) RetryAfter(token string) time.Duration {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	q := l.evict(l.queues[token], now)
	if len(q) == 0 {
		delete(l.queues, token)
		return 0
	}
	l.queues[token] = q
	if len(q) < l.limit {
		return 0
	}

	// The oldest entry leaves the window once it is strictly older than it.
	wait := q[len(q)-l.limit].Add(l.window).Sub(now) + time.Nanosecond
	if wait < 0 {
		return 0
	}
	return wait
}

// Sweep evicts expired timestamps for every token and forgets tokens with none
// left. It returns the number of tokens forgotten.
func (l *Limiter) Sweep() int {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for token, q := range l.queues {
		q = l.evict(q, now)
		if len(q) == 0 {
			delete(l.queues, token)
			removed++
			continue
		}
		l.queues[token] = q
	}
	return removed
}

// Tokens returns the number of tokens currently tracked.
func (l *Limiter) Tokens() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queues)
}

// evict drops timestamps strictly older than the window. Timestamps are in
// arrival order, so only a prefix can expire. The result reuses q's storage.
func (l *Limiter) evict(q []time.Time, now time.Time) []time.Time {
	i := 0
	for i < len(q) && now.Sub(q[i]) > l.window {
		i++
	}
	if i == 0 {
		return q
	}
	return append(q[:0], q[i:]...)
}
