package gerlin

import (
	"sync"
	"time"
)

// RateLimiter counts attempts per client IP within a sliding window.
type RateLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	max      int
	window   time.Duration
	now      func() time.Time
}

// NewRateLimiter creates a RateLimiter that allows max attempts per window.
func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		attempts: make(map[string][]time.Time),
		max:      max,
		window:   window,
		now:      time.Now,
	}
}

// Allow checks the limit and records the attempt when it is allowed.
func (l *RateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.check(ip) {
		return false
	}
	l.attempts[ip] = append(l.attempts[ip], l.now())
	return true
}

// Check returns true if the IP has not exceeded the rate limit.
// It does not record an attempt; call Record separately on failure.
func (l *RateLimiter) Check(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.check(ip)
}

// Record registers a failed attempt for the given IP.
func (l *RateLimiter) Record(ip string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.attempts[ip] = append(l.attempts[ip], l.now())
	if len(l.attempts) > 1024 {
		l.prune()
	}
}

func (l *RateLimiter) check(ip string) bool {
	kept := l.recent(l.attempts[ip])
	if len(kept) == 0 {
		delete(l.attempts, ip)
	} else {
		l.attempts[ip] = kept
	}
	return len(kept) < l.max
}

func (l *RateLimiter) recent(hits []time.Time) []time.Time {
	cutoff := l.now().Add(-l.window)
	kept := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

// prune drops IPs without attempts in the current window.
func (l *RateLimiter) prune() {
	for ip, hits := range l.attempts {
		if kept := l.recent(hits); len(kept) == 0 {
			delete(l.attempts, ip)
		} else {
			l.attempts[ip] = kept
		}
	}
}
