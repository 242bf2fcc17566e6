package gerlin

import (
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newTestLimiter(max int, window time.Duration) (*RateLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := NewRateLimiter(max, window)
	l.now = clock.Now
	return l, clock
}

func TestRateLimiterBlocksAfterMax(t *testing.T) {
	limiter, _ := newTestLimiter(2, time.Minute)
	ip := "203.0.113.10"

	if !limiter.Allow(ip) {
		t.Fatalf("expected first attempt to be allowed")
	}
	if !limiter.Allow(ip) {
		t.Fatalf("expected second attempt to be allowed")
	}
	if limiter.Allow(ip) {
		t.Fatalf("expected third attempt to be blocked")
	}
}

func TestRateLimiterResetsAfterWindow(t *testing.T) {
	limiter, clock := newTestLimiter(1, 15*time.Minute)
	ip := "203.0.113.20"

	if !limiter.Allow(ip) {
		t.Fatalf("expected first attempt to be allowed")
	}
	if limiter.Allow(ip) {
		t.Fatalf("expected second attempt to be blocked")
	}

	clock.t = clock.t.Add(16 * time.Minute)
	if !limiter.Allow(ip) {
		t.Fatalf("expected attempt after window to be allowed")
	}
}

func TestRateLimiterIsPerIP(t *testing.T) {
	limiter, _ := newTestLimiter(1, time.Minute)

	if !limiter.Allow("203.0.113.30") {
		t.Fatalf("expected first ip to be allowed")
	}
	if !limiter.Allow("203.0.113.31") {
		t.Fatalf("expected second ip to be allowed independently")
	}
	if limiter.Allow("203.0.113.30") {
		t.Fatalf("expected first ip to be blocked after max")
	}
}

func TestRateLimiterCheckDoesNotRecord(t *testing.T) {
	limiter, _ := newTestLimiter(1, time.Minute)
	ip := "203.0.113.40"

	for i := 0; i < 3; i++ {
		if !limiter.Check(ip) {
			t.Fatalf("check %d: expected allowed without recorded failures", i)
		}
	}
	limiter.Record(ip)
	if limiter.Check(ip) {
		t.Fatalf("expected block after a recorded failure")
	}
}
