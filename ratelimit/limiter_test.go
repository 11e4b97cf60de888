package ratelimit

import (
	"fmt"
	"testing"
	"time"
)

type fakeClock struct {
	current time.Time
}

func (c *fakeClock) now() time.Time { return c.current }

func (c *fakeClock) advance(d time.Duration) { c.current = c.current.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{current: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func TestLimiterAllowsUpToLimit(t *testing.T) {
	clock := newFakeClock()
	limiter := New(3, time.Minute, 100, clock.now)

	for i := 0; i < 3; i++ {
		if !limiter.Allow("alice") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if limiter.Allow("alice") {
		t.Error("fourth request inside the window should be denied")
	}
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	clock := newFakeClock()
	limiter := New(1, time.Minute, 100, clock.now)

	if !limiter.Allow("alice") {
		t.Fatal("alice's first request should be allowed")
	}
	if !limiter.Allow("bob") {
		t.Error("bob should not be affected by alice's window")
	}
	if limiter.Allow("alice") {
		t.Error("alice's second request should be denied")
	}
}

func TestLimiterWindowRollover(t *testing.T) {
	clock := newFakeClock()
	limiter := New(2, time.Minute, 100, clock.now)

	limiter.Allow("alice")
	limiter.Allow("alice")
	if limiter.Allow("alice") {
		t.Fatal("third request inside the window should be denied")
	}

	clock.advance(59 * time.Second)
	if limiter.Allow("alice") {
		t.Error("window has not rolled over yet")
	}

	clock.advance(time.Second)
	if !limiter.Allow("alice") {
		t.Error("new window should reset the count")
	}
}

func TestLimiterEvictsWhenFull(t *testing.T) {
	clock := newFakeClock()
	limiter := New(1, time.Minute, 2, clock.now)

	limiter.Allow("oldest")
	clock.advance(time.Second)
	limiter.Allow("newer")
	clock.advance(time.Second)

	// Capacity reached; a third key evicts the stalest live window.
	if !limiter.Allow("newest") {
		t.Fatal("new key should be allowed after eviction")
	}

	// The evicted key starts a fresh window, so its first request passes again.
	if !limiter.Allow("oldest") {
		t.Error("evicted key should be treated as new")
	}
}

func TestLimiterEvictsExpiredFirst(t *testing.T) {
	clock := newFakeClock()
	limiter := New(2, time.Minute, 2, clock.now)

	limiter.Allow("expired")
	clock.advance(2 * time.Minute)
	limiter.Allow("live")

	// The expired window frees a slot; the live key's count must survive.
	if !limiter.Allow("fresh") {
		t.Fatal("fresh key should fit after expired eviction")
	}
	if !limiter.Allow("live") {
		t.Error("live key's window should not have been evicted")
	}
	if limiter.Allow("live") {
		t.Error("live key should now be at its limit")
	}
}

func TestLimiterZeroLimitDeniesAll(t *testing.T) {
	clock := newFakeClock()
	limiter := New(0, time.Minute, 10, clock.now)

	if limiter.Allow("anyone") {
		t.Error("zero limit should deny every request")
	}
}

func TestLimiterConcurrentAccess(t *testing.T) {
	limiter := New(1000, time.Minute, 100, nil)

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func(id int) {
			defer func() { done <- struct{}{} }()
			key := fmt.Sprintf("key-%d", id%2)
			for j := 0; j < 100; j++ {
				limiter.Allow(key)
			}
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
