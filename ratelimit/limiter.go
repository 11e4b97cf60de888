// Package ratelimit provides a fixed-window counter store. It is constructed
// and injected by the caller rather than held as module-level state, so each
// deployment decides its own scope and limits.
package ratelimit

import (
	"sync"
	"time"
)

type window struct {
	start time.Time
	count int
}

// Limiter counts events per key inside a fixed time window. The key set is
// capacity-bounded: when full, the stalest window is evicted.
type Limiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	maxKeys int
	now     func() time.Time
	entries map[string]*window
}

// New returns a limiter allowing limit events per window per key, tracking at
// most maxKeys keys. now may be nil, in which time.Now is used.
func New(limit int, windowSize time.Duration, maxKeys int, now func() time.Time) *Limiter {
	if now == nil {
		now = time.Now
	}
	return &Limiter{
		limit:   limit,
		window:  windowSize,
		maxKeys: maxKeys,
		now:     now,
		entries: make(map[string]*window),
	}
}

// Allow records one event for key and reports whether it stays within the
// window's limit.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.entries[key]
	if !ok || now.Sub(w.start) >= l.window {
		if !ok && len(l.entries) >= l.maxKeys {
			l.evictStalest(now)
		}
		l.entries[key] = &window{start: now, count: 1}
		return l.limit >= 1
	}

	w.count++
	return w.count <= l.limit
}

// evictStalest drops expired windows, then the oldest one if still full.
// Caller holds the lock.
func (l *Limiter) evictStalest(now time.Time) {
	var oldestKey string
	var oldestStart time.Time
	for key, w := range l.entries {
		if now.Sub(w.start) >= l.window {
			delete(l.entries, key)
			continue
		}
		if oldestKey == "" || w.start.Before(oldestStart) {
			oldestKey, oldestStart = key, w.start
		}
	}
	if len(l.entries) >= l.maxKeys && oldestKey != "" {
		delete(l.entries, oldestKey)
	}
}
