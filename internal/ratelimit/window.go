// Package ratelimit implements per-key sliding-window admission control for
// the AI-assistant gateway.
//
// Each key owns a fixed-size circular buffer of its most recent request
// timestamps. An admission check overwrites the oldest slot with the current
// time, advances the write cursor, and then counts how many stored timestamps
// fall within the trailing window; the call is admitted iff that count does
// not exceed the configured limit. Writes are O(1), reads O(K), and memory
// per key is fixed.
//
// This is a bounded approximation of a true sliding-window counter: when a
// key issues more than one call per second, older timestamps are overwritten
// before a full second elapses and the effective window shortens. That
// undercount is intentional and kept for compatibility with the existing
// admission behavior.
//
// Keys are created lazily and never evicted; the set of keys is the set of
// portal users, which is bounded for this deployment. Independent keys never
// contend: each key serializes only its own read-modify-write.
package ratelimit

import (
	"sync"
	"time"
)

const (
	// DefaultCapacity is the number of timestamp slots retained per key.
	DefaultCapacity = 60
	// DefaultWindow is the trailing interval counted by each check.
	DefaultWindow = 60 * time.Second
)

// window is one key's circular buffer. Its mutex serializes the
// overwrite-advance-count sequence as a single atomic unit.
type window struct {
	mu     sync.Mutex
	slots  []time.Time
	cursor int
}

// SlidingWindow is a per-key sliding-window rate limiter.
//
// It is safe for concurrent use. The outer map is guarded by a read-write
// mutex used only for key lookup and lazy creation; admission checks for
// different keys proceed in parallel.
type SlidingWindow struct {
	limit    int
	capacity int
	interval time.Duration
	now      func() time.Time

	mu   sync.RWMutex
	keys map[string]*window
}

// NewSlidingWindow constructs a limiter admitting at most limit calls per key
// within the trailing DefaultWindow, tracked in DefaultCapacity slots.
// A limit below 1 is coerced to 1.
func NewSlidingWindow(limit int) *SlidingWindow {
	if limit < 1 {
		limit = 1
	}
	return &SlidingWindow{
		limit:    limit,
		capacity: DefaultCapacity,
		interval: DefaultWindow,
		now:      time.Now,
		keys:     make(map[string]*window),
	}
}

// Allow records one call for key and reports whether it is admitted.
//
// The current timestamp always overwrites the oldest slot, even when the call
// is rejected, so sustained over-limit traffic keeps the window saturated.
func (s *SlidingWindow) Allow(key string) bool {
	w := s.get(key)
	now := s.now()
	cutoff := now.Add(-s.interval)

	w.mu.Lock()
	defer w.mu.Unlock()

	w.slots[w.cursor] = now
	w.cursor = (w.cursor + 1) % s.capacity

	n := 0
	for _, ts := range w.slots {
		if ts.After(cutoff) {
			n++
		}
	}
	return n <= s.limit
}

// get returns the window for key, creating it on first use.
func (s *SlidingWindow) get(key string) *window {
	s.mu.RLock()
	w, ok := s.keys[key]
	s.mu.RUnlock()
	if ok {
		return w
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if w, ok = s.keys[key]; ok {
		return w
	}
	w = &window{slots: make([]time.Time, s.capacity)}
	s.keys[key] = w
	return w
}
