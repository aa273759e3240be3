package ratelimit

import (
	"sync"
	"testing"
	"time"
)

// fixedClock returns a time source advancing by step on every call.
func fixedClock(start time.Time, step time.Duration) func() time.Time {
	cur := start
	return func() time.Time {
		t := cur
		cur = cur.Add(step)
		return t
	}
}

func TestAllow_BurstExactlyAtLimit(t *testing.T) {
	const limit = 5
	s := NewSlidingWindow(limit)
	// All calls within one second.
	s.now = fixedClock(time.Unix(1_700_000_000, 0), 10*time.Millisecond)

	for i := 0; i < limit; i++ {
		if !s.Allow("alice") {
			t.Fatalf("call %d rejected; want first %d admitted", i+1, limit)
		}
	}
	if s.Allow("alice") {
		t.Fatalf("call %d admitted; want rejected", limit+1)
	}
}

func TestAllow_WindowSlides(t *testing.T) {
	const limit = 3
	s := NewSlidingWindow(limit)
	base := time.Unix(1_700_000_000, 0)
	times := []time.Time{
		base, base, base, base, // saturate: 4th rejected
		base.Add(61 * time.Second), // everything aged out
	}
	i := 0
	s.now = func() time.Time { t := times[i]; i++; return t }

	for j := 0; j < limit; j++ {
		if !s.Allow("bob") {
			t.Fatalf("call %d rejected within limit", j+1)
		}
	}
	if s.Allow("bob") {
		t.Fatal("over-limit call admitted")
	}
	if !s.Allow("bob") {
		t.Fatal("call after window elapsed rejected")
	}
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	const limit = 2
	s := NewSlidingWindow(limit)
	s.now = fixedClock(time.Unix(1_700_000_000, 0), time.Millisecond)

	for i := 0; i < limit; i++ {
		s.Allow("alice")
	}
	if s.Allow("alice") {
		t.Fatal("alice over limit but admitted")
	}
	if !s.Allow("bob") {
		t.Fatal("bob rejected despite fresh window")
	}
}

func TestNewSlidingWindow_CoercesLimit(t *testing.T) {
	s := NewSlidingWindow(0)
	if s.limit != 1 {
		t.Fatalf("limit = %d; want 1", s.limit)
	}
}

func TestAllow_ConcurrentSameKey(t *testing.T) {
	// No assertions on admissions here; the point is that concurrent checks
	// on one key do not race (run with -race).
	s := NewSlidingWindow(10)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.Allow("shared")
				s.Allow("other")
			}
		}()
	}
	wg.Wait()
}
