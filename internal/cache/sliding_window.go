// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

package cache

import (
	"sort"
	"sync"
	"time"
)

// Clock returns the current time. Tests inject a fake.
type Clock func() time.Time

// SlidingWindowCounter counts events over a trailing window split into
// fixed buckets. Increment is O(1), Count is O(buckets).
type SlidingWindowCounter struct {
	mu         sync.Mutex
	buckets    []int64
	bucketSize time.Duration
	numBuckets int
	current    int
	bucketTime time.Time // start of the current bucket
	now        Clock
}

// NewSlidingWindowCounter creates a counter over windowSize split into
// numBuckets buckets. NewSlidingWindowCounter(time.Minute, 12) counts the
// last minute in 5 second steps.
func NewSlidingWindowCounter(windowSize time.Duration, numBuckets int, now Clock) *SlidingWindowCounter {
	if numBuckets <= 0 {
		numBuckets = 10
	}
	if windowSize <= 0 {
		windowSize = time.Minute
	}
	if now == nil {
		now = time.Now
	}
	return &SlidingWindowCounter{
		buckets:    make([]int64, numBuckets),
		bucketSize: windowSize / time.Duration(numBuckets),
		numBuckets: numBuckets,
		bucketTime: now(),
		now:        now,
	}
}

// Increment adds delta to the current bucket.
func (sw *SlidingWindowCounter) Increment(delta int64) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	sw.advance()
	sw.buckets[sw.current] += delta
}

// Count returns the sum over the window.
func (sw *SlidingWindowCounter) Count() int64 {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	sw.advance()

	var total int64
	for _, c := range sw.buckets {
		total += c
	}
	return total
}

// advance rotates out buckets older than the window. Must hold mu.
func (sw *SlidingWindowCounter) advance() {
	elapsed := sw.now().Sub(sw.bucketTime)
	steps := int(elapsed / sw.bucketSize)
	if steps <= 0 {
		return
	}

	if steps >= sw.numBuckets {
		for i := range sw.buckets {
			sw.buckets[i] = 0
		}
		sw.current = 0
	} else {
		for i := 0; i < steps; i++ {
			sw.current = (sw.current + 1) % sw.numBuckets
			sw.buckets[sw.current] = 0
		}
	}
	sw.bucketTime = sw.bucketTime.Add(time.Duration(steps) * sw.bucketSize)
}

// SlidingWindowStore keeps one SlidingWindowCounter per key, for example
// events per producer.
type SlidingWindowStore struct {
	mu         sync.RWMutex
	counters   map[string]*SlidingWindowCounter
	windowSize time.Duration
	numBuckets int
	maxKeys    int
	now        Clock
}

// NewSlidingWindowStore creates a keyed store. maxKeys bounds the number of
// tracked keys (0 = unlimited); idle keys are evicted first when full.
func NewSlidingWindowStore(windowSize time.Duration, numBuckets, maxKeys int, now Clock) *SlidingWindowStore {
	if now == nil {
		now = time.Now
	}
	return &SlidingWindowStore{
		counters:   make(map[string]*SlidingWindowCounter),
		windowSize: windowSize,
		numBuckets: numBuckets,
		maxKeys:    maxKeys,
		now:        now,
	}
}

// Increment adds 1 to the counter for key.
func (s *SlidingWindowStore) Increment(key string) {
	s.mu.Lock()
	counter, ok := s.counters[key]
	if !ok {
		if s.maxKeys > 0 && len(s.counters) >= s.maxKeys {
			s.evictIdle()
		}
		counter = NewSlidingWindowCounter(s.windowSize, s.numBuckets, s.now)
		s.counters[key] = counter
	}
	s.mu.Unlock()

	counter.Increment(1)
}

// Count returns the windowed count for key.
func (s *SlidingWindowStore) Count(key string) int64 {
	s.mu.RLock()
	counter, ok := s.counters[key]
	s.mu.RUnlock()
	if !ok {
		return 0
	}
	return counter.Count()
}

// Snapshot returns the non-zero windowed counts of every key.
func (s *SlidingWindowStore) Snapshot() map[string]int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]int64, len(s.counters))
	for key, counter := range s.counters {
		if n := counter.Count(); n > 0 {
			out[key] = n
		}
	}
	return out
}

// Keys returns the tracked keys in sorted order.
func (s *SlidingWindowStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.counters))
	for key := range s.counters {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// CleanupInactive removes keys with nothing in the window and returns how
// many were removed.
func (s *SlidingWindowStore) CleanupInactive() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, counter := range s.counters {
		if counter.Count() == 0 {
			delete(s.counters, key)
			removed++
		}
	}
	return removed
}

// evictIdle drops an idle key if there is one, otherwise an arbitrary key.
// Must hold mu.
func (s *SlidingWindowStore) evictIdle() {
	var victim string
	for key, counter := range s.counters {
		victim = key
		if counter.Count() == 0 {
			break
		}
	}
	delete(s.counters, victim)
}
