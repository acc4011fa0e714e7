package middleware

import (
	"context"
	"sync"
	"time"
)

const defaultRateWindow = time.Minute

// RateStore counts hits per key inside a fixed window. Implementations return
// the count including this hit and the time left in the window.
type RateStore interface {
	Increment(ctx context.Context, key string, window time.Duration) (count int, ttl time.Duration, err error)
}

type fixedWindow struct {
	hits    int
	resetAt time.Time
}

// memoryRateStore keeps fixed windows in process memory. Safe for concurrent use.
type memoryRateStore struct {
	mu      sync.Mutex
	now     func() time.Time
	windows map[string]fixedWindow
}

// NewMemoryRateStore returns a process-local RateStore. Expired windows are
// dropped whenever a new window opens.
func NewMemoryRateStore() RateStore {
	return newMemoryRateStore(time.Now)
}

func newMemoryRateStore(now func() time.Time) *memoryRateStore {
	return &memoryRateStore{now: now, windows: map[string]fixedWindow{}}
}

func (s *memoryRateStore) Increment(_ context.Context, key string, window time.Duration) (int, time.Duration, error) {
	if window <= 0 {
		window = defaultRateWindow
	}
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[key]
	if !ok || !now.Before(w.resetAt) {
		s.dropExpired(now)
		w = fixedWindow{resetAt: now.Add(window)}
	}
	w.hits++
	s.windows[key] = w

	return w.hits, w.resetAt.Sub(now), nil
}

func (s *memoryRateStore) dropExpired(now time.Time) {
	for key, w := range s.windows {
		if !now.Before(w.resetAt) {
			delete(s.windows, key)
		}
	}
}
