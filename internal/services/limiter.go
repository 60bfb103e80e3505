package services

import "sync"

// InflightLimiter caps concurrent generative calls per user. Generative
// calls are priced per token, so an unbounded burst from one caller is a
// cost problem before it is a capacity problem.
type InflightLimiter struct {
	mu       sync.Mutex
	inflight map[string]int
	max      int
}

func NewInflightLimiter(max int) *InflightLimiter {
	if max <= 0 {
		max = 1
	}
	return &InflightLimiter{
		inflight: make(map[string]int),
		max:      max,
	}
}

// Acquire reserves a slot for the user, reporting false when the cap is
// reached. Callers must Release every successful Acquire.
func (l *InflightLimiter) Acquire(userID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.inflight[userID] >= l.max {
		return false
	}

	l.inflight[userID]++
	return true
}

func (l *InflightLimiter) Release(userID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.inflight[userID] <= 1 {
		delete(l.inflight, userID)
		return
	}
	l.inflight[userID]--
}
