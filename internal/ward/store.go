package ward

import (
	"sync"
	"time"
)

// Tracked is one active ward in the store.
type Tracked struct {
	Kind       Kind
	Region     string
	Confidence float64
	X          float64
	Y          float64
	FirstSeen  time.Time
	ExpiresAt  time.Time
}

// Remaining returns the time left before expiry at now.
func (w Tracked) Remaining(now time.Time) time.Duration {
	return w.ExpiresAt.Sub(now)
}

// Store holds the process-wide set of active wards. The detection loop
// mutates it, the overlay loop reads it; both go through the mutex.
type Store struct {
	mu              sync.Mutex
	duplicateWindow time.Duration
	wards           []Tracked
}

// NewStore creates an empty store with the given duplicate-suppression
// window.
func NewStore(duplicateWindow time.Duration) *Store {
	return &Store{
		duplicateWindow: duplicateWindow,
		wards:           make([]Tracked, 0),
	}
}

// RecordDetection applies one qualifying detection to the store.
// Zero-lifetime kinds never enter the store: tracked reports false and
// the caller emits an event only. A detection matching an existing
// ward's kind and region within the duplicate window is a re-detection:
// duplicate reports true, the store is unchanged and the existing
// timer is not reset.
func (s *Store) RecordDetection(kind Kind, region string, confidence, x, y float64, now time.Time) (tracked, duplicate bool) {
	lifetime := kind.Lifetime()
	if lifetime == 0 {
		return false, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range s.wards {
		if w.Kind == kind && w.Region == region && now.Sub(w.FirstSeen) < s.duplicateWindow {
			return false, true
		}
	}

	s.wards = append(s.wards, Tracked{
		Kind:       kind,
		Region:     region,
		Confidence: confidence,
		X:          x,
		Y:          y,
		FirstSeen:  now,
		ExpiresAt:  now.Add(lifetime),
	})
	return true, false
}

// SweepExpired removes every ward whose expiry is at or before now and
// returns the removed wards and the still-active ones. The overlay
// calls this before each render so remaining times are always positive.
func (s *Store) SweepExpired(now time.Time) (expired, active []Tracked) {
	s.mu.Lock()
	defer s.mu.Unlock()

	remaining := s.wards[:0]
	for _, w := range s.wards {
		if !w.ExpiresAt.After(now) {
			expired = append(expired, w)
			continue
		}
		remaining = append(remaining, w)
	}
	s.wards = remaining

	active = make([]Tracked, len(s.wards))
	copy(active, s.wards)
	return expired, active
}

// Len returns the number of active wards.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.wards)
}

// Clear removes all wards.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wards = s.wards[:0]
}
