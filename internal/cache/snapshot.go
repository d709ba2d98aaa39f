// Package cache holds the in-memory read-through mirror of the unit table.
// Services refresh it after every write they perform; a background ticker
// covers writes made by other processes.
package cache

import (
	"sync"

	"github.com/narenratnam1/DaanarRX-sub001/internal/model"
)

// UnitSnapshot is a point-in-time mirror of units keyed by Daana ID.
// Safe for concurrent use.
type UnitSnapshot struct {
	mu   sync.RWMutex
	byID map[string]model.Unit
}

func NewUnitSnapshot() *UnitSnapshot {
	return &UnitSnapshot{byID: make(map[string]model.Unit)}
}

// Replace swaps the entire snapshot for a fresh load
func (s *UnitSnapshot) Replace(units []model.Unit) {
	next := make(map[string]model.Unit, len(units))
	for _, u := range units {
		next[u.DaanaID] = u
	}
	s.mu.Lock()
	s.byID = next
	s.mu.Unlock()
}

// Get returns a copy of the unit with the given Daana ID, if present
func (s *UnitSnapshot) Get(daanaID string) (*model.Unit, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[daanaID]
	if !ok {
		return nil, false
	}
	return &u, true
}

// Upsert inserts or replaces one unit after a local write
func (s *UnitSnapshot) Upsert(u model.Unit) {
	s.mu.Lock()
	s.byID[u.DaanaID] = u
	s.mu.Unlock()
}

// Remove drops a unit after deletion
func (s *UnitSnapshot) Remove(daanaID string) {
	s.mu.Lock()
	delete(s.byID, daanaID)
	s.mu.Unlock()
}

// Filter returns copies of all units matching the predicate
func (s *UnitSnapshot) Filter(pred func(*model.Unit) bool) []model.Unit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Unit
	for _, u := range s.byID {
		if pred(&u) {
			out = append(out, u)
		}
	}
	return out
}

// Len returns the number of units currently mirrored
func (s *UnitSnapshot) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
