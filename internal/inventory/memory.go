package inventory

import (
	"context"
	"fmt"
	"sync"

	"ms-boxoffice/internal/models"
)

type memSection struct {
	mu        sync.Mutex
	capacity  int
	remaining int
}

// MemoryStore keeps section counters in process memory with one exclusion
// lock per section, so attempts against different sections never contend.
// It backs the unit tests and the memory inventory mode; instances are
// independent and must be passed in explicitly.
type MemoryStore struct {
	mu       sync.RWMutex
	sections map[string]*memSection
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sections: make(map[string]*memSection)}
}

func key(eventID, sectionID string) string {
	return eventID + "/" + sectionID
}

// AddSection registers a section with remaining initialized to capacity.
func (s *MemoryStore) AddSection(eventID, sectionID string, capacity int) error {
	if capacity < 1 {
		return fmt.Errorf("%w: capacity must be >= 1", models.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sections[key(eventID, sectionID)] = &memSection{capacity: capacity, remaining: capacity}
	return nil
}

// LoadEvent registers every section of an already built event.
func (s *MemoryStore) LoadEvent(event *models.Event) error {
	for _, sec := range event.Sections {
		if err := s.AddSection(event.ID, sec.ID, sec.Capacity); err != nil {
			return err
		}
	}
	return nil
}

func (s *MemoryStore) TryDecrement(ctx context.Context, eventID, sectionID string, qty int) (int, error) {
	s.mu.RLock()
	sec, ok := s.sections[key(eventID, sectionID)]
	s.mu.RUnlock()
	if !ok {
		return 0, fmt.Errorf("%w: section %s", models.ErrNotFound, sectionID)
	}

	sec.mu.Lock()
	defer sec.mu.Unlock()
	if sec.remaining < qty {
		return 0, fmt.Errorf("%w: section %s has %d remaining, requested %d",
			models.ErrInsufficientCapacity, sectionID, sec.remaining, qty)
	}
	sec.remaining -= qty
	return sec.remaining, nil
}

// Remaining reports the current counter, mainly for tests and diagnostics.
func (s *MemoryStore) Remaining(eventID, sectionID string) (int, error) {
	s.mu.RLock()
	sec, ok := s.sections[key(eventID, sectionID)]
	s.mu.RUnlock()
	if !ok {
		return 0, fmt.Errorf("%w: section %s", models.ErrNotFound, sectionID)
	}
	sec.mu.Lock()
	defer sec.mu.Unlock()
	return sec.remaining, nil
}
