package feature

import (
	"errors"
	"fmt"
	"sync"

	"github.com/philipparndt/geodraw/pkg/style"
)

var (
	ErrNotFound    = errors.New("feature not found")
	ErrDuplicateID = errors.New("duplicate feature id")
)

// Store owns every feature of a plotter, keyed by id. Iteration follows
// insertion order.
type Store struct {
	mu       sync.RWMutex
	features map[string]*Feature
	order    []string
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{features: make(map[string]*Feature)}
}

// Add inserts a feature
func (s *Store) Add(f *Feature) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.features[f.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, f.ID)
	}
	s.features[f.ID] = f
	s.order = append(s.order, f.ID)
	return nil
}

// Get returns the feature with id
func (s *Store) Get(id string) (*Feature, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.features[id]
	return f, ok
}

// Lookup returns the feature with id or ErrNotFound
func (s *Store) Lookup(id string) (*Feature, error) {
	f, ok := s.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return f, nil
}

// Remove deletes the feature with id and reports whether it existed
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.features[id]; !ok {
		return false
	}
	delete(s.features, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// All returns every feature in insertion order
func (s *Store) All() []*Feature {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Feature, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.features[id])
	}
	return out
}

// ByKind returns the features of kind in insertion order
func (s *Store) ByKind(kind style.Kind) []*Feature {
	var out []*Feature
	for _, f := range s.All() {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}

// Len returns the number of features
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.features)
}

// Clear removes every feature and returns the removed ids
func (s *Store) Clear() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.order
	s.features = make(map[string]*Feature)
	s.order = nil
	return ids
}
