// Package domain holds the favorites collection kept for a visitor session.
package domain

import (
	dogs "github.com/Apurer/go-dog-portal/internal/domains/dogs/domain"
)

// Set is an ordered collection of favorite dogs keyed by dog id. The id index
// and the ordered slice always hold the same dogs, each exactly once.
//
// A Set has no lock of its own; the owning session serializes access.
type Set struct {
	order []dogs.Dog
	index map[string]int
}

// NewSet returns an empty favorites set.
func NewSet() *Set {
	return &Set{index: map[string]int{}}
}

// Add appends dog unless a dog with the same id is already present.
func (s *Set) Add(dog dogs.Dog) {
	if s.index == nil {
		s.index = map[string]int{}
	}
	if _, ok := s.index[dog.ID]; ok {
		return
	}
	s.index[dog.ID] = len(s.order)
	s.order = append(s.order, dog)
}

// Remove drops the dog with id if present.
func (s *Set) Remove(id string) {
	pos, ok := s.index[id]
	if !ok {
		return
	}
	delete(s.index, id)
	s.order = append(s.order[:pos], s.order[pos+1:]...)
	for i := pos; i < len(s.order); i++ {
		s.index[s.order[i].ID] = i
	}
}

// Toggle removes dog when present, adds it otherwise, and reports whether it
// is a favorite afterwards.
func (s *Set) Toggle(dog dogs.Dog) bool {
	if s.Contains(dog.ID) {
		s.Remove(dog.ID)
		return false
	}
	s.Add(dog)
	return true
}

// Contains reports membership in O(1).
func (s *Set) Contains(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Clear empties the set.
func (s *Set) Clear() {
	s.order = nil
	s.index = map[string]int{}
}

// List returns the favorites in insertion order.
func (s *Set) List() []dogs.Dog {
	return append([]dogs.Dog{}, s.order...)
}

// IDs returns the favorite ids in insertion order.
func (s *Set) IDs() []string {
	ids := make([]string, 0, len(s.order))
	for _, d := range s.order {
		ids = append(ids, d.ID)
	}
	return ids
}

// Count returns the number of favorites.
func (s *Set) Count() int {
	return len(s.order)
}
