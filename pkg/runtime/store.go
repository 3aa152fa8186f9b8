package runtime

import (
	"fmt"
	"sort"

	"eagle/interpreter-go/pkg/symbols"
)

// Store maps symbol handles to values. It backs the global store, call frame
// locals and object fields.
type Store struct {
	values map[symbols.ID]Value
}

func NewStore() *Store {
	return &Store{values: make(map[symbols.ID]Value)}
}

// Define inserts or replaces a binding.
func (s *Store) Define(id symbols.ID, value Value) {
	s.values[id] = value
}

// Assign updates an existing binding.
func (s *Store) Assign(id symbols.ID, value Value) error {
	if _, ok := s.values[id]; !ok {
		return fmt.Errorf("runtime: no binding for symbol %d", id)
	}
	s.values[id] = value
	return nil
}

func (s *Store) Get(id symbols.ID) (Value, bool) {
	v, ok := s.values[id]
	return v, ok
}

func (s *Store) Len() int { return len(s.values) }

// IDs returns the bound handles in ascending order.
func (s *Store) IDs() []symbols.ID {
	ids := make([]symbols.ID, 0, len(s.values))
	for id := range s.values {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
