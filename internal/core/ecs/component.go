package ecs

import "slices"

// Hook observes a component on one entity. Hooks run synchronously inside the
// mutating call, so they see the store in its committed state.
type Hook[T any] func(id EntityID, c *T)

// ReplaceHook observes an overwrite: prev is the value being replaced, next the
// value about to be stored.
type ReplaceHook[T any] func(id EntityID, prev, next *T)

// Store is a generic typed map store for one component type, with structural
// hooks modelled on add / insert / replace / remove observers.
//
// Mutate through Insert when hooks must see the change; writing through the
// pointer returned by Get is silent.
type Store[T any] struct {
	data      map[EntityID]*T
	onAdd     []Hook[T]
	onInsert  []Hook[T]
	onReplace []ReplaceHook[T]
	onRemove  []Hook[T]
}

func NewStore[T any]() *Store[T] {
	return &Store[T]{
		data: make(map[EntityID]*T, 256),
	}
}

// OnAdd runs when an entity gains the component.
func (s *Store[T]) OnAdd(h Hook[T]) { s.onAdd = append(s.onAdd, h) }

// OnInsert runs on every Insert, after OnAdd.
func (s *Store[T]) OnInsert(h Hook[T]) { s.onInsert = append(s.onInsert, h) }

// OnReplace runs before an existing value is overwritten.
func (s *Store[T]) OnReplace(h ReplaceHook[T]) { s.onReplace = append(s.onReplace, h) }

// OnRemove runs before the component is dropped; the value is still readable.
func (s *Store[T]) OnRemove(h Hook[T]) { s.onRemove = append(s.onRemove, h) }

// Insert stores c for id and fires the hooks in replace, add, insert order.
func (s *Store[T]) Insert(id EntityID, c T) {
	next := &c
	prev, existed := s.data[id]
	if existed {
		for _, h := range s.onReplace {
			h(id, prev, next)
		}
	}
	s.data[id] = next
	if !existed {
		for _, h := range s.onAdd {
			h(id, next)
		}
	}
	for _, h := range s.onInsert {
		h(id, next)
	}
}

func (s *Store[T]) Get(id EntityID) (*T, bool) {
	c, ok := s.data[id]
	return c, ok
}

func (s *Store[T]) Has(id EntityID) bool {
	_, ok := s.data[id]
	return ok
}

// Remove fires OnRemove and drops the component. Absent ids are ignored.
func (s *Store[T]) Remove(id EntityID) {
	if !s.Has(id) {
		return
	}
	s.notifyRemove(id)
	s.drop(id)
}

func (s *Store[T]) Len() int {
	return len(s.data)
}

// IDs returns the holders of this component in ascending entity order.
func (s *Store[T]) IDs() []EntityID {
	ids := make([]EntityID, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Each visits every holder in ascending entity order.
func (s *Store[T]) Each(fn func(EntityID, *T)) {
	for _, id := range s.IDs() {
		if c, ok := s.data[id]; ok {
			fn(id, c)
		}
	}
}

func (s *Store[T]) notifyRemove(id EntityID) {
	c, ok := s.data[id]
	if !ok {
		return
	}
	for _, h := range s.onRemove {
		h(id, c)
	}
}

func (s *Store[T]) drop(id EntityID) {
	delete(s.data, id)
}
