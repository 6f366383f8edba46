package ecs

// removable is implemented by every Store. Removal runs in two passes so that
// remove hooks of one component can still read the entity's other components.
type removable interface {
	notifyRemove(id EntityID)
	drop(id EntityID)
}

// Registry tracks all component stores of a World.
type Registry struct {
	stores []removable
}

func NewRegistry() *Registry {
	return &Registry{
		stores: make([]removable, 0, 16),
	}
}

// Register adds a component store to the registry.
func (r *Registry) Register(store removable) {
	r.stores = append(r.stores, store)
}

// RemoveAll fires every store's remove hooks for id, then clears id everywhere.
func (r *Registry) RemoveAll(id EntityID) {
	for _, s := range r.stores {
		s.notifyRemove(id)
	}
	for _, s := range r.stores {
		s.drop(id)
	}
}
