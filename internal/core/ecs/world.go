package ecs

// World is the top-level ECS container. It owns the entity pool, the component
// registry, the parent/child hierarchy, and a deferred destruction queue
// flushed by CleanupSystem each tick.
type World struct {
	pool         *EntityPool
	registry     *Registry
	parents      map[EntityID]EntityID
	children     map[EntityID][]EntityID
	destroyQueue []EntityID
}

func NewWorld() *World {
	return &World{
		pool:         NewEntityPool(),
		registry:     NewRegistry(),
		parents:      make(map[EntityID]EntityID),
		children:     make(map[EntityID][]EntityID),
		destroyQueue: make([]EntityID, 0, 64),
	}
}

// Register creates a component store owned by w.
func Register[T any](w *World) *Store[T] {
	s := NewStore[T]()
	w.registry.Register(s)
	return s
}

func (w *World) Spawn() EntityID {
	return w.pool.Create()
}

func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

// Len returns the number of live entities.
func (w *World) Len() int { return w.pool.Len() }

// AddChild parents child to parent. A child has at most one parent; re-parenting
// detaches it from the previous one.
func (w *World) AddChild(parent, child EntityID) {
	if !w.Alive(parent) || !w.Alive(child) || parent == child {
		return
	}
	w.detach(child)
	w.parents[child] = parent
	w.children[parent] = append(w.children[parent], child)
}

// Children returns a copy of parent's children in insertion order.
func (w *World) Children(parent EntityID) []EntityID {
	kids := w.children[parent]
	if len(kids) == 0 {
		return nil
	}
	out := make([]EntityID, len(kids))
	copy(out, kids)
	return out
}

func (w *World) Parent(child EntityID) (EntityID, bool) {
	p, ok := w.parents[child]
	return p, ok
}

// Despawn destroys id and, recursively, its children. Remove hooks fire for the
// children first, then for id itself.
func (w *World) Despawn(id EntityID) {
	if !w.Alive(id) {
		return
	}
	for _, kid := range w.Children(id) {
		w.Despawn(kid)
	}
	w.registry.RemoveAll(id)
	w.detach(id)
	delete(w.children, id)
	w.pool.Destroy(id)
}

// MarkForDestruction queues an entity for end-of-tick cleanup.
func (w *World) MarkForDestruction(id EntityID) {
	w.destroyQueue = append(w.destroyQueue, id)
}

// FlushDestroyQueue despawns all queued entities and returns how many were
// still alive. Called by CleanupSystem at the end of each tick.
func (w *World) FlushDestroyQueue() int {
	n := 0
	for _, id := range w.destroyQueue {
		if w.Alive(id) {
			w.Despawn(id)
			n++
		}
	}
	w.destroyQueue = w.destroyQueue[:0]
	return n
}

func (w *World) detach(child EntityID) {
	parent, ok := w.parents[child]
	if !ok {
		return
	}
	delete(w.parents, child)
	kids := w.children[parent]
	for i, k := range kids {
		if k == child {
			w.children[parent] = append(kids[:i], kids[i+1:]...)
			break
		}
	}
	if len(w.children[parent]) == 0 {
		delete(w.children, parent)
	}
}
