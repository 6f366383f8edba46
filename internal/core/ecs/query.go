package ecs

// Each2 visits entities that have both component A and B, in ascending entity
// order. The smaller store drives the iteration.
func Each2[A, B any](sa *Store[A], sb *Store[B], fn func(EntityID, *A, *B)) {
	if sa.Len() <= sb.Len() {
		for _, id := range sa.IDs() {
			a, ok := sa.Get(id)
			if !ok {
				continue
			}
			if b, ok := sb.Get(id); ok {
				fn(id, a, b)
			}
		}
		return
	}
	for _, id := range sb.IDs() {
		b, ok := sb.Get(id)
		if !ok {
			continue
		}
		if a, ok := sa.Get(id); ok {
			fn(id, a, b)
		}
	}
}
