package ecs

// Query returns the live entities carrying every named component, in
// creation order. An unknown name matches nothing.
func (w *World) Query(names ...string) []EntityID {
	stores := make([]anyStore, 0, len(names))
	for _, n := range names {
		s, ok := w.registry.lookup(n)
		if !ok {
			return nil
		}
		stores = append(stores, s)
	}
	out := make([]EntityID, 0, 16)
	for _, id := range w.live {
		match := true
		for _, s := range stores {
			if !s.Has(id) {
				match = false
				break
			}
		}
		if match {
			out = append(out, id)
		}
	}
	return out
}

// Each2 iterates over entities that have both component A and B, in the
// insertion order of sa.
func Each2[A, B Component](sa *Store[A], sb *Store[B], fn func(EntityID, *A, *B)) {
	sa.Each(func(id EntityID, a *A) {
		if b, ok := sb.Get(id); ok {
			fn(id, a, b)
		}
	})
}
