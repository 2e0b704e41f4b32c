package ecs

// Component is implemented by every component record. Name is the slot key
// the component occupies on an entity; it must be non-empty.
type Component interface {
	Name() string
}

// Store is a typed component store keyed by entity. Iteration follows
// insertion order, so scans see entities in the order they first received
// the component. At most one component per entity.
type Store[T Component] struct {
	name      string
	transient bool
	ids       []EntityID
	items     []*T
	index     map[EntityID]int
}

func newStore[T Component](name string, transient bool) *Store[T] {
	return &Store[T]{
		name:      name,
		transient: transient,
		ids:       make([]EntityID, 0, 64),
		items:     make([]*T, 0, 64),
		index:     make(map[EntityID]int, 64),
	}
}

func (s *Store[T]) Name() string    { return s.name }
func (s *Store[T]) Transient() bool { return s.transient }

// Set attaches c to id, replacing any component already in the slot.
func (s *Store[T]) Set(id EntityID, c *T) {
	if i, ok := s.index[id]; ok {
		s.items[i] = c
		return
	}
	s.index[id] = len(s.ids)
	s.ids = append(s.ids, id)
	s.items = append(s.items, c)
}

func (s *Store[T]) Get(id EntityID) (*T, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.items[i], true
}

func (s *Store[T]) Has(id EntityID) bool {
	_, ok := s.index[id]
	return ok
}

// Remove detaches the component from id. Absent slots are a no-op.
func (s *Store[T]) Remove(id EntityID) {
	i, ok := s.index[id]
	if !ok {
		return
	}
	last := len(s.ids) - 1
	copy(s.ids[i:], s.ids[i+1:])
	copy(s.items[i:], s.items[i+1:])
	s.items[last] = nil
	s.ids = s.ids[:last]
	s.items = s.items[:last]
	delete(s.index, id)
	for j := i; j < len(s.ids); j++ {
		s.index[s.ids[j]] = j
	}
}

// Clear detaches the component from every entity.
func (s *Store[T]) Clear() {
	for i := range s.items {
		s.items[i] = nil
	}
	s.ids = s.ids[:0]
	s.items = s.items[:0]
	clear(s.index)
}

func (s *Store[T]) Len() int {
	return len(s.ids)
}

// Each visits components in insertion order. Components attached by fn
// are visited too; fn must not remove from this store.
func (s *Store[T]) Each(fn func(EntityID, *T)) {
	for i := 0; i < len(s.ids); i++ {
		fn(s.ids[i], s.items[i])
	}
}

// IDs returns a copy of the entity ids holding this component.
func (s *Store[T]) IDs() []EntityID {
	out := make([]EntityID, len(s.ids))
	copy(out, s.ids)
	return out
}

func (s *Store[T]) attach(id EntityID, c Component) error {
	switch v := any(c).(type) {
	case T:
		s.Set(id, &v)
	case *T:
		s.Set(id, v)
	default:
		return ErrComponentType
	}
	return nil
}
