package ecs

import "fmt"

// World is the top-level ECS container. It owns the entity pool, the component
// registry, the live entity list in creation order, and a deferred destruction
// queue flushed by CleanupSystem each tick.
type World struct {
	pool         *EntityPool
	registry     *Registry
	live         []EntityID
	destroyQueue []EntityID
	queued       map[EntityID]struct{}
}

func NewWorld() *World {
	return &World{
		pool:         NewEntityPool(),
		registry:     NewRegistry(),
		live:         make([]EntityID, 0, 64),
		destroyQueue: make([]EntityID, 0, 64),
		queued:       make(map[EntityID]struct{}, 64),
	}
}

func (w *World) Pool() *EntityPool   { return w.pool }
func (w *World) Registry() *Registry { return w.registry }

func (w *World) CreateEntity() EntityID {
	id := w.pool.Create()
	w.live = append(w.live, id)
	return id
}

func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

// Entities returns the live entities in creation order.
func (w *World) Entities() []EntityID {
	out := make([]EntityID, len(w.live))
	copy(out, w.live)
	return out
}

func (w *World) Len() int { return len(w.live) }

// Attach stores c in the slot named by c.Name(), replacing what was there.
func (w *World) Attach(id EntityID, c Component) error {
	name := c.Name()
	if name == "" {
		return ErrUnnamedComponent
	}
	if !w.pool.Alive(id) {
		return fmt.Errorf("attach %s to %s: %w", name, id, ErrDeadEntity)
	}
	s, ok := w.registry.lookup(name)
	if !ok {
		return fmt.Errorf("attach %s: %w", name, ErrUnknownComponent)
	}
	if err := s.attach(id, c); err != nil {
		return fmt.Errorf("attach %s: %w", name, err)
	}
	return nil
}

// Detach removes the named slot from id. Unknown names and absent slots are
// a no-op.
func (w *World) Detach(id EntityID, name string) {
	if s, ok := w.registry.lookup(name); ok {
		s.Remove(id)
	}
}

// HasComponent reports whether id currently carries the named component.
func (w *World) HasComponent(id EntityID, name string) bool {
	s, ok := w.registry.lookup(name)
	return ok && s.Has(id)
}

// ClearTransient strips every transient component from every entity.
func (w *World) ClearTransient() {
	w.registry.ClearTransient()
}

// MarkForDestruction queues an entity for end-of-tick cleanup. Queuing the
// same entity twice is a no-op.
func (w *World) MarkForDestruction(id EntityID) {
	if _, ok := w.queued[id]; ok {
		return
	}
	w.queued[id] = struct{}{}
	w.destroyQueue = append(w.destroyQueue, id)
}

// PendingDestruction reports whether id is queued for cleanup this tick.
func (w *World) PendingDestruction(id EntityID) bool {
	_, ok := w.queued[id]
	return ok
}

// FlushDestroyQueue destroys all queued entities and clears their components.
// Called by CleanupSystem at the end of each tick. Returns how many entities
// were destroyed.
func (w *World) FlushDestroyQueue() int {
	n := 0
	for _, id := range w.destroyQueue {
		if !w.pool.Alive(id) {
			continue
		}
		w.registry.RemoveAll(id)
		w.pool.Destroy(id)
		w.removeLive(id)
		n++
	}
	w.destroyQueue = w.destroyQueue[:0]
	clear(w.queued)
	return n
}

func (w *World) removeLive(id EntityID) {
	for i, e := range w.live {
		if e == id {
			w.live = append(w.live[:i], w.live[i+1:]...)
			return
		}
	}
}
