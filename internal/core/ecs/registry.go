package ecs

import (
	"errors"
	"fmt"
)

var (
	ErrUnnamedComponent   = errors.New("component has no name")
	ErrDuplicateComponent = errors.New("component name already registered")
	ErrUnknownComponent   = errors.New("component name not registered")
	ErrComponentType      = errors.New("component type does not match store")
	ErrDeadEntity         = errors.New("entity is not alive")
)

// anyStore is the type-erased view of a Store the Registry works with.
type anyStore interface {
	Name() string
	Transient() bool
	Has(id EntityID) bool
	Remove(id EntityID)
	Clear()
	attach(id EntityID, c Component) error
}

// Registry tracks all component stores by name and supports bulk cleanup
// on entity destroy and end of tick.
type Registry struct {
	stores []anyStore
	byName map[string]anyStore
}

func NewRegistry() *Registry {
	return &Registry{
		stores: make([]anyStore, 0, 16),
		byName: make(map[string]anyStore, 16),
	}
}

func (r *Registry) add(s anyStore) error {
	if s.Name() == "" {
		return ErrUnnamedComponent
	}
	if _, ok := r.byName[s.Name()]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateComponent, s.Name())
	}
	r.stores = append(r.stores, s)
	r.byName[s.Name()] = s
	return nil
}

func (r *Registry) lookup(name string) (anyStore, bool) {
	s, ok := r.byName[name]
	return s, ok
}

// RemoveAll clears the given entity from every registered component store.
func (r *Registry) RemoveAll(id EntityID) {
	for _, s := range r.stores {
		s.Remove(id)
	}
}

// ClearTransient empties every store registered as transient.
func (r *Registry) ClearTransient() {
	for _, s := range r.stores {
		if s.Transient() {
			s.Clear()
		}
	}
}

// Register creates the store for component type T under the name T declares.
func Register[T Component](w *World) (*Store[T], error) {
	return register[T](w, false)
}

// RegisterTransient is Register for one-tick components, which the world
// strips from every entity in ClearTransient.
func RegisterTransient[T Component](w *World) (*Store[T], error) {
	return register[T](w, true)
}

func register[T Component](w *World, transient bool) (*Store[T], error) {
	var zero T
	s := newStore[T](zero.Name(), transient)
	if err := w.registry.add(s); err != nil {
		return nil, err
	}
	return s, nil
}
