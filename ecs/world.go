package ecs

import "github.com/milk9111/spheredrop/ecs/component"

// World owns entities and their component stores.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet
	events   EventQueue
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]*SparseSet)}
}

// CreateEntity allocates a new entity.
func (w *World) CreateEntity() Entity {
	return w.entities.create()
}

// DestroyEntity removes every component of e and invalidates the handle.
func (w *World) DestroyEntity(e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, store := range w.stores {
		store.Remove(e)
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func (w *World) IsAlive(e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Entities returns every live entity.
func (w *World) Entities() []Entity {
	if w == nil {
		return nil
	}
	return w.entities.alive()
}

// AddComponent stores value for e under kind, replacing any previous value.
func (w *World) AddComponent(e Entity, kind component.Kind, value any) error {
	if w == nil || !w.entities.isAlive(e) {
		return component.ErrEntityNotAlive
	}
	if kind == nil || kind.ID() == 0 {
		return component.ErrInvalidComponentKind
	}
	w.store(kind.ID(), true).Set(e, value)
	return nil
}

// RemoveComponent drops the component of kind from e.
func (w *World) RemoveComponent(e Entity, kind component.Kind) bool {
	store := w.store(kind.ID(), false)
	if store == nil {
		return false
	}
	return store.Remove(e)
}

// HasComponent reports whether e has a component of kind.
func (w *World) HasComponent(e Entity, kind component.Kind) bool {
	store := w.store(kind.ID(), false)
	return store != nil && w.IsAlive(e) && store.Has(e)
}

// GetComponent returns the untyped component of kind for e.
func (w *World) GetComponent(e Entity, kind component.Kind) (any, bool) {
	store := w.store(kind.ID(), false)
	if store == nil || !w.IsAlive(e) || !store.Has(e) {
		return nil, false
	}
	return store.Get(e), true
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	if w == nil {
		return nil
	}
	if w.stores == nil {
		if !create {
			return nil
		}
		w.stores = make(map[component.ComponentID]*SparseSet)
	}
	s := w.stores[id]
	if s == nil && create {
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}
