package ecs

import (
	"iter"
)

// Query is a View whose matches are collected once per system run. The
// Scheduler calls Execute right before the owning system executes, so a
// system always sees entities spawned by earlier flushes.
type Query[T any] struct {
	view               *View[T]
	storage            *Storage
	cachedArchetypes   []*Archetype
	lastArchetypeCount int

	entities   []EntityId
	components []T
	cacheValid bool
}

func NewQuery[T any](storage *Storage) *Query[T] {
	q := &Query[T]{}
	q.Init(storage)
	return q
}

// Init binds the query to storage. The Scheduler calls it at registration.
func (q *Query[T]) Init(storage *Storage) {
	q.view = NewView[T](storage)
	q.storage = storage
	q.cachedArchetypes = nil
	q.lastArchetypeCount = -1
	q.cacheValid = false
}

// Execute collects the current matches.
func (q *Query[T]) Execute() {
	if count := len(q.storage.archetypes); count != q.lastArchetypeCount {
		q.cachedArchetypes = q.cachedArchetypes[:0]
		for _, archetype := range q.storage.archetypes {
			if q.view.matchesArchetype(archetype) {
				q.cachedArchetypes = append(q.cachedArchetypes, archetype)
			}
		}
		q.lastArchetypeCount = count
	}

	q.entities = q.entities[:0]
	q.components = q.components[:0]
	for _, archetype := range q.cachedArchetypes {
		for id, item := range q.view.iterArchetype(archetype) {
			q.entities = append(q.entities, id)
			q.components = append(q.components, item)
		}
	}
	q.cacheValid = true
}

func (q *Query[T]) mustBeExecuted(method string) {
	if !q.cacheValid {
		panic("ecs: Query." + method + "() called before Query.Execute()")
	}
}

// Iter yields the matches collected by the last Execute.
func (q *Query[T]) Iter() iter.Seq2[EntityId, T] {
	q.mustBeExecuted("Iter")
	return func(yield func(EntityId, T) bool) {
		for i := range q.entities {
			if !yield(q.entities[i], q.components[i]) {
				return
			}
		}
	}
}

// Values is Iter without the ids.
func (q *Query[T]) Values() iter.Seq[T] {
	q.mustBeExecuted("Values")
	return func(yield func(T) bool) {
		for i := range q.components {
			if !yield(q.components[i]) {
				return
			}
		}
	}
}

// Count returns the number of matches.
func (q *Query[T]) Count() int {
	q.mustBeExecuted("Count")
	return len(q.entities)
}

// Single returns the only match. It fails with ErrNoEntities or
// ErrMultipleEntities otherwise.
func (q *Query[T]) Single() (EntityId, T, error) {
	q.mustBeExecuted("Single")
	var zero T
	switch len(q.entities) {
	case 0:
		return 0, zero, ErrNoEntities
	case 1:
		return q.entities[0], q.components[0], nil
	default:
		return 0, zero, ErrMultipleEntities
	}
}
