package ecs

import (
	"iter"
	"reflect"
	"slices"
	"weak"

	"github.com/kamstrup/intmap"
)

type byTypeName []reflect.Type

func (a byTypeName) Len() int           { return len(a) }
func (a byTypeName) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byTypeName) Less(i, j int) bool { return a[i].String() < a[j].String() }

// Archetype stores every entity that has exactly one particular set of
// component types, one column per type. Columns stay index-aligned: slot i of
// every column belongs to the same entity.
type Archetype struct {
	id      uint32
	types   []reflect.Type
	columns []column
	refs    *intmap.Map[EntityId, weak.Pointer[EntityRef]]
}

// NewArchetype builds an archetype for types, which must already be sorted by name.
func NewArchetype(id uint32, types []reflect.Type, registry *ComponentRegistry) *Archetype {
	a := &Archetype{
		id:      id,
		types:   types,
		columns: make([]column, len(types)),
		refs:    intmap.New[EntityId, weak.Pointer[EntityRef]](64),
	}
	for i, t := range types {
		a.columns[i] = registry.newColumn(t)
	}
	return a
}

func (a *Archetype) ID() uint32 {
	return a.id
}

// Types returns the component types, sorted by name.
func (a *Archetype) Types() []reflect.Type {
	return a.types
}

func (a *Archetype) columnIndex(t reflect.Type) int {
	return slices.Index(a.types, t)
}

func (a *Archetype) HasComponent(t reflect.Type) bool {
	return a.columnIndex(t) >= 0
}

// Spawn appends one entity and returns its slot index.
func (a *Archetype) Spawn(components []any) uint32 {
	index := -1
	for _, comp := range components {
		i := a.columnIndex(componentType(comp))
		if i < 0 {
			continue
		}
		index = a.columns[i].Append(comp)
	}
	return uint32(index)
}

// GetComponent returns a pointer to the component of type t at index, or nil.
func (a *Archetype) GetComponent(index uint32, t reflect.Type) any {
	i := a.columnIndex(t)
	if i < 0 {
		return nil
	}
	return a.columns[i].Get(int(index))
}

// Delete frees the slot at index and invalidates any EntityRef pointing at it.
func (a *Archetype) Delete(index uint32) {
	id := NewEntityId(a.id, index)
	if ptr, ok := a.refs.Get(id); ok {
		if ref := ptr.Value(); ref != nil {
			ref.Id = 0
			ref.Archetype = nil
		}
		a.refs.Del(id)
	}
	for _, c := range a.columns {
		c.Delete(int(index))
	}
}

// Len returns the number of live entities.
func (a *Archetype) Len() int {
	if len(a.columns) == 0 {
		return 0
	}
	return a.columns[0].Len()
}

// Compact removes holes left by deletes. Live EntityRefs are re-pointed; raw
// EntityIds into this archetype are invalid afterwards.
func (a *Archetype) Compact() {
	if len(a.columns) == 0 {
		return
	}

	moved := a.columns[0].Compact()
	for _, c := range a.columns[1:] {
		c.Compact()
	}

	live := make(map[EntityId]weak.Pointer[EntityRef], a.refs.Len())
	for from, to := range moved {
		ptr, ok := a.refs.Get(NewEntityId(a.id, uint32(from)))
		if !ok {
			continue
		}
		if ref := ptr.Value(); ref != nil {
			ref.Id = NewEntityId(a.id, uint32(to))
			live[ref.Id] = ptr
		}
	}

	a.refs.Clear()
	for id, ptr := range live {
		a.refs.Put(id, ptr)
	}
}

// Iter yields the id of every live entity.
func (a *Archetype) Iter() iter.Seq[EntityId] {
	return func(yield func(EntityId) bool) {
		if len(a.columns) == 0 {
			return
		}
		for index := range a.columns[0].Iter() {
			if !yield(NewEntityId(a.id, uint32(index))) {
				return
			}
		}
	}
}
