package ecs

import (
	"iter"
	"reflect"
	"sort"
	"unsafe"
	"weak"
)

// Storage owns every archetype and singleton of one world.
type Storage struct {
	archetypes map[uint32]*Archetype
	singletons map[reflect.Type]*singletonEntry
	registry   *ComponentRegistry
}

func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		archetypes: make(map[uint32]*Archetype),
		singletons: make(map[reflect.Type]*singletonEntry),
		registry:   registry,
	}
}

// Registry returns the registry the storage was built with.
func (s *Storage) Registry() *ComponentRegistry {
	return s.registry
}

// CreateEntityRef returns the ref tracking id, creating it on first use.
// Returns nil when id does not belong to a known archetype.
func (s *Storage) CreateEntityRef(id EntityId) *EntityRef {
	archetype := s.archetypes[id.ArchetypeId()]
	if archetype == nil {
		return nil
	}

	if ptr, ok := archetype.refs.Get(id); ok {
		if ref := ptr.Value(); ref != nil {
			return ref
		}
		archetype.refs.Del(id)
	}

	ref := &EntityRef{Id: id, Archetype: archetype}
	archetype.refs.Put(id, weak.Make(ref))
	return ref
}

// ResolveEntityRef returns the current id of ref, or false once the entity is gone.
func (s *Storage) ResolveEntityRef(ref *EntityRef) (EntityId, bool) {
	if !ref.Alive() {
		return 0, false
	}
	return ref.Id, true
}

// InvalidateEntityRef detaches ref from its entity without deleting the entity.
func (s *Storage) InvalidateEntityRef(ref *EntityRef) bool {
	if !ref.Alive() {
		return false
	}
	if archetype := s.archetypes[ref.Id.ArchetypeId()]; archetype != nil {
		archetype.refs.Del(ref.Id)
	}
	ref.Id = 0
	ref.Archetype = nil
	return true
}

// GetArchetype returns the archetype for exactly the given component values' types, if any.
func (s *Storage) GetArchetype(components ...any) *Archetype {
	return s.archetypes[hashTypesToUint32(extractComponentTypes(components))]
}

// GetArchetypeByTypes is GetArchetype for reflect types. types is sorted in place.
func (s *Storage) GetArchetypeByTypes(types []reflect.Type) *Archetype {
	sort.Sort(byTypeName(types))
	return s.archetypes[hashTypesToUint32(types)]
}

// Archetypes iterates all archetypes in unspecified order.
func (s *Storage) Archetypes() iter.Seq[*Archetype] {
	return func(yield func(*Archetype) bool) {
		for _, a := range s.archetypes {
			if !yield(a) {
				return
			}
		}
	}
}

func (s *Storage) archetypeFor(types []reflect.Type) *Archetype {
	id := hashTypesToUint32(types)
	archetype, ok := s.archetypes[id]
	if !ok {
		archetype = NewArchetype(id, types, s.registry)
		s.archetypes[id] = archetype
	}
	return archetype
}

// Spawn creates an entity from component values. Panics on an empty list or
// an unregistered component type.
func (s *Storage) Spawn(components ...any) EntityId {
	if len(components) == 0 {
		panic("ecs: cannot spawn entity without components")
	}
	archetype := s.archetypeFor(extractComponentTypes(components))
	return NewEntityId(archetype.id, archetype.Spawn(components))
}

// Delete removes the entity. Unknown ids are ignored.
func (s *Storage) Delete(id EntityId) {
	if archetype, ok := s.archetypes[id.ArchetypeId()]; ok {
		archetype.Delete(id.Index())
	}
}

// AddComponent moves the entity into the archetype that also holds the new
// component and returns the new id. When the entity already has a component
// of that type its value is replaced in place.
func (s *Storage) AddComponent(id EntityId, component any) EntityId {
	from := s.archetypes[id.ArchetypeId()]
	if from == nil {
		return 0
	}

	t := componentType(component)
	if existing := from.GetComponent(id.Index(), t); existing != nil {
		reflect.ValueOf(existing).Elem().Set(reflect.Indirect(reflect.ValueOf(component)))
		return id
	}

	types := make([]reflect.Type, 0, len(from.types)+1)
	types = append(types, from.types...)
	types = append(types, t)
	sort.Sort(byTypeName(types))

	return s.migrate(id, from, types, component)
}

// RemoveComponent moves the entity into the archetype without t and returns
// the new id. Removing the last component deletes the entity and returns 0.
func (s *Storage) RemoveComponent(id EntityId, t reflect.Type) EntityId {
	from := s.archetypes[id.ArchetypeId()]
	if from == nil || !from.HasComponent(t) {
		return id
	}

	types := make([]reflect.Type, 0, len(from.types)-1)
	for _, typ := range from.types {
		if typ != t {
			types = append(types, typ)
		}
	}

	if len(types) == 0 {
		from.Delete(id.Index())
		return 0
	}
	return s.migrate(id, from, types, nil)
}

// migrate copies the entity's components into the archetype for types, adding
// extra when non-nil, re-points its EntityRef and frees the old slot.
func (s *Storage) migrate(id EntityId, from *Archetype, types []reflect.Type, extra any) EntityId {
	to := s.archetypeFor(types)

	extraType := reflect.Type(nil)
	if extra != nil {
		extraType = componentType(extra)
	}

	components := make([]any, 0, len(types))
	for _, t := range types {
		if t == extraType {
			components = append(components, extra)
			continue
		}
		components = append(components, from.GetComponent(id.Index(), t))
	}

	newId := NewEntityId(to.id, to.Spawn(components))

	if ptr, ok := from.refs.Get(id); ok {
		if ref := ptr.Value(); ref != nil {
			ref.Id = newId
			ref.Archetype = to
			to.refs.Put(newId, ptr)
		}
		from.refs.Del(id)
	}

	from.Delete(id.Index())
	return newId
}

// GetComponent returns a pointer to the entity's component of type t, or nil.
func (s *Storage) GetComponent(id EntityId, t reflect.Type) any {
	archetype, ok := s.archetypes[id.ArchetypeId()]
	if !ok {
		return nil
	}
	return archetype.GetComponent(id.Index(), t)
}

func (s *Storage) HasComponent(id EntityId, t reflect.Type) bool {
	archetype, ok := s.archetypes[id.ArchetypeId()]
	return ok && archetype.HasComponent(t)
}

// componentType returns the value type of a component, looking through one pointer.
func componentType(component any) reflect.Type {
	t := reflect.TypeOf(component)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// extractComponentTypes returns the sorted value types of components.
func extractComponentTypes(components []any) []reflect.Type {
	types := make([]reflect.Type, 0, len(components))
	for _, comp := range components {
		t := componentType(comp)
		switch t.Kind() {
		case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func:
			panic("ecs: components cannot be pointers, maps, channels, or functions")
		}
		types = append(types, t)
	}
	sort.Sort(byTypeName(types))
	return types
}

// hashTypesToUint32 is FNV-1a over the runtime type pointers of sorted types.
func hashTypesToUint32(types []reflect.Type) uint32 {
	const prime uint32 = 16777619
	h := uint32(2166136261)
	for _, t := range types {
		ptr := uintptr((*iface)(unsafe.Pointer(&t)).data)
		h ^= uint32(ptr) ^ uint32(uint64(ptr)>>32)
		h *= prime
	}
	return h
}

type ComponentReader interface {
	GetComponent(EntityId, reflect.Type) any
}

// ReadComponent returns the entity's T, or nil when it has none.
func ReadComponent[T any](reader ComponentReader, id EntityId) *T {
	c, _ := reader.GetComponent(id, reflect.TypeFor[T]()).(*T)
	return c
}
