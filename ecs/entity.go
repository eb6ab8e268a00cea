package ecs

// EntityId packs the archetype that owns an entity (upper 32 bits) with the
// entity's slot inside that archetype (lower 32 bits). Ids change whenever a
// component is added or removed; hold an EntityRef to follow an entity across
// such moves.
type EntityId uint64

func NewEntityId(archetypeId uint32, index uint32) EntityId {
	return EntityId(uint64(archetypeId)<<32 | uint64(index))
}

func (e EntityId) ArchetypeId() uint32 {
	return uint32(e >> 32)
}

func (e EntityId) Index() uint32 {
	return uint32(e)
}

// EntityRef follows an entity through archetype moves. Id is zero once the
// entity is deleted.
type EntityRef struct {
	Id        EntityId
	Archetype *Archetype
}

// Alive reports whether the referenced entity still exists.
func (r *EntityRef) Alive() bool {
	return r != nil && r.Id != 0
}
