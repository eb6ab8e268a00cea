package ecs_test

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/plus3/gemboard/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityIdEncoding(t *testing.T) {
	tests := []struct {
		archetypeId uint32
		index       uint32
	}{
		{0, 0},
		{1, 0},
		{0, 1},
		{0xFFFFFFFF, 0xFFFFFFFF},
		{0x12345678, 0x9ABCDEF0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("archetype=%d,index=%d", tt.archetypeId, tt.index), func(t *testing.T) {
			id := ecs.NewEntityId(tt.archetypeId, tt.index)
			assert.Equal(t, tt.archetypeId, id.ArchetypeId())
			assert.Equal(t, tt.index, id.Index())
		})
	}
}

func TestStorageSpawnAndRead(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	a := storage.Spawn(Position{X: 1, Y: 2}, Gem{Kind: 2})
	b := storage.Spawn(&Position{X: 3, Y: 4}, Gem{Kind: 0})
	c := storage.Spawn(Position{X: 5, Y: 6})

	assert.Equal(t, a.ArchetypeId(), b.ArchetypeId(), "same component set shares an archetype")
	assert.NotEqual(t, a.ArchetypeId(), c.ArchetypeId())

	pos := ecs.ReadComponent[Position](storage, b)
	require.NotNil(t, pos)
	assert.Equal(t, Position{X: 3, Y: 4}, *pos)

	gem := ecs.ReadComponent[Gem](storage, a)
	require.NotNil(t, gem)
	assert.Equal(t, uint32(2), gem.Kind)

	assert.Nil(t, ecs.ReadComponent[Gem](storage, c))
	assert.True(t, storage.HasComponent(a, reflect.TypeFor[Gem]()))
	assert.False(t, storage.HasComponent(c, reflect.TypeFor[Gem]()))
}

func TestStorageComponentOrderDoesNotMatter(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	a := storage.Spawn(Position{}, Velocity{})
	b := storage.Spawn(Velocity{}, Position{})

	assert.Equal(t, a.ArchetypeId(), b.ArchetypeId())
	assert.NotNil(t, storage.GetArchetype(Velocity{}, Position{}))
}

func TestStorageSpawnPanics(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	assert.Panics(t, func() { storage.Spawn() })
	assert.Panics(t, func() { storage.Spawn(Velocity{}, struct{ Unregistered int }{}) })
	assert.Panics(t, func() { storage.Spawn(map[string]int{}) })
}

func TestStorageDeleteReusesSlot(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	a := storage.Spawn(Gem{Kind: 1})
	storage.Spawn(Gem{Kind: 2})
	storage.Delete(a)

	assert.Nil(t, ecs.ReadComponent[Gem](storage, a))

	c := storage.Spawn(Gem{Kind: 3})
	assert.Equal(t, a, c)
	assert.Equal(t, uint32(3), ecs.ReadComponent[Gem](storage, c).Kind)
}

func TestStorageAddComponent(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Position{X: 7, Y: 8})
	ref := storage.CreateEntityRef(id)

	moved := storage.AddComponent(id, Player{})
	assert.NotEqual(t, id, moved)
	assert.Equal(t, moved, ref.Id, "refs follow the entity")
	assert.Equal(t, Position{X: 7, Y: 8}, *ecs.ReadComponent[Position](storage, moved))
	assert.NotNil(t, ecs.ReadComponent[Player](storage, moved))
	assert.Nil(t, ecs.ReadComponent[Position](storage, id), "old slot is freed")

	t.Run("existing type is replaced in place", func(t *testing.T) {
		same := storage.AddComponent(moved, Position{X: 1, Y: 1})
		assert.Equal(t, moved, same)
		assert.Equal(t, Position{X: 1, Y: 1}, *ecs.ReadComponent[Position](storage, same))
	})
}

func TestStorageRemoveComponent(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Position{X: 1}, Velocity{DX: 2})
	ref := storage.CreateEntityRef(id)

	moved := storage.RemoveComponent(id, reflect.TypeFor[Velocity]())
	assert.Equal(t, moved, ref.Id)
	assert.Nil(t, ecs.ReadComponent[Velocity](storage, moved))
	assert.Equal(t, float32(1), ecs.ReadComponent[Position](storage, moved).X)

	t.Run("missing type is a no-op", func(t *testing.T) {
		assert.Equal(t, moved, storage.RemoveComponent(moved, reflect.TypeFor[Gem]()))
	})

	t.Run("removing the last component deletes the entity", func(t *testing.T) {
		assert.Equal(t, ecs.EntityId(0), storage.RemoveComponent(moved, reflect.TypeFor[Position]()))
		assert.False(t, ref.Alive())
	})
}

func TestEntityRefs(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Label("board"))
	ref := storage.CreateEntityRef(id)

	assert.Same(t, ref, storage.CreateEntityRef(id), "one ref per entity")

	resolved, ok := storage.ResolveEntityRef(ref)
	assert.True(t, ok)
	assert.Equal(t, id, resolved)

	storage.Delete(id)
	_, ok = storage.ResolveEntityRef(ref)
	assert.False(t, ok)
	assert.False(t, ref.Alive())

	t.Run("invalidate detaches without deleting", func(t *testing.T) {
		other := storage.Spawn(Label("gem"))
		r := storage.CreateEntityRef(other)
		assert.True(t, storage.InvalidateEntityRef(r))
		assert.False(t, storage.InvalidateEntityRef(r))
		assert.NotNil(t, ecs.ReadComponent[Label](storage, other))
	})

	t.Run("unknown archetype yields nil", func(t *testing.T) {
		assert.Nil(t, storage.CreateEntityRef(ecs.NewEntityId(42, 0)))
	})
}

func TestArchetypeCompact(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	var refs []*ecs.EntityRef
	for i := range 10 {
		id := storage.Spawn(Gem{Kind: uint32(i)})
		refs = append(refs, storage.CreateEntityRef(id))
	}
	for i := 0; i < 10; i += 2 {
		storage.Delete(refs[i].Id)
	}

	archetype := storage.GetArchetype(Gem{})
	require.NotNil(t, archetype)
	archetype.Compact()

	assert.Equal(t, 5, archetype.Len())
	for i := 1; i < 10; i += 2 {
		gem := ecs.ReadComponent[Gem](storage, refs[i].Id)
		require.NotNil(t, gem)
		assert.Equal(t, uint32(i), gem.Kind)
		assert.Less(t, refs[i].Id.Index(), uint32(5))
	}
}
