package render

import "github.com/plus3/gemboard/ecs"

// SpriteBundle is the component set of a drawable sprite.
type SpriteBundle struct {
	Sprite    Sprite
	Transform Transform
}

func (b SpriteBundle) Components() []any {
	return []any{b.Sprite, b.Transform, GlobalTransform(b.Transform)}
}

// Camera2DBundle is the component set of a 2D camera.
type Camera2DBundle struct {
	Transform Transform
}

func (b Camera2DBundle) Components() []any {
	return []any{Camera2D{}, b.Transform, GlobalTransform(b.Transform)}
}

// SpatialBundle positions an entity without drawing it, typically a parent
// of other sprites.
type SpatialBundle struct {
	Transform Transform
}

func (b SpatialBundle) Components() []any {
	return []any{b.Transform, GlobalTransform(b.Transform)}
}

// With appends extra components to a bundle's set.
func With(bundle interface{ Components() []any }, extra ...any) []any {
	return append(bundle.Components(), extra...)
}

// SpawnChildren spawns each component set as a child of parent and records
// the children on parent. It returns refs to the children in order.
func SpawnChildren(storage *ecs.Storage, parent *ecs.EntityRef, children ...[]any) []*ecs.EntityRef {
	if !parent.Alive() {
		return nil
	}

	refs := make([]*ecs.EntityRef, 0, len(children))
	for _, components := range children {
		id := storage.Spawn(append(components[:len(components):len(components)], Parent{Ref: parent})...)
		refs = append(refs, storage.CreateEntityRef(id))
	}

	if existing := ecs.ReadComponent[Children](storage, parent.Id); existing != nil {
		existing.Refs = append(existing.Refs, refs...)
	} else {
		storage.AddComponent(parent.Id, Children{Refs: refs})
	}
	return refs
}
