// Package render draws 2D sprites with Ebiten. World space is y-up and a
// sprite's translation is its centre.
package render

//go:generate go run ../cmd/gen-components -pkg render -out components_gen.go

import (
	"github.com/plus3/gemboard/assets"
	"github.com/plus3/gemboard/ecs"
	"github.com/plus3/gemboard/geom"
)

// Transform is an entity's translation relative to its parent, or to the
// world when it has none.
//
//ecs:component
type Transform struct {
	Translation geom.Vec3
}

func FromTranslation(v geom.Vec3) Transform {
	return Transform{Translation: v}
}

// GlobalTransform is the world translation computed by PropagateSystem.
//
//ecs:component
type GlobalTransform struct {
	Translation geom.Vec3
}

// Sprite draws Image centred on the entity. A zero CustomSize draws the
// image at its natural size.
//
//ecs:component
type Sprite struct {
	Image      *assets.Image
	CustomSize geom.Vec2
}

// Size returns the drawn size of the sprite.
func (s Sprite) Size() geom.Vec2 {
	if !s.CustomSize.IsZero() {
		return s.CustomSize
	}
	if s.Image == nil {
		return geom.Vec2{}
	}
	w, h := s.Image.Size()
	return geom.NewVec2(float32(w), float32(h))
}

// Camera2D marks the entity whose translation is drawn at the screen centre.
//
//ecs:component
type Camera2D struct{}

//ecs:component
type Parent struct {
	Ref *ecs.EntityRef
}

//ecs:component
type Children struct {
	Refs []*ecs.EntityRef
}

// Name labels an entity for debugging.
//
//ecs:component
type Name string
