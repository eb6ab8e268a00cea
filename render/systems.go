package render

import (
	"cmp"
	"errors"
	"image/color"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/gemboard/app"
	"github.com/plus3/gemboard/ecs"
	"github.com/plus3/gemboard/geom"
)

// maxDepth bounds parent chains so a cycle cannot hang propagation.
const maxDepth = 64

// PropagateSystem sets every GlobalTransform to the sum of the entity's
// Transform and the Transforms of its ancestors.
type PropagateSystem struct {
	Entities ecs.Query[struct {
		*Transform
		*GlobalTransform
		Parent *Parent `ecs:"optional"`
	}]
}

func (s *PropagateSystem) Execute(frame *ecs.UpdateFrame) {
	for item := range s.Entities.Values() {
		global := item.Transform.Translation
		parent := item.Parent
		for depth := 0; parent != nil && depth < maxDepth; depth++ {
			id, ok := frame.Storage.ResolveEntityRef(parent.Ref)
			if !ok {
				break
			}
			if t := ecs.ReadComponent[Transform](frame.Storage, id); t != nil {
				global = global.Add(t.Translation)
			}
			parent = ecs.ReadComponent[Parent](frame.Storage, id)
		}
		item.GlobalTransform.Translation = global
	}
}

// WorldToScreen maps a y-up world point to y-down screen pixels for a
// camera centred on camera in a width x height screen.
func WorldToScreen(world, camera geom.Vec2, width, height int) geom.Vec2 {
	return geom.NewVec2(
		world.X-camera.X+float32(width)/2,
		float32(height)/2-(world.Y-camera.Y),
	)
}

// ClearColor fills the screen before sprites are drawn.
type ClearColor struct {
	Color color.Color
}

type drawItem struct {
	sprite *Sprite
	at     geom.Vec3
}

// SpriteSystem draws every sprite, lowest z first, as seen by the single
// Camera2D. Nothing is drawn without a camera; more than one camera fails
// the frame.
type SpriteSystem struct {
	Screen  ecs.Singleton[app.Screen]
	Clear   ecs.Singleton[ClearColor]
	Cameras ecs.Query[struct {
		*Camera2D
		*GlobalTransform
	}]
	Sprites ecs.Query[struct {
		*Sprite
		*GlobalTransform
	}]

	items []drawItem
}

func (s *SpriteSystem) Execute(frame *ecs.UpdateFrame) {
	screen := s.Screen.Get()
	if screen == nil || screen.Image == nil {
		return
	}
	if bg := s.Clear.Get(); bg != nil && bg.Color != nil {
		screen.Image.Fill(bg.Color)
	}

	_, camera, err := s.Cameras.Single()
	if errors.Is(err, ecs.ErrNoEntities) {
		return
	}
	if err != nil {
		frame.Fail(err)
		return
	}
	eye := camera.GlobalTransform.Translation.Truncate()

	s.items = s.items[:0]
	for item := range s.Sprites.Values() {
		if item.Sprite.Image == nil {
			continue
		}
		s.items = append(s.items, drawItem{sprite: item.Sprite, at: item.GlobalTransform.Translation})
	}
	slices.SortStableFunc(s.items, func(a, b drawItem) int {
		return cmp.Compare(a.at.Z, b.at.Z)
	})

	for _, it := range s.items {
		img := it.sprite.Image
		w, h := img.Size()
		size := it.sprite.Size()
		centre := WorldToScreen(it.at.Truncate(), eye, screen.Width, screen.Height)

		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(-float64(w)/2, -float64(h)/2)
		op.GeoM.Scale(float64(size.X)/float64(w), float64(size.Y)/float64(h))
		op.GeoM.Translate(float64(centre.X), float64(centre.Y))
		screen.Image.DrawImage(img.Ebiten(), op)
	}
}

// Plugin registers the render components, propagates transforms in
// PostUpdate and draws sprites in Render.
type Plugin struct {
	ClearColor color.Color
}

func (p Plugin) Build(a *app.App) {
	RegisterComponents(a.Registry)
	ecs.NewSingleton(a.Storage, ClearColor{Color: p.ClearColor})
	a.AddSystem(app.PostUpdate, &PropagateSystem{}, ecs.Named("render.Propagate"))
	a.AddSystem(app.Render, &SpriteSystem{}, ecs.Named("render.Sprites"))
}
