// Package control moves marked entities with the keyboard.
package control

import (
	"fmt"

	"github.com/plus3/gemboard/ecs"
	"github.com/plus3/gemboard/geom"
	"github.com/plus3/gemboard/input"
	"github.com/plus3/gemboard/render"
)

// Speed is the distance moved per tick while a direction key is held.
const Speed = 5

// Direction sums the unit vectors of the held direction keys. Opposite keys
// cancel out.
func Direction(kb *input.Keyboard, b input.Bindings) geom.Vec3 {
	var dir geom.Vec3
	if kb.Pressed(b.Up) {
		dir.Y++
	}
	if kb.Pressed(b.Down) {
		dir.Y--
	}
	if kb.Pressed(b.Left) {
		dir.X--
	}
	if kb.Pressed(b.Right) {
		dir.X++
	}
	return dir
}

// MoveSystem translates the one entity carrying marker M by the normalised
// keyboard direction times Speed. With no direction held it does nothing,
// not even look the entity up. Zero or several marked entities fail the
// frame.
type MoveSystem[M any] struct {
	Keyboard ecs.Singleton[input.Keyboard]
	Bindings ecs.Singleton[input.Bindings]
	Targets  ecs.Query[struct {
		*render.Transform
		Marker *M
	}]
}

func (s *MoveSystem[M]) Execute(frame *ecs.UpdateFrame) {
	dir := Direction(s.Keyboard.Get(), *s.Bindings.Get())
	if dir.IsZero() {
		return
	}

	_, target, err := s.Targets.Single()
	if err != nil {
		frame.Fail(fmt.Errorf("move %T: %w", *new(M), err))
		return
	}
	target.Transform.Translation = target.Transform.Translation.Add(dir.Normalize().Scale(Speed))
}
