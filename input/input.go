// Package input mirrors Ebiten's keyboard state into an ECS singleton so
// systems can read it without touching Ebiten directly.
package input

import (
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/gemboard/app"
	"github.com/plus3/gemboard/ecs"
)

// Keyboard holds the keys held down during the current tick.
type Keyboard struct {
	pressed []ebiten.Key
}

// Pressed reports whether key is held.
func (k *Keyboard) Pressed(key ebiten.Key) bool {
	return slices.Contains(k.pressed, key)
}

// Keys returns the held keys.
func (k *Keyboard) Keys() []ebiten.Key {
	return k.pressed
}

// Set replaces the held keys. CaptureSystem calls it every tick; tests and
// replays may call it directly.
func (k *Keyboard) Set(keys ...ebiten.Key) {
	k.pressed = append(k.pressed[:0], keys...)
}

// Bindings maps the four movement directions to keys.
type Bindings struct {
	Up, Down, Left, Right ebiten.Key
}

// DefaultBindings is W/S/A/D.
func DefaultBindings() Bindings {
	return Bindings{
		Up:    ebiten.KeyW,
		Down:  ebiten.KeyS,
		Left:  ebiten.KeyA,
		Right: ebiten.KeyD,
	}
}

// CaptureSystem refreshes the Keyboard singleton from Ebiten.
type CaptureSystem struct {
	Keyboard ecs.Singleton[Keyboard]
}

func (s *CaptureSystem) Execute(frame *ecs.UpdateFrame) {
	kb := s.Keyboard.Get()
	kb.pressed = inpututil.AppendPressedKeys(kb.pressed[:0])
}

// Plugin installs Keyboard and Bindings and captures keys in PreUpdate.
// Headless apps can leave Capture off and drive Keyboard.Set themselves.
type Plugin struct {
	Bindings Bindings
	Capture  bool
}

func (p Plugin) Build(a *app.App) {
	bindings := p.Bindings
	if bindings == (Bindings{}) {
		bindings = DefaultBindings()
	}
	ecs.NewSingleton(a.Storage, Keyboard{})
	ecs.NewSingleton(a.Storage, bindings)
	if p.Capture {
		a.AddSystem(app.PreUpdate, &CaptureSystem{}, ecs.Named("input.Capture"))
	}
}
