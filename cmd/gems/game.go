package main

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"

	"github.com/plus3/gemboard/app"
	"github.com/plus3/gemboard/assets"
	"github.com/plus3/gemboard/control"
	"github.com/plus3/gemboard/ecs"
	"github.com/plus3/gemboard/geom"
	"github.com/plus3/gemboard/input"
	"github.com/plus3/gemboard/match3"
	"github.com/plus3/gemboard/render"
	"github.com/plus3/gemboard/state"
)

// GemLength is the side of one gem sprite in world units.
const GemLength = 50

type GameState int

const (
	AssetsLoading GameState = iota
	Main
)

func (s GameState) String() string {
	switch s {
	case AssetsLoading:
		return "AssetsLoading"
	case Main:
		return "Main"
	default:
		return fmt.Sprintf("GameState(%d)", int(s))
	}
}

type GemAssets struct {
	Blue  *assets.Image `asset:"images/gems/blue.png"`
	Green *assets.Image `asset:"images/gems/green.png"`
	Red   *assets.Image `asset:"images/gems/red.png"`
}

// VisibleBoard sits on the board container and maps each cell to its sprite.
//
//ecs:component
type VisibleBoard struct {
	Gems map[geom.UVec2]*ecs.EntityRef
}

//ecs:component
type MainCamera struct{}

var errNotReady = errors.New("board or gem assets missing")

type options struct {
	Assets fs.FS
	Seed   uint64
	// Capture reads the real keyboard. Headless runs leave it off.
	Capture bool
}

func newApp(opts options) *app.App {
	a := app.New()
	a.Window = app.WindowConfig{Title: "Gems", Width: 640, Height: 640}
	RegisterComponents(a.Registry)

	loading := &assets.LoadingState[GameState]{
		Loading:      AssetsLoading,
		Next:         Main,
		Server:       assets.NewServer(opts.Assets),
		ShowProgress: true,
	}
	assets.Collection[GemAssets](loading)

	cfg := match3.DefaultConfig()
	cfg.Seed = opts.Seed

	a.AddPlugins(
		render.Plugin{ClearColor: color.RGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xff}},
		input.Plugin{Capture: opts.Capture},
		loading,
		match3.Plugin{Config: cfg},
	)

	state.OnEnter(a, Main, &SpawnGemsSystem{})
	a.AddSystem(app.Update, &control.MoveSystem[VisibleBoard]{},
		ecs.RunIf(state.In(Main)), ecs.Named("MoveBoard"))
	return a
}

// GemPosition is the world translation of the gem at cell pos.
func GemPosition(pos geom.UVec2) geom.Vec3 {
	return geom.NewVec3(float32(pos.X)*GemLength, -float32(pos.Y)*GemLength, 0)
}

// CameraPosition centres the camera on a board of the given dimensions.
func CameraPosition(dims geom.UVec2) geom.Vec3 {
	w := float32(dims.X) * GemLength
	h := float32(dims.Y) * GemLength
	return geom.NewVec3(w/2-GemLength/2, -(h/2 - GemLength/2), 0)
}

// textureFor picks the sprite for a gem type, cycling through the three
// colours.
func textureFor(a *GemAssets, typ uint32) *assets.Image {
	switch typ % 3 {
	case 0:
		return a.Blue
	case 1:
		return a.Green
	default:
		return a.Red
	}
}

// SpawnGemsSystem creates the camera and one sprite per board cell, all
// children of a container that carries VisibleBoard.
type SpawnGemsSystem struct {
	Board  ecs.Singleton[match3.Board]
	Assets ecs.Singleton[GemAssets]
}

func (s *SpawnGemsSystem) Execute(frame *ecs.UpdateFrame) {
	board := s.Board.Get()
	gems := s.Assets.Get()
	if board == nil || gems == nil {
		frame.Fail(errNotReady)
		return
	}

	frame.Commands.Spawn(render.With(render.Camera2DBundle{
		Transform: render.FromTranslation(CameraPosition(board.Dimensions())),
	}, MainCamera{})...)

	storage := frame.Storage
	frame.Commands.Defer(func() {
		container := storage.CreateEntityRef(storage.Spawn(render.SpatialBundle{}.Components()...))

		cells := make([]geom.UVec2, 0, board.Len())
		sets := make([][]any, 0, board.Len())
		for pos, typ := range board.Iter() {
			cells = append(cells, pos)
			sets = append(sets, render.With(render.SpriteBundle{
				Sprite: render.Sprite{
					Image:      textureFor(gems, typ),
					CustomSize: geom.NewVec2(GemLength, GemLength),
				},
				Transform: render.FromTranslation(GemPosition(pos)),
			}, render.Name(fmt.Sprintf("%d;%d", pos.X, pos.Y))))
		}

		refs := render.SpawnChildren(storage, container, sets...)
		visible := VisibleBoard{Gems: make(map[geom.UVec2]*ecs.EntityRef, len(refs))}
		for i, ref := range refs {
			visible.Gems[cells[i]] = ref
		}
		storage.AddComponent(container.Id, visible)
	})
}
