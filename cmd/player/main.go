// Command player loads a sprite and moves it around with W/A/S/D.
package main

import (
	"embed"
	"fmt"
	"io/fs"
	"os"

	"github.com/plus3/gemboard/app"
	"github.com/plus3/gemboard/assets"
	"github.com/plus3/gemboard/control"
	"github.com/plus3/gemboard/ecs"
	"github.com/plus3/gemboard/geom"
	"github.com/plus3/gemboard/input"
	"github.com/plus3/gemboard/internal/config"
	"github.com/plus3/gemboard/internal/logging"
	"github.com/plus3/gemboard/render"
	"github.com/plus3/gemboard/state"
)

//go:generate go run ../gen-components -pkg main -out components_gen.go

//go:embed assets
var embedded embed.FS

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

type PlayerAssets struct {
	Player *assets.Image `asset:"images/player/cow.png"`
}

//ecs:component
type Player struct{}

func newApp(fsys fs.FS, capture bool) *app.App {
	a := app.New()
	a.Window.Title = "Player"
	RegisterComponents(a.Registry)

	loading := &assets.LoadingState[GameState]{
		Loading: AssetsLoading,
		Next:    Main,
		Server:  assets.NewServer(fsys),
	}
	assets.Collection[PlayerAssets](loading)

	a.AddPlugins(render.Plugin{}, input.Plugin{Capture: capture}, loading)

	state.OnEnter(a, Main, ecs.SystemFunc(spawnPlayer))
	a.AddSystem(app.Update, &control.MoveSystem[Player]{},
		ecs.RunIf(state.In(Main)), ecs.Named("MovePlayer"))
	return a
}

func spawnPlayer(frame *ecs.UpdateFrame) {
	images := ecs.GetSingleton[PlayerAssets](frame.Storage)
	if images == nil {
		frame.Fail(fmt.Errorf("spawn player: %T not loaded", PlayerAssets{}))
		return
	}

	frame.Commands.Spawn(render.Camera2DBundle{}.Components()...)
	frame.Commands.Spawn(render.With(render.SpriteBundle{
		Sprite:    render.Sprite{Image: images.Player},
		Transform: render.FromTranslation(geom.NewVec3(0, 0, 1)),
	}, Player{})...)
}

func main() {
	log := logging.For("player")
	cfg, err := config.Load("player", os.Args[1:])
	if err != nil {
		code := config.ExitCode(err)
		if code != 0 {
			log.WithError(err).Error("invalid configuration")
		}
		os.Exit(code)
	}
	if err := logging.Setup(cfg.LogLevel, nil); err != nil {
		log.WithError(err).Fatal("invalid log level")
	}

	var fsys fs.FS = os.DirFS(cfg.AssetsDir)
	if cfg.AssetsDir == "" {
		if fsys, err = fs.Sub(embedded, "assets"); err != nil {
			log.WithError(err).Fatal("cannot open embedded assets")
		}
	}

	if err := newApp(fsys, true).Run(); err != nil {
		log.WithError(err).Fatal("player stopped")
	}
}
