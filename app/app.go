// Package app hosts an ECS world inside an Ebitengine game loop.
//
// An App owns one component registry, one storage and one scheduler per
// Stage. Plugins extend it at build time; Run opens a window and drives the
// stages from ebiten's Update and Draw callbacks. Update and Draw can also be
// called directly, which is how tests and headless tools use an App.
package app

import (
	"fmt"
	"reflect"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/gemboard/ecs"
	"github.com/plus3/gemboard/internal/logging"
	"github.com/sirupsen/logrus"
)

type App struct {
	Registry *ecs.ComponentRegistry
	Storage  *ecs.Storage
	Window   WindowConfig

	schedulers [stageCount]*ecs.Scheduler
	plugins    map[any]struct{}
	overlay    Overlay
	started    bool
	err        error
	log        *logrus.Entry
}

func New() *App {
	registry := ecs.NewComponentRegistry()
	storage := ecs.NewStorage(registry)

	a := &App{
		Registry: registry,
		Storage:  storage,
		Window:   DefaultWindow(),
		plugins:  make(map[any]struct{}),
		log:      logging.For("app"),
	}
	for i := range a.schedulers {
		a.schedulers[i] = ecs.NewScheduler(storage)
	}

	ecs.NewSingleton(storage, Screen{})
	return a
}

// AddPlugins builds each plugin. Value plugins are built once per concrete
// type; pointer plugins once per pointer, so two configured instances of the
// same type both build. PluginFunc values always build.
func (a *App) AddPlugins(plugins ...Plugin) *App {
	for _, p := range plugins {
		t := reflect.TypeOf(p)
		if key, dedupe := pluginKey(p); dedupe {
			if _, seen := a.plugins[key]; seen {
				a.log.WithField("plugin", t.String()).Warn("plugin already added, skipping")
				continue
			}
			a.plugins[key] = struct{}{}
		}
		a.log.WithField("plugin", t.String()).Debug("building plugin")
		p.Build(a)
	}
	return a
}

func pluginKey(p Plugin) (any, bool) {
	if _, isFunc := p.(PluginFunc); isFunc {
		return nil, false
	}
	if reflect.TypeOf(p).Kind() == reflect.Pointer {
		return p, true
	}
	return reflect.TypeOf(p), true
}

// AddSystem registers one system in stage.
func (a *App) AddSystem(stage Stage, system ecs.System, opts ...ecs.SystemOption) *App {
	a.schedulers[stage].Register(system, opts...)
	return a
}

// Scheduler returns the scheduler behind stage.
func (a *App) Scheduler(stage Stage) *ecs.Scheduler {
	return a.schedulers[stage]
}

// SetOverlay installs an overlay drawn above the Render stage.
func (a *App) SetOverlay(o Overlay) {
	a.overlay = o
}

// Fail stops the app. Only the first error is kept.
func (a *App) Fail(err error) {
	if err == nil || a.err != nil {
		return
	}
	a.err = err
	a.log.WithError(err).Debug("app stopped")
}

// Err returns the error that stopped the app, if any.
func (a *App) Err() error {
	return a.err
}

// Update runs Startup on the first call, then PreUpdate, Update and
// PostUpdate. A failing stage stops the app and later stages are skipped.
func (a *App) Update(dt float64) error {
	if a.err != nil {
		return a.err
	}

	if !a.started {
		a.started = true
		if err := a.runStage(Startup, dt); err != nil {
			return err
		}
	}

	for _, stage := range []Stage{PreUpdate, Update, PostUpdate} {
		if err := a.runStage(stage, dt); err != nil {
			return err
		}
	}
	return nil
}

// Draw runs the Render stage against screen, which may be nil.
func (a *App) Draw(screen *ebiten.Image) {
	if a.err != nil {
		return
	}

	s := ecs.GetSingleton[Screen](a.Storage)
	s.Image = screen
	if screen != nil {
		s.Width = screen.Bounds().Dx()
		s.Height = screen.Bounds().Dy()
	}

	if err := a.runStage(Render, 0); err != nil {
		return
	}
	if a.overlay != nil && screen != nil {
		a.overlay.Draw(screen)
	}
}

func (a *App) runStage(stage Stage, dt float64) error {
	if err := a.schedulers[stage].Once(dt); err != nil {
		a.Fail(fmt.Errorf("%s: %w", stage, err))
		return a.err
	}
	return nil
}

// Run opens the window and blocks until it is closed or the app fails.
func (a *App) Run() error {
	if a.overlay != nil {
		a.overlay.CreateWindow(a.Window.Title, a.Window.Width, a.Window.Height)
	}
	a.Window.apply()

	a.log.WithFields(logrus.Fields{
		"title":  a.Window.Title,
		"width":  a.Window.Width,
		"height": a.Window.Height,
	}).Info("starting")

	if err := ebiten.RunGame(&game{app: a}); err != nil {
		return err
	}
	return a.err
}
