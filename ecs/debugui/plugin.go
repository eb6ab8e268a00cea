package debugui

import (
	"github.com/plus3/gemboard/app"
	"github.com/plus3/gemboard/ecs"
)

// Plugin installs Overlay on the app and runs every ImguiItem and built-in
// debug window during Update, between the overlay's BeginFrame and EndFrame.
type Plugin struct {
	Overlay app.Overlay
	// NoWindows skips spawning the entity browser and performance windows.
	NoWindows bool
}

func (p Plugin) Build(a *app.App) {
	RegisterDebugUIComponents(a.Registry)
	ecs.NewSingleton(a.Storage, ImguiInputState{})
	ecs.NewSingleton(a.Storage, StatsSource{Stages: stageStats(a)})

	if p.Overlay != nil {
		a.SetOverlay(p.Overlay)
	}

	a.AddSystem(app.Update, &WindowSystem{timer: NewFrameTimer()}, ecs.Named("debugui.Windows"))
	a.AddSystem(app.Update, &ImguiSystem{}, ecs.Named("debugui.Imgui"))

	if !p.NoWindows {
		SpawnDebugUI(a.Storage)
	}
}

func stageStats(a *app.App) func() []StageStats {
	stages := []app.Stage{app.Startup, app.PreUpdate, app.Update, app.PostUpdate, app.Render}
	return func() []StageStats {
		out := make([]StageStats, 0, len(stages))
		for _, stage := range stages {
			out = append(out, StageStats{Stage: stage.String(), Stats: a.Scheduler(stage).GetStats()})
		}
		return out
	}
}

// WindowSystem queues the render functions of the built-in debug windows.
type WindowSystem struct {
	Browsers    ecs.Query[struct{ *EntityBrowserComponent }]
	Inspectors  ecs.Query[struct{ *ComponentInspectorComponent }]
	Performance ecs.Query[struct{ *PerformanceStatsComponent }]
	Source      ecs.Singleton[StatsSource]

	timer *FrameTimer
}

func (w *WindowSystem) Execute(frame *ecs.UpdateFrame) {
	storage := frame.Storage
	dt := w.timer.GetDeltaTime()

	var selection *EntityBrowserComponent
	for item := range w.Browsers.Values() {
		browser := item.EntityBrowserComponent
		if selection == nil {
			selection = browser
		}
		frame.Commands.Defer(func() { browser.Render(storage) })
	}
	// Inspectors follow the selection of the first browser.
	if selection != nil {
		for item := range w.Inspectors.Values() {
			inspector := item.ComponentInspectorComponent
			frame.Commands.Defer(func() {
				info, ok := selection.selected()
				inspector.Render(storage, info, ok)
			})
		}
	}
	for item := range w.Performance.Values() {
		stats := item.PerformanceStatsComponent
		source := w.Source.Get()
		frame.Commands.Defer(func() { stats.Render(storage, source, dt) })
	}
}
