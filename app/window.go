package app

import "github.com/hajimehoshi/ebiten/v2"

// WindowConfig describes the desktop window opened by Run.
type WindowConfig struct {
	Title     string
	Width     int
	Height    int
	Resizable bool
}

// DefaultWindow is a resizable 1280x720 window.
func DefaultWindow() WindowConfig {
	return WindowConfig{
		Title:     "gemboard",
		Width:     1280,
		Height:    720,
		Resizable: true,
	}
}

func (w WindowConfig) apply() {
	ebiten.SetWindowSize(w.Width, w.Height)
	ebiten.SetWindowTitle(w.Title)
	if w.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	} else {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	}
}

// Screen is the image the Render stage draws into. Image is nil when the
// app is driven headless.
type Screen struct {
	Image  *ebiten.Image
	Width  int
	Height int
}

// Overlay is drawn on top of the game, typically an immediate-mode debug UI.
type Overlay interface {
	CreateWindow(title string, width, height int)
	BeginFrame()
	EndFrame()
	Draw(screen *ebiten.Image)
	Layout(width, height int)
}
