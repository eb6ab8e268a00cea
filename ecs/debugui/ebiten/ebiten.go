// Package ebiten provides Dear ImGui backend integration for the Ebiten game engine.
package ebiten

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
)

// ImguiBackend wraps the Ebiten-specific Dear ImGui backend implementation.
// It satisfies app.Overlay, so an App can drive it from its game loop.
type ImguiBackend struct {
	backend *ebitenbackend.EbitenBackend
}

func New() *ImguiBackend {
	return &ImguiBackend{backend: ebitenbackend.NewEbitenBackend()}
}

// CreateWindow opens the backend window and disables imgui.ini persistence.
func (b *ImguiBackend) CreateWindow(title string, width, height int) {
	b.backend.CreateWindow(title, width, height)
	imgui.CurrentIO().SetIniFilename("")
}

func (b *ImguiBackend) BeginFrame() {
	b.backend.BeginFrame()
}

func (b *ImguiBackend) EndFrame() {
	b.backend.EndFrame()
}

func (b *ImguiBackend) Draw(screen *ebiten.Image) {
	b.backend.Draw(screen)
}

func (b *ImguiBackend) Layout(width, height int) {
	b.backend.Layout(width, height)
}
