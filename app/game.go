package app

import "github.com/hajimehoshi/ebiten/v2"

// game adapts an App to ebiten.Game.
type game struct {
	app *App
}

func (g *game) Update() error {
	if o := g.app.overlay; o != nil {
		o.BeginFrame()
		defer o.EndFrame()
	}
	return g.app.Update(1.0 / float64(ebiten.TPS()))
}

func (g *game) Draw(screen *ebiten.Image) {
	g.app.Draw(screen)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if o := g.app.overlay; o != nil {
		o.Layout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}
