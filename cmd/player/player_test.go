package main

import (
	"io/fs"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/gemboard/app"
	"github.com/plus3/gemboard/assets"
	"github.com/plus3/gemboard/ecs"
	"github.com/plus3/gemboard/geom"
	"github.com/plus3/gemboard/input"
	"github.com/plus3/gemboard/render"
	"github.com/plus3/gemboard/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startPlayer(t *testing.T) *app.App {
	t.Helper()
	fsys, err := fs.Sub(embedded, "assets")
	require.NoError(t, err)

	a := newApp(fsys, false)
	deadline := time.Now().Add(5 * time.Second)
	for {
		require.NoError(t, a.Update(1.0/60))
		if s, _ := state.Current[GameState](a.Storage); s == Main {
			return a
		}
		if time.Now().After(deadline) {
			t.Fatal("assets never finished loading")
		}
		time.Sleep(time.Millisecond)
	}
}

type playerView = struct {
	*Player
	*render.Transform
	*render.Sprite
}

func TestPlayerIsSpawned(t *testing.T) {
	a := startPlayer(t)

	var players []playerView
	for item := range ecs.NewView[playerView](a.Storage).Values() {
		players = append(players, item)
	}
	require.Len(t, players, 1)
	assert.Equal(t, geom.NewVec3(0, 0, 1), players[0].Transform.Translation)
	assert.Equal(t, "images/player/cow.png", players[0].Sprite.Image.Path)

	cameras := ecs.NewQuery[struct{ *render.Camera2D }](a.Storage)
	cameras.Execute()
	assert.Equal(t, 1, cameras.Count())
}

func TestPlayerMoves(t *testing.T) {
	a := startPlayer(t)
	kb := ecs.GetSingleton[input.Keyboard](a.Storage)

	q := ecs.NewQuery[playerView](a.Storage)
	position := func() geom.Vec3 {
		q.Execute()
		_, p, err := q.Single()
		require.NoError(t, err)
		return p.Transform.Translation
	}

	kb.Set(ebiten.KeyA)
	require.NoError(t, a.Update(1.0/60))
	assert.Equal(t, geom.NewVec3(-5, 0, 1), position())

	kb.Set(ebiten.KeyS)
	require.NoError(t, a.Update(1.0/60))
	require.NoError(t, a.Update(1.0/60))
	assert.Equal(t, geom.NewVec3(-5, -10, 1), position())

	kb.Set(ebiten.KeyW, ebiten.KeyS)
	require.NoError(t, a.Update(1.0/60))
	assert.Equal(t, geom.NewVec3(-5, -10, 1), position())
}

func TestMissingAssetStopsApp(t *testing.T) {
	a := newApp(emptyFS{}, false)
	var err error
	for range 1000 {
		if err = a.Update(0); err != nil {
			break
		}
		time.Sleep(time.Millisecond)
	}
	assert.ErrorIs(t, err, assets.ErrNotFound)
}

type emptyFS struct{}

func (emptyFS) Open(name string) (fs.File, error) {
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}
