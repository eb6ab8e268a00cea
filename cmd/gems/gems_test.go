package main

import (
	"fmt"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/gemboard/app"
	"github.com/plus3/gemboard/ecs"
	"github.com/plus3/gemboard/geom"
	"github.com/plus3/gemboard/input"
	"github.com/plus3/gemboard/match3"
	"github.com/plus3/gemboard/render"
	"github.com/plus3/gemboard/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startGems(t *testing.T) *app.App {
	t.Helper()
	fsys, err := assetFS("")
	require.NoError(t, err)

	a := newApp(options{Assets: fsys, Seed: 1234})
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

func visibleBoard(t *testing.T, a *app.App) (ecs.EntityId, *VisibleBoard) {
	t.Helper()
	view := ecs.NewView[struct {
		ecs.EntityId
		*VisibleBoard
	}](a.Storage)
	var found []ecs.EntityId
	var board *VisibleBoard
	for id, item := range view.Iter() {
		found = append(found, id)
		board = item.VisibleBoard
	}
	require.Len(t, found, 1)
	return found[0], board
}

func TestGemPosition(t *testing.T) {
	assert.Equal(t, geom.NewVec3(0, 0, 0), GemPosition(geom.NewUVec2(0, 0)))
	assert.Equal(t, geom.NewVec3(150, -100, 0), GemPosition(geom.NewUVec2(3, 2)))
	assert.Equal(t, geom.NewVec3(225, -225, 0), CameraPosition(geom.NewUVec2(10, 10)))
}

func TestTextureFor(t *testing.T) {
	a := startGems(t)
	g := ecs.GetSingleton[GemAssets](a.Storage)
	require.NotNil(t, g)

	assert.Same(t, g.Blue, textureFor(g, 0))
	assert.Same(t, g.Green, textureFor(g, 1))
	assert.Same(t, g.Red, textureFor(g, 2))
	assert.Same(t, g.Blue, textureFor(g, 3))
	assert.Same(t, g.Red, textureFor(g, 5))
}

func TestGameStateString(t *testing.T) {
	assert.Equal(t, "AssetsLoading", AssetsLoading.String())
	assert.Equal(t, "Main", Main.String())
	assert.Equal(t, "GameState(7)", GameState(7).String())
}

func TestSpawnedBoardMatchesGeneratedBoard(t *testing.T) {
	a := startGems(t)

	board := ecs.GetSingleton[match3.Board](a.Storage)
	gems := ecs.GetSingleton[GemAssets](a.Storage)
	require.NotNil(t, board)

	containerId, visible := visibleBoard(t, a)
	require.Len(t, visible.Gems, 100)

	children := ecs.ReadComponent[render.Children](a.Storage, containerId)
	require.NotNil(t, children)
	assert.Len(t, children.Refs, 100)

	for pos, typ := range board.Iter() {
		ref := visible.Gems[pos]
		require.True(t, ref.Alive(), "gem %v", pos)

		name := ecs.ReadComponent[render.Name](a.Storage, ref.Id)
		assert.Equal(t, render.Name(fmt.Sprintf("%d;%d", pos.X, pos.Y)), *name)

		tf := ecs.ReadComponent[render.Transform](a.Storage, ref.Id)
		assert.Equal(t, GemPosition(pos), tf.Translation)

		sprite := ecs.ReadComponent[render.Sprite](a.Storage, ref.Id)
		assert.Equal(t, geom.NewVec2(GemLength, GemLength), sprite.CustomSize)
		assert.Same(t, textureFor(gems, typ), sprite.Image)

		parent := ecs.ReadComponent[render.Parent](a.Storage, ref.Id)
		assert.Equal(t, containerId, parent.Ref.Id)
	}
}

func TestCameraIsCentred(t *testing.T) {
	a := startGems(t)
	view := ecs.NewView[struct {
		*MainCamera
		*render.Camera2D
		*render.Transform
	}](a.Storage)

	count := 0
	for item := range view.Values() {
		count++
		assert.Equal(t, geom.NewVec3(225, -225, 0), item.Transform.Translation)
	}
	assert.Equal(t, 1, count)
}

func TestMovementPansTheBoard(t *testing.T) {
	a := startGems(t)
	containerId, visible := visibleBoard(t, a)
	corner := visible.Gems[geom.NewUVec2(9, 9)]

	ecs.GetSingleton[input.Keyboard](a.Storage).Set(ebiten.KeyD)
	require.NoError(t, a.Update(1.0/60))

	tf := ecs.ReadComponent[render.Transform](a.Storage, containerId)
	assert.Equal(t, geom.NewVec3(5, 0, 0), tf.Translation)

	global := ecs.ReadComponent[render.GlobalTransform](a.Storage, corner.Id)
	assert.Equal(t, geom.NewVec3(455, -450, 0), global.Translation)

	ecs.GetSingleton[input.Keyboard](a.Storage).Set()
	require.NoError(t, a.Update(1.0/60))
	assert.Equal(t, geom.NewVec3(5, 0, 0), tf.Translation)
}

func TestWindow(t *testing.T) {
	fsys, err := assetFS("")
	require.NoError(t, err)
	w := newApp(options{Assets: fsys}).Window
	assert.Equal(t, "Gems", w.Title)
	assert.False(t, w.Resizable)
}
