package ecs_test

import (
	"testing"

	"github.com/plus3/gemboard/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryRequiresExecute(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	q := ecs.NewQuery[struct{ *Position }](storage)

	assert.Panics(t, func() { q.Iter() })
	assert.Panics(t, func() { q.Single() })

	q.Execute()
	assert.NotPanics(t, func() { q.Iter() })
}

func TestQuerySeesNewArchetypes(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	q := ecs.NewQuery[struct{ *Position }](storage)

	storage.Spawn(Position{X: 1})
	q.Execute()
	assert.Equal(t, 1, q.Count())

	storage.Spawn(Position{X: 2}, Player{})
	q.Execute()
	assert.Equal(t, 2, q.Count())
}

func TestQuerySingle(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	q := ecs.NewQuery[struct {
		*Position
		Marker *Player
	}](storage)

	q.Execute()
	_, _, err := q.Single()
	assert.ErrorIs(t, err, ecs.ErrNoEntities)

	id := storage.Spawn(Position{X: 3}, Player{})
	storage.Spawn(Position{X: 4})
	q.Execute()

	got, item, err := q.Single()
	require.NoError(t, err)
	assert.Equal(t, id, got)
	assert.Equal(t, float32(3), item.Position.X)

	storage.Spawn(Position{X: 5}, Player{})
	q.Execute()
	_, _, err = q.Single()
	assert.ErrorIs(t, err, ecs.ErrMultipleEntities)
}
