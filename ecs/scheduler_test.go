package ecs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/plus3/gemboard/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MovementSystem struct {
	Entities ecs.Query[struct {
		*Position
		*Velocity
	}]
	ExecuteCount int
}

func (s *MovementSystem) Execute(frame *ecs.UpdateFrame) {
	s.ExecuteCount++
	for item := range s.Entities.Values() {
		item.Position.X += item.Velocity.DX * float32(frame.DeltaTime)
		item.Position.Y += item.Velocity.DY * float32(frame.DeltaTime)
	}
}

type scoreSystem struct {
	Score ecs.Singleton[int]
}

func (s *scoreSystem) Execute(frame *ecs.UpdateFrame) {
	*s.Score.Get() += 10
}

type failingSystem struct {
	err error
}

func (s *failingSystem) Execute(frame *ecs.UpdateFrame) {
	frame.Fail(s.err)
}

type GenericSystem[T any] struct{}

func (s *GenericSystem[T]) Execute(frame *ecs.UpdateFrame) {}

func TestScheduler(t *testing.T) {
	t.Run("systems run in registration order with fresh queries", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		scheduler := ecs.NewScheduler(storage)

		movement := &MovementSystem{}
		scheduler.Register(movement)

		id := storage.Spawn(Position{}, Velocity{DX: 1, DY: 2})
		require.NoError(t, scheduler.Once(0.5))

		assert.Equal(t, 1, movement.ExecuteCount)
		assert.Equal(t, Position{X: 0.5, Y: 1}, *ecs.ReadComponent[Position](storage, id))
	})

	t.Run("singleton fields are wired at registration", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		storage.AddSingleton(5)

		scheduler := ecs.NewScheduler(storage)
		scheduler.Register(&scoreSystem{})

		require.NoError(t, scheduler.Once(0))
		require.NoError(t, scheduler.Once(0))
		assert.Equal(t, 25, *ecs.GetSingleton[int](storage))
	})

	t.Run("RunIf skips systems and counts skips", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		scheduler := ecs.NewScheduler(storage)

		enabled := false
		movement := &MovementSystem{}
		scheduler.Register(movement, ecs.RunIf(func(*ecs.Storage) bool { return enabled }))

		require.NoError(t, scheduler.Once(0))
		enabled = true
		require.NoError(t, scheduler.Once(0))

		assert.Equal(t, 1, movement.ExecuteCount)
		stats := scheduler.GetStats()
		assert.Equal(t, int64(1), stats.Systems[0].SkipCount)
		assert.Equal(t, int64(1), stats.Systems[0].ExecutionCount)
	})

	t.Run("Fail stops the frame but still flushes", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		scheduler := ecs.NewScheduler(storage)

		boom := errors.New("boom")
		after := &MovementSystem{}
		scheduler.Register(ecs.SystemFunc(func(frame *ecs.UpdateFrame) {
			frame.Commands.Spawn(Gem{Kind: 1})
		}))
		scheduler.Register(&failingSystem{err: boom}, ecs.Named("explode"))
		scheduler.Register(after)

		err := scheduler.Once(0)
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.EqualError(t, err, "explode: boom")
		assert.Equal(t, 0, after.ExecuteCount)
		assert.Equal(t, 1, storage.CollectStats().TotalEntityCount)
	})

	t.Run("Fail with nil is ignored", func(t *testing.T) {
		scheduler := ecs.NewScheduler(ecs.NewStorage(newTestRegistry()))
		scheduler.Register(&failingSystem{})
		assert.NoError(t, scheduler.Once(0))
	})
}

func TestSchedulerNames(t *testing.T) {
	scheduler := ecs.NewScheduler(ecs.NewStorage(newTestRegistry()))
	scheduler.Register(&MovementSystem{})
	scheduler.Register(&GenericSystem[Position]{})
	scheduler.Register(&MovementSystem{}, ecs.Named("movement"))

	stats := scheduler.GetStats()
	require.Len(t, stats.Systems, 3)
	assert.Equal(t, "MovementSystem", stats.Systems[0].Name)
	assert.Equal(t, "GenericSystem", stats.Systems[1].Name)
	assert.Equal(t, "movement", stats.Systems[2].Name)
	assert.Zero(t, stats.Systems[0].MinDuration)
}

func TestSchedulerRun(t *testing.T) {
	t.Run("stops on context cancel", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		scheduler := ecs.NewScheduler(storage)

		movement := &MovementSystem{}
		scheduler.Register(movement)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		assert.NoError(t, scheduler.Run(ctx, time.Millisecond))
		assert.Positive(t, movement.ExecuteCount)
	})

	t.Run("returns the first frame error", func(t *testing.T) {
		scheduler := ecs.NewScheduler(ecs.NewStorage(newTestRegistry()))
		boom := errors.New("boom")
		scheduler.Register(&failingSystem{err: boom})

		err := scheduler.Run(context.Background(), time.Millisecond)
		assert.ErrorIs(t, err, boom)
	})
}
