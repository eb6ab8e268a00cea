package main

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/plus3/gemboard/app"
	"github.com/plus3/gemboard/ecs"
	"github.com/plus3/gemboard/geom"
	"github.com/plus3/gemboard/match3"
)

// Tally counts what happened to one board over a run.
type Tally struct {
	Swaps       int64
	FailedSwaps int64
	Popped      int64
	Shuffles    int64
}

func (t *Tally) add(o Tally) {
	t.Swaps += o.Swaps
	t.FailedSwaps += o.FailedSwaps
	t.Popped += o.Popped
	t.Shuffles += o.Shuffles
}

// SwapperSystem queues one random adjacent swap per tick.
type SwapperSystem struct {
	Board    ecs.Singleton[match3.Board]
	Commands ecs.Singleton[match3.Commands]

	rng *rand.Rand
}

func (s *SwapperSystem) Execute(frame *ecs.UpdateFrame) {
	dims := s.Board.Get().Dimensions()
	a := geom.NewUVec2(s.rng.Uint32N(dims.X), s.rng.Uint32N(dims.Y))
	b := a
	if s.rng.IntN(2) == 0 && a.X+1 < dims.X {
		b.X++
	} else if a.Y+1 < dims.Y {
		b.Y++
	} else if a.X > 0 {
		b.X--
	} else if a.Y > 0 {
		b.Y--
	} else {
		return
	}
	s.Commands.Get().Swap(a, b)
}

// TallySystem reads the events of the last resolve pass.
type TallySystem struct {
	Events ecs.Singleton[match3.Events]
	Tally  ecs.Singleton[Tally]
}

func (s *TallySystem) Execute(frame *ecs.UpdateFrame) {
	tally := s.Tally.Get()
	for _, ev := range s.Events.Get().All() {
		switch ev.Kind {
		case match3.EventSwapped:
			tally.Swaps++
		case match3.EventFailedSwap:
			tally.FailedSwaps++
		case match3.EventPopped:
			tally.Popped += int64(len(ev.Positions))
		case match3.EventShuffled:
			tally.Shuffles++
		}
	}
}

type workerResult struct {
	Tally   Tally
	Updates int64
	Samples []time.Duration
	Systems []ecs.SystemStats
}

func newBoardApp(cfg match3.Config, seed uint64) *app.App {
	a := app.New()
	a.AddPlugins(match3.Plugin{Config: cfg})
	ecs.NewSingleton(a.Storage, Tally{})
	a.AddSystem(app.PreUpdate, &SwapperSystem{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}, ecs.Named("Swapper"))
	a.AddSystem(app.PostUpdate, &TallySystem{}, ecs.Named("Tally"))
	return a
}

// runWorker drives one headless board until ctx is done or maxUpdates is
// reached. A zero maxUpdates means no limit.
func runWorker(ctx context.Context, cfg match3.Config, seed uint64, maxUpdates int64) (workerResult, error) {
	a := newBoardApp(cfg, seed)
	if err := a.Err(); err != nil {
		return workerResult{}, err
	}

	var result workerResult
	last := time.Now()
	for maxUpdates == 0 || result.Updates < maxUpdates {
		if ctx.Err() != nil {
			break
		}
		dt := time.Since(last)
		last = time.Now()

		start := time.Now()
		if err := a.Update(dt.Seconds()); err != nil {
			return result, err
		}
		result.Samples = append(result.Samples, time.Since(start))
		result.Updates++
	}

	result.Tally = *ecs.GetSingleton[Tally](a.Storage)
	for _, stage := range []app.Stage{app.PreUpdate, app.Update, app.PostUpdate} {
		result.Systems = append(result.Systems, a.Scheduler(stage).GetStats().Systems...)
	}
	return result, nil
}
