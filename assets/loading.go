package assets

import (
	"context"
	"fmt"
	"reflect"

	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/plus3/gemboard/app"
	"github.com/plus3/gemboard/ecs"
	"github.com/plus3/gemboard/internal/logging"
	"github.com/plus3/gemboard/state"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Progress counts loaded files while a LoadingState is active.
type Progress struct {
	Done  int
	Total int
}

// Fraction returns loaded / total, 1 when there is nothing to load.
func (p Progress) Fraction() float64 {
	if p.Total == 0 {
		return 1
	}
	return float64(p.Done) / float64(p.Total)
}

// LoadingState loads every registered collection while the state machine is
// in Loading, stores each as a singleton, then moves to Next. Any failure
// stops the app.
type LoadingState[S comparable] struct {
	Loading S
	Next    S
	Server  *Server

	// Concurrency bounds parallel decodes. Zero means 4.
	Concurrency int
	// ShowProgress prints loaded/total on screen while loading.
	ShowProgress bool

	collections []*collection
	errs        []error
}

// Collection registers T to be loaded by ls. T must be a struct with at
// least one `asset:"path"` tagged *Image field.
func Collection[T any, S comparable](ls *LoadingState[S]) {
	c, err := newCollection(reflect.TypeFor[T]())
	if err != nil {
		ls.errs = append(ls.errs, err)
		return
	}
	ls.collections = append(ls.collections, c)
}

func (ls *LoadingState[S]) Build(a *app.App) {
	if ls.Server == nil {
		panic("assets: LoadingState needs a Server")
	}
	a.AddPlugins(state.Plugin[S]{Initial: ls.Loading})
	ecs.NewSingleton(a.Storage, Progress{})

	l := &loader[S]{ls: ls, log: logging.For("assets")}
	state.OnEnter(a, ls.Loading, ecs.SystemFunc(l.start))
	a.AddSystem(app.PreUpdate, ecs.SystemFunc(l.poll),
		ecs.RunIf(state.In(ls.Loading)), ecs.Named("assets.Poll"))

	if ls.ShowProgress {
		a.AddSystem(app.Render, &progressSystem{},
			ecs.RunIf(state.In(ls.Loading)), ecs.Named("assets.Progress"))
	}
}

type loaded struct {
	collection int
	binding    int
	img        *Image
}

// loader owns one loading pass. Decoding happens on errgroup goroutines;
// results come back over a channel drained by poll on the game goroutine.
type loader[S comparable] struct {
	ls  *LoadingState[S]
	log *logrus.Entry

	pending []*pending
	results chan loaded
	done    chan error
	cancel  context.CancelFunc
	active  bool
}

func (l *loader[S]) start(frame *ecs.UpdateFrame) {
	if len(l.ls.errs) > 0 {
		frame.Fail(l.ls.errs[0])
		return
	}

	total := 0
	l.pending = make([]*pending, len(l.ls.collections))
	for i, c := range l.ls.collections {
		l.pending[i] = c.start()
		total += len(c.bindings)
	}
	frame.Storage.AddSingleton(Progress{Total: total})

	limit := l.ls.Concurrency
	if limit <= 0 {
		limit = 4
	}

	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	l.cancel = cancel
	l.results = make(chan loaded, total)
	l.done = make(chan error, 1)
	l.active = true

	l.log.WithFields(logrus.Fields{
		"collections": len(l.ls.collections),
		"files":       total,
	}).Info("loading assets")

	go func() {
		for ci, c := range l.ls.collections {
			for bi, b := range c.bindings {
				g.Go(func() error {
					img, err := l.ls.Server.Load(gctx, b.path)
					if err != nil {
						return fmt.Errorf("%s: %w", c.typ.Name(), err)
					}
					l.results <- loaded{collection: ci, binding: bi, img: img}
					return nil
				})
			}
		}
		l.done <- g.Wait()
	}()
}

func (l *loader[S]) poll(frame *ecs.UpdateFrame) {
	if !l.active {
		return
	}

	l.drain(frame)

	select {
	case err := <-l.done:
		l.active = false
		l.cancel()
		if err != nil {
			frame.Fail(err)
			return
		}
		l.drain(frame)
		l.log.Info("assets loaded")
		state.Set(frame.Storage, l.ls.Next)
	default:
	}
}

func (l *loader[S]) drain(frame *ecs.UpdateFrame) {
	progress := ecs.GetSingleton[Progress](frame.Storage)
	for {
		select {
		case r := <-l.results:
			p := l.pending[r.collection]
			p.set(r.binding, r.img)
			progress.Done++
			if p.remaining == 0 {
				frame.Storage.AddSingleton(p.value.Interface())
				l.log.WithField("collection", p.c.typ.Name()).Debug("collection ready")
			}
		default:
			return
		}
	}
}

type progressSystem struct {
	Screen   ecs.Singleton[app.Screen]
	Progress ecs.Singleton[Progress]
}

func (s *progressSystem) Execute(frame *ecs.UpdateFrame) {
	screen := s.Screen.Get()
	if screen == nil || screen.Image == nil {
		return
	}
	p := s.Progress.Get()
	ebitenutil.DebugPrint(screen.Image, fmt.Sprintf("Loading assets %d/%d", p.Done, p.Total))
}
