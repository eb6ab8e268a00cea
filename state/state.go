// Package state adds a finite state machine to an app.App. Systems can be
// gated on the current state with In, and run once on entering or leaving a
// state with OnEnter and OnExit.
package state

import (
	"fmt"

	"github.com/plus3/gemboard/app"
	"github.com/plus3/gemboard/ecs"
	"github.com/plus3/gemboard/internal/logging"
)

// Machine is the singleton holding the current state of type S.
type Machine[S comparable] struct {
	current S
	next    S
	pending bool
	started bool
}

// Current returns the active state.
func (m *Machine[S]) Current() S {
	return m.current
}

// Set queues a transition to s. It is applied at the start of the next tick;
// a later Set in the same tick replaces an earlier one.
func (m *Machine[S]) Set(s S) {
	m.next = s
	m.pending = true
}

// Pending returns the queued state, if any.
func (m *Machine[S]) Pending() (S, bool) {
	return m.next, m.pending
}

type schedules[S comparable] struct {
	enter map[S]*ecs.Scheduler
	exit  map[S]*ecs.Scheduler
}

// Plugin installs Machine[S] starting in Initial. The enter systems of
// Initial run on the first tick.
type Plugin[S comparable] struct {
	Initial S
}

func (p Plugin[S]) Build(a *app.App) {
	ecs.NewSingleton(a.Storage, Machine[S]{current: p.Initial})
	ecs.NewSingleton(a.Storage, schedules[S]{
		enter: make(map[S]*ecs.Scheduler),
		exit:  make(map[S]*ecs.Scheduler),
	})
	a.AddSystem(app.PreUpdate, &transitionSystem[S]{}, ecs.Named("state.Transition"))
}

// OnEnter runs systems once each time the machine enters s.
func OnEnter[S comparable](a *app.App, s S, systems ...ecs.System) {
	sc := mustSchedules[S](a)
	register(a, sc.enter, s, systems)
}

// OnExit runs systems once each time the machine leaves s.
func OnExit[S comparable](a *app.App, s S, systems ...ecs.System) {
	sc := mustSchedules[S](a)
	register(a, sc.exit, s, systems)
}

func mustSchedules[S comparable](a *app.App) *schedules[S] {
	sc := ecs.GetSingleton[schedules[S]](a.Storage)
	if sc == nil {
		panic(fmt.Sprintf("state: Plugin[%T] must be added before registering transitions", *new(S)))
	}
	return sc
}

func register[S comparable](a *app.App, m map[S]*ecs.Scheduler, s S, systems []ecs.System) {
	scheduler, ok := m[s]
	if !ok {
		scheduler = ecs.NewScheduler(a.Storage)
		m[s] = scheduler
	}
	for _, sys := range systems {
		scheduler.Register(sys)
	}
}

// In is a run condition that holds while the machine is in s.
func In[S comparable](s S) ecs.Condition {
	return func(storage *ecs.Storage) bool {
		m := ecs.GetSingleton[Machine[S]](storage)
		return m != nil && m.started && m.current == s
	}
}

// Current reads the active state from storage. ok is false when no
// Plugin[S] has been added.
func Current[S comparable](storage *ecs.Storage) (s S, ok bool) {
	m := ecs.GetSingleton[Machine[S]](storage)
	if m == nil {
		return s, false
	}
	return m.current, true
}

// Set queues a transition on the machine in storage.
func Set[S comparable](storage *ecs.Storage, s S) {
	if m := ecs.GetSingleton[Machine[S]](storage); m != nil {
		m.Set(s)
	}
}

type transitionSystem[S comparable] struct {
	Machine   ecs.Singleton[Machine[S]]
	Schedules ecs.Singleton[schedules[S]]
}

// Execute applies at most one queued transition per tick. Setting the
// current state again is ignored.
func (t *transitionSystem[S]) Execute(frame *ecs.UpdateFrame) {
	m := t.Machine.Get()
	sc := t.Schedules.Get()

	if !m.started {
		m.started = true
		t.run(frame, sc.enter, m.current, "enter")
		return
	}

	if !m.pending {
		return
	}
	next := m.next
	m.pending = false
	if next == m.current {
		return
	}

	logging.For("state").WithField("from", fmt.Sprint(m.current)).WithField("to", fmt.Sprint(next)).Info("transition")

	if !t.run(frame, sc.exit, m.current, "exit") {
		return
	}
	m.current = next
	t.run(frame, sc.enter, next, "enter")
}

func (t *transitionSystem[S]) run(frame *ecs.UpdateFrame, m map[S]*ecs.Scheduler, s S, phase string) bool {
	scheduler, ok := m[s]
	if !ok {
		return true
	}
	if err := scheduler.Once(frame.DeltaTime); err != nil {
		frame.Fail(fmt.Errorf("%s %v: %w", phase, s, err))
		return false
	}
	return true
}
