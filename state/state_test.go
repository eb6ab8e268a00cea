package state_test

import (
	"errors"
	"testing"

	"github.com/plus3/gemboard/app"
	"github.com/plus3/gemboard/ecs"
	"github.com/plus3/gemboard/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type phase int

const (
	loading phase = iota
	playing
	paused
)

func (p phase) String() string {
	return [...]string{"loading", "playing", "paused"}[p]
}

func logSystem(log *[]string, msg string) ecs.System {
	return ecs.SystemFunc(func(*ecs.UpdateFrame) {
		*log = append(*log, msg)
	})
}

func newApp(t *testing.T) (*app.App, *[]string) {
	t.Helper()
	a := app.New()
	a.AddPlugins(state.Plugin[phase]{Initial: loading})

	log := &[]string{}
	state.OnEnter(a, loading, logSystem(log, "enter loading"))
	state.OnExit(a, loading, logSystem(log, "exit loading"))
	state.OnEnter(a, playing, logSystem(log, "enter playing"))
	a.AddSystem(app.Update, logSystem(log, "tick playing"), ecs.RunIf(state.In(playing)))
	return a, log
}

func TestInitialStateIsEntered(t *testing.T) {
	a, log := newApp(t)

	require.NoError(t, a.Update(0))
	assert.Equal(t, []string{"enter loading"}, *log)

	current, ok := state.Current[phase](a.Storage)
	assert.True(t, ok)
	assert.Equal(t, loading, current)
}

func TestTransitionIsAppliedNextTick(t *testing.T) {
	a, log := newApp(t)
	require.NoError(t, a.Update(0))

	state.Set(a.Storage, playing)
	current, _ := state.Current[phase](a.Storage)
	assert.Equal(t, loading, current, "Set only queues")

	require.NoError(t, a.Update(0))
	require.NoError(t, a.Update(0))

	assert.Equal(t, []string{
		"enter loading",
		"exit loading", "enter playing", "tick playing",
		"tick playing",
	}, *log)
}

func TestSettingCurrentStateIsIgnored(t *testing.T) {
	a, log := newApp(t)
	require.NoError(t, a.Update(0))

	state.Set(a.Storage, loading)
	require.NoError(t, a.Update(0))

	assert.Equal(t, []string{"enter loading"}, *log)
	_, pending := ecs.GetSingleton[state.Machine[phase]](a.Storage).Pending()
	assert.False(t, pending)
}

func TestInBeforeFirstTick(t *testing.T) {
	a, _ := newApp(t)
	assert.False(t, state.In(loading)(a.Storage))
	assert.False(t, state.In(loading)(ecs.NewStorage(ecs.NewComponentRegistry())))
}

func TestEnterFailureStopsTheApp(t *testing.T) {
	a := app.New()
	a.AddPlugins(state.Plugin[phase]{Initial: loading})

	boom := errors.New("missing texture")
	state.OnEnter(a, paused, ecs.SystemFunc(func(frame *ecs.UpdateFrame) {
		frame.Fail(boom)
	}))

	require.NoError(t, a.Update(0))
	state.Set(a.Storage, paused)

	err := a.Update(0)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "enter paused")
}

func TestOnEnterWithoutPluginPanics(t *testing.T) {
	assert.Panics(t, func() {
		state.OnEnter(app.New(), playing)
	})
}
