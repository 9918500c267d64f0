package screen_test

import (
	"errors"
	"testing"

	"github.com/firebitsbr/singularity/screen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// traceScreen records every hook call in a shared log and returns scripted transitions.
type traceScreen struct {
	name      string
	log       *[]string
	enterErr  error
	exitErr   error
	onEvent   screen.Trans
	onUpdate  screen.Trans
	updates   int
	lastEvent screen.Event
}

func (s *traceScreen) Name() string { return s.name }

func (s *traceScreen) record(hook string) { *s.log = append(*s.log, s.name+"."+hook) }

func (s *traceScreen) OnEnter(*screen.Context) error {
	s.record("enter")
	return s.enterErr
}

func (s *traceScreen) OnPause(*screen.Context)  { s.record("pause") }
func (s *traceScreen) OnResume(*screen.Context) { s.record("resume") }

func (s *traceScreen) OnExit(*screen.Context) error {
	s.record("exit")
	return s.exitErr
}

func (s *traceScreen) HandleEvent(_ *screen.Context, ev screen.Event) screen.Trans {
	s.lastEvent = ev
	trans := s.onEvent
	s.onEvent = screen.None()
	return trans
}

func (s *traceScreen) Update(*screen.Context, float64) screen.Trans {
	s.updates++
	trans := s.onUpdate
	s.onUpdate = screen.None()
	return trans
}

func newTrace(log *[]string, name string) *traceScreen {
	return &traceScreen{name: name, log: log}
}

func TestMachinePushPop(t *testing.T) {
	var log []string
	game := newTrace(&log, "game")
	pause := newTrace(&log, "pause")

	m := screen.NewMachine(&screen.Context{})
	require.NoError(t, m.Start(game))
	assert.True(t, m.Running())

	game.onEvent = screen.Push(pause)
	require.NoError(t, m.HandleEvent(screen.KeyDown(screen.KeyEscape)))
	assert.Equal(t, 2, m.Depth())
	assert.Same(t, pause, m.Top())

	// only the top receives updates
	require.NoError(t, m.Update(0.1))
	assert.Equal(t, 0, game.updates)
	assert.Equal(t, 1, pause.updates)

	pause.onEvent = screen.Pop()
	require.NoError(t, m.HandleEvent(screen.KeyDown(screen.KeyEscape)))
	assert.Same(t, game, m.Top())

	assert.Equal(t, []string{"game.enter", "game.pause", "pause.enter", "pause.exit", "game.resume"}, log)
}

func TestMachinePushEnterFailureResumes(t *testing.T) {
	var log []string
	game := newTrace(&log, "game")
	broken := newTrace(&log, "broken")
	broken.enterErr = errors.New("no assets")

	m := screen.NewMachine(&screen.Context{})
	require.NoError(t, m.Start(game))

	game.onUpdate = screen.Push(broken)
	err := m.Update(0.1)
	assert.ErrorContains(t, err, "no assets")
	assert.Equal(t, 1, m.Depth())
	assert.Same(t, game, m.Top())
	assert.Equal(t, []string{"game.enter", "game.pause", "broken.enter", "game.resume"}, log)
}

func TestMachinePopExitFailureAborts(t *testing.T) {
	var log []string
	game := newTrace(&log, "game")
	pause := newTrace(&log, "pause")
	exitErr := errors.New("ui busy")
	pause.exitErr = exitErr

	m := screen.NewMachine(&screen.Context{})
	require.NoError(t, m.Start(game))
	game.onEvent = screen.Push(pause)
	require.NoError(t, m.HandleEvent(screen.CloseRequested()))

	pause.onEvent = screen.Pop()
	err := m.HandleEvent(screen.KeyDown(screen.KeyEscape))
	assert.ErrorIs(t, err, exitErr)
	assert.Equal(t, 2, m.Depth())
	assert.Same(t, pause, m.Top())
	assert.NotContains(t, log, "game.resume")
}

func TestMachinePopLastScreenStops(t *testing.T) {
	var log []string
	only := newTrace(&log, "only")

	m := screen.NewMachine(&screen.Context{})
	require.NoError(t, m.Start(only))
	only.onUpdate = screen.Pop()
	require.NoError(t, m.Update(0))

	assert.False(t, m.Running())
	assert.Nil(t, m.Top())
	assert.ErrorIs(t, m.Update(0), screen.ErrNotRunning)
	assert.ErrorIs(t, m.HandleEvent(screen.CloseRequested()), screen.ErrNotRunning)
}

func TestMachineSwitch(t *testing.T) {
	var log []string
	menu := newTrace(&log, "menu")
	game := newTrace(&log, "game")

	m := screen.NewMachine(&screen.Context{})
	require.NoError(t, m.Start(menu))
	menu.onEvent = screen.Switch(game)
	require.NoError(t, m.HandleEvent(screen.KeyDown(screen.KeyEnter)))

	assert.Equal(t, 1, m.Depth())
	assert.Same(t, game, m.Top())
	assert.Equal(t, []string{"menu.enter", "menu.exit", "game.enter"}, log)
}

func TestMachineQuitExitsTopDown(t *testing.T) {
	var log []string
	game := newTrace(&log, "game")
	pause := newTrace(&log, "pause")

	m := screen.NewMachine(&screen.Context{})
	require.NoError(t, m.Start(game))
	game.onEvent = screen.Push(pause)
	require.NoError(t, m.HandleEvent(screen.CloseRequested()))
	log = log[:0]

	pause.onEvent = screen.Quit()
	require.NoError(t, m.HandleEvent(screen.KeyDown(screen.KeyQ)))

	assert.False(t, m.Running())
	assert.Equal(t, 0, m.Depth())
	assert.Equal(t, []string{"pause.exit", "game.exit"}, log)
	assert.NoError(t, m.Stop())
}

func TestMachineQuitStopsAtFailure(t *testing.T) {
	var log []string
	game := newTrace(&log, "game")
	game.exitErr = errors.New("stuck")
	pause := newTrace(&log, "pause")

	m := screen.NewMachine(&screen.Context{})
	require.NoError(t, m.Start(game))
	game.onEvent = screen.Push(pause)
	require.NoError(t, m.HandleEvent(screen.CloseRequested()))

	log = log[:0]

	err := m.Stop()
	assert.ErrorContains(t, err, "stuck")
	assert.True(t, m.Running())
	assert.Same(t, game, m.Top())
	assert.Equal(t, []string{"pause.exit", "game.exit", "game.resume"}, log)
}

func TestMachineQuitFailureOnOnlyScreenDoesNotResume(t *testing.T) {
	var log []string
	only := newTrace(&log, "only")
	only.exitErr = errors.New("stuck")

	m := screen.NewMachine(&screen.Context{})
	require.NoError(t, m.Start(only))
	log = log[:0]

	assert.Error(t, m.Stop())
	assert.Equal(t, []string{"only.exit"}, log)
	assert.Same(t, only, m.Top())
}

func TestMachineStart(t *testing.T) {
	var log []string
	broken := newTrace(&log, "broken")
	broken.enterErr = errors.New("boom")

	m := screen.NewMachine(&screen.Context{})
	assert.ErrorContains(t, m.Start(broken), "enter broken: boom")
	assert.False(t, m.Running())

	ok := newTrace(&log, "ok")
	require.NoError(t, m.Start(ok))
	assert.ErrorIs(t, m.Start(ok), screen.ErrAlreadyRunning)
	assert.NotNil(t, m.Context().Log)
}

func TestEventHelpers(t *testing.T) {
	assert.True(t, screen.IsCloseRequested(screen.CloseRequested()))
	assert.False(t, screen.IsCloseRequested(screen.KeyDown(screen.KeyEscape)))
	assert.True(t, screen.IsKeyDown(screen.KeyDown(screen.KeyEscape), screen.KeyEscape))
	assert.False(t, screen.IsKeyDown(screen.KeyDown(screen.KeyQ), screen.KeyEscape))
	assert.False(t, screen.IsKeyDown(screen.WindowEvent{Kind: screen.WindowKeyUp, Key: screen.KeyEscape}, screen.KeyEscape))
	assert.False(t, screen.IsKeyDown(screen.UIEvent{Action: "click"}, screen.KeyEscape))
	assert.Equal(t, screen.WindowEvent{Kind: screen.WindowFocusLost}, screen.FocusChanged(false))
	assert.Equal(t, screen.WindowEvent{Kind: screen.WindowFocusGained}, screen.FocusChanged(true))
	assert.Equal(t, "Escape", screen.KeyEscape.String())
	assert.Equal(t, "Key(99)", screen.Key(99).String())
	assert.Equal(t, "switch", screen.TransSwitch.String())
}

func TestBaseScreen(t *testing.T) {
	type idle struct{ screen.Base }

	m := screen.NewMachine(&screen.Context{})
	require.NoError(t, m.Start(idle{}))
	require.NoError(t, m.Update(1))
	require.NoError(t, m.HandleEvent(screen.InputEvent{Action: "fire"}))
	assert.Equal(t, 1, m.Depth())
}
