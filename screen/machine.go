package screen

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

var (
	// ErrNotRunning is returned when events or updates reach a stopped machine.
	ErrNotRunning = errors.New("screen: machine is not running")
	// ErrAlreadyRunning is returned by Start on a running machine.
	ErrAlreadyRunning = errors.New("screen: machine already running")
)

// Machine is a stack of screens. The top screen receives events and updates and
// the transitions it returns are applied immediately.
type Machine struct {
	ctx     *Context
	stack   []Screen
	running bool
}

// NewMachine creates a stopped machine. A nil logger in ctx is replaced by a no-op logger.
func NewMachine(ctx *Context) *Machine {
	if ctx.Log == nil {
		ctx.Log = zap.NewNop()
	}
	return &Machine{ctx: ctx}
}

// Context returns the context passed to every hook.
func (m *Machine) Context() *Context {
	return m.ctx
}

// Running reports whether at least one screen is on the stack.
func (m *Machine) Running() bool {
	return m.running
}

// Depth returns the number of screens on the stack.
func (m *Machine) Depth() int {
	return len(m.stack)
}

// Top returns the active screen, or nil.
func (m *Machine) Top() Screen {
	if len(m.stack) == 0 {
		return nil
	}
	return m.stack[len(m.stack)-1]
}

// Start enters initial and makes it the only screen.
func (m *Machine) Start(initial Screen) error {
	if m.running {
		return ErrAlreadyRunning
	}
	if err := initial.OnEnter(m.ctx); err != nil {
		return fmt.Errorf("enter %s: %w", screenName(initial), err)
	}
	m.stack = append(m.stack[:0], initial)
	m.running = true
	m.ctx.Log.Debug("screen started", zap.String("screen", screenName(initial)))
	return nil
}

// HandleEvent delivers ev to the top screen and applies the returned transition.
func (m *Machine) HandleEvent(ev Event) error {
	if !m.running {
		return ErrNotRunning
	}
	return m.apply(m.Top().HandleEvent(m.ctx, ev))
}

// Update ticks the top screen and applies the returned transition.
func (m *Machine) Update(dt float64) error {
	if !m.running {
		return ErrNotRunning
	}
	return m.apply(m.Top().Update(m.ctx, dt))
}

// Stop exits every screen, top first. Stopping a stopped machine is a no-op.
func (m *Machine) Stop() error {
	if !m.running {
		return nil
	}
	return m.quit()
}

func (m *Machine) apply(trans Trans) error {
	if trans.Kind == TransNone {
		return nil
	}

	log := m.ctx.Log.With(zap.Stringer("trans", trans.Kind), zap.String("from", screenName(m.Top())))
	var err error
	switch trans.Kind {
	case TransPush:
		err = m.push(trans.Screen)
	case TransPop:
		err = m.pop()
	case TransSwitch:
		err = m.replace(trans.Screen)
	case TransQuit:
		err = m.quit()
	default:
		err = fmt.Errorf("screen: unknown transition %d", trans.Kind)
	}

	if err != nil {
		log.Warn("screen transition failed", zap.Error(err))
		return err
	}
	log.Debug("screen transition", zap.Int("depth", len(m.stack)))
	return nil
}

// push pauses the top and enters s. If s fails to enter, the old top is resumed.
func (m *Machine) push(s Screen) error {
	if s == nil {
		return errors.New("screen: push of nil screen")
	}
	top := m.Top()
	top.OnPause(m.ctx)
	if err := s.OnEnter(m.ctx); err != nil {
		top.OnResume(m.ctx)
		return fmt.Errorf("enter %s: %w", screenName(s), err)
	}
	m.stack = append(m.stack, s)
	return nil
}

// pop exits the top. A failed exit keeps the top active.
func (m *Machine) pop() error {
	top := m.Top()
	if err := top.OnExit(m.ctx); err != nil {
		return fmt.Errorf("exit %s: %w", screenName(top), err)
	}
	m.stack[len(m.stack)-1] = nil
	m.stack = m.stack[:len(m.stack)-1]

	if next := m.Top(); next != nil {
		next.OnResume(m.ctx)
	} else {
		m.running = false
	}
	return nil
}

// replace exits the top and enters s in its place. If s fails to enter, the
// screen below, if any, is resumed.
func (m *Machine) replace(s Screen) error {
	if s == nil {
		return errors.New("screen: switch to nil screen")
	}
	top := m.Top()
	if err := top.OnExit(m.ctx); err != nil {
		return fmt.Errorf("exit %s: %w", screenName(top), err)
	}
	m.stack[len(m.stack)-1] = nil
	m.stack = m.stack[:len(m.stack)-1]

	if err := s.OnEnter(m.ctx); err != nil {
		if next := m.Top(); next != nil {
			next.OnResume(m.ctx)
		} else {
			m.running = false
		}
		return fmt.Errorf("enter %s: %w", screenName(s), err)
	}
	m.stack = append(m.stack, s)
	return nil
}

// quit exits every screen top-down. It stops at the first failure; the failing
// screen stays on top and is resumed if a screen above it was already exited.
func (m *Machine) quit() error {
	exited := 0
	for len(m.stack) > 0 {
		top := m.Top()
		if err := top.OnExit(m.ctx); err != nil {
			if exited > 0 {
				top.OnResume(m.ctx)
			}
			return fmt.Errorf("exit %s: %w", screenName(top), err)
		}
		m.stack[len(m.stack)-1] = nil
		m.stack = m.stack[:len(m.stack)-1]
		exited++
	}
	m.running = false
	return nil
}

func screenName(s Screen) string {
	if s == nil {
		return "<none>"
	}
	if named, ok := s.(interface{ Name() string }); ok {
		return named.Name()
	}
	return fmt.Sprintf("%T", s)
}
