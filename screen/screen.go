package screen

import (
	"github.com/firebitsbr/singularity/ecs"
	"go.uber.org/zap"
)

// Context is handed to every screen hook.
type Context struct {
	Storage *ecs.Storage
	Log     *zap.Logger
}

// Screen is one state of the Machine. Only the top screen receives events and
// updates; screens below it are paused.
type Screen interface {
	OnEnter(ctx *Context) error
	OnPause(ctx *Context)
	OnResume(ctx *Context)
	OnExit(ctx *Context) error
	HandleEvent(ctx *Context, ev Event) Trans
	Update(ctx *Context, dt float64) Trans
}

// Base implements every Screen hook as a no-op. Embed it to override only the
// hooks a screen needs.
type Base struct{}

func (Base) OnEnter(*Context) error            { return nil }
func (Base) OnPause(*Context)                  {}
func (Base) OnResume(*Context)                 {}
func (Base) OnExit(*Context) error             { return nil }
func (Base) HandleEvent(*Context, Event) Trans { return None() }
func (Base) Update(*Context, float64) Trans    { return None() }

// TransKind is the kind of a Trans.
type TransKind int

const (
	TransNone TransKind = iota
	TransPush
	TransPop
	TransSwitch
	TransQuit
)

func (k TransKind) String() string {
	switch k {
	case TransNone:
		return "none"
	case TransPush:
		return "push"
	case TransPop:
		return "pop"
	case TransSwitch:
		return "switch"
	case TransQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Trans is a transition requested by a screen.
type Trans struct {
	Kind   TransKind
	Screen Screen
}

func None() Trans { return Trans{Kind: TransNone} }

// Push pauses the current screen and enters s on top of it.
func Push(s Screen) Trans { return Trans{Kind: TransPush, Screen: s} }

// Pop exits the current screen and resumes the one below.
func Pop() Trans { return Trans{Kind: TransPop} }

// Switch exits the current screen and enters s in its place.
func Switch(s Screen) Trans { return Trans{Kind: TransSwitch, Screen: s} }

// Quit exits every screen, top first, and stops the machine.
func Quit() Trans { return Trans{Kind: TransQuit} }
