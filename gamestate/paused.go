package gamestate

import "github.com/firebitsbr/singularity/screen"

// Paused is the overlay pushed on top of Playing. Escape resumes the game and
// Q or closing the window quits.
type Paused struct {
	screen.Base
}

func NewPaused() *Paused {
	return &Paused{}
}

func (p *Paused) Name() string { return "paused" }

func (p *Paused) OnEnter(ctx *screen.Context) error {
	ctx.Log.Info("game paused")
	return nil
}

func (p *Paused) OnExit(ctx *screen.Context) error {
	ctx.Log.Debug("pause menu closed")
	return nil
}

func (p *Paused) HandleEvent(_ *screen.Context, ev screen.Event) screen.Trans {
	switch {
	case screen.IsKeyDown(ev, screen.KeyEscape):
		return screen.Pop()
	case screen.IsCloseRequested(ev), screen.IsKeyDown(ev, screen.KeyQ):
		return screen.Quit()
	}
	return screen.None()
}
