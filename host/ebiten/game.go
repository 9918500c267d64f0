// Package ebiten hosts the screen machine in an ebiten window.
package ebiten

import (
	"errors"

	debugebiten "github.com/firebitsbr/singularity/ecs/debugui/ebiten"
	"github.com/firebitsbr/singularity/game"
	"github.com/firebitsbr/singularity/screen"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"
)

var keyBindings = map[ebiten.Key]screen.Key{
	ebiten.KeyEscape: screen.KeyEscape,
	ebiten.KeyEnter:  screen.KeyEnter,
	ebiten.KeySpace:  screen.KeySpace,
	ebiten.KeyQ:      screen.KeyQ,
	ebiten.KeyP:      screen.KeyP,
}

// Game implements ebiten.Game on top of a screen machine.
type Game struct {
	Machine  *screen.Machine
	Renderer *Renderer
	// Overlay is optional.
	Overlay *debugebiten.Overlay
	Width   int
	Height  int
	Log     *zap.Logger

	closing bool
	focused bool
}

func (g *Game) Update() error {
	if !g.Machine.Running() {
		return ebiten.Termination
	}

	if ebiten.IsWindowBeingClosed() && !g.closing {
		g.closing = true
		g.deliver(screen.CloseRequested())
	} else if !ebiten.IsWindowBeingClosed() {
		g.closing = false
	}

	if focused := ebiten.IsFocused(); focused != g.focused {
		g.focused = focused
		g.deliver(screen.FocusChanged(focused))
	}

	captureKeyboard, captureMouse := false, false
	if g.Overlay != nil {
		state := g.Overlay.InputState()
		captureKeyboard, captureMouse = state.WantCaptureKeyboard, state.WantCaptureMouse
	}

	if !captureKeyboard {
		for key, mapped := range keyBindings {
			if inpututil.IsKeyJustPressed(key) {
				g.deliver(screen.KeyDown(mapped))
			}
		}
	}
	if !captureMouse && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		g.deliver(screen.InputEvent{Action: "select", X: float32(x), Y: float32(y)})
	}

	dt := 1.0 / float64(ebiten.TPS())
	if g.Machine.Running() {
		if err := g.Machine.Update(dt); err != nil && !errors.Is(err, screen.ErrNotRunning) {
			g.Log.Warn("screen update failed", zap.Error(err))
		}
	}
	if !g.Machine.Running() {
		return ebiten.Termination
	}

	if g.Overlay != nil {
		g.Overlay.Update(dt)
	}
	return nil
}

func (g *Game) deliver(ev screen.Event) {
	if !g.Machine.Running() {
		return
	}
	if err := g.Machine.HandleEvent(ev); err != nil {
		g.Log.Warn("screen event failed", zap.Error(err))
	}
}

func (g *Game) Draw(dst *ebiten.Image) {
	storage := g.Machine.Context().Storage
	arena := game.DefaultArena()
	var stored *game.Arena
	if storage.ReadSingleton(&stored) {
		arena = *stored
	}
	g.Renderer.Draw(dst, storage, arena)

	if g.Overlay != nil {
		g.Overlay.Draw(dst)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.Overlay != nil {
		g.Overlay.Layout(outsideWidth, outsideHeight)
	}
	return g.Width, g.Height
}

// Run opens the window and blocks until the machine stops or the window closes.
// When an overlay is used its backend has already created the window.
func Run(g *Game, title string, tps int) error {
	if g.Log == nil {
		g.Log = zap.NewNop()
	}
	g.focused = true
	if g.Overlay == nil {
		ebiten.SetWindowSize(g.Width, g.Height)
		ebiten.SetWindowTitle(title)
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetTPS(tps)

	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		err = nil
	}
	if stopErr := g.Machine.Stop(); err == nil {
		err = stopErr
	}
	return err
}
