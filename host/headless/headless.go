// Package headless runs the screen machine without a window. It is used by the
// -headless flag and by tests.
package headless

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"github.com/firebitsbr/singularity/game"
	"github.com/firebitsbr/singularity/screen"
	"go.uber.org/zap"
)

// Renderer resolves sprite groups against an asset filesystem without drawing.
type Renderer struct {
	assets fs.FS

	mu      sync.Mutex
	handles map[string]game.RenderHandle
	sheets  []*game.SpriteSheet
}

func NewRenderer(assets fs.FS) *Renderer {
	return &Renderer{assets: assets, handles: make(map[string]game.RenderHandle)}
}

// LoadSpriteGroup checks that the texture exists and that the layout is valid.
// Loading the same group twice returns the same handle.
func (r *Renderer) LoadSpriteGroup(name string) (game.RenderHandle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if h, ok := r.handles[name]; ok {
		return h, nil
	}

	texture, _ := game.SpriteSheetPaths(name)
	if _, err := fs.Stat(r.assets, texture); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, fmt.Errorf("texture %s: %w", texture, game.ErrMissingAsset)
		}
		return 0, fmt.Errorf("texture %s: %w", texture, err)
	}
	sheet, err := game.LoadSpriteSheet(r.assets, name)
	if err != nil {
		return 0, err
	}

	r.sheets = append(r.sheets, sheet)
	h := game.RenderHandle(len(r.sheets))
	r.handles[name] = h
	return h, nil
}

func (r *Renderer) SpriteRef(handle game.RenderHandle, index int) game.SpriteRef {
	return game.SpriteRef{Handle: handle, Index: index}
}

// Sheet returns the layout loaded for handle, or nil.
func (r *Renderer) Sheet(handle game.RenderHandle) *game.SpriteSheet {
	r.mu.Lock()
	defer r.mu.Unlock()
	if handle == 0 || int(handle) > len(r.sheets) {
		return nil
	}
	return r.sheets[handle-1]
}

// Audio is an output that only counts initialisations.
type Audio struct {
	once  sync.Once
	inits int
}

func (a *Audio) InitOutput() error {
	a.once.Do(func() { a.inits++ })
	return nil
}

// Initialised reports whether InitOutput was called.
func (a *Audio) Initialised() bool {
	return a.inits > 0
}

// Loop drives a machine at a fixed interval.
type Loop struct {
	Machine  *screen.Machine
	Interval time.Duration
	// MaxTicks stops the loop after that many updates; zero runs until the
	// context is done or the machine stops.
	MaxTicks int
	// Events are delivered before the update of the tick they are keyed by.
	Events map[int][]screen.Event
	Log    *zap.Logger
}

// Run ticks the machine until ctx is done, MaxTicks is reached or the machine
// stops. The machine is stopped on return. It returns the number of ticks run.
func (l *Loop) Run(ctx context.Context) (ticks int, err error) {
	log := l.Log
	if log == nil {
		log = zap.NewNop()
	}
	defer func() {
		if stopErr := l.Machine.Stop(); stopErr != nil && err == nil {
			err = stopErr
		}
	}()

	ticker := time.NewTicker(l.Interval)
	defer ticker.Stop()
	lastTime := time.Now()

	for l.Machine.Running() {
		if l.MaxTicks > 0 && ticks >= l.MaxTicks {
			break
		}

		select {
		case <-ctx.Done():
			log.Info("headless loop cancelled", zap.Int("ticks", ticks))
			return ticks, nil
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now

			for _, ev := range l.Events[ticks] {
				if err := l.Machine.HandleEvent(ev); err != nil {
					return ticks, err
				}
				if !l.Machine.Running() {
					return ticks, nil
				}
			}
			if err := l.Machine.Update(dt); err != nil {
				return ticks, err
			}
			ticks++
		}
	}

	log.Info("headless loop finished", zap.Int("ticks", ticks), zap.Bool("running", l.Machine.Running()))
	return ticks, nil
}
