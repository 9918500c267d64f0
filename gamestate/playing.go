package gamestate

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/firebitsbr/singularity/ecs"
	"github.com/firebitsbr/singularity/game"
	"github.com/firebitsbr/singularity/screen"
	"go.uber.org/zap"
)

// UIBuilder creates the UI of the Playing screen and returns its root entity.
// Every other UI entity must be linked to the root through ecs.Parent.
type UIBuilder interface {
	BuildUI(storage *ecs.Storage) (ecs.EntityId, error)
}

// UIBuilderFunc adapts a function to UIBuilder.
type UIBuilderFunc func(storage *ecs.Storage) (ecs.EntityId, error)

func (f UIBuilderFunc) BuildUI(storage *ecs.Storage) (ecs.EntityId, error) { return f(storage) }

// Options configures the Playing screen.
type Options struct {
	Assets   fs.FS
	Scenario string
	Renderer game.Renderer
	// Audio may be nil when sound is disabled.
	Audio   game.Audio
	UI      UIBuilder
	Workers int
	// Systems registers additional systems after the simulation systems.
	Systems func(*ecs.DispatcherBuilder) *ecs.DispatcherBuilder
}

// Playing runs the simulation. It owns a dispatcher and every entity of the
// loaded scenario.
type Playing struct {
	opts       Options
	dispatcher *ecs.Dispatcher
	paused     bool
	sprite     game.SpriteRef
	entities   []ecs.EntityId
	uiRoot     ecs.EntityId
}

func NewPlaying(opts Options) *Playing {
	return &Playing{opts: opts}
}

func (p *Playing) Name() string { return "playing" }

// Paused reports whether another screen is on top of Playing.
func (p *Playing) Paused() bool { return p.paused }

// Dispatcher returns the dispatcher built by OnEnter, or nil.
func (p *Playing) Dispatcher() *ecs.Dispatcher { return p.dispatcher }

// Entities returns the camera and scenario entities owned by the screen.
func (p *Playing) Entities() []ecs.EntityId { return p.entities }

// UIRoot returns the root of the UI subtree, or the zero id.
func (p *Playing) UIRoot() ecs.EntityId { return p.uiRoot }

func (p *Playing) OnEnter(ctx *screen.Context) error {
	if ctx.Storage == nil {
		return errors.New("playing: context has no storage")
	}
	if p.opts.Assets == nil || p.opts.Renderer == nil {
		return errors.New("playing: assets and renderer are required")
	}

	if err := p.enter(ctx); err != nil {
		p.rollback(ctx.Storage)
		return err
	}

	ctx.Log.Info("playing started",
		zap.Strings("systems", p.dispatcher.Order()),
		zap.Int("stages", len(p.dispatcher.Stages())),
		zap.Int("entities", len(p.entities)),
		zap.Bool("ui", !p.uiRoot.IsZero()),
	)
	return nil
}

func (p *Playing) enter(ctx *screen.Context) error {
	storage := ctx.Storage

	builder := game.RegisterSystems(ecs.NewDispatcherBuilder().WithWorkers(p.opts.Workers))
	if p.opts.Systems != nil {
		builder = p.opts.Systems(builder)
	}
	dispatcher, err := builder.Build()
	if err != nil {
		return fmt.Errorf("build dispatcher: %w", err)
	}
	if err := dispatcher.Setup(storage); err != nil {
		return fmt.Errorf("setup dispatcher: %w", err)
	}
	p.dispatcher = dispatcher

	arena := game.DefaultArena()
	storage.AddSingleton(arena)

	scenario, err := game.LoadScenario(p.opts.Assets, p.opts.Scenario)
	if err != nil {
		return err
	}

	handle, err := p.opts.Renderer.LoadSpriteGroup(scenario.SpriteGroup)
	if err != nil {
		return fmt.Errorf("load sprite group %q: %w", scenario.SpriteGroup, err)
	}
	p.sprite = p.opts.Renderer.SpriteRef(handle, scenario.Sprite)

	p.entities = append(p.entities, game.CreateCamera(storage, arena))
	created, err := scenario.Populate(storage, p.sprite)
	if err != nil {
		return fmt.Errorf("populate scenario: %w", err)
	}
	p.entities = append(p.entities, created...)
	ctx.Log.Info("scenario loaded",
		zap.String("path", p.opts.Scenario),
		zap.Int("platforms", len(scenario.Platforms)),
		zap.Int("resources", len(scenario.Resources)),
		zap.Int("units", len(scenario.Units)),
	)

	if p.opts.Audio != nil {
		if err := p.opts.Audio.InitOutput(); err != nil {
			return fmt.Errorf("init audio output: %w", err)
		}
	}

	if p.opts.UI != nil {
		root, err := p.opts.UI.BuildUI(storage)
		if err != nil {
			return fmt.Errorf("build ui: %w", err)
		}
		p.uiRoot = root
	}
	return nil
}

func (p *Playing) rollback(storage *ecs.Storage) {
	if !p.uiRoot.IsZero() && storage.Alive(p.uiRoot) {
		_ = ecs.DeleteSubtree(p.uiRoot, storage)
	}
	for _, id := range p.entities {
		storage.Delete(id)
	}
	p.clear()
}

func (p *Playing) clear() {
	p.dispatcher = nil
	p.entities = nil
	p.uiRoot = 0
	p.sprite = game.SpriteRef{}
	p.paused = false
}

func (p *Playing) OnPause(*screen.Context) { p.paused = true }

func (p *Playing) OnResume(*screen.Context) { p.paused = false }

// OnExit deletes the UI subtree and the scenario entities. If the UI cannot be
// deleted nothing else is touched and the error is returned.
func (p *Playing) OnExit(ctx *screen.Context) error {
	if !p.uiRoot.IsZero() {
		if err := ecs.DeleteSubtree(p.uiRoot, ctx.Storage); err != nil {
			return fmt.Errorf("remove game screen: %w", err)
		}
	}
	for _, id := range p.entities {
		ctx.Storage.Delete(id)
	}
	p.clear()
	return nil
}

func (p *Playing) HandleEvent(ctx *screen.Context, ev screen.Event) screen.Trans {
	switch ev := ev.(type) {
	case screen.WindowEvent:
		if screen.IsCloseRequested(ev) || screen.IsKeyDown(ev, screen.KeyEscape) || ev.Kind == screen.WindowFocusLost {
			return screen.Push(NewPaused())
		}
	case screen.UIEvent:
		ctx.Log.Info("ui interaction", zap.Uint64("target", uint64(ev.Target)), zap.String("action", ev.Action))
	case screen.InputEvent:
		ctx.Log.Info("input event", zap.String("action", ev.Action), zap.Float32("x", ev.X), zap.Float32("y", ev.Y))
	}
	return screen.None()
}

// Update runs one simulation tick unless the screen is paused.
func (p *Playing) Update(_ *screen.Context, dt float64) screen.Trans {
	if !p.paused && p.dispatcher != nil {
		p.dispatcher.Dispatch(dt)
	}
	return screen.None()
}
