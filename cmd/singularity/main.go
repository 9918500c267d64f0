package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"

	"github.com/firebitsbr/singularity/assets"
	"github.com/firebitsbr/singularity/config"
	"github.com/firebitsbr/singularity/ecs"
	"github.com/firebitsbr/singularity/ecs/debugui"
	debugebiten "github.com/firebitsbr/singularity/ecs/debugui/ebiten"
	"github.com/firebitsbr/singularity/gamestate"
	hostebiten "github.com/firebitsbr/singularity/host/ebiten"
	"github.com/firebitsbr/singularity/host/headless"
	"github.com/firebitsbr/singularity/screen"
	"github.com/pkg/profile"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := flag.String("config", "config/singularity.toml", "Path to the TOML config file; missing files fall back to the defaults.")
	headlessMode := flag.Bool("headless", false, "Run the simulation without a window.")
	ticks := flag.Int("ticks", 0, "Stop a headless run after this many ticks (0 runs until interrupted).")
	profileMode := flag.String("profile", "", "Write a \"cpu\" or \"mem\" profile to the working directory.")
	flag.Parse()

	// 1. Load config
	cfg, err := config.LoadOrDefault(*cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	switch *profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		return fmt.Errorf("unknown profile mode %q", *profileMode)
	}

	// 3. Resolve assets
	var assetFS fs.FS = assets.FS()
	if cfg.Assets.Dir != "" {
		assetFS = os.DirFS(cfg.Assets.Dir)
	}

	storage := ecs.NewStorage()
	ctx := &screen.Context{Storage: storage, Log: log}
	machine := screen.NewMachine(ctx)

	opts := gamestate.Options{
		Assets:   assetFS,
		Scenario: cfg.Assets.Scenario,
		Workers:  cfg.Simulation.Workers,
	}

	log.Info("starting",
		zap.Bool("headless", *headlessMode),
		zap.String("scenario", cfg.Assets.Scenario),
		zap.Bool("embedded_assets", cfg.Assets.Dir == ""),
		zap.Int("workers", cfg.Simulation.Workers),
	)

	// 4. Run
	if *headlessMode {
		opts.Renderer = headless.NewRenderer(assetFS)
		if cfg.Audio.Enabled {
			opts.Audio = &headless.Audio{}
		}
		if err := machine.Start(gamestate.NewPlaying(opts)); err != nil {
			return fmt.Errorf("start: %w", err)
		}

		sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		loop := &headless.Loop{
			Machine:  machine,
			Interval: cfg.Simulation.TickRate,
			MaxTicks: *ticks,
			Log:      log,
		}
		n, err := loop.Run(sigCtx)
		if err != nil {
			return fmt.Errorf("headless loop: %w", err)
		}
		log.Info("stopped", zap.Int("ticks", n))
		return nil
	}

	renderer := hostebiten.NewRenderer(assetFS)
	opts.Renderer = renderer
	if cfg.Audio.Enabled {
		opts.Audio = hostebiten.NewAudio(cfg.Audio.SampleRate)
	}

	host := &hostebiten.Game{
		Machine:  machine,
		Renderer: renderer,
		Width:    cfg.Window.Width,
		Height:   cfg.Window.Height,
		Log:      log,
	}

	var playing *gamestate.Playing
	if cfg.Debug.Overlay {
		backend := debugebiten.NewImguiBackend(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height)
		overlay, err := debugebiten.NewOverlay(backend, storage)
		if err != nil {
			return fmt.Errorf("debug overlay: %w", err)
		}
		host.Overlay = overlay
		opts.UI = &debugui.OverlayUI{Dispatcher: func() *ecs.Dispatcher { return playing.Dispatcher() }}
	}

	playing = gamestate.NewPlaying(opts)
	if err := machine.Start(playing); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	return hostebiten.Run(host, cfg.Window.Title, cfg.Simulation.TPS())
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
