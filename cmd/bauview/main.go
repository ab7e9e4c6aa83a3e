package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/lixenwraith/bauview/config"
	"github.com/lixenwraith/bauview/render"
	"github.com/lixenwraith/bauview/scene"
	"github.com/lixenwraith/bauview/status"
	"github.com/lixenwraith/bauview/terminal"
	"github.com/lixenwraith/bauview/window"
)

var (
	configFlag  = flag.String("config", "", "path to a TOML config file")
	backendFlag = flag.String("backend", "", "host backend: window or terminal (overrides host.backend)")
	sceneFlag   = flag.String("scene", "", "scene file, .yaml, .yml or .lua (overrides scene.file)")
)

// crashScreen is restored by the panic handler once the terminal host owns the screen
var crashScreen interface{ Close() }

func main() {
	// Panic Recovery: restore the terminal before printing so the trace is readable
	defer func() {
		if r := recover(); r != nil {
			if crashScreen != nil {
				crashScreen.Close()
			}
			fmt.Fprintf(os.Stderr, "\n\x1b[31mBAUVIEW CRASHED: %v\x1b[0m\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()

	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "bauview: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig(*configFlag, *backendFlag, *sceneFlag)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.Logging, cfg.Host.Backend == config.BackendTerminal)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	spec, err := loadScene(cfg.Scene.File)
	if err != nil {
		return err
	}

	reg := status.NewRegistry()
	log.Info("starting",
		zap.String("backend", cfg.Host.Backend),
		zap.String("scene", spec.Name),
	)

	switch cfg.Host.Backend {
	case config.BackendTerminal:
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		err = runTerminal(ctx, cfg, spec, log, reg)
	default:
		err = runWindow(cfg, spec, log, reg)
	}
	if err != nil {
		log.Error("host stopped", zap.Error(err))
		return err
	}
	log.Info("stopped")
	return nil
}

// loadConfig reads the config file and applies the flag overrides
func loadConfig(path, backend, sceneFile string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if backend == "" && sceneFile == "" {
		return cfg, nil
	}
	if backend != "" {
		cfg.Host.Backend = backend
	}
	if sceneFile != "" {
		cfg.Scene.File = sceneFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadScene returns the demo scene for an empty path
func loadScene(path string) (*scene.Spec, error) {
	if path == "" {
		return scene.Default(), nil
	}
	return scene.LoadFile(path)
}

func runTerminal(ctx context.Context, cfg *config.Config, spec *scene.Spec, log *zap.Logger, reg *status.Registry) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}

	// Callbacks only fire inside Run, after h is assigned
	var h *harness
	host, err := terminal.NewHost(screen, cfg.Host.FPS, cfg.Render.Palette.Background,
		terminal.WithLogger(log.Named("terminal")),
		terminal.WithPainter(func(s render.Surface) { h.paint(s) }),
		terminal.WithKeyHandler(func(r rune) { h.handleKey(r) }),
		terminal.WithResizeHandler(func(w, ht float64) { h.resize(w, ht) }),
	)
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	crashScreen = host
	defer host.Close()

	w, ht := host.Size()
	h, err = newHarness(cfg, spec, host, w, ht, log, reg)
	if err != nil {
		return err
	}
	defer h.close()

	return host.Run(ctx)
}

func runWindow(cfg *config.Config, spec *scene.Spec, log *zap.Logger, reg *status.Registry) error {
	var h *harness
	host, err := window.NewHost(cfg.Host.Width, cfg.Host.Height, cfg.Host.FPS, cfg.Render.Palette.Background,
		window.WithLogger(log.Named("window")),
		window.WithTitle(cfg.Host.Title),
		window.WithPainter(func(s render.Surface) { h.paint(s) }),
		window.WithKeyHandler(func(r rune) { h.handleKey(r) }),
		window.WithResizeHandler(func(w, ht float64) { h.resize(w, ht) }),
	)
	if err != nil {
		return fmt.Errorf("window: %w", err)
	}

	w, ht := host.Size()
	h, err = newHarness(cfg, spec, host, w, ht, log, reg)
	if err != nil {
		return err
	}
	defer h.close()

	return host.Run()
}
