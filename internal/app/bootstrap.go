package app

import (
	"context"

	"github.com/dshills/conmenu/internal/config"
	"github.com/dshills/conmenu/internal/config/watcher"
	"github.com/dshills/conmenu/internal/logging"
	"github.com/dshills/conmenu/internal/menu"
	"github.com/dshills/conmenu/internal/renderer/backend"
)

// bootstrapper handles component initialization with proper cleanup on failure.
type bootstrapper struct {
	app       *Application
	opts      Options
	initOrder []string
}

// newBootstrapper creates a new bootstrapper for the application.
func newBootstrapper(app *Application, opts Options) *bootstrapper {
	return &bootstrapper{
		app:       app,
		opts:      opts,
		initOrder: make([]string, 0, 5),
	}
}

// bootstrap initializes all components in dependency order.
// On failure, it cleans up already-initialized components.
func (b *bootstrapper) bootstrap() error {
	steps := []func() error{
		b.initConfig,
		b.initLogging,
		b.initBackend,
		b.initMenus,
		b.initWatcher,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			b.cleanup()
			return err
		}
	}
	b.app.logger.Debug("initialized %v", b.initOrder)
	return nil
}

// initConfig loads the config file and environment, then applies flags.
// A missing file is not an error; a malformed one is.
func (b *bootstrapper) initConfig() error {
	cfg := config.New(config.WithPath(b.opts.ConfigPath))
	if err := cfg.Load(context.Background()); err != nil {
		return &InitError{Component: "config", Err: err}
	}

	overrides := map[string]any{}
	if b.opts.LogLevel != "" {
		overrides["logging.level"] = b.opts.LogLevel
	}
	if b.opts.LogFile != "" {
		overrides["logging.file"] = b.opts.LogFile
	}
	if b.opts.ForceLegacy {
		overrides["settings.force_legacy"] = true
	}
	for path, value := range overrides {
		if err := cfg.Set(path, value); err != nil {
			return &InitError{Component: "config", Err: err}
		}
	}

	b.app.config = cfg
	b.initOrder = append(b.initOrder, "config")
	return nil
}

// initLogging opens the log file. Without one, logging stays disabled
// because the terminal belongs to the menus.
func (b *bootstrapper) initLogging() error {
	lc := b.app.config.Logging()
	if lc.File == "" {
		b.initOrder = append(b.initOrder, "logging")
		return nil
	}

	f, err := logging.OpenFile(lc.File)
	if err != nil {
		return &InitError{Component: "logging", Err: err}
	}
	b.app.logFile = f
	b.app.logger = logging.New(logging.Config{
		Level:  logging.ParseLogLevel(lc.Level),
		Output: f,
		Prefix: "conmenu",
	})

	for path, err := range b.app.config.ConfigErrors() {
		b.app.logger.Warn("config %s: %v", path, err)
	}
	b.initOrder = append(b.initOrder, "logging")
	return nil
}

// initBackend creates and initializes the display backend.
func (b *bootstrapper) initBackend() error {
	be := b.opts.Backend
	if be == nil {
		term, err := backend.NewTerminal()
		if err != nil {
			return &InitError{Component: "backend", Err: err}
		}
		be = term
	}
	if err := be.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	b.app.backend = be
	b.initOrder = append(b.initOrder, "backend")
	return nil
}

// initMenus creates the menu context and installs the configured
// defaults.
func (b *bootstrapper) initMenus() error {
	ctx, err := menu.New(menu.Options{
		Backend: b.app.backend,
		Logger:  b.app.logger,
		Probe:   b.opts.Probe,
		Exit:    b.app.exit,
		Stderr:  b.opts.Stderr,
	})
	if err != nil {
		return &InitError{Component: "menu", Err: err}
	}
	b.app.config.Apply(ctx)
	b.app.menus = ctx
	b.initOrder = append(b.initOrder, "menus")
	return nil
}

// initWatcher starts live reload when requested.
func (b *bootstrapper) initWatcher() error {
	if !b.opts.Watch || b.opts.ConfigPath == "" {
		return nil
	}

	var opts []watcher.Option
	opts = append(opts, watcher.WithLogger(b.app.logger.WithComponent("watcher")))
	if b.opts.Debounce > 0 {
		opts = append(opts, watcher.WithDebounce(b.opts.Debounce))
	}
	w := watcher.New(opts...)
	if err := w.Watch(b.opts.ConfigPath); err != nil {
		return &InitError{Component: "watcher", Err: err}
	}
	w.OnChange(b.app.handleConfigChange)
	if err := w.Start(); err != nil {
		return &InitError{Component: "watcher", Err: err}
	}
	b.app.watcher = w
	b.initOrder = append(b.initOrder, "watcher")
	return nil
}

// cleanup releases components in reverse initialization order.
func (b *bootstrapper) cleanup() {
	for i := len(b.initOrder) - 1; i >= 0; i-- {
		switch b.initOrder[i] {
		case "watcher":
			b.app.watcher.Stop()
		case "menus":
			b.app.menus.Close()
		case "backend":
			b.app.backend.Shutdown()
		case "logging":
			if b.app.logFile != nil {
				_ = b.app.logFile.Close()
				b.app.logFile = nil
			}
		}
	}
	b.initOrder = b.initOrder[:0]
}
