// Package app wires configuration, logging, the display backend and the
// menu engine together and manages their lifecycle.
package app

import (
	"io"
	"os"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/conmenu/internal/capability"
	"github.com/dshills/conmenu/internal/config"
	"github.com/dshills/conmenu/internal/config/watcher"
	"github.com/dshills/conmenu/internal/logging"
	"github.com/dshills/conmenu/internal/menu"
	"github.com/dshills/conmenu/internal/renderer/backend"
)

// Application owns every long-lived component of a conmenu process.
type Application struct {
	mu sync.Mutex

	config  *config.Config
	logger  *logging.Logger
	logFile *os.File

	backend backend.Backend
	menus   *menu.Context
	watcher *watcher.Watcher

	// reloads counts config reloads applied on the event loop.
	reloads atomic.Int64

	running  atomic.Bool
	shutdown atomic.Bool
	once     sync.Once

	opts Options
}

// Options configures the application.
type Options struct {
	// ConfigPath is the TOML or YAML defaults file. Empty uses built-ins.
	ConfigPath string

	// LogFile overrides logging.file from the config.
	LogFile string

	// LogLevel overrides logging.level from the config.
	LogLevel string

	// ForceLegacy makes every menu use the legacy painter.
	ForceLegacy bool

	// Watch reloads ConfigPath when it changes.
	Watch bool

	// Debounce is the watcher quiet period. Zero uses the watcher default.
	Debounce time.Duration

	// Backend replaces the tcell terminal, such as a NullBackend in tests.
	Backend backend.Backend

	// Probe overrides the capability probe.
	Probe func(colors int) capability.Mode

	// Exit terminates the process. Defaults to os.Exit.
	Exit func(code int)

	// Stderr receives fatal diagnostics. Defaults to os.Stderr.
	Stderr io.Writer
}

// New creates an Application and initializes its components in order:
// config, logging, backend, menu context, watcher.
func New(opts Options) (*Application, error) {
	if opts.Exit == nil {
		opts.Exit = os.Exit
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	app := &Application{
		opts:   opts,
		logger: logging.NullLogger,
	}
	if err := newBootstrapper(app, opts).bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// Config returns the configuration.
func (app *Application) Config() *config.Config {
	return app.config
}

// Logger returns the application logger.
func (app *Application) Logger() *logging.Logger {
	return app.logger
}

// Backend returns the display backend.
func (app *Application) Backend() backend.Backend {
	return app.backend
}

// Menus returns the menu context.
func (app *Application) Menus() *menu.Context {
	return app.menus
}

// Reloads returns how many config reloads have been applied.
func (app *Application) Reloads() int64 {
	return app.reloads.Load()
}

// Run calls fn with the menu context on the calling goroutine, which
// becomes the event loop goroutine. A panic in fn is returned as a
// *RecoveredPanicError after the terminal has been restored.
func (app *Application) Run(fn func(ctx *menu.Context) error) (err error) {
	if app.shutdown.Load() {
		return ErrShutdown
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	defer func() {
		if r := recover(); r != nil {
			app.backend.Shutdown()
			err = NewRecoveredPanicError(r, string(debug.Stack()))
			app.logger.Error("%v", err)
		}
	}()

	app.logger.Info("run start")
	err = fn(app.menus)
	app.logger.Info("run end")
	return err
}

// IsRunning reports whether Run is active.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Shutdown stops the watcher, destroys every menu, restores the terminal
// and closes the log file. It is safe to call more than once.
func (app *Application) Shutdown() {
	app.once.Do(func() {
		app.shutdown.Store(true)
		app.mu.Lock()
		defer app.mu.Unlock()

		if app.watcher != nil {
			app.watcher.Stop()
		}
		if app.menus != nil {
			app.menus.Close()
		}
		if app.backend != nil {
			app.backend.Shutdown()
		}
		app.logger.Info("shutdown")
		if app.logFile != nil {
			_ = app.logFile.Close()
			app.logFile = nil
		}
	})
}

// exit shuts down before handing the code to the configured exit hook,
// so the log file is flushed when a menu exits the process.
func (app *Application) exit(code int) {
	app.Shutdown()
	app.opts.Exit(code)
}
