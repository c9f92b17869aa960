package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/conmenu/internal/app"
	"github.com/dshills/conmenu/internal/menu"
)

// rootFlags holds the persistent flag values.
type rootFlags struct {
	configPath string
	logFile    string
	logLevel   string
	legacy     bool
	watch      bool
}

// appOptions is the hook tests use to inject a backend and exit func.
var appOptions = func(opts app.Options) app.Options { return opts }

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "conmenu",
		Short:         "Keyboard and mouse driven terminal menus",
		Long:          "conmenu renders navigable menus in the terminal. Without a subcommand it runs the built-in demo.",
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch flags.logLevel {
			case "", "debug", "info", "warn", "error":
				return nil
			default:
				return fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", flags.logLevel)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(flags, func(_ *app.Application, ctx *menu.Context) error {
				return newDemo(ctx).run()
			})
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "Path to a TOML or YAML defaults file")
	pf.StringVar(&flags.logFile, "log-file", "", "Write logs to this file")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.BoolVar(&flags.legacy, "legacy", false, "Force the legacy painter")
	pf.BoolVar(&flags.watch, "watch", false, "Reload the config file when it changes")

	root.AddCommand(newScriptCmd(flags))
	root.AddCommand(newProbeCmd(flags))
	return root
}

// runWithApp bootstraps the application and runs fn on the event loop.
// SIGINT and SIGTERM destroy every menu from the loop, so fn unwinds and
// the deferred shutdown restores the terminal.
func runWithApp(flags *rootFlags, fn func(a *app.Application, ctx *menu.Context) error) error {
	application, err := app.New(appOptions(app.Options{
		ConfigPath:  flags.configPath,
		LogFile:     flags.logFile,
		LogLevel:    flags.logLevel,
		ForceLegacy: flags.legacy,
		Watch:       flags.watch,
	}))
	if err != nil {
		return err
	}
	defer application.Shutdown()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer func() {
		signal.Stop(signals)
		close(signals)
	}()
	go func() {
		for range signals {
			ctx := application.Menus()
			ctx.Post(ctx.ClearMenus)
		}
	}()

	return application.Run(func(ctx *menu.Context) error {
		return fn(application, ctx)
	})
}
