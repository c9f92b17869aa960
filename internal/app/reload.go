package app

import (
	"github.com/dshills/conmenu/internal/config/watcher"
)

// handleConfigChange reloads the config file on the watcher goroutine and
// posts the new defaults to the event loop. Existing menus keep their
// settings; menus created afterwards use the reloaded ones.
func (app *Application) handleConfigChange(event watcher.Event) {
	if app.shutdown.Load() {
		return
	}
	log := app.logger.WithField("path", event.Path).WithField("op", event.Op.String())

	if event.Op == watcher.OpRemove || event.Op == watcher.OpRename {
		log.Info("config file gone, keeping current defaults")
		return
	}

	if err := app.config.Reload(); err != nil {
		log.Warn("reload failed: %v", NewComponentError("config", "reload", err))
		return
	}
	if err := app.config.Validate(); err != nil {
		log.Warn("%v", err)
	}

	cfg := app.config
	ctx := app.menus
	ctx.Post(func() {
		cfg.Apply(ctx)
		app.reloads.Add(1)
		log.Info("config reloaded")
	})
}
