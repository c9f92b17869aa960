// Package config loads conmenu's default menu settings and colors.
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Command Line Arguments  │  ← Highest priority
//	├─────────────────────────────┤
//	│  3. Environment Variables   │  ← CONMENU_*
//	├─────────────────────────────┤
//	│  2. Config File             │  ← menu.toml / menu.yaml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// # File Format
//
// TOML and YAML files share one layout:
//
//	[logging]
//	level = "debug"
//	file = "/tmp/conmenu.log"
//
//	[settings]
//	mouse = true
//	header = true
//	footer = true
//	double_width = false
//	force_legacy = false
//	center_x = 0.0
//	center_y = -1.0
//
//	[colors.highlight]
//	fg = "#000000"
//	bg = 7
//	attrs = ["bold"]
//
// Colors are "#RGB", "#RRGGBB", a palette index from 0 to 255, or
// "default". Color sections are header, footer, option, highlight and
// error.
//
// # Basic Usage
//
//	cfg := config.New(config.WithPath("menu.toml"))
//	if err := cfg.Load(ctx); err != nil {
//	    var perr *config.ParseError
//	    if errors.As(err, &perr) {
//	        // malformed file
//	    }
//	}
//	cfg.Apply(menuCtx)
//
// # Sub-packages
//
//   - loader: TOML, YAML and environment variable loading
//   - watcher: fsnotify-backed live reload
package config
