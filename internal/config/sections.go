package config

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/dshills/conmenu/internal/layout"
	"github.com/dshills/conmenu/internal/menu"
	"github.com/dshills/conmenu/internal/renderer/core"
)

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Level is the minimum level name (debug, info, warn, error).
	Level string
	// File is the log file path. Empty disables logging.
	File string
}

// ColorNames lists the color sections in file order.
var ColorNames = []string{"header", "footer", "option", "highlight", "error"}

// Logging returns the logging configuration.
func (c *Config) Logging() LoggingConfig {
	return LoggingConfig{
		Level: c.getStringOr("logging.level", "info"),
		File:  c.getStringOr("logging.file", ""),
	}
}

// Settings returns the default menu settings. The center is clamped.
func (c *Config) Settings() menu.Settings {
	d := menu.DefaultSettings()
	s := menu.Settings{
		Mouse:       c.getBoolOr("settings.mouse", d.Mouse),
		Header:      c.getBoolOr("settings.header", d.Header),
		Footer:      c.getBoolOr("settings.footer", d.Footer),
		DoubleWidth: c.getBoolOr("settings.double_width", d.DoubleWidth),
		ForceLegacy: c.getBoolOr("settings.force_legacy", d.ForceLegacy),
		Center: layout.Center{
			X: c.getFloatOr("settings.center_x", d.Center.X),
			Y: c.getFloatOr("settings.center_y", d.Center.Y),
		},
	}
	s.Center = layout.ClampCenter(s.Center)
	return s
}

// Colors returns the default menu colors. Unset entries keep the built-in
// style; invalid entries are recorded and also keep the built-in style.
func (c *Config) Colors() menu.Color {
	col := menu.DefaultColor()
	targets := map[string]*core.Style{
		"header":    &col.Header,
		"footer":    &col.Footer,
		"option":    &col.Option,
		"highlight": &col.Highlight,
		"error":     &col.Error,
	}
	for _, name := range ColorNames {
		c.styleInto("colors."+name, targets[name])
	}
	return col
}

// styleInto overrides the style's parts present under path.
func (c *Config) styleInto(path string, style *core.Style) {
	if fg, ok := c.colorAt(path + ".fg"); ok {
		style.Foreground = fg
	}
	if bg, ok := c.colorAt(path + ".bg"); ok {
		style.Background = bg
	}

	names, err := c.GetStringSlice(path + ".attrs")
	if err != nil {
		if err != ErrSettingNotFound {
			c.recordConfigError(path+".attrs", err)
		}
		return
	}
	attrs := core.AttrNone
	for _, name := range names {
		a, err := core.ParseAttribute(name)
		if err != nil {
			c.recordConfigError(path+".attrs", &ValueError{Path: path + ".attrs", Value: name, Err: err})
			return
		}
		attrs = attrs.With(a)
	}
	style.Attributes = attrs
}

// colorAt parses the color at path. Strings and palette indexes are
// accepted.
func (c *Config) colorAt(path string) (core.Color, bool) {
	v, ok := c.Get(path)
	if !ok {
		return core.Color{}, false
	}

	var s string
	switch val := v.(type) {
	case string:
		s = val
	case int64:
		s = strconv.FormatInt(val, 10)
	case int:
		s = strconv.Itoa(val)
	default:
		c.recordConfigError(path, &TypeError{Path: path, Expected: "color", Actual: typeName(v)})
		return core.Color{}, false
	}

	color, err := core.ParseColor(s)
	if err != nil {
		c.recordConfigError(path, &ValueError{Path: path, Value: v, Err: err})
		return core.Color{}, false
	}
	return color, true
}

// Apply installs the configured settings and colors as ctx's defaults.
// Menus created afterwards copy them; existing menus are unchanged.
func (c *Config) Apply(ctx *menu.Context) {
	ctx.SetDefaultSettings(c.Settings())
	ctx.SetDefaultColor(c.Colors())
}

// Helper methods for getting values with defaults.
// These methods only return the default for ErrSettingNotFound.
// Type errors are recorded and return the default.

func (c *Config) getStringOr(path string, defaultValue string) string {
	v, err := c.GetString(path)
	if err != nil {
		if err != ErrSettingNotFound {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

func (c *Config) getBoolOr(path string, defaultValue bool) bool {
	v, err := c.GetBool(path)
	if err != nil {
		if err != ErrSettingNotFound {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

func (c *Config) getFloatOr(path string, defaultValue float64) float64 {
	v, err := c.GetFloat(path)
	if err != nil {
		if err != ErrSettingNotFound {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

// recordConfigError stores configuration errors for later retrieval.
// Only the first error for each path is recorded.
func (c *Config) recordConfigError(path string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.configErrors == nil {
		c.configErrors = make(map[string]error)
	}
	if _, exists := c.configErrors[path]; !exists {
		c.configErrors[path] = err
	}
}

// ConfigErrors returns any configuration errors encountered during access.
func (c *Config) ConfigErrors() map[string]error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.configErrors == nil {
		return nil
	}
	result := make(map[string]error, len(c.configErrors))
	for k, v := range c.configErrors {
		result[k] = v
	}
	return result
}

// ClearConfigErrors clears any stored configuration errors.
func (c *Config) ClearConfigErrors() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.configErrors = nil
}

// Validate reads every section and returns the first recorded error.
func (c *Config) Validate() error {
	c.Logging()
	c.Settings()
	c.Colors()
	errs := c.ConfigErrors()
	if len(errs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Errorf("config %s: %w", keys[0], errs[keys[0]])
}
