package config

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dshills/conmenu/internal/config/loader"
	"github.com/dshills/conmenu/internal/menu"
)

// Layer names in ascending priority.
const (
	LayerDefaults = "defaults"
	LayerFile     = "file"
	LayerEnv      = "env"
	LayerArgs     = "args"
)

// Config provides layered access to conmenu's configuration.
type Config struct {
	mu sync.RWMutex

	path string
	fs   loader.FileSystem
	env  *loader.EnvLoader

	// layers in ascending priority
	defaults map[string]any
	file     map[string]any
	environ  map[string]any
	args     map[string]any

	merged map[string]any

	// configErrors stores errors encountered during configuration access.
	configErrors map[string]error
}

// Option configures a Config instance.
type Option func(*Config)

// WithPath sets the configuration file path. An empty path loads no file.
func WithPath(path string) Option {
	return func(c *Config) {
		c.path = path
	}
}

// WithFileSystem sets the file system config files are read from.
func WithFileSystem(fs loader.FileSystem) Option {
	return func(c *Config) {
		if fs != nil {
			c.fs = fs
		}
	}
}

// WithEnvLoader replaces the environment variable loader.
func WithEnvLoader(l *loader.EnvLoader) Option {
	return func(c *Config) {
		c.env = l
	}
}

// New creates a new Config holding only the built-in defaults.
func New(opts ...Option) *Config {
	c := &Config{
		fs:       loader.DefaultFS(),
		env:      loader.NewEnvLoader(loader.EnvPrefix),
		defaults: defaultConfig(),
		args:     make(map[string]any),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.merge()
	return c
}

// Load reads the config file and environment. A missing file leaves the
// defaults in place; a malformed one returns a *ParseError and keeps the
// previously loaded file layer.
func (c *Config) Load(_ context.Context) error {
	file, err := c.loadFile()
	if err != nil {
		return err
	}

	var environ map[string]any
	if c.env != nil {
		environ, err = c.env.Load()
		if err != nil {
			return fmt.Errorf("loading environment: %w", err)
		}
	}

	c.mu.Lock()
	c.file = file
	c.environ = environ
	c.configErrors = nil
	c.merge()
	c.mu.Unlock()
	return nil
}

// Reload re-reads the config file, keeping environment and argument layers.
func (c *Config) Reload() error {
	file, err := c.loadFile()
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.file = file
	c.configErrors = nil
	c.merge()
	c.mu.Unlock()
	return nil
}

func (c *Config) loadFile() (map[string]any, error) {
	if c.path == "" {
		return nil, nil
	}
	l, err := loader.ForPath(c.fs, c.path)
	if err != nil {
		return nil, err
	}
	return l.Load()
}

// Path returns the configuration file path.
func (c *Config) Path() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.path
}

// Get returns the value at the given path from the merged configuration.
func (c *Config) Get(path string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return loader.GetPath(c.merged, path)
}

// GetString returns a string value at the given path.
func (c *Config) GetString(path string) (string, error) {
	v, ok := c.Get(path)
	if !ok {
		return "", ErrSettingNotFound
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

// GetInt returns an integer value at the given path.
func (c *Config) GetInt(path string) (int, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case float64:
		return int(val), nil
	default:
		return 0, &TypeError{Path: path, Expected: "int", Actual: typeName(v)}
	}
}

// GetBool returns a boolean value at the given path. The integers 0 and 1
// are accepted for environment overrides such as CONMENU_MOUSE=1.
func (c *Config) GetBool(path string) (bool, error) {
	v, ok := c.Get(path)
	if !ok {
		return false, ErrSettingNotFound
	}
	switch val := v.(type) {
	case bool:
		return val, nil
	case int64:
		if val == 0 || val == 1 {
			return val == 1, nil
		}
	case int:
		if val == 0 || val == 1 {
			return val == 1, nil
		}
	}
	return false, &TypeError{Path: path, Expected: "bool", Actual: typeName(v)}
}

// GetFloat returns a float64 value at the given path.
func (c *Config) GetFloat(path string) (float64, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int:
		return float64(val), nil
	case int64:
		return float64(val), nil
	default:
		return 0, &TypeError{Path: path, Expected: "float64", Actual: typeName(v)}
	}
}

// GetStringSlice returns a string slice at the given path. A single
// comma-separated string is split.
func (c *Config) GetStringSlice(path string) ([]string, error) {
	v, ok := c.Get(path)
	if !ok {
		return nil, ErrSettingNotFound
	}

	switch val := v.(type) {
	case []string:
		result := make([]string, len(val))
		copy(result, val)
		return result, nil
	case []any:
		result := make([]string, len(val))
		for i, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, &TypeError{Path: path, Expected: "[]string", Actual: typeName(v)}
			}
			result[i] = s
		}
		return result, nil
	case string:
		if strings.TrimSpace(val) == "" {
			return nil, nil
		}
		parts := strings.Split(val, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts, nil
	default:
		return nil, &TypeError{Path: path, Expected: "[]string", Actual: typeName(v)}
	}
}

// Set sets a value at the given path in the command line layer.
func (c *Config) Set(path string, value any) error {
	if path == "" || strings.HasPrefix(path, ".") || strings.HasSuffix(path, ".") || strings.Contains(path, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	loader.SetPath(c.args, path, value)
	c.merge()
	return nil
}

// Merged returns a copy of the fully merged configuration.
func (c *Config) Merged() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return loader.Clone(c.merged)
}

// Layer returns a copy of the named layer, or nil if it is empty.
func (c *Config) Layer(name string) map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	switch name {
	case LayerDefaults:
		return loader.Clone(c.defaults)
	case LayerFile:
		return loader.Clone(c.file)
	case LayerEnv:
		return loader.Clone(c.environ)
	case LayerArgs:
		return loader.Clone(c.args)
	default:
		return nil
	}
}

// merge rebuilds the merged view. Callers hold c.mu.
func (c *Config) merge() {
	merged := make(map[string]any)
	for _, layer := range []map[string]any{c.defaults, c.file, c.environ, c.args} {
		if layer != nil {
			merged = loader.DeepMerge(merged, layer)
		}
	}
	c.merged = merged
}

// defaultConfig returns the built-in defaults layer.
func defaultConfig() map[string]any {
	s := menu.DefaultSettings()
	return map[string]any{
		"logging": map[string]any{
			"level": "info",
			"file":  "",
		},
		"settings": map[string]any{
			"mouse":        s.Mouse,
			"header":       s.Header,
			"footer":       s.Footer,
			"double_width": s.DoubleWidth,
			"force_legacy": s.ForceLegacy,
			"center_x":     s.Center.X,
			"center_y":     s.Center.Y,
		},
	}
}

// typeName returns the type name for error messages.
func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	switch v.(type) {
	case string:
		return "string"
	case int, int64:
		return "int"
	case float64:
		return "float64"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	case []any:
		return "[]any"
	case map[string]any:
		return "map"
	default:
		return fmt.Sprintf("%T", v)
	}
}
