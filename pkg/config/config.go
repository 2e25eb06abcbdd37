// Package config loads kgviz settings from TOML.
//
// A config file may override any subset of the defaults; keys it omits keep
// their default values:
//
//	[canvas]
//	width = 1000
//
//	[layout.size]
//	max = 18.0
//
//	[layout.node_colors]
//	author = "#ff0000"
//
//	[theme]
//	background = "#ffffff"
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
package config

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	kerrors "github.com/matzehuels/kgviz/pkg/errors"
	"github.com/matzehuels/kgviz/pkg/layout"
	"github.com/matzehuels/kgviz/pkg/render"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// File is the top-level config document.
type File struct {
	Canvas CanvasConfig  `toml:"canvas"`
	Layout layout.Config `toml:"layout"`
	Theme  render.Theme  `toml:"theme"`
	Cache  CacheConfig   `toml:"cache"`
}

// CanvasConfig sets the default canvas size for render and explore.
type CanvasConfig struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"` // file backend; empty means the user cache dir
	RedisURL string `toml:"redis_url"`
	Prefix   string `toml:"prefix"` // redis key prefix
}

// Default returns the built-in configuration.
func Default() File {
	return File{
		Canvas: CanvasConfig{Width: layout.DefaultWidth, Height: layout.DefaultHeight},
		Layout: layout.DefaultConfig(),
		Theme:  render.DefaultTheme(),
		Cache:  CacheConfig{Backend: CacheFile},
	}
}

// Load reads path over the defaults. Unknown keys are an error so typos do
// not silently fall back to defaults.
func Load(path string) (File, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return File{}, kerrors.New(kerrors.ErrCodeFileNotFound, "config file %s not found", path)
	}
	if err != nil {
		return File{}, kerrors.Wrap(kerrors.ErrCodeInvalidConfig, err, "open config %s", path)
	}
	defer f.Close()
	cfg, err := Decode(f)
	if err != nil {
		return File{}, kerrors.Wrap(kerrors.ErrCodeInvalidConfig, err, "load config %s", path)
	}
	return cfg, nil
}

// Decode reads TOML from r over the defaults and validates the result.
func Decode(r io.Reader) (File, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return File{}, kerrors.Wrap(kerrors.ErrCodeInvalidConfig, err, "decode toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return File{}, kerrors.New(kerrors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return File{}, err
	}
	return cfg, nil
}

// Write encodes cfg as TOML.
func Write(w io.Writer, cfg File) error {
	return toml.NewEncoder(w).Encode(cfg)
}

// Validate checks ranges that would make the layout meaningless.
func (f File) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, kerrors.New(kerrors.ErrCodeInvalidConfig, format, args...))
		}
	}

	s := f.Layout.Size
	check(s.Min > 0, "layout.size.min must be positive, got %g", s.Min)
	check(s.Min <= s.Max, "layout.size.min %g exceeds max %g", s.Min, s.Max)
	check(s.BaseMin <= s.BaseMax, "layout.size.base_min %g exceeds base_max %g", s.BaseMin, s.BaseMax)
	e := f.Layout.Edge
	check(e.WidthMin > 0 && e.WidthMin <= e.WidthMax, "layout.edge width range [%g, %g] is invalid", e.WidthMin, e.WidthMax)
	check(f.Canvas.Width >= 0 && f.Canvas.Height >= 0, "canvas size must not be negative")
	check(f.Theme.MinLabelScale >= 0, "theme.min_label_scale must not be negative")

	switch f.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		check(f.Cache.RedisURL != "", "cache.redis_url is required for the redis backend")
	default:
		check(false, "unknown cache backend %q (want file, redis or none)", f.Cache.Backend)
	}

	if len(errs) == 0 {
		return nil
	}
	return kerrors.Join(kerrors.ErrCodeInvalidConfig, "invalid config", errs...)
}
