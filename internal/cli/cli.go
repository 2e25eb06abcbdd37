// Package cli implements the kgviz command-line interface.
//
// # Commands
//
//   - render: filter, lay out and draw a graph snapshot to SVG, PNG, PDF,
//     JSON, DOT or Graphviz SVG
//   - export: write the JSON export of the filtered, laid-out graph
//   - explore: interactive terminal session driving the interaction
//     controller (search, type filters, selection, shapes, zoom)
//   - cache: manage the artifact cache
//   - config: print the effective configuration
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging via
// charmbracelet/log.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/kgviz/pkg/buildinfo"
	"github.com/matzehuels/kgviz/pkg/cache"
	"github.com/matzehuels/kgviz/pkg/config"
	"github.com/matzehuels/kgviz/pkg/observability"
	"github.com/matzehuels/kgviz/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "kgviz"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath  string
	metricsFile string
	cfg         config.File
	metrics     *observability.Registry
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "kgviz renders and explores knowledge graphs",
		Long: `kgviz turns knowledge-graph snapshots (entities such as authors, brands,
topics and locations, plus their relations) into node-link drawings.

It filters by search text and entity/relation type, sizes nodes by
confidence and engagement, and renders SVG, PNG, PDF, JSON and DOT output.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return c.setup() },
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.flushMetrics()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "TOML config file overriding layout, theme and cache settings")
	root.PersistentFlags().StringVar(&c.metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), buildinfo.String())
		},
	})

	return root
}

// setup loads the config file and registers metrics hooks.
func (c *CLI) setup() error {
	if c.configPath != "" {
		cfg, err := config.Load(c.configPath)
		if err != nil {
			return err
		}
		c.cfg = cfg
		c.Logger.Debug("loaded config", "path", c.configPath)
	}
	if c.metricsFile != "" && c.metrics == nil {
		c.metrics = observability.NewRegistry()
		observability.SetPipelineHooks(c.metrics)
		observability.SetCacheHooks(c.metrics)
		observability.SetInteractionHooks(c.metrics)
	}
	return nil
}

// flushMetrics writes the metrics textfile if one was requested.
func (c *CLI) flushMetrics() error {
	if c.metrics == nil || c.metricsFile == "" {
		return nil
	}
	if err := c.metrics.WriteTextfile(c.metricsFile); err != nil {
		c.Logger.Warn("write metrics", "path", c.metricsFile, "err", err)
		return nil
	}
	c.Logger.Debug("wrote metrics", "path", c.metricsFile)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, nil, c.Logger), nil
}

// newCache opens the configured cache backend. A cache that cannot be
// opened degrades to no caching with a warning.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache || c.cfg.Cache.Backend == config.CacheNone {
		return cache.NewNullCache(), nil
	}
	if c.cfg.Cache.Backend == config.CacheRedis {
		rc, err := cache.NewRedisCache(c.cfg.Cache.RedisURL, c.cfg.Cache.Prefix)
		if err != nil {
			return nil, err
		}
		if err := rc.Ping(ctx); err != nil {
			c.Logger.Debug("redis ping failed", "err", err)
			printWarning("Redis cache unavailable, caching disabled")
			_ = rc.Close()
			return cache.NewNullCache(), nil
		}
		return rc, nil
	}
	dir, err := c.fileCacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// fileCacheDir returns the configured file cache directory or the XDG
// default.
func (c *CLI) fileCacheDir() (string, error) {
	if c.cfg.Cache.Dir != "" {
		return c.cfg.Cache.Dir, nil
	}
	return cacheDir()
}

// cacheDir returns the cache directory using XDG standard (~/.cache/kgviz/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// applyConfig copies config-file settings into pipeline options. Flags
// that were set explicitly win over the config canvas size.
func (c *CLI) applyConfig(cmd *cobra.Command, opts *pipeline.Options) {
	layoutCfg := c.cfg.Layout
	theme := c.cfg.Theme
	opts.Layout = &layoutCfg
	opts.Theme = &theme
	opts.Logger = c.Logger
	if !cmd.Flags().Changed("width") && c.cfg.Canvas.Width > 0 {
		opts.Width = c.cfg.Canvas.Width
	}
	if !cmd.Flags().Changed("height") && c.cfg.Canvas.Height > 0 {
		opts.Height = c.cfg.Canvas.Height
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return parseList(s)
}

// parseList splits a comma-separated flag value, dropping empty entries.
func parseList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
