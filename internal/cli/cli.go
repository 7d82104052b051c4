// Package cli implements the argmap command-line interface.
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

	"github.com/matzehuels/argmap/pkg/argument"
	"github.com/matzehuels/argmap/pkg/buildinfo"
	"github.com/matzehuels/argmap/pkg/cache"
	"github.com/matzehuels/argmap/pkg/config"
	"github.com/matzehuels/argmap/pkg/diagram"
	"github.com/matzehuels/argmap/pkg/errors"
	"github.com/matzehuels/argmap/pkg/expand"
	"github.com/matzehuels/argmap/pkg/layout"
	"github.com/matzehuels/argmap/pkg/layout/graphviz"
	"github.com/matzehuels/argmap/pkg/layout/sugiyama"
	"github.com/matzehuels/argmap/pkg/neighborhood"
	"github.com/matzehuels/argmap/pkg/neighborhood/mongostore"
	"github.com/matzehuels/argmap/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "argmap"

	// configFile is looked up in the user config directory when --config is
	// not given.
	configFile = "config.toml"
)

// Log levels for [New].
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

	logOut     io.Writer
	configPath string
	verbose    bool
	cfg        config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		logOut: w,
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level. At debug level engine events
// (layouts, expansions, cache and HTTP traffic, sessions) are logged too.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		observability.Register(observability.NewLogHooks(c.Logger))
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "argmap lays out and explores argument maps",
		Long: `argmap renders argument structures (premise/conclusion trees and AIF graphs)
as node-link diagrams, and lets you explore them by expanding inference nodes
with their neighborhoods from an argument source.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// The level is set first so config loading is logged.
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ~/.config/argmap/config.toml if present)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log engine events (layouts, expansions, cache and HTTP traffic)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads --config, or the default config file when it exists.
func (c *CLI) loadConfig() error {
	path := c.configPath
	if path == "" {
		dir, err := configDir()
		if err == nil {
			candidate := filepath.Join(dir, configFile)
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}
	c.cfg = cfg
	return nil
}

// =============================================================================
// Component Factories
// =============================================================================

// openCache returns the configured response and layout cache.
func (c *CLI) openCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.cfg.Cache.Backend {
	case config.CacheRedis:
		rc, err := cache.DialRedis(ctx, c.cfg.Cache.RedisURL, c.cfg.Cache.Prefix)
		if err != nil {
			return nil, fmt.Errorf("connect to redis cache: %w", err)
		}
		return rc, nil
	case config.CacheFile:
		dir, err := c.fileCacheDir()
		if err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "error", err)
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	default:
		return cache.NewNullCache(), nil
	}
}

// openSource returns the configured neighborhood source, or nil when
// expansion is disabled. The returned function releases the source.
func (c *CLI) openSource(ctx context.Context, ch cache.Cache) (expand.Fetcher, func(), error) {
	src := c.cfg.Source
	noop := func() {}
	switch src.Kind {
	case config.SourceHTTP:
		opts := []neighborhood.Option{
			neighborhood.WithCache(ch, nil),
			neighborhood.WithRetry(src.Retries, src.RetryDelay.Duration),
			neighborhood.WithLogger(c.Logger),
		}
		if src.Token != "" {
			opts = append(opts, neighborhood.WithHeaders(map[string]string{"Authorization": "Bearer " + src.Token}))
		}
		client, err := neighborhood.NewClient(src.URL, opts...)
		if err != nil {
			return nil, noop, err
		}
		return client, noop, nil
	case config.SourceMongo:
		store, err := mongostore.Open(ctx, src.URL, src.Database)
		if err != nil {
			return nil, noop, err
		}
		return store, func() { store.Close(context.Background()) }, nil
	case config.SourceFile:
		p, err := argument.ReadPayloadFile(src.Path)
		if err != nil {
			return nil, noop, errors.Wrap(errors.ErrCodeInvalidPayload, err, "read source graph")
		}
		g, err := p.Graph()
		if err != nil {
			return nil, noop, errors.Wrap(errors.ErrCodeInvalidPayload, err, "read source graph")
		}
		return neighborhood.NewMemory(g), noop, nil
	default:
		return nil, noop, nil
	}
}

// newEngine creates a layout engine backed by the configured solver.
func (c *CLI) newEngine(ch cache.Cache) *layout.Engine {
	sp := c.cfg.Spacing()
	var solver layout.Solver = graphviz.New(sp)
	if c.cfg.Layout.Solver == config.SolverSugiyama {
		solver = sugiyama.New(sp)
	}
	return layout.NewEngine(solver, sp, ch, c.Logger)
}

// diagramOptions maps the config onto diagram options.
func (c *CLI) diagramOptions(engine *layout.Engine, fetcher expand.Fetcher) diagram.Options {
	return diagram.Options{
		Engine:      engine,
		Fetcher:     fetcher,
		Filters:     c.cfg.Filters(),
		MaxDepth:    c.cfg.Expansion.MaxDepth,
		Canvas:      c.cfg.CanvasSize(),
		ZoomOut:     c.cfg.Viewport.ZoomOut,
		Sensitivity: c.cfg.Viewport.Sensitivity,
		Minimap:     c.cfg.Canvas.Minimap,
		Logger:      c.Logger,
	}
}

// workspace bundles what a command needs to drive one diagram.
type workspace struct {
	diagram *diagram.Diagram
	cache   cache.Cache
	release func()
}

func (s *workspace) Close() {
	s.diagram.Close()
	s.release()
	s.cache.Close()
}

// openDiagram loads input and builds a diagram wired to the configured
// cache and source.
func (c *CLI) openDiagram(ctx context.Context, input string, noCache bool, opts func(*diagram.Options)) (*workspace, error) {
	p, err := argument.ReadPayloadFile(input)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPayload, err, "load %s", input)
	}
	ch, err := c.openCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	fetcher, release, err := c.openSource(ctx, ch)
	if err != nil {
		ch.Close()
		return nil, err
	}

	o := c.diagramOptions(c.newEngine(ch), fetcher)
	if opts != nil {
		opts(&o)
	}

	lctx, cancel := c.layoutContext(ctx)
	defer cancel()
	d, err := diagram.New(lctx, p, o)
	if err != nil {
		release()
		ch.Close()
		return nil, err
	}
	return &workspace{diagram: d, cache: ch, release: release}, nil
}

// layoutContext bounds a layout by the configured timeout.
func (c *CLI) layoutContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if t := c.cfg.Layout.Timeout.Duration; t > 0 {
		return context.WithTimeout(ctx, t)
	}
	return context.WithCancel(ctx)
}

// =============================================================================
// Paths
// =============================================================================

func cacheDir() (string, error)  { return xdgDir("XDG_CACHE_HOME", ".cache") }
func configDir() (string, error) { return xdgDir("XDG_CONFIG_HOME", ".config") }

// xdgDir resolves the argmap directory under $env, falling back to
// ~/fallback when the variable is unset.
func xdgDir(env, fallback string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// splitList parses a comma-separated flag value, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
