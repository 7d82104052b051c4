// Package config loads argmap settings from a TOML file.
//
// Every field has a default, so an empty or missing file is valid. Values
// present in the file replace the defaults; command-line flags are applied
// on top by the CLI.
//
//	[canvas]
//	width = 1200
//	height = 800
//	minimap = true
//
//	[layout]
//	solver = "sugiyama"
//	node_sep = 40
//	rank_sep = 80
//	timeout = "10s"
//
//	[expansion]
//	max_depth = 3
//	include_opposing = false
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
//	[source]
//	kind = "http"
//	url = "https://args.example.com/api"
//
//	[server]
//	addr = ":8080"
//	session_ttl = "30m"
package config

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/argmap/pkg/cache"
	"github.com/matzehuels/argmap/pkg/errors"
	"github.com/matzehuels/argmap/pkg/expand"
	"github.com/matzehuels/argmap/pkg/layout"
	"github.com/matzehuels/argmap/pkg/viewport"
)

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Neighborhood source kinds.
const (
	SourceNone  = "none"
	SourceHTTP  = "http"
	SourceMongo = "mongo"
	SourceFile  = "file"
)

// Layered layout solvers.
const (
	SolverGraphviz = "graphviz"
	SolverSugiyama = "sugiyama"
)

var (
	validCaches  = []string{CacheNone, CacheFile, CacheRedis}
	validSources = []string{SourceNone, SourceHTTP, SourceMongo, SourceFile}
	validSolvers = []string{SolverGraphviz, SolverSugiyama}
)

// Duration is a time.Duration written as a string ("30s", "5m") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config is the complete settings file.
type Config struct {
	Canvas    Canvas    `toml:"canvas"`
	Layout    Layout    `toml:"layout"`
	Viewport  Viewport  `toml:"viewport"`
	Expansion Expansion `toml:"expansion"`
	Cache     Cache     `toml:"cache"`
	Source    Source    `toml:"source"`
	Server    Server    `toml:"server"`
}

// Canvas sets the drawing surface.
type Canvas struct {
	Width   float64 `toml:"width"`
	Height  float64 `toml:"height"`
	Minimap bool    `toml:"minimap"`
}

// Layout selects the layered solver and sets its spacing and the time
// allowed per layout.
type Layout struct {
	Solver  string   `toml:"solver"`
	NodeSep float64  `toml:"node_sep"`
	RankSep float64  `toml:"rank_sep"`
	Timeout Duration `toml:"timeout"`
}

// Viewport sets the initial fit and wheel zoom.
type Viewport struct {
	ZoomOut     float64 `toml:"zoom_out"`
	Sensitivity float64 `toml:"sensitivity"`
}

// Expansion sets neighborhood filters and the depth limit.
type Expansion struct {
	MaxDepth           int  `toml:"max_depth"`
	Depth              int  `toml:"depth"`
	IncludeSupporting  bool `toml:"include_supporting"`
	IncludeOpposing    bool `toml:"include_opposing"`
	IncludePreferences bool `toml:"include_preferences"`
}

// Cache selects where neighborhood responses and layouts are cached.
type Cache struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url"`
	Prefix   string `toml:"prefix"`
}

// Source selects where neighborhoods come from.
type Source struct {
	Kind       string   `toml:"kind"`
	URL        string   `toml:"url"`
	Token      string   `toml:"token"`
	Database   string   `toml:"database"`
	Path       string   `toml:"path"`
	Retries    int      `toml:"retries"`
	RetryDelay Duration `toml:"retry_delay"`
}

// Server configures `argmap serve`.
type Server struct {
	Addr           string   `toml:"addr"`
	SessionTTL     Duration `toml:"session_ttl"`
	MaxSessions    int      `toml:"max_sessions"`
	RequestTimeout Duration `toml:"request_timeout"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Canvas: Canvas{Width: viewport.DefaultCanvasW, Height: viewport.DefaultCanvasH, Minimap: true},
		Layout: Layout{
			Solver:  SolverGraphviz,
			NodeSep: layout.DefaultNodeSep,
			RankSep: layout.DefaultRankSep,
			Timeout: Duration{10 * time.Second},
		},
		Viewport: Viewport{ZoomOut: viewport.DefaultZoomOut, Sensitivity: viewport.DefaultSensitivity},
		Expansion: Expansion{
			MaxDepth:           expand.DefaultMaxDepth,
			Depth:              1,
			IncludeSupporting:  true,
			IncludeOpposing:    true,
			IncludePreferences: true,
		},
		Cache: Cache{Backend: CacheFile, Prefix: cache.DefaultRedisPrefix},
		Source: Source{
			Kind:       SourceNone,
			Database:   "argmap",
			Retries:    3,
			RetryDelay: Duration{time.Second},
		},
		Server: Server{
			Addr:           ":8080",
			SessionTTL:     Duration{30 * time.Minute},
			MaxSessions:    1000,
			RequestTimeout: Duration{30 * time.Second},
		},
	}
}

// Load reads path over the defaults and validates the result. An empty
// path returns the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "open config")
	}
	defer f.Close()
	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads TOML from r over the defaults and validates the result.
// Unknown keys are rejected.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Encode writes cfg as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	switch {
	case c.Canvas.Width <= 0 || c.Canvas.Height <= 0:
		return invalid("canvas size must be positive, got %gx%g", c.Canvas.Width, c.Canvas.Height)
	case !slices.Contains(validSolvers, c.Layout.Solver):
		return invalid("layout solver %q (must be one of: %s)", c.Layout.Solver, strings.Join(validSolvers, ", "))
	case c.Layout.NodeSep < 0 || c.Layout.RankSep < 0:
		return invalid("layout spacing cannot be negative")
	case c.Layout.Timeout.Duration < 0:
		return invalid("layout timeout cannot be negative")
	case c.Viewport.ZoomOut < 1:
		return invalid("viewport zoom_out must be at least 1, got %g", c.Viewport.ZoomOut)
	case c.Viewport.Sensitivity <= 0:
		return invalid("viewport sensitivity must be positive")
	case c.Expansion.MaxDepth < 1:
		return invalid("expansion max_depth must be at least 1, got %d", c.Expansion.MaxDepth)
	case c.Expansion.Depth < 1:
		return invalid("expansion depth must be at least 1, got %d", c.Expansion.Depth)
	case !slices.Contains(validCaches, c.Cache.Backend):
		return invalid("cache backend %q (must be one of: %s)", c.Cache.Backend, strings.Join(validCaches, ", "))
	case c.Cache.Backend == CacheRedis && c.Cache.RedisURL == "":
		return invalid("cache backend redis requires redis_url")
	case !slices.Contains(validSources, c.Source.Kind):
		return invalid("source kind %q (must be one of: %s)", c.Source.Kind, strings.Join(validSources, ", "))
	case c.Source.Retries < 1:
		return invalid("source retries must be at least 1")
	case c.Server.SessionTTL.Duration <= 0:
		return invalid("server session_ttl must be positive")
	case c.Server.MaxSessions < 1:
		return invalid("server max_sessions must be at least 1")
	}

	switch c.Source.Kind {
	case SourceHTTP:
		if err := errors.ValidateURL(c.Source.URL); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "source url")
		}
	case SourceMongo:
		if c.Source.URL == "" || c.Source.Database == "" {
			return invalid("source kind mongo requires url and database")
		}
	case SourceFile:
		if c.Source.Path == "" {
			return invalid("source kind file requires path")
		}
	}
	return nil
}

// Spacing returns the layout gaps.
func (c Config) Spacing() layout.Spacing {
	return layout.Spacing{NodeSep: c.Layout.NodeSep, RankSep: c.Layout.RankSep}
}

// Filters returns the neighborhood filters.
func (c Config) Filters() expand.Filters {
	return expand.Filters{
		Depth:              c.Expansion.Depth,
		IncludeSupporting:  c.Expansion.IncludeSupporting,
		IncludeOpposing:    c.Expansion.IncludeOpposing,
		IncludePreferences: c.Expansion.IncludePreferences,
	}
}

// CanvasSize returns the canvas.
func (c Config) CanvasSize() viewport.Canvas {
	return viewport.Canvas{Width: c.Canvas.Width, Height: c.Canvas.Height}
}

func invalid(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidConfig, format, args...)
}
