// Package config loads formdeck's TOML configuration file.
//
// Configuration is optional: every field has a default and the file may be
// absent entirely. Command-line flags override file values, which override
// defaults. The default location is ~/.config/formdeck/config.toml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/formdeck/formdeck/pkg/errors"
)

// Config is the top-level configuration.
type Config struct {
	Editor  Editor   `toml:"editor"`
	Server  Server   `toml:"server"`
	Storage Storage  `toml:"storage"`
	Cache   CacheCfg `toml:"cache"`
}

// Editor holds drag-and-drop tunables. Zero values mean "use the default".
type Editor struct {
	// EdgeRatio is the fraction of an item's height used for the
	// before/after edge zones.
	EdgeRatio float64 `toml:"edge_ratio"`

	// MinEdge and MaxEdge clamp the edge zone, in canvas units.
	MinEdge float64 `toml:"min_edge"`
	MaxEdge float64 `toml:"max_edge"`

	// HysteresisRatio widens the band a pointer must leave before the
	// highlighted target flips.
	HysteresisRatio float64 `toml:"hysteresis_ratio"`

	// CommitDelayMS is the debounce before a new target is committed.
	CommitDelayMS int `toml:"commit_delay_ms"`

	// UndoLimit is the number of undo steps kept.
	UndoLimit int `toml:"undo_limit"`
}

// Server configures the embedded HTTP server.
type Server struct {
	Addr string `toml:"addr"`
}

// Storage selects and configures the document store backend.
type Storage struct {
	// Backend is "file", "memory" or "mongo".
	Backend string `toml:"backend"`

	// Dir is the document directory for the file backend.
	// Empty means ~/.config/formdeck/documents.
	Dir string `toml:"dir"`

	// MongoURI and MongoDatabase configure the mongo backend.
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// CacheCfg selects and configures the artifact cache backend.
type CacheCfg struct {
	// Backend is "memory", "file", "redis" or "none".
	Backend string `toml:"backend"`

	// Dir is the cache directory for the file backend.
	Dir string `toml:"dir"`

	// RedisAddr, RedisPassword and RedisDB configure the redis backend.
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	// TTLMinutes is how long cached artifacts live. 0 means one hour.
	TTLMinutes int `toml:"ttl_minutes"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Editor: Editor{
			EdgeRatio:       0.25,
			MinEdge:         20,
			MaxEdge:         48,
			HysteresisRatio: 0.5,
			CommitDelayMS:   40,
			UndoLimit:       100,
		},
		Server:  Server{Addr: "localhost:8311"},
		Storage: Storage{Backend: "file"},
		Cache:   CacheCfg{Backend: "memory", TTLMinutes: 60},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "formdeck", "config.toml"), nil
}

// Load reads the config file at path, filling unset fields with defaults.
// A missing file is not an error; it yields [Default]. An empty path means
// [DefaultPath].
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints the TOML decoder cannot.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case "file", "memory", "mongo":
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown storage backend %q", c.Storage.Backend)
	}
	switch c.Cache.Backend {
	case "memory", "file", "redis", "none":
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Storage.Backend == "mongo" && c.Storage.MongoURI == "" {
		return errors.New(errors.ErrCodeInvalidInput, "storage backend mongo requires mongo_uri")
	}
	if c.Cache.Backend == "redis" && c.Cache.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidInput, "cache backend redis requires redis_addr")
	}
	if c.Editor.EdgeRatio <= 0 || c.Editor.EdgeRatio > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "edge_ratio must be in (0, 1]")
	}
	return nil
}

// CommitDelay returns the editor debounce as a duration.
func (e Editor) CommitDelay() time.Duration {
	return time.Duration(e.CommitDelayMS) * time.Millisecond
}

// TTL returns the cache TTL as a duration.
func (c CacheCfg) TTL() time.Duration {
	if c.TTLMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(c.TTLMinutes) * time.Minute
}
