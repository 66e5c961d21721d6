// Package cli implements the formdeck command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/formdeck/formdeck/pkg/buildinfo"
	"github.com/formdeck/formdeck/pkg/cache"
	"github.com/formdeck/formdeck/pkg/config"
	"github.com/formdeck/formdeck/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "formdeck"
)

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
	Logger     *log.Logger
	ConfigPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "formdeck",
		Short:        "Formdeck builds forms by drag and drop in the terminal",
		Long:         `Formdeck is a terminal form builder. Drag widgets from a palette onto a canvas, nest them in groups and rows, and export the result as HTML or a structural diagram.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default ~/.config/formdeck/config.toml)")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	}

	// Register all subcommands
	root.AddCommand(c.editCommand())
	root.AddCommand(c.newCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.deleteCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Backend Factories
// =============================================================================

// loadConfig reads the config file named by --config, or the default one.
func (c *CLI) loadConfig() (config.Config, error) {
	return config.Load(c.ConfigPath)
}

// newStore builds the document store the config selects.
func (c *CLI) newStore(cmd *cobra.Command, cfg config.Config) (store.Store, error) {
	switch cfg.Storage.Backend {
	case "memory":
		return store.NewMemoryStore(), nil
	case "mongo":
		return store.NewMongoStore(cmd.Context(), cfg.Storage.MongoURI, mongoDatabase(cfg))
	default:
		return store.NewFileStore(cfg.Storage.Dir)
	}
}

// newCache builds the artifact cache the config selects. Backend failures
// degrade to no caching rather than failing the command.
func (c *CLI) newCache(cmd *cobra.Command, cfg config.Config) cache.Cache {
	switch cfg.Cache.Backend {
	case "none":
		return cache.NewNullCache()
	case "file":
		dir := cfg.Cache.Dir
		if dir == "" {
			d, err := cacheDir()
			if err != nil {
				return cache.NewNullCache()
			}
			dir = d
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			c.Logger.Warn("file cache unavailable, caching disabled", "err", err)
			return cache.NewNullCache()
		}
		return fc
	case "redis":
		rc, err := cache.NewRedisCache(cmd.Context(), cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
		if err != nil {
			c.Logger.Warn("redis unavailable, caching disabled", "err", err)
			return cache.NewNullCache()
		}
		return rc
	default:
		return cache.NewMemoryCache()
	}
}

func mongoDatabase(cfg config.Config) string {
	if cfg.Storage.MongoDatabase != "" {
		return cfg.Storage.MongoDatabase
	}
	return appName
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/formdeck/).
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
