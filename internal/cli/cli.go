// Package cli implements the palletcut command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/piwi3910/PalletCut/internal/cache"
	"github.com/piwi3910/PalletCut/internal/model"
	"github.com/piwi3910/PalletCut/internal/project"
)

// appName is the application name used for directories and display.
const appName = "palletcut"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath is the app config file. Empty selects the default path.
	ConfigPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
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
		Short: "PalletCut finds the most boxes that fit on a pallet",
		Long: `PalletCut loads identical rectangular boxes onto a rectangular pallet.
Each box may be turned by 90 degrees. The solver combines the Five-Block
and L-Block recursive partitioning algorithms and reports whether the
layout found is proven optimal.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(log.WithContext(commandContext(cmd), c.Logger))
			return nil
		},
	}

	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default ~/.palletcut/config.json)")

	root.AddCommand(c.solveCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.compareCommand())
	root.AddCommand(c.projectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())

	return root
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func (c *CLI) configPath() string {
	if c.ConfigPath != "" {
		return c.ConfigPath
	}
	return project.DefaultConfigPath()
}

func (c *CLI) loadConfig() (model.AppConfig, error) {
	return project.LoadAppConfig(c.configPath())
}

// settings returns the cut settings seeded from the app config.
func (c *CLI) settings() (model.CutSettings, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return model.CutSettings{}, err
	}
	s := model.DefaultSettings()
	cfg.ApplyToSettings(&s)
	if err := project.LoadCustomProfilesInto(c.profilesPath()); err != nil {
		c.Logger.Warn("custom profiles not loaded", "err", err)
	}
	return s, nil
}

// newCache opens the configured result cache, or no cache at all when the
// backend cannot be reached.
func (c *CLI) newCache(ctx context.Context, noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	cfg, err := c.loadConfig()
	if err != nil {
		c.Logger.Warn("config unreadable, caching disabled", "err", err)
		return cache.NewNullCache()
	}
	kind := cfg.CacheBackend
	dir := cfg.CacheDir
	if dir == "" {
		if dir, err = cacheDir(); err != nil {
			return cache.NewNullCache()
		}
	}
	cc, err := cache.New(ctx, kind, dir, cfg.RedisAddr)
	if err != nil {
		c.Logger.Warn("cache unavailable", "backend", kind, "err", err)
		return cache.NewNullCache()
	}
	return cc
}

// cacheDir returns the cache directory using XDG standard (~/.cache/palletcut/).
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
