// Package cli implements the bpm command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/badtechnologies/bpm/pkg/buildinfo"
	"github.com/badtechnologies/bpm/pkg/cache"
	"github.com/badtechnologies/bpm/pkg/errors"
	bplclient "github.com/badtechnologies/bpm/pkg/integrations/bpl"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "bpm"

	// Cache backends accepted by --cache.
	cacheFile  = "file"
	cacheRedis = "redis"
	cacheNone  = "none"
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
	Logger *log.Logger

	v      *viper.Viper
	in     io.Reader
	out    io.Writer
	errOut io.Writer // spinners and prompts that must not mix with output
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		v:      newViper(),
		in:     os.Stdin,
		out:    os.Stdout,
		errOut: w,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:          appName,
		Short:        "bpm installs and searches BadOS packages",
		Long:         `bpm is the package manager for BadOS. It installs packages from a BPL package library into the bdsh exec directory and serves a searchable package portal.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(configFile); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (default $XDG_CONFIG_HOME/bpm/config.toml)")
	root.PersistentFlags().String(keyRepo, "", "package library as owner/repo/branch")
	root.PersistentFlags().String(keyExecDir, "", "directory package binaries are installed into")
	root.PersistentFlags().String(keyCache, "", "cache backend: file, redis or none")
	root.PersistentFlags().Duration(keyCacheTTL, 0, "how long library responses are cached")
	root.PersistentFlags().String(keyRedisAddr, "", "redis address for --cache=redis")
	root.PersistentFlags().String(keyGitHubToken, "", "GitHub token for library requests")
	root.PersistentFlags().String(keyCatalog, "", "TOML seed file to use instead of the package library")
	c.bindFlags(root)

	root.AddCommand(c.installCommand())
	root.AddCommand(c.removeCommand())
	root.AddCommand(c.searchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Factories
// =============================================================================

// newCache opens the configured cache backend. A file cache that cannot
// locate its directory degrades to no caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cfg := c.config()
	switch cfg.Cache {
	case cacheNone:
		return cache.NewNullCache(), nil
	case cacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{Addr: cfg.RedisAddr, Prefix: appName + ":"})
	case cacheFile, "":
		dir, err := cacheDir()
		if err != nil {
			c.Logger.Debug("cache dir unavailable, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q (want file, redis or none)", cfg.Cache)
	}
}

// newLibrary creates a client for the configured package library.
func (c *CLI) newLibrary(ctx context.Context, noCache bool) (*bplclient.Client, cache.Cache, error) {
	cfg := c.config()
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, nil, err
	}
	client, err := bplclient.NewClient(bplclient.Options{
		Repo:     cfg.Repo,
		Token:    cfg.GitHubToken,
		Cache:    cc,
		CacheTTL: cfg.CacheTTL,
	})
	if err != nil {
		cc.Close()
		return nil, nil, err
	}
	return client, cc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/bpm/).
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

// configDir returns the config directory (~/.config/bpm/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
