package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/matzehuels/taskorder/internal/config"
	"github.com/matzehuels/taskorder/pkg/buildinfo"
	"github.com/matzehuels/taskorder/pkg/cache"
	"github.com/matzehuels/taskorder/pkg/planner"
	"github.com/matzehuels/taskorder/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "taskorder"

	// defaultProject is the project ID used when none is given.
	defaultProject = "local"
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

	// Fs is used for task files, config and cache maintenance.
	Fs afero.Fs

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Fs:     afero.NewOsFs(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "taskorder computes a valid execution order for dependent tasks",
		Long:         `taskorder reads a list of tasks with their prerequisites and prints an order in which every task comes after everything it depends on. It can also render the dependency graph and serve the same resolver over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/taskorder/config.toml)")

	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config & Planner Factory
// =============================================================================

// loadConfig reads .env, the config file and environment overrides.
func (c *CLI) loadConfig() (*config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		c.Logger.Warn("ignoring .env", "error", err)
	}
	return config.Load(c.Fs, c.configPath)
}

// newPlanner creates a planner for local CLI use. History is not recorded
// locally; the cache follows the config unless noCache is set. The returned
// func releases the cache.
func (c *CLI) newPlanner(ctx context.Context, cfg *config.Config, noCache bool) (*planner.Planner, func()) {
	var ch cache.Cache = cache.NewNullCache()
	if !noCache {
		opened, err := cfg.Cache.OpenCache(ctx, c.Fs)
		if err != nil {
			c.Logger.Warn("cache unavailable, continuing without", "backend", cfg.Cache.Backend, "error", err)
		} else {
			ch = opened
		}
	}

	p := planner.NewPlanner(ch, store.NewNullStore(), c.Logger)
	if cfg.Cache.TTL > 0 {
		p.TTL = cfg.Cache.TTL
	}
	return p, func() { _ = ch.Close() }
}
