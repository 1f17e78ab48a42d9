package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/taskorder/internal/server"
	"github.com/matzehuels/taskorder/pkg/buildinfo"
	"github.com/matzehuels/taskorder/pkg/planner"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the scheduling HTTP API",
		Long: `Run the scheduling HTTP API.

POST /api/v1/projects/{projectId}/schedule accepts {"tasks": [...]} and
returns {"recommendedOrder": [...]}. Cache and history backends come from the
[cache] and [store] config sections (or TASKORDER_* environment variables).
The server shuts down gracefully on SIGINT or SIGTERM.`,
		Example: `  taskorder serve
  taskorder serve --addr :9090
  TASKORDER_CACHE_BACKEND=redis TASKORDER_REDIS_ADDR=localhost:6379 taskorder serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides [server] addr)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if !c.verbose {
		c.SetLogLevel(cfg.Level())
	}

	ch, err := cfg.Cache.OpenCache(ctx, c.Fs)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer ch.Close()

	st, err := cfg.Store.OpenStore(ctx)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		// ctx is already cancelled once the server has stopped.
		if err := st.Close(context.WithoutCancel(ctx)); err != nil {
			c.Logger.Warn("close store", "error", err)
		}
	}()

	p := planner.NewPlanner(ch, st, c.Logger)
	if cfg.Cache.TTL > 0 {
		p.TTL = cfg.Cache.TTL
	}

	c.Logger.Info("starting server",
		"addr", cfg.Server.Addr,
		"cache", cfg.Cache.Backend,
		"store", cfg.Store.Backend,
		"version", buildinfo.Version)

	return server.New(p, cfg.Server, c.Logger).Run(ctx)
}
