package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/taskorder/pkg/client"
	"github.com/matzehuels/taskorder/pkg/errors"
	taskio "github.com/matzehuels/taskorder/pkg/io"
	"github.com/matzehuels/taskorder/pkg/schedule"
)

const (
	formatText = "text"
	formatJSON = "json"
)

type resolveOptions struct {
	format      string
	interactive bool
	server      string
	project     string
	noCache     bool
}

// resolveCommand creates the resolve command.
func (c *CLI) resolveCommand() *cobra.Command {
	opts := resolveOptions{format: formatText, project: defaultProject}

	cmd := &cobra.Command{
		Use:   "resolve [tasks.json|tasks.yaml]",
		Short: "Print the recommended order for a task file",
		Long: `Print the recommended order for a task file.

Each task lists the titles it depends on; the order puts every task after
all of its prerequisites. Independent tasks keep their file order.

The task file uses the API request shape ({"tasks": [...]}) or a bare list,
as JSON or YAML. With --server the file is sent to a running taskorder API
instead of being resolved locally.`,
		Example: `  taskorder resolve tasks.yaml
  taskorder resolve tasks.json --format json
  taskorder resolve tasks.yaml --interactive
  taskorder resolve tasks.json --server http://localhost:8080 --project web`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != formatText && opts.format != formatJSON {
				return errors.New(errors.ErrCodeInvalidInput, "unknown format %q (want text or json)", opts.format)
			}
			if opts.interactive && opts.format == formatJSON {
				return errors.New(errors.ErrCodeInvalidInput, "--interactive cannot be combined with --format json")
			}
			return c.runResolve(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: text, json")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "browse the order in an interactive table")
	cmd.Flags().StringVar(&opts.server, "server", "", "resolve on a remote taskorder API (e.g. http://localhost:8080)")
	cmd.Flags().StringVar(&opts.project, "project", opts.project, "project ID sent to the server")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runResolve(ctx context.Context, path string, opts resolveOptions) error {
	logger := loggerFromContext(ctx)

	tasks, err := taskio.ImportTasks(c.Fs, path)
	if err != nil {
		return err
	}
	logger.Debug("loaded tasks", "file", path, "tasks", len(tasks))

	prog := newProgress(logger)
	var (
		order  []string
		cached bool
	)
	if opts.server != "" {
		err = withSpinner(ctx, "Requesting schedule from "+opts.server, func(ctx context.Context) error {
			var err error
			order, err = client.New(opts.server, nil).Schedule(ctx, opts.project, tasks)
			return err
		})
	} else {
		order, cached, err = c.resolveLocal(ctx, opts, tasks)
	}
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Resolved %d tasks", len(order)))

	switch {
	case opts.format == formatJSON:
		return taskio.WriteOrder(out, order)
	case opts.interactive:
		return runOrderViewer(tasks, order)
	}

	printSuccess("Recommended order for %s", path)
	printOrder(order)
	printNewline()
	if plan, err := schedule.NewPlan(tasks); err == nil {
		if len(plan.Stages) > 1 {
			printInfo("Stages")
			printStages(plan.Stages)
			printNewline()
		}
		printStats(len(tasks), plan.Edges, plan.TotalHours, cached)
	}
	return nil
}

func (c *CLI) resolveLocal(ctx context.Context, opts resolveOptions, tasks []schedule.Task) ([]string, bool, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, false, err
	}
	p, closeCache := c.newPlanner(ctx, cfg, opts.noCache)
	defer closeCache()

	res, err := p.Plan(ctx, opts.project, tasks)
	if err != nil {
		return nil, false, err
	}
	return res.Order, res.CacheHit, nil
}
