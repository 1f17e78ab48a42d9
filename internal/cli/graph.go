package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/matzehuels/taskorder/pkg/errors"
	taskio "github.com/matzehuels/taskorder/pkg/io"
	"github.com/matzehuels/taskorder/pkg/render"
	"github.com/matzehuels/taskorder/pkg/schedule"
)

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		output string
		opts   render.Options
	)

	cmd := &cobra.Command{
		Use:   "graph [tasks.json|tasks.yaml]",
		Short: "Render the task dependency graph",
		Long: `Render the task dependency graph.

Edges point from a prerequisite to the task that needs it. Tasks that can run
in parallel share a rank. The output format follows the -o extension:
.dot/.gv (Graphviz source), .svg, .png or .json (nodes and edges). Without -o
the DOT source is written to stdout.`,
		Example: `  taskorder graph tasks.yaml
  taskorder graph tasks.yaml -o plan.svg --detailed
  taskorder graph tasks.json -o plan.png --horizontal`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(cmd.Context(), args[0], output, opts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.dot, .svg, .png, .json)")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "show estimates and due dates in node labels")
	cmd.Flags().BoolVar(&opts.Horizontal, "horizontal", false, "lay the graph out left to right")

	return cmd
}

func (c *CLI) runGraph(ctx context.Context, path, output string, opts render.Options) error {
	logger := loggerFromContext(ctx)

	tasks, err := taskio.ImportTasks(c.Fs, path)
	if err != nil {
		return err
	}
	logger.Debug("loaded tasks", "file", path, "tasks", len(tasks))

	ext := strings.ToLower(filepath.Ext(output))
	if ext == ".json" {
		g, err := schedule.Graph(tasks)
		if err != nil {
			return err
		}
		if err := taskio.ExportGraph(c.Fs, g, output); err != nil {
			return err
		}
		printSuccess("Exported graph of %d tasks", len(tasks))
		printFile(output)
		return nil
	}

	dot, err := render.ToDOT(tasks, opts)
	if err != nil {
		return err
	}

	var data []byte
	switch ext {
	case "":
		_, err := fmt.Fprint(out, dot)
		return err
	case ".dot", ".gv":
		data = []byte(dot)
	case ".svg", ".png":
		format := render.FormatSVG
		if ext == ".png" {
			format = render.FormatPNG
		}
		err = withSpinner(ctx, "Rendering "+strings.TrimPrefix(ext, "."), func(ctx context.Context) error {
			var err error
			data, err = render.Render(ctx, dot, format)
			return err
		})
		if err != nil {
			return err
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unsupported output format %q (want .dot, .svg, .png or .json)", ext)
	}

	if err := c.Fs.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := afero.WriteFile(c.Fs, output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	printSuccess("Rendered graph of %d tasks", len(tasks))
	printFile(output)
	return nil
}
