package render

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/taskorder/pkg/dag/transform"
	"github.com/matzehuels/taskorder/pkg/schedule"
)

// Options configures DOT generation.
type Options struct {
	// Detailed adds estimated hours and due date to node labels.
	// When false, only the title is shown.
	Detailed bool

	// Horizontal lays the graph out left to right instead of top to bottom.
	Horizontal bool
}

// Format is an output format supported by [Render].
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ToDOT converts tasks to Graphviz DOT source. It fails if the tasks are not
// well-formed (empty or duplicate titles, unknown dependencies) but accepts
// cycles.
func ToDOT(tasks []schedule.Task, opts Options) (string, error) {
	g, err := schedule.Graph(tasks)
	if err != nil {
		return "", err
	}

	rankdir := "TB"
	if opts.Horizontal {
		rankdir = "LR"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for i, t := range tasks {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", t.Title, fmtLabel(tasks[i], opts.Detailed))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	order, err := transform.TopoSort(g)
	switch {
	case err == nil:
		layers, err := transform.AssignLayers(g)
		if err != nil {
			return "", err
		}
		stages := transform.GroupByLayer(order, layers)
		if len(stages) > 1 {
			buf.WriteString("\n")
			for _, stage := range stages {
				quoted := make([]string, len(stage))
				for i, id := range stage {
					quoted[i] = strconv.Quote(id)
				}
				fmt.Fprintf(&buf, "  { rank=same; %s; }\n", strings.Join(quoted, "; "))
			}
		}
	case stderrors.Is(err, transform.ErrCycle):
		// drawn without ranks
	default:
		return "", err
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func fmtLabel(t schedule.Task, detailed bool) string {
	if !detailed {
		return t.Title
	}

	var parts []string
	if t.EstimatedHours != 0 {
		parts = append(parts, fmt.Sprintf("%dh", t.EstimatedHours))
	}
	if t.DueDate != "" {
		parts = append(parts, "due "+t.DueDate)
	}
	if len(parts) == 0 {
		return t.Title
	}
	return t.Title + "\n" + strings.Join(parts, ", ")
}

// Render renders DOT source in the given format.
func Render(ctx context.Context, dot string, format Format) ([]byte, error) {
	var gvFormat graphviz.Format
	switch format {
	case FormatSVG:
		gvFormat = graphviz.SVG
	case FormatPNG:
		gvFormat = graphviz.PNG
	default:
		return nil, fmt.Errorf("unsupported render format %q", format)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, gvFormat, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	if format == FormatSVG {
		return normalizeViewBox(buf.Bytes()), nil
	}
	return buf.Bytes(), nil
}

// RenderSVG renders DOT source to SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return Render(ctx, dot, FormatSVG)
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with one that
// scales cleanly when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
