// Package render draws task dependency graphs with Graphviz.
//
// [ToDOT] converts a task list into DOT source with an arrow from every
// prerequisite to its dependent. When the graph is acyclic, tasks are grouped
// into ranks by stage so that tasks which could run in parallel line up
// horizontally. Cyclic inputs are still drawn, without rank groups, which
// makes the loop easy to spot.
//
//	dot, err := render.ToDOT(tasks, render.Options{Detailed: true})
//	svg, err := render.RenderSVG(ctx, dot)
//
// [Render] produces SVG or PNG through the WebAssembly build of Graphviz
// bundled with go-graphviz, so no system Graphviz installation is needed.
package render
