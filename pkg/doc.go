// Package pkg provides the libraries behind taskorder.
//
// # Overview
//
// taskorder computes an execution order for tasks that declare which other
// tasks they depend on. Every task is placed after all of its prerequisites;
// malformed input and circular dependencies are reported as structured
// errors instead of a partial order.
//
// # Architecture
//
// The typical data flow:
//
//	task file / HTTP request
//	         ↓
//	    [io] package (decode tasks)
//	         ↓
//	    [planner] package (cache lookup, history)
//	         ↓
//	    [schedule] package (resolve over a [dag] graph)
//	         ↓
//	    recommended order / [render] graph
//
// # Quick Start
//
//	import "github.com/matzehuels/taskorder/pkg/schedule"
//
//	order, err := schedule.Resolve([]schedule.Task{
//	    {Title: "Deploy", Dependencies: []string{"Build"}},
//	    {Title: "Build"},
//	})
//	// order == []string{"Build", "Deploy"}
//
// # Main Packages
//
// [schedule] - Task model and resolver. Pure and safe for concurrent use.
//
// [dag] and [dag/transform] - Insertion-ordered directed graph with
// topological sort and stage (layer) assignment.
//
// [planner] - Service layer shared by the CLI and HTTP API: caching, history
// and observability hooks around the resolver.
//
// [cache] - Cache backends for resolved orders (null, file, Redis).
//
// [store] - Schedule history backends (null, memory, MongoDB).
//
// [client] - HTTP client for a running taskorder API.
//
// [io] - JSON/YAML task file import and JSON export.
//
// [render] - Graphviz DOT generation and SVG/PNG rendering.
//
// [errors] - Structured error codes used across CLI and API.
//
// [httputil], [observability], [buildinfo] - Retry helpers, hook registry
// and version information.
package pkg
