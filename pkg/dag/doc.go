// Package dag provides the directed graph that backs dependency resolution.
//
// # Overview
//
// Each task becomes a node and each declared dependency becomes an edge from
// the prerequisite to the dependent task. The graph remembers the order in
// which nodes and edges were added; [DAG.Nodes], [DAG.Children] and
// [DAG.Parents] all report insertion order. Ordering algorithms in the
// [transform] subpackage rely on this to make their output reproducible for a
// given input.
//
// # Basic Usage
//
// Create a new graph with [New], add nodes with [DAG.AddNode], and edges with
// [DAG.AddEdge]. Nodes must have unique, non-empty IDs and edges may only
// connect existing nodes:
//
//	g := dag.New(nil)
//	g.AddNode(dag.Node{ID: "Design API"})
//	g.AddNode(dag.Node{ID: "Implement Backend"})
//	g.AddEdge(dag.Edge{From: "Design API", To: "Implement Backend"})
//
// Despite the name, the graph does not reject cycles on insertion. A cycle is
// a property of the whole edge set, so it is detected by [transform.TopoSort]
// once the graph is complete.
//
// # Parallel Edges
//
// Adding the same edge twice records it twice. In-degree and adjacency counts
// both include the duplicate, so a dependency listed twice is resolved twice
// and ordering stays consistent.
//
// # Metadata
//
// Both nodes and the graph itself support arbitrary metadata via [Metadata]
// maps. Task payload (estimated hours, due date) is kept here for rendering;
// ordering never reads it.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use. Each resolution builds its
// own graph, so concurrent resolutions never share one.
//
// [transform]: github.com/matzehuels/taskorder/pkg/dag/transform
package dag
