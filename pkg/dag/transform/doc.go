// Package transform provides ordering algorithms over a [dag.DAG].
//
// # Topological Order
//
// [TopoSort] computes a linear order in which every edge points from an
// earlier node to a later one, using Kahn's algorithm:
//
//  1. Seed a FIFO queue with every node whose in-degree is 0, in insertion order
//  2. Dequeue a node, emit it, and decrement the in-degree of each child
//  3. Enqueue a child as soon as its in-degree reaches 0
//  4. Repeat until the queue is empty
//
// If fewer nodes were emitted than the graph holds, the remaining nodes are
// part of (or blocked behind) a cycle and [ErrCycle] is returned. No partial
// order is returned in that case.
//
// # Tie-Breaking
//
// Among nodes that become eligible at the same time the queue is strictly
// first-in-first-out. The initial seed follows node insertion order and later
// arrivals follow edge insertion order, so the result is fully determined by
// how the graph was built. Callers should treat the relative order of
// independent nodes as reproducible but not meaningful.
//
// # Layer Assignment
//
// [AssignLayers] assigns each node a layer equal to the length of the longest
// path reaching it from any source. Nodes sharing a layer have no path
// between them and can be worked on in parallel.
//
// # Performance
//
// Both functions run in O(V + E) time and O(V) extra space.
package transform
