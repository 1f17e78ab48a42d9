package transform

import "github.com/matzehuels/taskorder/pkg/dag"

// AssignLayers assigns every node a layer based on its depth in the graph.
//
// AssignLayers uses a longest-path algorithm on top of Kahn's traversal.
// Each node is placed at one plus the maximum layer of any of its parents,
// ensuring that:
//   - Source nodes (no incoming edges) are at layer 0
//   - All prerequisites are in strictly lower layers than their dependents
//   - Each node is pushed as deep as necessary to satisfy every prerequisite
//
// The graph itself is not modified; the result maps node ID to layer.
//
// # Cycles
//
// Nodes on a cycle never reach in-degree 0. AssignLayers returns ErrCycle in
// that case rather than a partial assignment.
func AssignLayers(g *dag.DAG) (map[string]int, error) {
	ids := g.NodeIDs()
	inDegree := make(map[string]int, len(ids))
	layers := make(map[string]int, len(ids))
	queue := make([]string, 0, len(ids))

	for _, id := range ids {
		degree := g.InDegree(id)
		inDegree[id] = degree
		layers[id] = 0
		if degree == 0 {
			queue = append(queue, id)
		}
	}

	visited := 0
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		visited++

		for _, child := range g.Children(curr) {
			if layer := layers[curr] + 1; layer > layers[child] {
				layers[child] = layer
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	if visited != len(ids) {
		return nil, ErrCycle
	}
	return layers, nil
}

// GroupByLayer groups ids by their layer, preserving the relative order of
// ids within each group. ids is typically the output of [TopoSort]. IDs
// missing from layers are placed in layer 0.
func GroupByLayer(ids []string, layers map[string]int) [][]string {
	var groups [][]string
	for _, id := range ids {
		l := layers[id]
		for len(groups) <= l {
			groups = append(groups, nil)
		}
		groups[l] = append(groups[l], id)
	}
	return groups
}
