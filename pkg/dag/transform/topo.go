package transform

import (
	"errors"

	"github.com/matzehuels/taskorder/pkg/dag"
)

// ErrCycle is returned when the graph contains a directed cycle, so no
// topological order exists.
var ErrCycle = errors.New("graph contains a cycle")

// TopoSort returns the node IDs of g in topological order using Kahn's
// algorithm with a FIFO queue. See the package documentation for the
// tie-break rules.
//
// TopoSort does not modify g. It returns ErrCycle if any node never reaches
// in-degree 0. An empty graph yields an empty, non-nil slice.
func TopoSort(g *dag.DAG) ([]string, error) {
	ids := g.NodeIDs()
	inDegree := make(map[string]int, len(ids))
	queue := make([]string, 0, len(ids))

	for _, id := range ids {
		degree := g.InDegree(id)
		inDegree[id] = degree
		if degree == 0 {
			queue = append(queue, id)
		}
	}

	order := make([]string, 0, len(ids))
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		order = append(order, curr)

		for _, child := range g.Children(curr) {
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	if len(order) != len(ids) {
		return nil, ErrCycle
	}
	return order, nil
}
