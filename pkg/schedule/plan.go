package schedule

import (
	"github.com/matzehuels/taskorder/pkg/dag/transform"
)

// Plan is a resolved order plus a summary that is useful for display.
type Plan struct {
	// Order is the recommended order, as returned by Resolve.
	Order []string

	// Stages groups Order by dependency depth. Tasks in the same stage have
	// no path between them and could run in parallel. Each stage keeps the
	// relative order from Order.
	Stages [][]string

	// TotalHours is the sum of every task's EstimatedHours.
	TotalHours int

	// Edges is the number of declared dependencies.
	Edges int
}

// NewPlan resolves tasks and summarizes the result. It fails in exactly the
// same cases as Resolve.
func NewPlan(tasks []Task) (*Plan, error) {
	order, err := Resolve(tasks)
	if err != nil {
		return nil, err
	}

	g, err := Graph(tasks)
	if err != nil {
		return nil, err
	}
	layers, err := transform.AssignLayers(g)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, t := range tasks {
		total += t.EstimatedHours
	}

	return &Plan{
		Order:      order,
		Stages:     transform.GroupByLayer(order, layers),
		TotalHours: total,
		Edges:      EdgeCount(tasks),
	}, nil
}
