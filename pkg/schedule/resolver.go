package schedule

import (
	stderrors "errors"

	"github.com/matzehuels/taskorder/pkg/dag"
	"github.com/matzehuels/taskorder/pkg/dag/transform"
	"github.com/matzehuels/taskorder/pkg/errors"
)

// User-facing messages. They are part of the HTTP response contract.
const (
	msgNoTasks  = "No tasks provided."
	msgCircular = "A circular dependency was detected. The schedule is impossible."
)

// NoTasksError returns the error reported for an empty task list.
func NoTasksError() error {
	return errors.New(errors.ErrCodeInvalidInput, msgNoTasks)
}

// Resolve returns the titles of tasks in an order that satisfies every
// declared dependency. See the package documentation for failure modes and
// tie-break rules.
func Resolve(tasks []Task) ([]string, error) {
	g, err := Graph(tasks)
	if err != nil {
		return nil, err
	}

	order, err := transform.TopoSort(g)
	if err != nil {
		if stderrors.Is(err, transform.ErrCycle) {
			return nil, errors.New(errors.ErrCodeCircularDependency, msgCircular)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "order tasks")
	}
	return order, nil
}

// Graph builds the dependency graph for tasks: one node per task in input
// order and one edge per declared dependency, from the prerequisite to the
// dependent, in task order then dependency-list order.
//
// Graph validates well-formedness (non-empty, unique titles, known
// dependencies) but not acyclicity. Task payload is copied into node
// metadata under "estimated_hours" and "due_date".
func Graph(tasks []Task) (*dag.DAG, error) {
	if len(tasks) == 0 {
		return nil, NoTasksError()
	}

	g := dag.New(nil)
	for i, t := range tasks {
		err := g.AddNode(dag.Node{
			ID: t.Title,
			Meta: dag.Metadata{
				"estimated_hours": t.EstimatedHours,
				"due_date":        t.DueDate,
			},
		})
		switch {
		case stderrors.Is(err, dag.ErrInvalidNodeID):
			return nil, errors.New(errors.ErrCodeInvalidTask, "Task at index %d has an empty title.", i)
		case stderrors.Is(err, dag.ErrDuplicateNodeID):
			return nil, errors.New(errors.ErrCodeDuplicateTask, "Task '%s' is defined more than once.", t.Title)
		case err != nil:
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "add task '%s'", t.Title)
		}
	}

	for _, t := range tasks {
		for _, dep := range t.Dependencies {
			err := g.AddEdge(dag.Edge{From: dep, To: t.Title})
			if stderrors.Is(err, dag.ErrUnknownSourceNode) {
				return nil, errors.New(errors.ErrCodeUnknownDependency,
					"Dependency '%s' for task '%s' does not exist.", dep, t.Title)
			}
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "add dependency '%s' -> '%s'", dep, t.Title)
			}
		}
	}

	return g, nil
}
