// Package schedule computes an execution order for a set of named tasks.
//
// # Overview
//
// Each [Task] declares the titles of the tasks it depends on. [Resolve]
// builds a directed graph with an edge from every prerequisite to its
// dependent and returns the titles in topological order, so every task
// appears after all of its prerequisites:
//
//	order, err := schedule.Resolve([]schedule.Task{
//	    {Title: "Design API"},
//	    {Title: "Implement Backend", Dependencies: []string{"Design API"}},
//	})
//	// order == ["Design API", "Implement Backend"]
//
// # Failure Modes
//
// Resolve never returns a partial order. It fails with a structured
// [errors.Error] whose code identifies the problem:
//
//   - INVALID_INPUT: no tasks were supplied
//   - INVALID_TASK: a task has an empty title
//   - DUPLICATE_TASK: two tasks share a title
//   - UNKNOWN_DEPENDENCY: a dependency names a title not in the input
//   - CIRCULAR_DEPENDENCY: the tasks (or a subset) form a cycle
//
// Unknown dependencies are reported for the first offending reference in
// input order. Cycles are reported without naming their members.
//
// # Ordering Among Independent Tasks
//
// When several tasks are ready at the same time they are emitted first in,
// first out: tasks with no dependencies in input order, then tasks in the
// order they were unblocked. The result is reproducible for a given input
// but carries no priority meaning. Reordering the input may reorder
// independent tasks.
//
// # Payload Fields
//
// EstimatedHours and DueDate are carried through for callers and for
// [NewPlan] summaries. Ordering never reads them.
//
// # Concurrency
//
// Resolve keeps no state between calls and performs no I/O, so it is safe to
// call from any number of goroutines.
//
// [errors.Error]: github.com/matzehuels/taskorder/pkg/errors.Error
package schedule
