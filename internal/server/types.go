package server

import (
	"github.com/matzehuels/taskorder/pkg/schedule"
)

// scheduleRequest is the POST body. Only sizes are checked here; titles and
// dependency references reach the resolver unchanged.
type scheduleRequest struct {
	Tasks []taskRequest `json:"tasks" validate:"dive"`
}

type taskRequest struct {
	Title          string   `json:"title" validate:"title"`
	EstimatedHours int      `json:"estimatedHours"`
	DueDate        string   `json:"dueDate" validate:"max=64"`
	Dependencies   []string `json:"dependencies" validate:"dive,title"`
}

func (r scheduleRequest) toTasks() []schedule.Task {
	tasks := make([]schedule.Task, len(r.Tasks))
	for i, t := range r.Tasks {
		tasks[i] = schedule.Task{
			Title:          t.Title,
			EstimatedHours: t.EstimatedHours,
			DueDate:        t.DueDate,
			Dependencies:   t.Dependencies,
		}
	}
	return tasks
}

type scheduleResponse struct {
	RecommendedOrder []string `json:"recommendedOrder"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

type healthResponse struct {
	Status string `json:"status"`
}
