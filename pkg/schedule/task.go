package schedule

// Task is a unit of work identified by its title.
type Task struct {
	// Title uniquely identifies the task within one resolution.
	Title string `json:"title" yaml:"title" bson:"title"`

	// EstimatedHours is opaque payload. It is summed by NewPlan for display
	// but never influences ordering.
	EstimatedHours int `json:"estimatedHours" yaml:"estimatedHours" bson:"estimated_hours"`

	// DueDate is opaque payload, passed through unparsed.
	DueDate string `json:"dueDate" yaml:"dueDate" bson:"due_date"`

	// Dependencies lists the titles of tasks that must come before this one.
	// A nil or empty list means the task can start immediately.
	Dependencies []string `json:"dependencies" yaml:"dependencies" bson:"dependencies"`
}

// Titles returns the title of each task in input order.
func Titles(tasks []Task) []string {
	titles := make([]string, len(tasks))
	for i, t := range tasks {
		titles[i] = t.Title
	}
	return titles
}

// EdgeCount returns the total number of declared dependencies, counting
// repeated entries.
func EdgeCount(tasks []Task) int {
	n := 0
	for _, t := range tasks {
		n += len(t.Dependencies)
	}
	return n
}
