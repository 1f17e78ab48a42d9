// Package store records resolved schedules per project.
//
// The resolver itself keeps no state. Recording happens in the service layer
// after a successful resolution so the latest schedule of a project can be
// fetched again later.
//
// Backends:
//   - [NullStore]: recording disabled
//   - [MemoryStore]: in-process history for development and tests
//   - [MongoStore]: MongoDB collection for production deployments
package store

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/taskorder/pkg/schedule"
)

// ErrNotFound is returned by [Store.Latest] when the project has no
// recorded schedule.
var ErrNotFound = errors.New("schedule not found")

// Schedule is one recorded resolution.
type Schedule struct {
	ID        string          `json:"id" bson:"_id"`
	ProjectID string          `json:"projectId" bson:"project_id"`
	Tasks     []schedule.Task `json:"tasks" bson:"tasks"`
	Order     []string        `json:"recommendedOrder" bson:"order"`
	CreatedAt time.Time       `json:"createdAt" bson:"created_at"`
}

// NewSchedule creates a record with a fresh UUID and the current UTC time.
// tasks and order are copied.
func NewSchedule(projectID string, tasks []schedule.Task, order []string) *Schedule {
	return &Schedule{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		Tasks:     slices.Clone(tasks),
		Order:     slices.Clone(order),
		CreatedAt: time.Now().UTC(),
	}
}

// Store is the interface for schedule history backends.
type Store interface {
	// Record stores a schedule.
	Record(ctx context.Context, s *Schedule) error

	// Latest returns the most recently recorded schedule for projectID,
	// or ErrNotFound.
	Latest(ctx context.Context, projectID string) (*Schedule, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// NullStore discards every schedule.
type NullStore struct{}

// NewNullStore creates a store that records nothing.
func NewNullStore() Store { return NullStore{} }

func (NullStore) Record(context.Context, *Schedule) error { return nil }
func (NullStore) Latest(context.Context, string) (*Schedule, error) {
	return nil, ErrNotFound
}
func (NullStore) Close(context.Context) error { return nil }

var _ Store = NullStore{}
