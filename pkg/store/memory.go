package store

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	// DefaultHistoryLimit is the number of schedules MemoryStore keeps per project.
	DefaultHistoryLimit = 20

	// DefaultProjectLimit is the number of projects MemoryStore tracks before
	// evicting the least recently used one.
	DefaultProjectLimit = 1024
)

// MemoryStore keeps the most recent schedules of recently used projects in
// memory. Both the history per project and the number of projects are
// bounded. It is safe for concurrent use.
type MemoryStore struct {
	mu       sync.Mutex
	limit    int
	projects *lru.Cache[string, []*Schedule] // projectID -> schedules, oldest first
}

// NewMemoryStore creates an in-memory store keeping up to limit schedules per
// project and DefaultProjectLimit projects. A limit <= 0 uses
// DefaultHistoryLimit.
func NewMemoryStore(limit int) *MemoryStore {
	return NewMemoryStoreWithProjects(limit, DefaultProjectLimit)
}

// NewMemoryStoreWithProjects is like NewMemoryStore but also sets the number
// of projects kept. A projects value <= 0 uses DefaultProjectLimit.
func NewMemoryStoreWithProjects(limit, projects int) *MemoryStore {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if projects <= 0 {
		projects = DefaultProjectLimit
	}
	// lru.New only fails for a non-positive size.
	c, _ := lru.New[string, []*Schedule](projects)
	return &MemoryStore{limit: limit, projects: c}
}

// Record appends s to the project's history, evicting the oldest entry when
// the limit is reached. A new project may evict the least recently used one.
func (m *MemoryStore) Record(ctx context.Context, s *Schedule) error {
	cp := *s
	m.mu.Lock()
	defer m.mu.Unlock()
	prev, _ := m.projects.Get(s.ProjectID)
	h := append(prev[:len(prev):len(prev)], &cp)
	if len(h) > m.limit {
		h = h[len(h)-m.limit:]
	}
	m.projects.Add(s.ProjectID, h)
	return nil
}

// Latest returns a copy of the newest schedule for projectID.
func (m *MemoryStore) Latest(ctx context.Context, projectID string) (*Schedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, _ := m.projects.Get(projectID)
	if len(h) == 0 {
		return nil, ErrNotFound
	}
	cp := *h[len(h)-1]
	return &cp, nil
}

// Count returns the number of schedules held for projectID.
func (m *MemoryStore) Count(projectID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, _ := m.projects.Peek(projectID)
	return len(h)
}

// Projects returns the number of projects currently held.
func (m *MemoryStore) Projects() int {
	return m.projects.Len()
}

// Close does nothing.
func (m *MemoryStore) Close(context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
