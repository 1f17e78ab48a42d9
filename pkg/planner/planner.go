// Package planner is the service layer around the dependency resolver.
//
// A [Planner] adds what a long-running service needs on top of
// [schedule.Resolve]: result caching, schedule history, structured logging
// and observability hooks. Both the CLI and the HTTP API go through it.
//
// The resolver decides the order; the planner never changes it. A cache hit
// returns exactly the order the resolver produced for the same titles and
// dependency lists.
package planner

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/taskorder/pkg/cache"
	"github.com/matzehuels/taskorder/pkg/observability"
	"github.com/matzehuels/taskorder/pkg/schedule"
	"github.com/matzehuels/taskorder/pkg/store"
)

const cacheKeyType = "schedule"

// Result is a resolved schedule.
type Result struct {
	ID        string        // Schedule ID (UUID v4)
	ProjectID string        // Caller-supplied project identifier
	Order     []string      // Recommended order
	CacheHit  bool          // Order came from the cache
	Duration  time.Duration // Time spent in Plan
}

// Planner resolves task lists with caching and history.
//
// The Planner holds no per-request state; one instance can serve concurrent
// requests as long as its Cache and Store are safe for concurrent use.
type Planner struct {
	Cache  cache.Cache
	Store  store.Store
	Logger *log.Logger

	// TTL for cached orders. Zero uses cache.DefaultTTL.
	TTL time.Duration
}

// NewPlanner creates a planner. A nil cache disables caching, a nil store
// disables history and a nil logger uses log.Default().
func NewPlanner(c cache.Cache, s store.Store, logger *log.Logger) *Planner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if s == nil {
		s = store.NewNullStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Planner{Cache: c, Store: s, Logger: logger, TTL: cache.DefaultTTL}
}

// Plan resolves tasks for projectID and records the result.
//
// Errors from the resolver are returned unchanged. Cache and store failures
// are logged and otherwise ignored.
func (p *Planner) Plan(ctx context.Context, projectID string, tasks []schedule.Task) (*Result, error) {
	if len(tasks) == 0 {
		return nil, schedule.NoTasksError()
	}

	start := time.Now()
	observability.Resolve().OnResolveStart(ctx, projectID, len(tasks))

	order, hit, err := p.resolve(ctx, tasks)
	elapsed := time.Since(start)
	observability.Resolve().OnResolveComplete(ctx, projectID, len(tasks), elapsed, err)
	if err != nil {
		p.Logger.Debug("schedule rejected", "project", projectID, "tasks", len(tasks), "error", err)
		return nil, err
	}

	rec := store.NewSchedule(projectID, tasks, order)
	if err := p.Store.Record(ctx, rec); err != nil {
		p.Logger.Warn("record schedule failed", "project", projectID, "id", rec.ID, "error", err)
	}

	p.Logger.Info("resolved schedule",
		"project", projectID,
		"id", rec.ID,
		"tasks", len(tasks),
		"cached", hit,
		"duration", elapsed)

	return &Result{
		ID:        rec.ID,
		ProjectID: projectID,
		Order:     order,
		CacheHit:  hit,
		Duration:  elapsed,
	}, nil
}

// Latest returns the most recently recorded schedule for projectID, or
// store.ErrNotFound.
func (p *Planner) Latest(ctx context.Context, projectID string) (*store.Schedule, error) {
	return p.Store.Latest(ctx, projectID)
}

// resolve returns the order from cache or from the resolver. Only successful
// resolutions are cached.
func (p *Planner) resolve(ctx context.Context, tasks []schedule.Task) ([]string, bool, error) {
	key := cache.ScheduleKey(tasks)

	if data, hit, err := p.Cache.Get(ctx, key); err != nil {
		p.Logger.Warn("cache read failed", "key", key, "error", err)
	} else if hit {
		if order, ok := decodeOrder(data, tasks); ok {
			observability.Cache().OnCacheHit(ctx, cacheKeyType)
			return order, true, nil
		}
		p.Logger.Debug("discarding unusable cache entry", "key", key)
	}
	observability.Cache().OnCacheMiss(ctx, cacheKeyType)

	order, err := schedule.Resolve(tasks)
	if err != nil {
		return nil, false, err
	}

	if data, err := encodeOrder(order, tasks); err == nil {
		ttl := p.TTL
		if ttl <= 0 {
			ttl = cache.DefaultTTL
		}
		if err := p.Cache.Set(ctx, key, data, ttl); err != nil {
			p.Logger.Warn("cache write failed", "key", key, "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
		}
	}
	return order, false, nil
}

// encodeOrder stores order as positions into tasks. Titles are not stored,
// since JSON cannot carry arbitrary bytes.
func encodeOrder(order []string, tasks []schedule.Task) ([]byte, error) {
	pos := make(map[string]int, len(tasks))
	for i, t := range tasks {
		pos[t.Title] = i
	}
	idx := make([]int, len(order))
	for i, title := range order {
		idx[i] = pos[title]
	}
	return json.Marshal(idx)
}

// decodeOrder maps cached positions back to titles. Entries that are not a
// permutation of tasks are rejected.
func decodeOrder(data []byte, tasks []schedule.Task) ([]string, bool) {
	var idx []int
	if err := json.Unmarshal(data, &idx); err != nil || len(idx) != len(tasks) {
		return nil, false
	}
	seen := make([]bool, len(tasks))
	order := make([]string, len(idx))
	for i, j := range idx {
		if j < 0 || j >= len(tasks) || seen[j] {
			return nil, false
		}
		seen[j] = true
		order[i] = tasks[j].Title
	}
	return order, true
}
