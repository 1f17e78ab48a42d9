package planner

import (
	"context"
	stderrors "errors"
	"io"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/taskorder/pkg/cache"
	"github.com/matzehuels/taskorder/pkg/errors"
	"github.com/matzehuels/taskorder/pkg/observability"
	"github.com/matzehuels/taskorder/pkg/schedule"
	"github.com/matzehuels/taskorder/pkg/store"
)

func quietLogger() *log.Logger { return log.New(io.Discard) }

// memCache is a minimal in-memory cache for tests.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]time.Duration
	fail error
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, false, m.fail
	}
	d, ok := m.data[key]
	return d, ok, nil
}

func (m *memCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.data[key] = data
	m.ttls[key] = ttl
	return nil
}

func (m *memCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memCache) Close() error { return nil }

type failingStore struct{ store.NullStore }

func (failingStore) Record(context.Context, *store.Schedule) error {
	return stderrors.New("store unavailable")
}

type countingCacheHooks struct {
	observability.NoopCacheHooks
	mu               sync.Mutex
	hits, miss, sets int
}

func (h *countingCacheHooks) OnCacheHit(context.Context, string) {
	h.mu.Lock()
	h.hits++
	h.mu.Unlock()
}

func (h *countingCacheHooks) OnCacheMiss(context.Context, string) {
	h.mu.Lock()
	h.miss++
	h.mu.Unlock()
}

func (h *countingCacheHooks) OnCacheSet(context.Context, string, int) {
	h.mu.Lock()
	h.sets++
	h.mu.Unlock()
}

var pipeline = []schedule.Task{
	{Title: "Design", EstimatedHours: 8},
	{Title: "Build", EstimatedHours: 20, Dependencies: []string{"Design"}},
	{Title: "Test", EstimatedHours: 6, Dependencies: []string{"Build"}},
}

func TestNewPlannerDefaults(t *testing.T) {
	p := NewPlanner(nil, nil, nil)
	if p.Cache == nil || p.Store == nil || p.Logger == nil {
		t.Fatal("NewPlanner should fill nil dependencies")
	}
	if p.TTL != cache.DefaultTTL {
		t.Errorf("TTL = %v, want %v", p.TTL, cache.DefaultTTL)
	}
}

func TestPlan(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore(0)
	p := NewPlanner(newMemCache(), mem, quietLogger())

	res, err := p.Plan(ctx, "proj-1", pipeline)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if want := []string{"Design", "Build", "Test"}; !slices.Equal(res.Order, want) {
		t.Errorf("Order = %v, want %v", res.Order, want)
	}
	if res.CacheHit {
		t.Error("first Plan should not be a cache hit")
	}
	if res.ID == "" || res.ProjectID != "proj-1" {
		t.Errorf("Result = %+v, want ID set and ProjectID proj-1", res)
	}

	latest, err := p.Latest(ctx, "proj-1")
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest.ID != res.ID || !slices.Equal(latest.Order, res.Order) {
		t.Errorf("Latest = %+v, want schedule %s", latest, res.ID)
	}
	if len(latest.Tasks) != len(pipeline) {
		t.Errorf("Latest.Tasks = %d, want %d", len(latest.Tasks), len(pipeline))
	}
}

func TestPlanCaches(t *testing.T) {
	ctx := context.Background()
	hooks := &countingCacheHooks{}
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	c := newMemCache()
	p := NewPlanner(c, nil, quietLogger())
	p.TTL = time.Minute

	first, err := p.Plan(ctx, "a", pipeline)
	if err != nil {
		t.Fatal(err)
	}
	second, err := p.Plan(ctx, "b", pipeline)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheHit {
		t.Error("second Plan with same tasks should hit the cache")
	}
	if !slices.Equal(first.Order, second.Order) {
		t.Errorf("cached order %v differs from %v", second.Order, first.Order)
	}
	if first.ID == second.ID {
		t.Error("each Plan should record a new schedule ID")
	}
	if ttl := c.ttls[cache.ScheduleKey(pipeline)]; ttl != time.Minute {
		t.Errorf("cached with ttl %v, want 1m", ttl)
	}
	if hooks.hits != 1 || hooks.miss != 1 || hooks.sets != 1 {
		t.Errorf("hooks hits=%d miss=%d sets=%d, want 1/1/1", hooks.hits, hooks.miss, hooks.sets)
	}
}

func TestPlanDoesNotCacheFailures(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	mem := store.NewMemoryStore(0)
	p := NewPlanner(c, mem, quietLogger())

	cyclic := []schedule.Task{
		{Title: "A", Dependencies: []string{"B"}},
		{Title: "B", Dependencies: []string{"A"}},
	}
	_, err := p.Plan(ctx, "proj", cyclic)
	if !errors.Is(err, errors.ErrCodeCircularDependency) {
		t.Fatalf("Plan error = %v, want CIRCULAR_DEPENDENCY", err)
	}
	if len(c.data) != 0 {
		t.Error("failed resolution should not be cached")
	}
	if mem.Count("proj") != 0 {
		t.Error("failed resolution should not be recorded")
	}
}

func TestPlanErrors(t *testing.T) {
	p := NewPlanner(nil, nil, quietLogger())
	tests := []struct {
		name  string
		tasks []schedule.Task
		code  errors.Code
	}{
		{"empty", nil, errors.ErrCodeInvalidInput},
		{"unknown", []schedule.Task{{Title: "A", Dependencies: []string{"Z"}}}, errors.ErrCodeUnknownDependency},
		{"duplicate", []schedule.Task{{Title: "A"}, {Title: "A"}}, errors.ErrCodeDuplicateTask},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Plan(context.Background(), "proj", tt.tasks)
			if !errors.Is(err, tt.code) {
				t.Errorf("Plan error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestPlanToleratesBackendFailures(t *testing.T) {
	c := newMemCache()
	c.fail = stderrors.New("cache down")
	p := NewPlanner(c, failingStore{}, quietLogger())

	res, err := p.Plan(context.Background(), "proj", pipeline)
	if err != nil {
		t.Fatalf("Plan should ignore cache and store failures, got %v", err)
	}
	if len(res.Order) != 3 {
		t.Errorf("Order = %v", res.Order)
	}
}

func TestPlanIgnoresCorruptCacheEntry(t *testing.T) {
	c := newMemCache()
	c.data[cache.ScheduleKey(pipeline)] = []byte("not json")
	p := NewPlanner(c, nil, quietLogger())

	res, err := p.Plan(context.Background(), "proj", pipeline)
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheHit {
		t.Error("corrupt entry should be treated as a miss")
	}
	if want := []string{"Design", "Build", "Test"}; !slices.Equal(res.Order, want) {
		t.Errorf("Order = %v, want %v", res.Order, want)
	}
}

func TestPlanRejectsNonPermutationCacheEntry(t *testing.T) {
	entries := []string{`[0,0,1]`, `[0,1]`, `[0,1,3]`, `[-1,0,1]`, `["Design","Build","Test"]`}
	for _, entry := range entries {
		t.Run(entry, func(t *testing.T) {
			c := newMemCache()
			c.data[cache.ScheduleKey(pipeline)] = []byte(entry)
			p := NewPlanner(c, nil, quietLogger())

			res, err := p.Plan(context.Background(), "proj", pipeline)
			if err != nil {
				t.Fatal(err)
			}
			if res.CacheHit {
				t.Error("entry should be treated as a miss")
			}
			if want := []string{"Design", "Build", "Test"}; !slices.Equal(res.Order, want) {
				t.Errorf("Order = %v, want %v", res.Order, want)
			}
		})
	}
}

func TestPlanCachesNonUTF8Titles(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	p := NewPlanner(c, nil, quietLogger())
	ctx := context.Background()

	first := []schedule.Task{{Title: "\xff"}, {Title: "\xfe"}}
	swapped := []schedule.Task{{Title: "\xfe"}, {Title: "\xff"}}

	if _, err := p.Plan(ctx, "proj", first); err != nil {
		t.Fatal(err)
	}

	for i, wantHit := range []bool{false, true} {
		res, err := p.Plan(ctx, "proj", swapped)
		if err != nil {
			t.Fatal(err)
		}
		if res.CacheHit != wantHit {
			t.Errorf("call %d: CacheHit = %v, want %v", i, res.CacheHit, wantHit)
		}
		if want := []string{"\xfe", "\xff"}; !slices.Equal(res.Order, want) {
			t.Errorf("call %d: Order = %q, want %q", i, res.Order, want)
		}
	}
}

func TestLatestNotFound(t *testing.T) {
	p := NewPlanner(nil, store.NewMemoryStore(0), quietLogger())
	if _, err := p.Latest(context.Background(), "missing"); !stderrors.Is(err, store.ErrNotFound) {
		t.Errorf("Latest error = %v, want ErrNotFound", err)
	}
}

func TestPlanConcurrent(t *testing.T) {
	p := NewPlanner(newMemCache(), store.NewMemoryStore(0), quietLogger())
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := p.Plan(context.Background(), "proj", pipeline); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
}
