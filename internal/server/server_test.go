package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/taskorder/internal/config"
	"github.com/matzehuels/taskorder/pkg/cache"
	"github.com/matzehuels/taskorder/pkg/planner"
	"github.com/matzehuels/taskorder/pkg/store"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	logger := log.New(io.Discard)
	p := planner.NewPlanner(cache.NewNullCache(), store.NewMemoryStore(0), logger)
	cfg := config.Default().Server
	cfg.MaxBodyBytes = 4096
	s := New(p, cfg, logger)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func post(t *testing.T, ts *httptest.Server, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()
	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func orderOf(t *testing.T, body map[string]any) []string {
	t.Helper()
	raw, ok := body["recommendedOrder"].([]any)
	if !ok {
		t.Fatalf("response has no recommendedOrder: %v", body)
	}
	out := make([]string, len(raw))
	for i, v := range raw {
		out[i] = v.(string)
	}
	return out
}

const schedulePath = "/api/v1/projects/proj-1/schedule"

func TestScheduleScenarios(t *testing.T) {
	_, ts := newTestServer(t)

	tests := []struct {
		name      string
		path      string
		body      string
		wantOrder []string
	}{
		{
			name: "linear",
			body: `{"tasks":[
				{"title":"Design API","estimatedHours":8,"dueDate":"2025-07-01","dependencies":[]},
				{"title":"Implement Backend","estimatedHours":20,"dueDate":"2025-07-10","dependencies":["Design API"]},
				{"title":"Write Tests","estimatedHours":6,"dueDate":"2025-07-12","dependencies":["Implement Backend"]}]}`,
			wantOrder: []string{"Design API", "Implement Backend", "Write Tests"},
		},
		{
			name:      "independent keeps input order",
			body:      `{"tasks":[{"title":"C"},{"title":"A"},{"title":"B"}]}`,
			wantOrder: []string{"C", "A", "B"},
		},
		{
			name: "diamond",
			body: `{"tasks":[
				{"title":"Release","dependencies":["Backend","Frontend"]},
				{"title":"Backend","dependencies":["Design"]},
				{"title":"Frontend","dependencies":["Design"]},
				{"title":"Design"}]}`,
			wantOrder: []string{"Design", "Backend", "Frontend", "Release"},
		},
		{
			name:      "null dependencies",
			body:      `{"tasks":[{"title":"A","dependencies":null},{"title":"B","dependencies":["A"]}]}`,
			wantOrder: []string{"A", "B"},
		},
		{
			name:      "whitespace titles",
			body:      `{"tasks":[{"title":"B","dependencies":["  "]},{"title":"  "}]}`,
			wantOrder: []string{"  ", "B"},
		},
		{
			name:      "control character in title",
			body:      `{"tasks":[{"title":"A\u0007"},{"title":"B","dependencies":["A\u0007"]}]}`,
			wantOrder: []string{"A\a", "B"},
		},
		{
			name:      "negative hours",
			body:      `{"tasks":[{"title":"A","estimatedHours":-1}]}`,
			wantOrder: []string{"A"},
		},
		{
			name:      "project id with dots",
			path:      "/api/v1/projects/v1..2/schedule",
			body:      `{"tasks":[{"title":"A"}]}`,
			wantOrder: []string{"A"},
		},
		{
			name:      "escaped slash in project id",
			path:      "/api/v1/projects/team%2Fweb/schedule",
			body:      `{"tasks":[{"title":"A"}]}`,
			wantOrder: []string{"A"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.path
			if path == "" {
				path = schedulePath
			}
			resp, body := post(t, ts, path, tt.body)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, body = %v", resp.StatusCode, body)
			}
			if got := orderOf(t, body); !slices.Equal(got, tt.wantOrder) {
				t.Errorf("order = %q, want %q", got, tt.wantOrder)
			}
			if resp.Header.Get("X-Schedule-ID") == "" {
				t.Error("missing X-Schedule-ID header")
			}
			if resp.Header.Get("Content-Type") != "application/json" {
				t.Errorf("Content-Type = %q", resp.Header.Get("Content-Type"))
			}
		})
	}
}

func TestScheduleClientErrors(t *testing.T) {
	_, ts := newTestServer(t)

	tests := []struct {
		name     string
		path     string
		body     string
		wantMsg  string
		wantCode string
	}{
		{
			"unknown dependency", schedulePath,
			`{"tasks":[{"title":"A","dependencies":["Z"]}]}`,
			"Dependency 'Z' for task 'A' does not exist.", "UNKNOWN_DEPENDENCY",
		},
		{
			"cycle", schedulePath,
			`{"tasks":[{"title":"A","dependencies":["C"]},{"title":"B","dependencies":["A"]},{"title":"C","dependencies":["B"]}]}`,
			"A circular dependency was detected. The schedule is impossible.", "CIRCULAR_DEPENDENCY",
		},
		{
			"self dependency", schedulePath,
			`{"tasks":[{"title":"A","dependencies":["A"]}]}`,
			"A circular dependency was detected. The schedule is impossible.", "CIRCULAR_DEPENDENCY",
		},
		{
			"duplicate", schedulePath,
			`{"tasks":[{"title":"A"},{"title":"A"}]}`,
			"Task 'A' is defined more than once.", "DUPLICATE_TASK",
		},
		{
			"empty title", schedulePath,
			`{"tasks":[{"title":"A"},{"title":""}]}`,
			"Task at index 1 has an empty title.", "INVALID_TASK",
		},
		{
			"empty list", schedulePath,
			`{"tasks":[]}`,
			"No tasks provided.", "INVALID_INPUT",
		},
		{
			"missing tasks", schedulePath,
			`{}`,
			"No tasks provided.", "INVALID_INPUT",
		},
		{
			"malformed json", schedulePath,
			`{"tasks":[`,
			"Invalid request body.", "INVALID_FORMAT",
		},
		{
			"blank dependency", schedulePath,
			`{"tasks":[{"title":"A","dependencies":["  "]}]}`,
			"Dependency '  ' for task 'A' does not exist.", "UNKNOWN_DEPENDENCY",
		},
		{
			"title too long", schedulePath,
			`{"tasks":[{"title":"` + strings.Repeat("x", 513) + `"}]}`,
			"Invalid value for tasks[0].title (title).", "INVALID_TASK",
		},
		{
			"project id too long", "/api/v1/projects/" + strings.Repeat("p", 129) + "/schedule",
			`{"tasks":[{"title":"A"}]}`,
			"project ID too long (max 128 characters)", "INVALID_PROJECT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := post(t, ts, tt.path, tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (body %v)", resp.StatusCode, body)
			}
			if body["error"] != tt.wantMsg {
				t.Errorf("error = %q, want %q", body["error"], tt.wantMsg)
			}
			if body["code"] != tt.wantCode {
				t.Errorf("code = %q, want %q", body["code"], tt.wantCode)
			}
			if _, ok := body["recommendedOrder"]; ok {
				t.Error("error response must not carry an order")
			}
		})
	}
}

func TestScheduleBodyTooLarge(t *testing.T) {
	_, ts := newTestServer(t)
	big := `{"tasks":[{"title":"` + strings.Repeat("x", 8192) + `"}]}`
	resp, _ := post(t, ts, schedulePath, big)
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", resp.StatusCode)
	}
}

func TestLatest(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + schedulePath + "/latest")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status before any schedule = %d, want 404", resp.StatusCode)
	}

	postResp, _ := post(t, ts, schedulePath, `{"tasks":[{"title":"A"},{"title":"B","dependencies":["A"]}]}`)
	id := postResp.Header.Get("X-Schedule-ID")

	resp, err = http.Get(ts.URL + schedulePath + "/latest")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var got store.Schedule
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.ID != id || got.ProjectID != "proj-1" || !slices.Equal(got.Order, []string{"A", "B"}) {
		t.Errorf("latest = %+v, want id %s", got, id)
	}
}

func TestHealthAndVersion(t *testing.T) {
	_, ts := newTestServer(t)

	for _, path := range []string{"/healthz", "/version"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		var body map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s status = %d", path, resp.StatusCode)
		}
		if len(body) == 0 {
			t.Errorf("%s returned empty body", path)
		}
	}
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/nope")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}

	resp, err = http.Get(ts.URL + schedulePath)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	s, _ := newTestServer(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/healthz"
	var resp *http.Response
	for i := 0; i < 50; i++ {
		if resp, err = http.Get(url); err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("server never answered: %v", err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestConcurrentRequests(t *testing.T) {
	_, ts := newTestServer(t)
	body := []byte(`{"tasks":[{"title":"A"},{"title":"B","dependencies":["A"]}]}`)

	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		go func() {
			resp, err := http.Post(ts.URL+schedulePath, "application/json", bytes.NewReader(body))
			if err == nil {
				resp.Body.Close()
				if resp.StatusCode != http.StatusOK {
					err = io.ErrUnexpectedEOF
				}
			}
			errs <- err
		}()
	}
	for i := 0; i < 20; i++ {
		if err := <-errs; err != nil {
			t.Errorf("request failed: %v", err)
		}
	}
}
