// Package client calls a remote taskorder API.
//
// Client mirrors [planner.Planner] over HTTP: 400 responses come back as
// *errors.Error carrying the server's code and message, so callers handle
// remote and local resolution the same way. Network failures, 429 and 5xx
// responses are retried with exponential backoff, honouring Retry-After.
//
// [planner.Planner]: github.com/matzehuels/taskorder/pkg/planner.Planner
package client

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/taskorder/pkg/errors"
	"github.com/matzehuels/taskorder/pkg/httputil"
	"github.com/matzehuels/taskorder/pkg/observability"
	"github.com/matzehuels/taskorder/pkg/schedule"
	"github.com/matzehuels/taskorder/pkg/store"
)

const httpTimeout = 30 * time.Second

// Client talks to a taskorder server.
type Client struct {
	baseURL string
	http    *http.Client

	// Attempts and Delay control retries of transient failures.
	Attempts int
	Delay    time.Duration
}

// New creates a client for the server at baseURL (e.g. http://localhost:8080).
// A nil httpClient uses one with a 30 second timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: httpTimeout}
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     httpClient,
		Attempts: httputil.DefaultAttempts,
		Delay:    httputil.DefaultDelay,
	}
}

type scheduleRequest struct {
	Tasks []schedule.Task `json:"tasks"`
}

type scheduleResponse struct {
	RecommendedOrder []string `json:"recommendedOrder"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// Schedule asks the server for the recommended order of tasks.
func (c *Client) Schedule(ctx context.Context, projectID string, tasks []schedule.Task) ([]string, error) {
	body, err := json.Marshal(scheduleRequest{Tasks: tasks})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	var resp scheduleResponse
	if err := c.do(ctx, http.MethodPost, c.schedulePath(projectID), body, &resp); err != nil {
		return nil, err
	}
	return resp.RecommendedOrder, nil
}

// Latest fetches the most recent schedule recorded for projectID.
func (c *Client) Latest(ctx context.Context, projectID string) (*store.Schedule, error) {
	var s store.Schedule
	if err := c.do(ctx, http.MethodGet, c.schedulePath(projectID)+"/latest", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) schedulePath(projectID string) string {
	return "/api/v1/projects/" + url.PathEscape(projectID) + "/schedule"
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, v any) error {
	err := httputil.Retry(ctx, c.Attempts, c.Delay, func() error {
		return c.doOnce(ctx, method, path, body, v)
	})
	// Callers see the coded error, not the retry marker.
	var re *httputil.RetryableError
	if stderrors.As(err, &re) {
		return re.Err
	}
	return err
}

func (c *Client) doOnce(ctx context.Context, method, path string, body []byte, v any) error {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	hooks := observability.HTTP()
	host := req.URL.Host
	hooks.OnRequest(ctx, method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, method, host, path, err)
		return &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "%s %s", method, path)}
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode response")
	}
	return nil
}

// checkStatus converts non-200 responses into coded errors.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}

	var er errorResponse
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&er)
	msg := er.Error
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		code := errors.Code(er.Code)
		if code == "" {
			code = errors.ErrCodeInvalidInput
		}
		return &errors.Error{Code: code, Message: msg}
	case resp.StatusCode == http.StatusNotFound:
		return &errors.Error{Code: errors.ErrCodeNotFound, Message: msg}
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		if er.Details != "" {
			msg += " " + er.Details
		}
		return &httputil.RetryableError{
			Err:   errors.New(errors.ErrCodeNetwork, "server returned %d: %s", resp.StatusCode, msg),
			After: httputil.RetryAfter(resp.Header),
		}
	default:
		return errors.New(errors.ErrCodeNetwork, "server returned %d: %s", resp.StatusCode, msg)
	}
}
