package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestID)
	r.Use(s.accessLog)
	r.Use(s.recoverer)
	r.Use(middleware.NoCache)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)

	r.Post("/api/v1/projects/{projectId}/schedule", s.handleSchedule)
	r.Get("/api/v1/projects/{projectId}/schedule/latest", s.handleLatest)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found.", "")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed.", "")
	})

	return r
}
