package server

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/taskorder/pkg/buildinfo"
	"github.com/matzehuels/taskorder/pkg/errors"
	"github.com/matzehuels/taskorder/pkg/schedule"
	"github.com/matzehuels/taskorder/pkg/store"
)

const (
	msgInvalidBody  = "Invalid request body."
	msgBodyTooLarge = "Request body too large."
	msgInternal     = "An internal server error occurred."
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("title", func(fl validator.FieldLevel) bool {
		return errors.ValidateTitle(fl.Field().String()) == nil
	})
	return v
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	projectID, err := projectParam(r)
	if err != nil {
		writeClientError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge, errors.ErrCodeInvalidInput)
			return
		}
		writeError(w, http.StatusBadRequest, msgInvalidBody, errors.ErrCodeInvalidFormat)
		return
	}

	if len(req.Tasks) == 0 {
		writeClientError(w, schedule.NoTasksError())
		return
	}
	if err := validate.Struct(req); err != nil {
		writeClientError(w, validationError(err))
		return
	}

	res, err := s.planner.Plan(r.Context(), projectID, req.toTasks())
	if err != nil {
		if errors.IsClientError(err) {
			writeClientError(w, err)
			return
		}
		s.logger.Error("schedule failed", "project", projectID, "request_id", RequestID(r.Context()), "error", err)
		writeInternalError(w, err)
		return
	}

	w.Header().Set("X-Schedule-ID", res.ID)
	if res.CacheHit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	writeJSON(w, http.StatusOK, scheduleResponse{RecommendedOrder: res.Order})
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	projectID, err := projectParam(r)
	if err != nil {
		writeClientError(w, err)
		return
	}

	sched, err := s.planner.Latest(r.Context(), projectID)
	if stderrors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound,
			fmt.Sprintf("No schedule recorded for project '%s'.", projectID), errors.ErrCodeNotFound)
		return
	}
	if err != nil {
		s.logger.Error("load schedule failed", "project", projectID, "error", err)
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sched)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

// projectParam returns the unescaped projectId path segment. It is only
// checked for presence and length.
func projectParam(r *http.Request) (string, error) {
	raw := chi.URLParam(r, "projectId")
	id, err := url.PathUnescape(raw)
	if err != nil {
		return "", errors.New(errors.ErrCodeInvalidProject, "project ID is not a valid path segment")
	}
	if err := errors.ValidateProjectID(id); err != nil {
		return "", err
	}
	return id, nil
}

// validationError converts validator output into a client error naming the
// first offending field by its JSON path, e.g. tasks[2].dueDate.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) || len(verrs) == 0 {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "%s", msgInvalidBody)
	}
	fe := verrs[0]
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}

	code := errors.ErrCodeInvalidInput
	if strings.HasPrefix(fe.Tag(), "title") {
		code = errors.ErrCodeInvalidTask
	}
	rule := fe.Tag()
	if fe.Param() != "" {
		rule += "=" + fe.Param()
	}
	return errors.New(code, "Invalid value for %s (%s).", field, rule)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string, code errors.Code) {
	writeJSON(w, status, errorResponse{Error: msg, Code: string(code)})
}

func writeClientError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusBadRequest, errors.UserMessage(err), errors.GetCode(err))
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msgInternal, Details: err.Error()})
}
