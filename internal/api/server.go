package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/pfrederiksen/calendar-prereqs/internal/catalog"
	"github.com/pfrederiksen/calendar-prereqs/internal/logger"
	"github.com/pfrederiksen/calendar-prereqs/internal/scraper"
	"github.com/pfrederiksen/calendar-prereqs/internal/search"
)

const shutdownTimeout = 10 * time.Second

// Querier is the set of calendar queries the API exposes. *search.Service implements it.
type Querier interface {
	Subjects(ctx context.Context) (*catalog.SubjectMap, error)
	Courses(ctx context.Context, subjectURL string) ([]catalog.Course, error)
	SearchAll(ctx context.Context, name, number string) ([]catalog.PrerequisiteMatch, error)
	SearchSubject(ctx context.Context, subjectName, number string) ([]catalog.PrerequisiteMatch, error)
}

// Server routes HTTP requests to a Querier
type Server struct {
	q   Querier
	mux *http.ServeMux
}

// New creates a Server with all routes registered
func New(q Querier) *Server {
	s := &Server{
		q:   q,
		mux: http.NewServeMux(),
	}

	s.mux.HandleFunc("GET /subject-codes", s.handleSubjects)
	s.mux.HandleFunc("GET /courses", s.handleCourses)
	s.mux.HandleFunc("GET /prerequisites", s.handlePrerequisites)
	s.mux.HandleFunc("GET /subjects/{subject}/prerequisites", s.handleSubjectPrerequisites)

	return s
}

// Handler returns the root handler with request logging
func (s *Server) Handler() http.Handler {
	return logRequests(s.mux)
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting API server", logger.Fields{"addr": addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serving API: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Info("Shutting down API server", nil)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down API: %w", err)
	}
	return nil
}

func (s *Server) handleSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := s.q.Subjects(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, subjects)
}

func (s *Server) handleCourses(w http.ResponseWriter, r *http.Request) {
	subjectURL := r.URL.Query().Get("url")
	if subjectURL == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "No subject URL provided"})
		return
	}

	courses, err := s.q.Courses(r.Context(), subjectURL)
	if err != nil {
		writeError(w, err)
		return
	}
	if courses == nil {
		courses = []catalog.Course{}
	}
	writeJSON(w, http.StatusOK, courses)
}

func (s *Server) handlePrerequisites(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	name, number := query.Get("name"), query.Get("number")
	if name == "" || number == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Course name and number are required"})
		return
	}

	matches, err := s.q.SearchAll(r.Context(), name, number)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

func (s *Server) handleSubjectPrerequisites(w http.ResponseWriter, r *http.Request) {
	subject := r.PathValue("subject")
	number := r.URL.Query().Get("number")
	if number == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Course number is required"})
		return
	}

	matches, err := s.q.SearchSubject(r.Context(), subject, number)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

type errorBody struct {
	Error string `json:"error"`
}

// statusFor maps query errors to HTTP status codes
func statusFor(err error) int {
	var fetchErr *scraper.FetchError
	switch {
	case errors.Is(err, search.ErrInvalidQuery):
		return http.StatusBadRequest
	case errors.Is(err, search.ErrSubjectNotFound):
		return http.StatusNotFound
	case errors.As(err, &fetchErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", logger.Fields{"status": status}, err)
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Writing response failed", logger.Fields{"error": err.Error()})
	}
}

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		logger.IncrCounter("api.requests")
		logger.Debug("Handled request", logger.Fields{
			"method":  r.Method,
			"path":    r.URL.Path,
			"status":  rec.status,
			"elapsed": time.Since(start).String(),
		})
	})
}
