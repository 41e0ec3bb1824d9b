package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/jpalmerr/gradebook/internal/grades"
	"github.com/jpalmerr/gradebook/internal/store"
)

const (
	// shutdownTimeout bounds graceful shutdown of in-flight requests.
	shutdownTimeout = 5 * time.Second

	// maxBodyBytes caps request bodies.
	maxBodyBytes = 1 << 20
)

// Server handles HTTP requests for the gradebook API.
//
// The server is designed for graceful shutdown via context cancellation.
// Use [Server.Wait] to block until shutdown has finished.
type Server struct {
	store      store.Store
	engine     *grades.Engine
	port       int
	threshold  float64
	httpServer *http.Server
	logger     *slog.Logger
	done       chan struct{}
}

// NewServer creates a new HTTP [Server].
//
// Parameters:
//   - st: Store holding student records
//   - port: TCP port to listen on (0 picks a free port)
//   - threshold: Default threshold for the below-average listing
//   - logger: Logger for server events
//
// The server is not started until [Server.Start] is called.
func NewServer(st store.Store, port int, threshold float64, logger *slog.Logger) *Server {
	return &Server{
		store:     st,
		engine:    grades.NewEngine(st),
		port:      port,
		threshold: threshold,
		logger:    logger,
		done:      make(chan struct{}),
	}
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /students/{$}", s.handleCreateStudent)
	mux.HandleFunc("POST /students", redirectToSlash)
	mux.HandleFunc("GET /students/{id}", s.handleGetStudent)
	mux.HandleFunc("DELETE /students/remove/no_grades", s.handleRemoveGradeless)

	mux.HandleFunc("GET /grades/below_average/{$}", s.handleBelowThreshold)
	mux.HandleFunc("GET /grades/below_average", redirectToSlash)
	mux.HandleFunc("GET /grades/statistics/{subject}", s.handleStatistics)
	mux.HandleFunc("GET /grades/{subject}", s.handleGradesBySubject)

	mux.HandleFunc("GET /healthz", s.handleHealth)

	return withRequestID(withAccessLog(s.logger, withRecovery(s.logger, mux)))
}

// Start begins serving HTTP requests in a background goroutine.
//
// Start is non-blocking and returns immediately after confirming the server
// is listening. The server will continue running until the context is
// cancelled, at which point it initiates a graceful shutdown with a 5-second
// timeout.
//
// Returns an error if the server fails to bind to the configured port.
func (s *Server) Start(ctx context.Context) error {
	// create listener first to verify port availability synchronously
	addr := fmt.Sprintf(":%d", s.port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind to port %d: %w", s.port, err)
	}

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server error", "error", err)
		}
	}()

	// shutdown on context cancellation
	go func() {
		defer close(s.done)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("http server shutdown error", "error", err)
		}
	}()

	return nil
}

// Wait blocks until a started server has finished shutting down.
func (s *Server) Wait() {
	<-s.done
}

// createStudentRequest is the body of POST /students/.
//
// Grades decode as pointers so a JSON null is told apart from 0.
type createStudentRequest struct {
	Name   string              `json:"name"`
	Grades map[string]*float64 `json:"grades"`
}

// validate checks the request and returns the accepted grades rounded to
// one decimal.
func (req *createStudentRequest) validate() (map[string]float64, error) {
	if req.Name == "" {
		return nil, invalid("name is required")
	}
	if req.Grades == nil {
		return nil, invalid("grades is required")
	}

	subjects := make([]string, 0, len(req.Grades))
	for subject := range req.Grades {
		subjects = append(subjects, subject)
	}
	sort.Strings(subjects)

	accepted := make(map[string]float64, len(req.Grades))
	for _, subject := range subjects {
		grade := req.Grades[subject]
		if grade == nil {
			return nil, invalid("grade for %q must be a number", subject)
		}
		if !grades.ValidGrade(*grade) {
			return nil, invalid("grade for %q must be between %g and %g, got %g",
				subject, grades.MinGrade, grades.MaxGrade, *grade)
		}
		accepted[subject] = grades.RoundGrade(*grade)
	}
	return accepted, nil
}

// handleCreateStudent stores a new student under the next id.
func (s *Server) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	var req createStudentRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		s.logger.Debug("rejected request body", "error", err)
		writeError(w, invalid("invalid request body"), s.logger)
		return
	}
	accepted, err := req.validate()
	if err != nil {
		writeError(w, err, s.logger)
		return
	}

	student := s.store.Create(req.Name, accepted)
	s.logger.Info("student created", "student_id", student.ID, "subjects", len(student.Grades))

	writeJSON(w, http.StatusOK, student, s.logger)
}

// handleGetStudent returns a single student record.
func (s *Server) handleGetStudent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, invalid("student id must be an integer"), s.logger)
		return
	}

	student, ok := s.store.Get(id)
	if !ok {
		writeError(w, notFound("Student not found"), s.logger)
		return
	}

	writeJSON(w, http.StatusOK, student, s.logger)
}

// handleGradesBySubject lists [name, grade] pairs ascending by grade.
func (s *Server) handleGradesBySubject(w http.ResponseWriter, r *http.Request) {
	result := s.engine.StudentsBySubjectGrade(r.PathValue("subject"))
	if len(result) == 0 {
		writeError(w, notFound("Subject not found"), s.logger)
		return
	}

	writeJSON(w, http.StatusOK, result, s.logger)
}

// handleStatistics returns average, median and standard deviation.
func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	stats, ok := s.engine.StatisticsFor(r.PathValue("subject"))
	if !ok {
		writeError(w, notFound("Not enough grades to compute statistics"), s.logger)
		return
	}

	writeJSON(w, http.StatusOK, stats, s.logger)
}

// handleBelowThreshold lists students with grades under the threshold.
//
// The threshold defaults to the configured value and may be overridden with
// ?threshold=N.
func (s *Server) handleBelowThreshold(w http.ResponseWriter, r *http.Request) {
	threshold := s.threshold
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || !grades.ValidGrade(parsed) {
			writeError(w, invalid("threshold must be a number between %g and %g",
				grades.MinGrade, grades.MaxGrade), s.logger)
			return
		}
		threshold = parsed
	}

	result := s.engine.StudentsBelowThreshold(threshold)
	if len(result) == 0 {
		writeError(w, notFound("No students below threshold"), s.logger)
		return
	}

	writeJSON(w, http.StatusOK, result, s.logger)
}

// handleRemoveGradeless deletes students without grades.
func (s *Server) handleRemoveGradeless(w http.ResponseWriter, r *http.Request) {
	removed := s.engine.RemoveGradelessStudents()
	if len(removed) == 0 {
		writeError(w, notFound("No students without grades"), s.logger)
		return
	}

	s.logger.Info("removed students without grades", "count", len(removed), "student_ids", removed)
	writeJSON(w, http.StatusOK, removed, s.logger)
}

// redirectToSlash sends a request for a collection path without its trailing
// slash to the slash form. 307 keeps the method and body.
func redirectToSlash(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Path + "/"
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusTemporaryRedirect)
}

// handleHealth reports liveness, the record count and the highest id in use.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ids := s.store.IDs()
	maxID := 0
	for _, id := range ids {
		maxID = max(maxID, id)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"students": len(ids),
		"max_id":   maxID,
	}, s.logger)
}
