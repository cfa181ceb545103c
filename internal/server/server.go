// Package server provides the HTTP REST API for the application
// pipeline: resume uploads, job registration, pipeline submission and
// artifact retrieval.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jonathan/laudatorai/internal/db"
	"github.com/jonathan/laudatorai/internal/orchestrator"
	"github.com/jonathan/laudatorai/internal/server/ratelimit"
	"github.com/jonathan/laudatorai/internal/storage"
	"github.com/jonathan/laudatorai/internal/types"
)

// Server is the HTTP front end. All pipeline work happens in the
// orchestrator; handlers only validate, persist and report.
type Server struct {
	httpServer  *http.Server
	db          *db.DB
	orch        *orchestrator.Orchestrator
	store       storage.ObjectStore
	log         *logrus.Logger
	rateLimiter *ratelimit.Limiter
	validate    *validator.Validate
	candidate   types.PersonalInfo
}

// Options holds server construction parameters.
type Options struct {
	ListenAddr string
	Candidate  types.PersonalInfo
}

// New creates a server around an already-connected database and a
// running orchestrator.
func New(database *db.DB, orch *orchestrator.Orchestrator, store storage.ObjectStore, log *logrus.Logger, opts Options) *Server {
	if opts.ListenAddr == "" {
		opts.ListenAddr = ":8080"
	}

	s := &Server{
		db:          database,
		orch:        orch,
		store:       store,
		log:         log,
		rateLimiter: ratelimit.NewLimiter(ratelimit.LoadConfig()),
		validate:    newValidator(),
		candidate:   opts.Candidate,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Pipeline
	mux.HandleFunc("POST /pipeline", s.handleSubmitPipeline)

	// Applications
	mux.HandleFunc("GET /applications", s.handleListApplications)
	mux.HandleFunc("GET /applications/{id}", s.handleGetApplication)
	mux.HandleFunc("GET /applications/{id}/status", s.handleApplicationStatus)
	mux.HandleFunc("GET /applications/{id}/documents/{kind}", s.handleApplicationDocument)
	mux.HandleFunc("POST /applications/{id}/cancel", s.handleCancelApplication)
	mux.HandleFunc("DELETE /applications/{id}", s.handleDeleteApplication)

	// Resumes
	mux.HandleFunc("POST /resumes", s.handleUploadResume)
	mux.HandleFunc("GET /resumes", s.handleListResumes)
	mux.HandleFunc("GET /resumes/{id}", s.handleGetResume)
	mux.HandleFunc("GET /resumes/{id}/preview", s.handleResumePreview)
	mux.HandleFunc("DELETE /resumes/{id}", s.handleDeleteResume)

	// Jobs
	mux.HandleFunc("POST /jobs", s.handleCreateJob)
	mux.HandleFunc("GET /jobs", s.handleListJobs)
	mux.HandleFunc("GET /jobs/{id}", s.handleGetJob)
	mux.HandleFunc("POST /jobs/{id}/process", s.handleReprocessJob)
	mux.HandleFunc("DELETE /jobs/{id}", s.handleDeleteJob)

	s.httpServer = &http.Server{
		Addr:         opts.ListenAddr,
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler exposes the routed handler stack, used by tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start blocks serving requests until Shutdown is called.
func (s *Server) Start() error {
	s.log.WithField("addr", s.httpServer.Addr).Info("server starting")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the limiter.
func (s *Server) Shutdown(ctx context.Context) error {
	defer s.rateLimiter.Stop()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

// withCORS adds CORS headers.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"remote":   r.RemoteAddr,
			"duration": time.Since(start).String(),
		}).Info("request")
	})
}

// withRateLimit rejects clients over their token budget.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			if info.RetryAfter > 0 {
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
			}
			s.jsonResponse(w, http.StatusTooManyRequests, map[string]any{
				"error":    "rate_limit_exceeded",
				"limit":    info.Limit,
				"reset_at": info.ResetTime.Format(time.RFC3339),
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientID identifies a client by its IP address.
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.WithError(err).Error("failed to encode response")
	}
}

// errorResponse maps an error to its HTTP status and writes it.
func (s *Server) errorResponse(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		s.log.WithError(err).Error("request failed")
	}
	s.jsonResponse(w, status, map[string]string{"error": err.Error()})
}

// newValidator builds the request validator, reporting fields by their
// JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateRequest runs struct validation and converts the first failure
// to an ErrValidation.
func (s *Server) validateRequest(req any) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	if fieldErrors, ok := err.(validator.ValidationErrors); ok && len(fieldErrors) > 0 {
		fe := fieldErrors[0]
		return &ErrValidation{Field: fe.Field(), Message: "failed " + fe.Tag() + " validation"}
	}
	return err
}

// pathUUID parses the named path segment as a UUID.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := r.PathValue(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: name, Message: "must be a valid UUID"}
	}
	return id, nil
}
