// Package server provides the HTTP API a presentation layer uses to drive assessments.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/jonathan/assessment-engine/internal/assessment"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	registry   *Registry
	deps       assessment.Deps
	opts       []assessment.Option
	validator  *validator.Validate
}

// Config holds server configuration
type Config struct {
	Port int
}

// New creates a server whose coordinators share deps and opts
func New(cfg Config, deps assessment.Deps, opts ...assessment.Option) *Server {
	s := &Server{
		registry:  NewRegistry(),
		deps:      deps,
		opts:      opts,
		validator: validator.New(),
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // interview completion waits on answer evaluation
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the routed handler with middleware applied
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /assessments", s.handleCreateAssessment)
	mux.HandleFunc("GET /assessments/{id}", s.handleGetAssessment)
	mux.HandleFunc("DELETE /assessments/{id}", s.handleDeleteAssessment)
	mux.HandleFunc("POST /assessments/{id}/begin", s.handleBegin)
	mux.HandleFunc("POST /assessments/{id}/cancel", s.handleCancel)

	// Typing test
	mux.HandleFunc("POST /assessments/{id}/typing/input", s.handleTypingInput)
	mux.HandleFunc("POST /assessments/{id}/typing/focus-loss", s.handleTypingFocusLoss)
	mux.HandleFunc("POST /assessments/{id}/typing/submit", s.handleTypingSubmit)

	// AI interview
	mux.HandleFunc("PUT /assessments/{id}/interview/draft", s.handleInterviewDraft)
	mux.HandleFunc("POST /assessments/{id}/interview/answer", s.handleInterviewAnswer)
	mux.HandleFunc("POST /assessments/{id}/interview/back", s.handleInterviewBack)

	// Failed saves
	mux.HandleFunc("POST /assessments/{id}/persist/retry", s.handlePersistRetry)
	mux.HandleFunc("POST /assessments/{id}/persist/bypass", s.handlePersistBypass)

	return s.withLogging(s.withCORS(mux))
}

// Registry returns the live coordinators
func (s *Server) Registry() *Registry {
	return s.registry
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info().Str("addr", s.httpServer.Addr).Msg("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-stop
	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.registry.CloseAll()
	log.Info().Msg("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("error encoding JSON response")
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// fail writes err with its mapped status
func (s *Server) fail(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("request failed")
	}
	s.errorResponse(w, status, err.Error())
}
