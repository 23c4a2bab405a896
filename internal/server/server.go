// Package server provides the HTTP REST API for the resume matcher.
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

	"github.com/jonathan/resume-matcher/internal/config"
	"github.com/jonathan/resume-matcher/internal/db"
	"github.com/jonathan/resume-matcher/internal/ranking"
	"github.com/jonathan/resume-matcher/internal/types"
	"github.com/jonathan/resume-matcher/internal/vectorize"
	"go.uber.org/zap"
)

// maxBodyBytes caps request bodies; a rank request carries whole resumes
const maxBodyBytes = 16 << 20

// CandidateStore is the subset of the vector store the server reads from
type CandidateStore interface {
	FindCandidates(ctx context.Context, queryVec []float32, limit int, minSimilarity float64) ([]db.Candidate, error)
	LoadFeatures(ctx context.Context, c db.Candidate, dim int) (*types.ResumeFeatures, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	vectorizer *vectorize.Vectorizer
	ranker     *ranking.Ranker
	store      CandidateStore
	logger     *zap.Logger

	candidateLimit int
	minSimilarity  float64
	weights        *config.WeightStore
}

// Config holds server configuration
type Config struct {
	Port           int
	CandidateLimit int
	MinSimilarity  float64
	// Weights is reloaded by POST /weights/reload and SIGHUP. nil disables both.
	Weights *config.WeightStore
}

// New creates a new server instance. store may be nil, in which case
// POST /candidates answers 503.
func New(cfg Config, vectorizer *vectorize.Vectorizer, ranker *ranking.Ranker, store CandidateStore, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CandidateLimit <= 0 {
		cfg.CandidateLimit = db.DefaultCandidateLimit
	}

	s := &Server{
		vectorizer:     vectorizer,
		ranker:         ranker,
		store:          store,
		logger:         logger,
		candidateLimit: cfg.CandidateLimit,
		minSimilarity:  cfg.MinSimilarity,
		weights:        cfg.Weights,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Long timeout for large rank requests
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the routed handler with middleware applied
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /score", s.handleScore)
	mux.HandleFunc("POST /rank", s.handleRank)
	mux.HandleFunc("POST /candidates", s.handleCandidates)
	mux.HandleFunc("POST /weights/reload", s.handleReloadWeights)

	return s.withLogging(s.withCORS(mux))
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	hup := make(chan os.Signal, 1)
	if s.weights != nil {
		signal.Notify(hup, syscall.SIGHUP)
		defer signal.Stop(hup)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

wait:
	for {
		select {
		case <-hup:
			if _, err := s.reloadWeights(); err != nil {
				s.logger.Error("weight reload failed, keeping previous weights", zap.Error(err))
			}
		case <-stop:
			break wait
		case err := <-errCh:
			return fmt.Errorf("server error: %w", err)
		}
	}
	s.logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code for request logging
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
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("error encoding JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// handleError maps err to a status code and writes it
func (s *Server) handleError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
	}
	s.errorResponse(w, status, err.Error())
}
