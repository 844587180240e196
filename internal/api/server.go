// Package api serves the stateless Future Decisions service over HTTP:
// the scenario catalog, decision folding and the end-of-scenario summary.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/tatianab/impact-games/internal/catalog"
	"github.com/tatianab/impact-games/internal/models"
	"github.com/tatianab/impact-games/internal/simulate"
)

const (
	maxBodyBytes      = 1 << 20
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Server handles HTTP requests. It keeps no game state between calls.
type Server struct {
	catalog      *catalog.Catalog
	errorHandler *ErrorHandler
	logger       *log.Logger
	startTime    time.Time
	timeout      time.Duration
}

// NewServer returns a server over cat. A nil logger logs to stdout.
func NewServer(cat *catalog.Catalog, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(os.Stdout, "[API] ", log.LstdFlags)
	}
	return &Server{
		catalog:      cat,
		errorHandler: NewErrorHandler(logger),
		logger:       logger,
		startTime:    time.Now(),
		timeout:      30 * time.Second,
	}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(s.errorHandler.RecoveryHandler)
	r.Use(middleware.Timeout(s.timeout))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/scenarios", s.handleListScenarios)
		r.Get("/scenarios/{id}", s.handleGetScenario)
		r.Post("/simulate/decision", s.handleDecision)
		r.Post("/simulate/summary", s.handleSummary)
	})
	return r
}

// ListenAndServe serves on addr until ctx ends, then drains in-flight
// requests before returning.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	serveErr := make(chan error, 1)
	s.logger.Printf("decision service listening on %s", addr)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Printf("request request_id=%s method=%s path=%s status=%d duration=%s",
			middleware.GetReqID(r.Context()), r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Service-Version", Version)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Printf("encode_response_failed error=%q", err)
	}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		s.errorHandler.HandleValidationError(w, r, "body", "invalid JSON: "+err.Error())
		return false
	}
	return true
}

func (s *Server) handleListScenarios(w http.ResponseWriter, r *http.Request) {
	entries := s.catalog.Entries(models.GameFutureDecisions)
	if entries == nil {
		entries = []models.Entry{}
	}
	s.writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleGetScenario(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	e, ok := s.catalog.Entry(models.GameFutureDecisions, id)
	if !ok {
		s.errorHandler.HandleNotFound(w, r, id)
		return
	}
	s.writeJSON(w, http.StatusOK, e)
}

func (s *Server) ranges() map[string]models.Range {
	if g, ok := s.catalog.Game(models.GameFutureDecisions); ok {
		return g.Scoring.Ranges
	}
	return nil
}

func (s *Server) handleDecision(w http.ResponseWriter, r *http.Request) {
	var req DecisionRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.CurrentState.Indicators == nil {
		s.errorHandler.HandleValidationError(w, r, "currentState.indicators", "indicators are required")
		return
	}
	effects := req.Decision.Effects
	if effects == nil {
		effects = models.Effects{}
	}

	updated := simulate.ApplyDecision(req.CurrentState, req.Decision, s.ranges())
	s.logger.Printf("decision scenario=%s question=%s option=%s", req.CurrentState.ScenarioID, req.Decision.QuestionID, req.Decision.OptionID)
	s.writeJSON(w, http.StatusOK, DecisionResponse{UpdatedState: updated, ImmediateEffects: effects})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	var req SummaryRequest
	if !s.decode(w, r, &req) {
		return
	}
	state := req.GameState
	if state.ScenarioID == "" {
		s.errorHandler.HandleValidationError(w, r, "gameState.scenarioId", "scenario id is required")
		return
	}
	e, ok := s.catalog.Entry(models.GameFutureDecisions, state.ScenarioID)
	if !ok {
		s.errorHandler.HandleNotFound(w, r, state.ScenarioID)
		return
	}
	if state.Indicators == nil {
		s.errorHandler.HandleValidationError(w, r, "gameState.indicators", "indicators are required")
		return
	}

	s.writeJSON(w, http.StatusOK, SummaryResponse{
		Scenario: ScenarioRef{Name: e.Title, Context: e.Summary},
		Summary:  simulate.Summarize(state),
	})
}
