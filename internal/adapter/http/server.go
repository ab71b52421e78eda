// Package http serves the prediction, station analytics, and account API
// alongside health, readiness, and metrics endpoints.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/flood-risk-service/internal/auth"
	"github.com/couchcryptid/flood-risk-service/internal/dataset"
	"github.com/couchcryptid/flood-risk-service/internal/domain"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Assessor scores a single feature row.
type Assessor interface {
	Assess(ctx context.Context, row domain.FeatureRow) (domain.RiskAssessment, error)
}

// StatsProvider returns the station analytics.
type StatsProvider interface {
	Stats(ctx context.Context) (dataset.StationStats, error)
}

// Accounts handles signup, login, and token checks.
type Accounts interface {
	Signup(ctx context.Context, username, password string) (*auth.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	Authenticate(token string) (*auth.Claims, error)
}

// Handlers are the backends behind the API routes. Nil Stats or Accounts
// leave the corresponding routes unregistered.
type Handlers struct {
	Ready    ReadinessChecker
	Assessor Assessor
	Stats    StatsProvider
	Accounts Accounts
}

// Server exposes the API over HTTP.
type Server struct {
	httpServer *http.Server
	handlers   Handlers
	logger     *slog.Logger
}

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// NewServer creates an HTTP server with the health, metrics, and API routes.
func NewServer(addr string, h Handlers, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      withCORS(mux),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		handlers: h,
		logger:   logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(h.Ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	if h.Assessor != nil {
		mux.HandleFunc("POST /predict", s.handlePredict)
	}
	if h.Stats != nil {
		mux.HandleFunc("GET /stations", s.handleStations)
	}
	if h.Accounts != nil {
		mux.HandleFunc("POST /signup", s.handleSignup)
		mux.HandleFunc("POST /token", s.handleToken)
		mux.HandleFunc("GET /users/me", s.handleMe)
	}

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if checker != nil {
			if err := checker.CheckReadiness(ctx); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "not ready",
					"error":  err.Error(),
				})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client may have gone away
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
