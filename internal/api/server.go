// Package api provides the HTTP server for nursequest.
// It exposes the economy engine to a UI layer as JSON intents and snapshots.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nursequest/nursequest/internal/app/economy"
	"github.com/nursequest/nursequest/internal/domain"
	"github.com/nursequest/nursequest/internal/health"
	"github.com/nursequest/nursequest/internal/infra/metrics"
	"github.com/nursequest/nursequest/internal/logger"
)

// Server is the nursequest HTTP API server.
type Server struct {
	engine         *economy.Engine
	log            *logger.Logger
	health         *health.Checker
	metricsEnabled bool
	version        string
}

// NewServer creates a new API server over an engine.
func NewServer(engine *economy.Engine, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{engine: engine, log: log, version: "dev"}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetHealth attaches a checker whose results /health reports.
func (s *Server) SetHealth(c *health.Checker) { s.health = c }

// SetVersion sets the version reported by /health.
func (s *Server) SetVersion(v string) { s.version = v }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(corsMiddleware)
	r.Use(s.observe)

	r.Get("/health", s.handleHealth)

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api/economy", func(r chi.Router) {
		r.Get("/snapshot", s.handleSnapshot)
		r.Post("/read", s.handleRead)
		r.Post("/login", s.handleLogin)

		r.Route("/quiz", func(r chi.Router) {
			r.Post("/answer", s.handleAnswer)
			r.Post("/daily", s.handleFinishQuiz(domain.QuizDaily))
			r.Post("/weekly", s.handleFinishQuiz(domain.QuizWeekly))
			r.Post("/practice", s.handleFinishQuiz(domain.QuizPractice))
			r.Post("/pick", s.handlePick)
			r.Get("/stats", s.handleQuizStats)
			r.Post("/stats/clear", s.handleClearQuizStats)
		})

		r.Get("/missions", s.handleMissions)
		r.Post("/missions/{id}/claim", s.handleClaimMission)
		r.Get("/achievements", s.handleAchievements)
		r.Post("/achievements/{id}/claim", s.handleClaimAchievement)

		r.Post("/packs/open", s.handleOpenPack)
		r.Post("/packs/buy", s.handleBuyPack)
		r.Post("/cards/recycle", s.handleRecycle)

		r.Post("/tools/news2", s.handleNEWS2)
		r.Post("/tools/gcs", s.handleGCS)
		r.Get("/tools/compat", s.handleCompat)

		r.Get("/export", s.handleExport)
		r.Post("/import", s.handleImport)
	})

	return r
}

// observe records request latency by route pattern.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.APILatency.WithLabelValues(route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status":  "ok",
		"version": s.version,
	}
	status := http.StatusOK
	if s.health != nil {
		resp["checks"] = s.health.Statuses()
		if !s.health.IsHealthy() {
			resp["status"] = "degraded"
			status = http.StatusServiceUnavailable
		}
	}
	writeJSON(w, status, resp)
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    "error",
		},
	})
}

// statusFor maps engine errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnknownMission),
		errors.Is(err, domain.ErrUnknownAchievement),
		errors.Is(err, domain.ErrUnknownTool),
		errors.Is(err, domain.ErrUnknownDrug):
		return http.StatusNotFound
	case domain.IsInvalidTransition(err),
		errors.Is(err, domain.ErrNoPacks),
		errors.Is(err, domain.ErrInsufficientCoins):
		return http.StatusConflict
	case errors.Is(err, domain.ErrLimitExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrInvariant),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrMalformedBackup):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// fail writes err with its mapped status, logging server-side failures.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()), "error", err)
	}
	writeError(w, status, err.Error())
}

// corsMiddleware adds CORS headers for local development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
