// internal/handlers/handlers.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/asynkron/protoactor-go/actor"

	"krishi-vaidya/internal/analysis"
	"krishi-vaidya/internal/database"
	"krishi-vaidya/internal/engine"
	"krishi-vaidya/internal/middleware"
	"krishi-vaidya/internal/utils"
	"krishi-vaidya/internal/websocket"
)

// defaultRequestTimeout bounds actor round trips from handlers.
const defaultRequestTimeout = 5 * time.Second

// Server bundles everything the HTTP handlers need.
type Server struct {
	System   *actor.ActorSystem
	Context  *actor.RootContext
	Engine   *engine.Engine
	Store    database.Store
	Metrics  *utils.MetricsCollector
	Sessions *middleware.SessionManager
	Hub      *websocket.Hub
	Analyzer analysis.Analyzer

	UploadDir      string
	RequestTimeout time.Duration
}

func NewServer(
	system *actor.ActorSystem,
	eng *engine.Engine,
	store database.Store,
	metrics *utils.MetricsCollector,
	sessions *middleware.SessionManager,
	hub *websocket.Hub,
	analyzer analysis.Analyzer,
	uploadDir string,
) *Server {
	return &Server{
		System:         system,
		Context:        system.Root,
		Engine:         eng,
		Store:          store,
		Metrics:        metrics,
		Sessions:       sessions,
		Hub:            hub,
		Analyzer:       analyzer,
		UploadDir:      uploadDir,
		RequestTimeout: defaultRequestTimeout,
	}
}

// askActor sends a message to an actor and waits for the reply.
func (s *Server) askActor(pid *actor.PID, msg interface{}) (interface{}, error) {
	result, err := s.Context.RequestFuture(pid, msg, s.RequestTimeout).Result()
	if err != nil {
		return nil, utils.NewAppError(utils.ErrActorTimeout, "request timed out", err)
	}
	return result, nil
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError emits the standard failure envelope the frontend expects.
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.Metrics.IncrementErrors()
	respondJSON(w, status, map[string]interface{}{
		"success": false,
		"message": message,
	})
}

// respondAppError maps an application error to its HTTP status.
func (s *Server) respondAppError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*utils.AppError); ok {
		slog.Warn("request failed", "code", appErr.Code, "error", appErr.Error())
		s.writeError(w, utils.AppErrorToHTTPStatus(appErr.Code), appErr.Message)
		return
	}
	slog.Error("request failed", "error", err)
	s.writeError(w, http.StatusInternalServerError, "Internal server error")
}

// WithMetrics counts requests and records per-route latency.
func (s *Server) WithMetrics(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		s.Metrics.IncrementRequests()
		next(w, r)
		s.Metrics.AddOperationLatency(route, time.Since(start))
	}
}

// HandleHealth reports liveness plus a metrics snapshot.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "healthy",
		"server_time": time.Now().Format(time.RFC3339),
		"metrics":     s.Metrics.Snapshot(),
	})
}
