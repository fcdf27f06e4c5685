package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/mcoot/coophost-go/internal/api/middleware"
	"github.com/mcoot/coophost-go/internal/services/session"
	"github.com/mcoot/coophost-go/internal/services/status"
)

// RouterConfig holds configuration for the status API router
type RouterConfig struct {
	Logger    *slog.Logger
	Publisher *status.Publisher
	Manager   *session.Manager
}

// NewRouter creates the read-only status API. This is the one outward
// surface this layer owns: the last published snapshot and host liveness.
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	api.HandleFunc("/status", statusHandler(cfg.Publisher)).Methods(http.MethodGet)
	api.HandleFunc("/health", healthHandler(cfg.Manager)).Methods(http.MethodGet)

	return r
}

// statusHandler serves the latest published session snapshot
func statusHandler(publisher *status.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, publisher.Latest())
	}
}

type healthResponse struct {
	Status      string `json:"status"`
	DegradedFor string `json:"degradedFor,omitempty"`
}

// healthHandler reports whether the engine is accepting connections
func healthHandler(manager *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d, degraded := manager.Degraded(); degraded {
			writeJSON(w, http.StatusServiceUnavailable, healthResponse{
				Status:      "degraded",
				DegradedFor: d.Round(time.Second).String(),
			})
			return
		}
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
