package api

import (
	"context"
	"net/http"
	"time"

	"github.com/vytor/visualdex/internal/logger"
)

const readyTimeout = 2 * time.Second

// handleHealth returns a liveness probe - always returns 200 OK.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleReady reports 200 when the store answers a ping, 503 otherwise.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if s.Store == nil {
		writeJSON(w, r, http.StatusServiceUnavailable, ReadyResponse{Status: "unavailable", Store: "missing"})
		return
	}
	if err := s.Store.Ping(ctx); err != nil {
		log.Warn("readiness check failed - store: %v", err)
		writeJSON(w, r, http.StatusServiceUnavailable, ReadyResponse{Status: "unavailable", Store: "unreachable"})
		return
	}
	writeJSON(w, r, http.StatusOK, ReadyResponse{Status: "ready", Store: "ok"})
}
