package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Entity endpoints
		r.Route("/entities", func(r chi.Router) {
			r.Get("/", s.handleListEntities)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetEntity)
				r.Get("/history", s.handleGetEntityHistory)
				r.Post("/command", s.handleEntityCommand)
			})
		})

		// WebSocket event stream
		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// handleHealth returns the server health status along with the bridged
// device identity.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	dev := s.bridge.Device()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"device": map[string]any{
			"name":   dev.Name,
			"topic":  dev.Topic,
			"nodeid": dev.NodeID,
		},
	})
}
