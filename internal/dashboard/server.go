// Package dashboard exposes the admin dashboard HTTP API: list and detail
// endpoints for bookings, orders, users and transactions, mutation proxies,
// the notification feed, revenue analytics and Excel export.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"rentdash/internal/config"

	"github.com/rs/zerolog"
)

// Server wraps the HTTP listener around the dashboard handlers.
type Server struct {
	server *http.Server
	logger *zerolog.Logger
}

// NewServer builds the listener with auth, rate limiting and access logging
// wrapped around the handler set.
func NewServer(cfg config.ServerConfig, h *Handlers, logger *zerolog.Logger) *Server {
	mux := http.NewServeMux()
	h.Register(mux)

	guard := newAuthGuard(cfg)
	handler := accessLog(logger, guard.Wrap(mux))

	return &Server{
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      30 * time.Second,
		},
		logger: logger,
	}
}

// Start blocks serving requests until Shutdown.
func (s *Server) Start() error {
	if s.logger != nil {
		s.logger.Info().Str("addr", s.server.Addr).Msg("dashboard api listening")
	}
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler returns the configured root handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}
