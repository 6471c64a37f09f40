// Package httpapi exposes the HTTP surface: the liveness probe used by the
// hosting platform and a small control endpoint mirroring the /offline and
// /online chat commands.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/edgard/awaybot/internal/config"
	"github.com/edgard/awaybot/internal/state"
)

const shutdownTimeout = 5 * time.Second

// Server wraps the net/http server serving the probe and control routes.
type Server struct {
	logger *slog.Logger
	cfg    *config.Config
	state  *state.Store
	srv    *http.Server
}

// NewServer creates the HTTP server bound to the configured address.
func NewServer(logger *slog.Logger, cfg *config.Config, st *state.Store) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		logger: logger.With("component", "httpapi"),
		cfg:    cfg,
		state:  st,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/offline", s.handleOffline)
	mux.HandleFunc("/online", s.handleOnline)

	s.srv = &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Run serves HTTP until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}
	s.logger.Info("HTTP server stopped gracefully.")
	return nil
}

// handleRoot answers the liveness probe. GET returns the current mode; HEAD
// returns a bare 200.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodHead:
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		status := "Online"
		if s.state.IsOffline() {
			status = "Offline"
			if until, ok := s.state.OfflineUntil(); ok {
				status += " (until " + until.Local().Format("2006-01-02 15:04:05") + ")"
			}
		}
		s.writeJSON(w, map[string]any{
			"status":       status,
			"offline_mode": s.state.IsOffline(),
		})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleOffline(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Message string `json:"message"`
	}
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
	}
	if body.Message == "" {
		body.Message = s.cfg.Messages.OfflineDefault
	}

	s.state.SetOffline(body.Message, time.Time{})
	s.logger.Info("Offline mode enabled via HTTP", "remote_addr", r.RemoteAddr)
	s.writeJSON(w, map[string]any{"status": "Offline", "message": body.Message})
}

func (s *Server) handleOnline(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.state.SetOnline()
	s.logger.Info("Online mode enabled via HTTP", "remote_addr", r.RemoteAddr)
	s.writeJSON(w, map[string]any{"status": "Online mode enabled"})
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to write JSON response", "error", err)
	}
}
