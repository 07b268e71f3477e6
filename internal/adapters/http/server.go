// Package http exposes the gateway over streamable HTTP: the /mcp JSON-RPC
// endpoint with Mcp-Session-Id correlation, plus health and metrics.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shipyard-mcp/shipyard/internal/config"
	"github.com/shipyard-mcp/shipyard/internal/logging"
	"github.com/shipyard-mcp/shipyard/pkg/rpc"
	"github.com/shipyard-mcp/shipyard/pkg/session"
)

// SessionHeader carries the session token on requests and responses.
const SessionHeader = "Mcp-Session-Id"

// Server wires the RPC dispatcher and session manager into HTTP handlers.
type Server struct {
	dispatcher *rpc.Dispatcher
	sessions   *session.Manager

	serverName    string
	serverVersion string

	vercelToken config.TokenSource
	renderToken config.TokenSource

	metricsHandler http.Handler
	logger         *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithServerInfo sets the identity reported by discovery and health.
func WithServerInfo(name, version string) Option {
	return func(s *Server) {
		s.serverName = name
		s.serverVersion = version
	}
}

// WithHealthTokens wires the credential presence flags reported by /health.
func WithHealthTokens(vercel, render config.TokenSource) Option {
	return func(s *Server) {
		s.vercelToken = vercel
		s.renderToken = render
	}
}

// WithMetricsHandler mounts a /metrics endpoint.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metricsHandler = h
	}
}

// NewHandler builds the HTTP handler for the gateway.
func NewHandler(dispatcher *rpc.Dispatcher, sessions *session.Manager, opts ...Option) http.Handler {
	s := &Server{
		dispatcher:    dispatcher,
		sessions:      sessions,
		serverName:    "shipyard-mcp",
		serverVersion: "dev",
		vercelToken:   config.EnvToken(config.EnvVercelToken),
		renderToken:   config.EnvToken(config.EnvRenderToken),
		logger:        logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(corsMiddleware)

	r.Get("/health", s.handleHealth)
	if s.metricsHandler != nil {
		r.Handle("/metrics", s.metricsHandler)
	}

	r.Route("/mcp", func(r chi.Router) {
		r.Get("/", s.handleDiscovery)
		r.Post("/", s.handleRPC)
		r.Delete("/", s.handleTeardown)
	})

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+SessionHeader)
		w.Header().Set("Access-Control-Expose-Headers", SessionHeader)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// handleRPC decodes one JSON-RPC envelope, resolves the session, and writes
// exactly one response envelope. Dispatch outcomes are always HTTP 200; only
// an unparsable body is a transport failure (400, envelope with null id).
func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	var req rpc.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Warn("malformed request body", "err", err)
		writeJSON(w, http.StatusBadRequest, rpc.Malformed())
		return
	}

	sess, isNew, err := s.sessions.Resolve(r.Context(), r.Header.Get(SessionHeader))
	if err != nil {
		// Session bookkeeping must not take the RPC down with it.
		s.logger.Warn("session resolution failed", "err", err)
	}
	if sess != nil {
		w.Header().Set(SessionHeader, sess.ID)
		if isNew {
			s.logger.Debug("session opened", "session_id", sess.ID)
		}
	}

	resp := s.dispatcher.Dispatch(r.Context(), &req)
	if resp == nil {
		// Notification: acknowledged, no envelope.
		w.WriteHeader(http.StatusAccepted)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleTeardown closes the session named in the header. Teardown always
// succeeds, including for unknown or already-closed sessions.
func (s *Server) handleTeardown(w http.ResponseWriter, r *http.Request) {
	id := r.Header.Get(SessionHeader)
	if err := s.sessions.Close(r.Context(), id); err != nil {
		s.logger.Warn("session close failed", "session_id", id, "err", err)
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleDiscovery serves the static capability document.
func (s *Server) handleDiscovery(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":            s.serverName,
		"version":         s.serverVersion,
		"protocolVersion": rpc.ProtocolVersion,
		"transport":       "streamable-http",
		"tools":           s.dispatcher.Registry().Names(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"service":   s.serverName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"environment": map[string]bool{
			"vercel_token_configured": s.vercelToken() != "",
			"render_token_configured": s.renderToken() != "",
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Debug("response encode failed", "err", err)
	}
}
