// Package server exposes the upload API, the public share page, and the
// raw retrieval proxy over HTTP.
//
// The server owns authentication, request parsing, and status mapping; all
// storage semantics live in the drop engine it wraps. The share page is a
// static client-side decrypt procedure: the only server-side parameter is
// the record id, and the decryption key stays in the URL fragment, which
// browsers never send.
package server

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/weavedrop/weavedrop-go/drop"
)

// Server is the HTTP layer over a drop engine.
type Server struct {
	mux       *http.ServeMux
	engine    *drop.Engine
	log       *slog.Logger
	authToken string
}

// New creates a Server with all routes registered.
func New(engine *drop.Engine, opts ...Option) *Server {
	s := &Server{
		mux:    http.NewServeMux(),
		engine: engine,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

// routes registers all HTTP routes on the server mux.
func (s *Server) routes() {
	// API (bearer-gated when an auth token is configured).
	s.mux.HandleFunc("POST /api/upload", s.handleUpload)
	s.mux.HandleFunc("GET /api/history", s.handleHistory)
	s.mux.HandleFunc("GET /api/status", s.handleStatus)

	// Public.
	s.mux.HandleFunc("GET /share/{id}", s.handleShare)
	s.mux.HandleFunc("GET /raw/{id}", s.handleRaw)
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)
}

// ServeHTTP implements http.Handler. CORS headers apply to every route;
// the bearer gate applies to /api/ routes only, so share links keep
// working for recipients without credentials.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	if origin == "" {
		origin = "*"
	} else {
		w.Header().Set("Vary", "Origin")
	}
	w.Header().Set("Access-Control-Allow-Origin", origin)
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if strings.HasPrefix(r.URL.Path, "/api/") && !s.authorized(r) {
		s.log.Warn("unauthorized request", "path", r.URL.Path, "remote", r.RemoteAddr)
		writeError(w, http.StatusUnauthorized, "invalid or missing bearer token")
		return
	}

	s.mux.ServeHTTP(w, r)
}

// authorized checks the bearer token. An empty configured token leaves the
// API open.
func (s *Server) authorized(r *http.Request) bool {
	if s.authToken == "" {
		return true
	}
	auth := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(s.authToken)) == 1
}

// handleHealthz reports liveness.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "weavedrop",
	})
}
