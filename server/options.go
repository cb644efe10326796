package server

import "log/slog"

// Option configures a Server.
type Option func(*Server)

// WithLogger injects a structured logger. Nil is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.log = logger
		}
	}
}

// WithAuthToken gates the /api/ routes behind a bearer token. An empty
// token leaves the API open.
func WithAuthToken(token string) Option {
	return func(s *Server) {
		s.authToken = token
	}
}
