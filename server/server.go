// Package server is a self-contained implementation of the users REST API
// the session client talks to. It backs the integration tests and the
// mockbackend command.
package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jrsteele09/go-session-client/internal/config"
	"github.com/jrsteele09/go-session-client/token/jwt"
	"github.com/jrsteele09/go-session-client/token/refresh"
	"github.com/rs/zerolog/log"
)

type Server struct {
	env     string // Environment (e.g., "DEV", "PROD")
	router  chi.Router
	routes  []string
	config  config.Config
	repos   Repos
	issuer  *jwt.Issuer
	refresh *refresh.Manager
}

func New(config config.Config, repos Repos) (*Server, error) {
	if config.GetJWTSecret() == "" {
		return nil, fmt.Errorf("[Server New] a JWT secret is required")
	}

	s := &Server{
		env:     config.GetEnv(),
		router:  chi.NewRouter(),
		config:  config,
		repos:   repos,
		issuer:  jwt.NewIssuer(jwt.NewHMACSigner(config.GetJWTSecret()), config.GetTokenTTL()),
		refresh: refresh.NewManager(repos.RefreshTokens, config.GetRefreshTTL()),
	}

	if _, err := s.InitialiseSystem(context.Background()); err != nil {
		return nil, fmt.Errorf("[Server New] Failed to initialise the system: %w", err)
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// CORS preflight is answered for every path before routing
	if r.Method == http.MethodOptions {
		s.CorsMiddleware(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})(w, r)
		return
	}
	s.router.ServeHTTP(w, r)
}

func (s *Server) RegisterRoute(method, pattern string, handler http.HandlerFunc) {
	s.routes = append(s.routes, method+" "+pattern)
	s.router.Method(method, pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		logRoute(parts[0], parts[1])
	}
}

func logRoute(method, path string) {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	color, ok := methodColors[method]
	if !ok {
		color = Gray
	}
	log.Info().Msgf("[%-19s] %s", color+paddedMethod+ResetColor, path)
}

func logError(method, path, error string) {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	color, ok := methodColors[method]
	if !ok {
		color = Gray
	}
	log.Error().Msgf("[%-19s] %s %s", color+paddedMethod+ResetColor, path, Red+error+ResetColor)
}
