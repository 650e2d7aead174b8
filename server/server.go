package server

import (
	"net/http"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/freshcart/auth-service/accounts"
	"github.com/freshcart/auth-service/googleauth"
	"github.com/freshcart/auth-service/internal/config"
	"github.com/freshcart/auth-service/server/sessionstore"
	"github.com/freshcart/auth-service/token"
)

// Deps holds the components the server gates requests through.
type Deps struct {
	Accounts accounts.Repo
	Sessions sessionstore.Repo
	Registry token.Registry
	Issuer   *token.Issuer
	Bridge   *googleauth.Bridge
}

type Server struct {
	env    string
	mux    *http.ServeMux
	routes []string
	config config.Config
	logger zerolog.Logger

	accounts accounts.Repo
	sessions sessionstore.Repo
	registry token.Registry
	issuer   *token.Issuer
	bridge   *googleauth.Bridge
}

func New(cfg config.Config, deps Deps) (*Server, error) {
	if deps.Accounts == nil {
		return nil, errors.New("[server.New] accounts repo is required")
	}
	if deps.Sessions == nil {
		return nil, errors.New("[server.New] session repo is required")
	}
	if deps.Registry == nil {
		return nil, errors.New("[server.New] revocation registry is required")
	}
	if deps.Issuer == nil {
		return nil, errors.New("[server.New] token issuer is required")
	}
	if deps.Bridge == nil {
		return nil, errors.New("[server.New] oauth bridge is required")
	}

	s := &Server{
		env:      cfg.GetEnv(),
		mux:      http.NewServeMux(),
		config:   cfg,
		logger:   zerolog.New(os.Stderr).With().Timestamp().Str("component", "server").Logger(),
		accounts: deps.Accounts,
		sessions: deps.Sessions,
		registry: deps.Registry,
		issuer:   deps.Issuer,
		bridge:   deps.Bridge,
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Route patterns are method-scoped, so CORS preflights are answered
	// here before dispatch.
	if r.Method == http.MethodOptions && r.Header.Get("Origin") != "" {
		s.CorsMiddleware(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})(w, r)
		return
	}
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			s.logger.Info().Str("method", parts[0]).Str("path", parts[1]).Msg("route registered")
		} else {
			s.logger.Info().Str("path", parts[0]).Msg("route registered")
		}
	}
}

// getScheme determines http/https behind a possible proxy.
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
