// Package devserver is a small stand-in for the remote authentication
// service, for local development and end-to-end tests of the client.
package devserver

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/go-auth-client/internal/config"
	"github.com/jrsteele09/go-auth-client/token"
	"github.com/jrsteele09/go-auth-client/users"
	"github.com/rs/zerolog"
)

// Config is the part of the application configuration the server reads.
type Config interface {
	config.EnvConfig
	config.DevServerConfig
}

type Server struct {
	env     string // Environment (e.g., "DEV", "PROD")
	mux     *http.ServeMux
	routes  []string
	config  Config
	users   users.UserRepo
	signer  token.Signer
	creator *token.Creator
	issuer  string
	ttl     time.Duration
	logger  zerolog.Logger
}

type Option func(*Server)

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New creates the server and registers its routes. Tokens are signed by
// signer; only a *token.KeyPairSigner can publish a key set.
func New(cfg Config, userRepo users.UserRepo, signer token.Signer, opts ...Option) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("[devserver.New] config is required")
	}
	if userRepo == nil {
		return nil, fmt.Errorf("[devserver.New] user repo is required")
	}
	if signer == nil {
		return nil, fmt.Errorf("[devserver.New] token signer is required")
	}

	s := &Server{
		env:     cfg.GetEnv(),
		mux:     http.NewServeMux(),
		config:  cfg,
		users:   userRepo,
		signer:  signer,
		creator: token.NewCreator(signer, cfg.GetTokenTTL()),
		issuer:  cfg.GetTokenIssuer(),
		ttl:     cfg.GetTokenTTL(),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.seedAdmin(); err != nil {
		return nil, fmt.Errorf("[devserver.New] failed to seed admin account: %w", err)
	}

	s.initRoutes()
	s.logRoutes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
	}
	for _, route := range s.routes {
		method, path, found := strings.Cut(route, " ")
		if !found {
			method, path = "", route
		}
		s.logger.Debug().Str("method", method).Str("path", path).Msg("route registered")
	}
}

// seedAdmin creates the configured admin account so there is someone to log in as.
func (s *Server) seedAdmin() error {
	email, password := s.config.GetSeedAdmin()
	if email == "" || password == "" {
		return nil
	}

	hash, err := users.HashPassword(password)
	if err != nil {
		return err
	}
	err = s.users.Create(&users.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Admin",
		LastName:     "User",
		Role:         users.RoleAdmin,
	})
	if err != nil {
		return err
	}
	s.logger.Info().Str("email", users.NormalizeEmail(email)).Msg("seeded admin account")
	return nil
}
