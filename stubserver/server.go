// Package stubserver is an in-memory implementation of the franchise
// service's REST contract, used for development and end-to-end exercising of
// the client. It mirrors the production service's semantics: seeded accounts,
// bearer tokens, password lifecycle, duplicate-name conflicts, and
// inactive-parent rejections.
package stubserver

import (
	"encoding/json"
	"net/http"

	"github.com/cfcastillo/go-franchise-client/internal/config"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type Server struct {
	env       string
	mux       *http.ServeMux
	routes    []string
	config    config.Config
	accounts  *accountRepo
	inventory *inventoryRepo
	tokens    *tokenService
	log       zerolog.Logger
}

// ServerOption modifies a Server instance.
type ServerOption func(*Server)

// WithLogger attaches a structured logger.
func WithLogger(log zerolog.Logger) ServerOption {
	return func(s *Server) {
		s.log = log
	}
}

func New(cfg config.Config, options ...ServerOption) (*Server, error) {
	tokens, err := newTokenService(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "[stubserver.New] token service")
	}

	s := &Server{
		env:       cfg.GetEnv(),
		mux:       http.NewServeMux(),
		config:    cfg,
		accounts:  newAccountRepo(),
		inventory: newInventoryRepo(),
		tokens:    tokens,
		log:       zerolog.Nop(),
	}

	for _, opt := range options {
		opt(s)
	}

	if err := s.seedAccounts(); err != nil {
		return nil, errors.Wrap(err, "[stubserver.New] seed accounts")
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) registerRoute(pattern string, handler http.HandlerFunc) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, ChainMiddleware(handler, s.LoggingMiddleware, s.RecoverMiddleware))
}

func (s *Server) initRoutes() {
	s.registerRoute("POST /api/v1/auth/login", s.handleLogin)
	s.registerRoute("POST /api/v1/auth/forgot-password", s.handleForgotPassword)
	s.registerRoute("POST /api/v1/auth/validate-reset-token", s.handleValidateResetToken)
	s.registerRoute("POST /api/v1/auth/reset-password", s.handleResetPassword)
	s.registerRoute("POST /api/v1/auth/change-password", s.RequireAuth(s.handleChangePassword))

	s.registerRoute("GET /api/v1/users", s.RequireAdmin(s.handleListUsers))
	s.registerRoute("POST /api/v1/users", s.RequireAdmin(s.handleCreateUser))
	s.registerRoute("PATCH /api/v1/users/{userId}/status", s.RequireAdmin(s.handleUserStatus))
	s.registerRoute("DELETE /api/v1/users/{userId}", s.RequireAdmin(s.handleDeleteUser))

	s.registerRoute("GET /api/v1/franchises", s.RequireAuth(s.handleListFranchises))
	s.registerRoute("POST /api/v1/franchises", s.RequireAdmin(s.handleCreateFranchise))
	s.registerRoute("GET /api/v1/franchises/{id}", s.RequireAuth(s.handleGetFranchise))
	s.registerRoute("PATCH /api/v1/franchises/{id}", s.RequireAdmin(s.handleRenameFranchise))
	s.registerRoute("PATCH /api/v1/franchises/{id}/status", s.RequireAdmin(s.handleFranchiseStatus))
	s.registerRoute("DELETE /api/v1/franchises/{id}", s.RequireAdmin(s.handleDeleteFranchise))

	s.registerRoute("GET /api/v1/franchises/{id}/branches/top-products", s.RequireAuth(s.handleTopProducts))
	s.registerRoute("POST /api/v1/franchises/{id}/branches", s.RequireAdmin(s.handleCreateBranch))
	s.registerRoute("PATCH /api/v1/franchises/{id}/branches/{branchId}", s.RequireAdmin(s.handleRenameBranch))
	s.registerRoute("PATCH /api/v1/franchises/{id}/branches/{branchId}/status", s.RequireAdmin(s.handleBranchStatus))
	s.registerRoute("DELETE /api/v1/franchises/{id}/branches/{branchId}", s.RequireAdmin(s.handleDeleteBranch))

	s.registerRoute("POST /api/v1/franchises/{id}/branches/{branchId}/products", s.RequireAuth(s.handleCreateProduct))
	s.registerRoute("PATCH /api/v1/franchises/{id}/branches/{branchId}/products/{productId}", s.RequireAuth(s.handleRenameProduct))
	s.registerRoute("PATCH /api/v1/franchises/{id}/branches/{branchId}/products/{productId}/stock", s.RequireAuth(s.handleProductStock))
	s.registerRoute("DELETE /api/v1/franchises/{id}/branches/{branchId}/products/{productId}", s.RequireAuth(s.handleDeleteProduct))
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		s.log.Debug().Str("route", route).Msg("registered")
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Warn().Err(err).Msg("failed to encode response body")
	}
}

type apiError struct {
	Message string `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, apiError{Message: message})
}

func decodeBody[T any](r *http.Request) (T, error) {
	var body T
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return body, errors.Wrap(err, "decode request body")
	}
	return body, nil
}
