package stubserver

import (
	"context"
	"net/http"
	"strings"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyUsername stores the authenticated username
	ContextKeyUsername ContextKey = "username"
	// ContextKeyRoles stores the authenticated role set
	ContextKeyRoles ContextKey = "roles"
)

func ChainMiddleware(routeFunction http.HandlerFunc, mw ...func(http.HandlerFunc) http.HandlerFunc) http.HandlerFunc {
	chainedHandler := routeFunction
	// Apply middleware in reverse order
	for i := len(mw) - 1; i >= 0; i-- {
		chainedHandler = mw[i](chainedHandler)
	}
	return chainedHandler
}

func (s *Server) LoggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.env == "DEV" {
			s.log.Debug().Str("method", r.Method).Str("path", r.URL.Path).Msg("request")
		}
		next(w, r)
	}
}

func (s *Server) RecoverMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Error().Interface("panic", rec).Str("path", r.URL.Path).Msg("handler panicked")
				s.writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next(w, r)
	}
}

// RequireAuth validates the Bearer token and injects the account identity
// into the request context.
func (s *Server) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			s.writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		claims, err := s.tokens.parse(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			s.writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyUsername, claims.username)
		ctx = context.WithValue(ctx, ContextKeyRoles, claims.roles)
		next(w, r.WithContext(ctx))
	}
}

// RequireAdmin is RequireAuth plus the ADMIN role check applied to franchise
// and branch mutations.
func (s *Server) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return s.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		roles, _ := r.Context().Value(ContextKeyRoles).([]string)
		for _, role := range roles {
			if role == "ADMIN" {
				next(w, r)
				return
			}
		}
		s.writeError(w, http.StatusForbidden, "requires the ADMIN role")
	})
}

func usernameFromContext(ctx context.Context) string {
	username, _ := ctx.Value(ContextKeyUsername).(string)
	return username
}
