// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/asmamir/task-manager-api/internal/api/shared"
	"github.com/asmamir/task-manager-api/internal/service/auth"
	"github.com/asmamir/task-manager-api/internal/store"
)

// AuthMiddleware authenticates requests carrying a bearer token. A token
// must both verify cryptographically and still be present in the user's
// active session set; a revoked token fails exactly like a forged one.
type AuthMiddleware struct {
	jwtService auth.JWTService
	userStore  store.UserStore
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService, userStore store.UserStore) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		userStore:  userStore,
	}
}

// Authenticate validates the bearer token from the Authorization header,
// resolves it to a user, and attaches the user and the verbatim token to
// the request context for downstream handlers.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Please authenticate")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Please authenticate")
			return
		}
		token := parts[1]

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			if !errors.Is(err, auth.ErrInvalidToken) && !errors.Is(err, auth.ErrExpiredToken) {
				slog.Error("failed to validate token", "error", err)
			}
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Please authenticate")
			return
		}

		user, err := m.userStore.GetByID(r.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Please authenticate")
				return
			}
			slog.Error("failed to load user for token", "error", err, "user_id", claims.UserID)
			shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
			return
		}

		// The token must still be in the user's active set; a logout or
		// logout-all revokes it even though the signature stays valid.
		if !containsToken(user.Tokens, token) {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Please authenticate")
			return
		}

		ctx := shared.WithUser(r.Context(), user, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func containsToken(tokens []string, token string) bool {
	for _, t := range tokens {
		if t == token {
			return true
		}
	}
	return false
}
