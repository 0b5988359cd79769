package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-session-client/internal/errors"
	"github.com/jrsteele09/go-session-client/token/jwt"
	"github.com/jrsteele09/go-session-client/users"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyClaims stores the verified access token claims
	ContextKeyClaims ContextKey = "claims"
)

func claimsFrom(ctx context.Context) *jwt.Claims {
	c, _ := ctx.Value(ContextKeyClaims).(*jwt.Claims)
	return c
}

// RequireAuth is middleware that validates a Bearer access token
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				w.Header().Set("WWW-Authenticate", "Bearer")
				writeDetail(w, http.StatusUnauthorized, "Not authenticated")
				return
			}

			claims, err := s.issuer.Verify(parts[1])
			if err != nil {
				detail := "Could not validate credentials"
				if errors.Is(err, errors.ErrTokenExpired) {
					detail = "Token has expired"
				}
				w.Header().Set("WWW-Authenticate", "Bearer")
				writeDetail(w, http.StatusUnauthorized, detail)
				return
			}

			// The account may have been deleted or disabled since the token was issued
			user, err := s.repos.Users.GetByID(claims.UserID)
			if err != nil || !user.IsActive {
				w.Header().Set("WWW-Authenticate", "Bearer")
				writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
				return
			}
			claims.Role = user.Role

			next(w, r.WithContext(context.WithValue(r.Context(), ContextKeyClaims, claims)))
		}
	}
}

// RequireRole is middleware that admits only the given roles. Chain it after
// RequireAuth.
func (s *Server) RequireRole(roles ...users.RoleType) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims := claimsFrom(r.Context())
			if claims == nil {
				writeDetail(w, http.StatusUnauthorized, "Not authenticated")
				return
			}
			for _, role := range roles {
				if claims.Role == role {
					next(w, r)
					return
				}
			}
			writeDetail(w, http.StatusForbidden, "Not enough permissions")
		}
	}
}
