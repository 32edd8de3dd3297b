// Package middleware provides the HTTP authentication middleware and
// the request-context plumbing for authenticated identity.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/slidecast/slidecast/pkg/auth"
)

type contextKey string

// claimsKey carries the verified JWT claims through the request context.
const claimsKey contextKey = "auth_claims"

// AuthMiddleware authenticates requests carrying a Bearer JWT.
type AuthMiddleware struct {
	issuer *auth.TokenIssuer
}

// NewAuthMiddleware creates the middleware around a token issuer.
func NewAuthMiddleware(issuer *auth.TokenIssuer) *AuthMiddleware {
	return &AuthMiddleware{issuer: issuer}
}

// Require rejects requests without a valid token: 401 when the header
// is missing, 403 when the token is present but invalid or expired.
func (m *AuthMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeAuthError(w, http.StatusUnauthorized, "access token required")
			return
		}

		claims, err := m.issuer.Verify(token)
		if err != nil {
			writeAuthError(w, http.StatusForbidden, "invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

// Optional authenticates when a token is present and continues
// anonymously otherwise. An invalid token is treated as anonymous,
// matching endpoints that work both with and without a login.
func (m *AuthMiddleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := bearerToken(r); token != "" {
			if claims, err := m.issuer.Verify(token); err == nil {
				r = r.WithContext(withClaims(r.Context(), claims))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects authenticated non-admin callers. It must run
// after Require.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := GetClaims(r)
		if claims == nil {
			writeAuthError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if claims.Role != auth.RoleAdmin {
			writeAuthError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetClaims returns the verified claims for the request, or nil for an
// anonymous request.
func GetClaims(r *http.Request) *auth.Claims {
	claims, ok := r.Context().Value(claimsKey).(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}

func withClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + message + `"}`))
}
