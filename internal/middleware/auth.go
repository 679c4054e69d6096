package middleware

import (
	"net/http"
	"strings"

	"quill/internal/auth"
	"quill/internal/domain/models"
	"quill/internal/httputil"
)

// Auth verifies the bearer token on every request and places the caller's
// verified identity (and the raw token, for token-based authorization calls
// downstream) on the request context. Nothing below this middleware ever
// verifies tokens itself.
func Auth(verifier auth.TokenVerifier, poolID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "authorization header missing")
				return
			}

			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "bearer token missing")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			caller := httputil.CallerIdentity{
				Principal: models.NewPrincipalID(poolID, claims.Subject),
				Email:     claims.Email,
			}
			r = httputil.WithCaller(r, caller)
			r = httputil.WithToken(r, token)

			next.ServeHTTP(w, r)
		})
	}
}
