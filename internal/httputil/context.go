package httputil

import (
	"context"
	"net/http"

	"quill/internal/domain/models"
)

// Context key type to avoid collisions
type contextKey string

const (
	identityKey contextKey = "identity"
	tokenKey    contextKey = "token"
)

// CallerIdentity is the verified identity of the current request's caller.
type CallerIdentity struct {
	Principal models.PrincipalID
	Email     string
}

// WithCaller adds the verified caller identity to the request context
func WithCaller(r *http.Request, caller CallerIdentity) *http.Request {
	ctx := context.WithValue(r.Context(), identityKey, caller)
	return r.WithContext(ctx)
}

// GetCaller retrieves the caller identity from context; ok is false if the
// request never passed the auth middleware.
func GetCaller(r *http.Request) (CallerIdentity, bool) {
	caller, ok := r.Context().Value(identityKey).(CallerIdentity)
	return caller, ok
}

// WithToken stores the raw bearer token for downstream token-based
// authorization calls
func WithToken(r *http.Request, token string) *http.Request {
	ctx := context.WithValue(r.Context(), tokenKey, token)
	return r.WithContext(ctx)
}

// GetToken retrieves the raw bearer token from context, empty if absent
func GetToken(r *http.Request) string {
	token, _ := r.Context().Value(tokenKey).(string)
	return token
}
