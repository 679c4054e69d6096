package middleware

import (
	"log/slog"
	"net/http"

	"quill/internal/httputil"
	"quill/internal/policy"
)

// Authorizer wraps route handlers with a policy-engine decision. Each
// protected route names the action it performs; resource-scoped routes carry
// the notebook id in their {id} path segment, which is forwarded as the
// decision's resource. Routes registered without Require are deliberately
// unprotected (their handlers enforce ownership themselves or are public).
type Authorizer struct {
	engine policy.Authorizer
	logger *slog.Logger
}

// NewAuthorizer creates the route authorization wrapper.
func NewAuthorizer(engine policy.Authorizer, logger *slog.Logger) *Authorizer {
	return &Authorizer{
		engine: engine,
		logger: logger,
	}
}

// Require returns a handler that evaluates the action against the policy
// store with the caller's identity token before invoking next.
func (a *Authorizer) Require(action string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := httputil.GetToken(r)
		if token == "" {
			httputil.RespondError(w, http.StatusUnauthorized, "missing identity token")
			return
		}

		allowed, err := a.engine.IsAuthorized(r.Context(), token, action, r.PathValue("id"))
		if err != nil {
			a.logger.Error("authorization check failed",
				"action", action,
				"path", r.URL.Path,
				"error", err,
			)
			httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if !allowed {
			a.logger.Info("request denied",
				"action", action,
				"path", r.URL.Path,
			)
			httputil.RespondError(w, http.StatusForbidden, "forbidden")
			return
		}

		next(w, r)
	}
}
