package handler

import (
	"log/slog"
	"net/http"

	"quill/internal/domain/models"
	"quill/internal/domain/services"
	"quill/internal/httputil"
	"quill/internal/policy"
)

// SharingHandler handles share and ACL HTTP requests
type SharingHandler struct {
	sharingService services.SharingService
	engine         policy.Authorizer
	logger         *slog.Logger
}

// NewSharingHandler creates a new sharing handler
func NewSharingHandler(sharingService services.SharingService, engine policy.Authorizer, logger *slog.Logger) *SharingHandler {
	return &SharingHandler{
		sharingService: sharingService,
		engine:         engine,
		logger:         logger,
	}
}

type shareResponse struct {
	Message string            `json:"message"`
	ACL     []models.ACLEntry `json:"acl"`
}

// ShareNotebook shares a notebook with a user by email
// PUT /share-notebook
func (h *SharingHandler) ShareNotebook(w http.ResponseWriter, r *http.Request) {
	var req services.ShareRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// The notebook id travels in the body, not the path, so the policy
	// decision happens here instead of in the route-level wrapper. An id-less
	// request falls through to request validation in the service.
	if req.NotebookID != "" {
		token := httputil.GetToken(r)
		if token == "" {
			httputil.RespondError(w, http.StatusUnauthorized, "missing identity token")
			return
		}

		allowed, err := h.engine.IsAuthorized(r.Context(), token, policy.ActionShareNotebook, req.NotebookID)
		if err != nil {
			h.logger.Error("authorization check failed",
				"action", policy.ActionShareNotebook,
				"notebook_id", req.NotebookID,
				"error", err,
			)
			httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if !allowed {
			h.logger.Info("share denied",
				"notebook_id", req.NotebookID,
			)
			httputil.RespondError(w, http.StatusForbidden, "forbidden")
			return
		}
	}

	result, err := h.sharingService.Share(r.Context(), &req)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	message := "notebook shared successfully"
	if result.AlreadyShared {
		message = "notebook already shared with user"
	}

	httputil.RespondJSON(w, http.StatusOK, shareResponse{
		Message: message,
		ACL:     result.ACL,
	})
}

// GetACL returns the notebook's access list
// GET /get-acl/{id}
func (h *SharingHandler) GetACL(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "notebook id is required")
		return
	}

	acl, err := h.sharingService.GetACL(r.Context(), id)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string][]models.ACLEntry{"acl": acl})
}

// SharedWithMe lists notebooks shared with the caller
// GET /shared-with-me
func (h *SharingHandler) SharedWithMe(w http.ResponseWriter, r *http.Request) {
	caller, ok := httputil.GetCaller(r)
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	notebooks, err := h.sharingService.SharedWith(r.Context(), caller.Principal)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, notebooks)
}
