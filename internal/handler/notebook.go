package handler

import (
	"log/slog"
	"net/http"

	"quill/internal/domain/services"
	"quill/internal/httputil"
)

// NotebookHandler handles notebook HTTP requests
type NotebookHandler struct {
	notebookService services.NotebookService
	logger          *slog.Logger
}

// NewNotebookHandler creates a new notebook handler
func NewNotebookHandler(notebookService services.NotebookService, logger *slog.Logger) *NotebookHandler {
	return &NotebookHandler{
		notebookService: notebookService,
		logger:          logger,
	}
}

// ListNotebooks retrieves the caller's notebooks plus public ones
// GET /notebooks
func (h *NotebookHandler) ListNotebooks(w http.ResponseWriter, r *http.Request) {
	caller, ok := httputil.GetCaller(r)
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	notebooks, err := h.notebookService.ListNotebooks(r.Context(), caller.Principal.SubjectID)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, notebooks)
}

// CreateNotebook creates a new notebook
// POST /notebooks
func (h *NotebookHandler) CreateNotebook(w http.ResponseWriter, r *http.Request) {
	caller, ok := httputil.GetCaller(r)
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req services.CreateNotebookRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.OwnerSubject = caller.Principal.SubjectID

	notebook, err := h.notebookService.CreateNotebook(r.Context(), &req)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, notebook)
}

// GetNotebook retrieves a notebook by ID
// GET /notebooks/{id}
func (h *NotebookHandler) GetNotebook(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "notebook id is required")
		return
	}

	notebook, err := h.notebookService.GetNotebook(r.Context(), id)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, notebook)
}

// UpdateNotebook updates a notebook
// PUT /notebooks/{id}
func (h *NotebookHandler) UpdateNotebook(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "notebook id is required")
		return
	}

	var req services.UpdateNotebookRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	notebook, err := h.notebookService.UpdateNotebook(r.Context(), id, &req)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, notebook)
}

// DeleteNotebook deletes a notebook
// DELETE /notebooks/{id}
func (h *NotebookHandler) DeleteNotebook(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "notebook id is required")
		return
	}

	if err := h.notebookService.DeleteNotebook(r.Context(), id); err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{"message": "ok"})
}

// HealthCheck reports liveness
// GET /health
func (h *NotebookHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
