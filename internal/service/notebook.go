package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"quill/internal/domain"
	"quill/internal/domain/models"
	"quill/internal/domain/repositories"
	"quill/internal/domain/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// notebookService implements the NotebookService interface
type notebookService struct {
	notebooks repositories.NotebookRepository
	logger    *slog.Logger
}

// NewNotebookService creates a new notebook service
func NewNotebookService(
	notebooks repositories.NotebookRepository,
	logger *slog.Logger,
) services.NotebookService {
	return &notebookService{
		notebooks: notebooks,
		logger:    logger,
	}
}

// CreateNotebook creates a new notebook owned by the caller
func (s *notebookService) CreateNotebook(ctx context.Context, req *services.CreateNotebookRequest) (*models.Notebook, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	notebook := &models.Notebook{
		ID:      uuid.NewString(),
		Name:    strings.TrimSpace(req.Name),
		Owner:   req.OwnerSubject,
		Content: req.Content,
		Public:  req.Public,
	}

	if err := s.notebooks.Save(ctx, notebook); err != nil {
		return nil, err
	}

	s.logger.Info("notebook created",
		"id", notebook.ID,
		"name", notebook.Name,
		"owner", notebook.Owner,
	)

	return notebook, nil
}

// GetNotebook retrieves a notebook by ID
func (s *notebookService) GetNotebook(ctx context.Context, id string) (*models.Notebook, error) {
	return s.notebooks.FindByID(ctx, id)
}

// ListNotebooks retrieves the caller's notebooks plus public ones
func (s *notebookService) ListNotebooks(ctx context.Context, ownerSubject string) ([]models.Notebook, error) {
	return s.notebooks.FindByOwner(ctx, ownerSubject)
}

// UpdateNotebook updates a notebook's name and content
func (s *notebookService) UpdateNotebook(ctx context.Context, id string, req *services.UpdateNotebookRequest) (*models.Notebook, error) {
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	notebook := &models.Notebook{
		ID:      id,
		Name:    strings.TrimSpace(req.Name),
		Content: req.Content,
	}

	if err := s.notebooks.Update(ctx, notebook); err != nil {
		return nil, err
	}

	s.logger.Info("notebook updated", "id", id)

	return notebook, nil
}

// DeleteNotebook deletes a notebook
func (s *notebookService) DeleteNotebook(ctx context.Context, id string) error {
	if err := s.notebooks.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("notebook deleted", "id", id)
	return nil
}

// validateCreateRequest validates a create notebook request
func (s *notebookService) validateCreateRequest(req *services.CreateNotebookRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.OwnerSubject, validation.Required),
		validation.Field(&req.Name, validation.Required, validation.Length(1, 200)),
	)
}

// validateUpdateRequest validates an update notebook request
func (s *notebookService) validateUpdateRequest(req *services.UpdateNotebookRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 200)),
	)
}
