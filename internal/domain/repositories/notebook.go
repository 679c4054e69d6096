package repositories

import (
	"context"

	"quill/internal/domain/models"
)

// NotebookRepository defines persistence operations for notebooks. The
// in-memory, DynamoDB and Postgres drivers all implement it; nothing above
// this interface depends on storage semantics.
type NotebookRepository interface {
	// FindByID retrieves one notebook. Returns domain.ErrNotFound if absent.
	FindByID(ctx context.Context, id string) (*models.Notebook, error)

	// FindByOwner retrieves all notebooks owned by the subject, plus any
	// public notebooks.
	FindByOwner(ctx context.Context, ownerSubject string) ([]models.Notebook, error)

	// Save stores a new notebook.
	Save(ctx context.Context, notebook *models.Notebook) error

	// Update replaces a notebook's name and content.
	// Returns domain.ErrNotFound if absent.
	Update(ctx context.Context, notebook *models.Notebook) error

	// Delete removes a notebook. Deleting an absent notebook is not an error.
	Delete(ctx context.Context, id string) error
}
