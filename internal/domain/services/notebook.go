package services

import (
	"context"

	"quill/internal/domain/models"
)

// CreateNotebookRequest represents a request to create a notebook
type CreateNotebookRequest struct {
	OwnerSubject string `json:"-"`
	Name         string `json:"name"`
	Content      string `json:"content"`
	Public       bool   `json:"public"`
}

// UpdateNotebookRequest represents a request to update a notebook
type UpdateNotebookRequest struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// NotebookService defines business logic operations for notebooks
type NotebookService interface {
	// CreateNotebook creates a new notebook owned by the caller
	CreateNotebook(ctx context.Context, req *CreateNotebookRequest) (*models.Notebook, error)

	// GetNotebook retrieves a notebook by ID
	GetNotebook(ctx context.Context, id string) (*models.Notebook, error)

	// ListNotebooks retrieves the caller's notebooks plus public ones
	ListNotebooks(ctx context.Context, ownerSubject string) ([]models.Notebook, error)

	// UpdateNotebook updates a notebook's name and content
	UpdateNotebook(ctx context.Context, id string, req *UpdateNotebookRequest) (*models.Notebook, error)

	// DeleteNotebook deletes a notebook
	DeleteNotebook(ctx context.Context, id string) error
}
