package memory

import (
	"context"
	"fmt"
	"sync"

	"quill/internal/domain"
	"quill/internal/domain/models"
	"quill/internal/domain/repositories"
)

// NotebookRepository is an in-memory notebook store for development and
// tests. Access is guarded by a mutex so concurrent requests are safe.
type NotebookRepository struct {
	mu        sync.RWMutex
	notebooks map[string]models.Notebook
	order     []string
}

// NewNotebookRepository creates an empty in-memory repository.
func NewNotebookRepository() *NotebookRepository {
	return &NotebookRepository{
		notebooks: make(map[string]models.Notebook),
	}
}

// NewSeededRepository creates an in-memory repository preloaded with the
// given notebooks, in order.
func NewSeededRepository(seed []models.Notebook) *NotebookRepository {
	r := NewNotebookRepository()
	for _, n := range seed {
		r.notebooks[n.ID] = n
		r.order = append(r.order, n.ID)
	}
	return r
}

var _ repositories.NotebookRepository = (*NotebookRepository)(nil)

// FindByID retrieves one notebook.
func (r *NotebookRepository) FindByID(ctx context.Context, id string) (*models.Notebook, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.notebooks[id]
	if !ok {
		return nil, fmt.Errorf("notebook %s: %w", id, domain.ErrNotFound)
	}
	return &n, nil
}

// FindByOwner retrieves the owner's notebooks plus public ones.
func (r *NotebookRepository) FindByOwner(ctx context.Context, ownerSubject string) ([]models.Notebook, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.Notebook, 0)
	for _, id := range r.order {
		n := r.notebooks[id]
		if n.Public || n.Owner == ownerSubject {
			result = append(result, n)
		}
	}
	return result, nil
}

// Save stores a new notebook.
func (r *NotebookRepository) Save(ctx context.Context, notebook *models.Notebook) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.notebooks[notebook.ID]; !ok {
		r.order = append(r.order, notebook.ID)
	}
	r.notebooks[notebook.ID] = *notebook
	return nil
}

// Update replaces a notebook's name and content.
func (r *NotebookRepository) Update(ctx context.Context, notebook *models.Notebook) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.notebooks[notebook.ID]
	if !ok {
		return fmt.Errorf("notebook %s: %w", notebook.ID, domain.ErrNotFound)
	}

	existing.Name = notebook.Name
	existing.Content = notebook.Content
	r.notebooks[notebook.ID] = existing
	*notebook = existing
	return nil
}

// Delete removes a notebook. Absent ids are ignored.
func (r *NotebookRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.notebooks[id]; !ok {
		return nil
	}
	delete(r.notebooks, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
