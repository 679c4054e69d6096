package postgres

import (
	"context"
	"fmt"

	"quill/internal/domain"
	"quill/internal/domain/models"
	"quill/internal/domain/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NotebookRepository implements the notebook store on Postgres.
type NotebookRepository struct {
	pool  *pgxpool.Pool
	table string
}

// NewNotebookRepository creates a repository bound to one table.
func NewNotebookRepository(pool *pgxpool.Pool, table string) *NotebookRepository {
	return &NotebookRepository{
		pool:  pool,
		table: table,
	}
}

var _ repositories.NotebookRepository = (*NotebookRepository)(nil)

// FindByID retrieves one notebook.
func (r *NotebookRepository) FindByID(ctx context.Context, id string) (*models.Notebook, error) {
	query := fmt.Sprintf(`
		SELECT id, name, owner, content, public
		FROM %s
		WHERE id = $1
	`, r.table)

	var notebook models.Notebook
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&notebook.ID,
		&notebook.Name,
		&notebook.Owner,
		&notebook.Content,
		&notebook.Public,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("notebook %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: get notebook: %v", domain.ErrDependency, err)
	}

	return &notebook, nil
}

// FindByOwner retrieves the owner's notebooks plus public ones.
func (r *NotebookRepository) FindByOwner(ctx context.Context, ownerSubject string) ([]models.Notebook, error) {
	query := fmt.Sprintf(`
		SELECT id, name, owner, content, public
		FROM %s
		WHERE owner = $1 OR public
		ORDER BY id
	`, r.table)

	rows, err := r.pool.Query(ctx, query, ownerSubject)
	if err != nil {
		return nil, fmt.Errorf("%w: list notebooks: %v", domain.ErrDependency, err)
	}
	defer rows.Close()

	notebooks := make([]models.Notebook, 0)
	for rows.Next() {
		var notebook models.Notebook
		if err := rows.Scan(
			&notebook.ID,
			&notebook.Name,
			&notebook.Owner,
			&notebook.Content,
			&notebook.Public,
		); err != nil {
			return nil, fmt.Errorf("scan notebook: %w", err)
		}
		notebooks = append(notebooks, notebook)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list notebooks: %v", domain.ErrDependency, err)
	}

	return notebooks, nil
}

// Save stores a new notebook.
func (r *NotebookRepository) Save(ctx context.Context, notebook *models.Notebook) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, owner, content, public)
		VALUES ($1, $2, $3, $4, $5)
	`, r.table)

	_, err := r.pool.Exec(ctx, query,
		notebook.ID,
		notebook.Name,
		notebook.Owner,
		notebook.Content,
		notebook.Public,
	)
	if err != nil {
		if IsPgDuplicateError(err) {
			return fmt.Errorf("notebook %s: %w", notebook.ID, domain.ErrConflict)
		}
		return fmt.Errorf("%w: save notebook: %v", domain.ErrDependency, err)
	}

	return nil
}

// Update replaces a notebook's name and content.
func (r *NotebookRepository) Update(ctx context.Context, notebook *models.Notebook) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $2, content = $3
		WHERE id = $1
		RETURNING owner, public
	`, r.table)

	err := r.pool.QueryRow(ctx, query,
		notebook.ID,
		notebook.Name,
		notebook.Content,
	).Scan(&notebook.Owner, &notebook.Public)
	if err != nil {
		if IsPgNoRowsError(err) {
			return fmt.Errorf("notebook %s: %w", notebook.ID, domain.ErrNotFound)
		}
		return fmt.Errorf("%w: update notebook: %v", domain.ErrDependency, err)
	}

	return nil
}

// Delete removes a notebook. Absent ids are ignored.
func (r *NotebookRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table)

	if _, err := r.pool.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("%w: delete notebook: %v", domain.ErrDependency, err)
	}
	return nil
}
