package policy

import (
	"context"

	"quill/internal/domain/models"
)

// Store reads and appends grant records in the external policy store.
//
// FindGrants reflects the store's currently visible state, which may lag the
// most recent CreateGrant (eventual consistency); callers must not assume
// freshness. CreateGrant is not idempotent at the transport level: calling it
// twice appends two logically equivalent records, so callers query before
// mutating. Uniqueness of (principal, notebook, action) is orchestration
// discipline, not a store constraint.
type Store interface {
	// FindGrants lists grants matching the filter. At least one of the
	// filter's sides must be set. The result is fully materialized under a
	// fixed page cap; an empty slice means "no grants found yet" and is not
	// an error.
	FindGrants(ctx context.Context, filter models.GrantFilter) ([]models.Grant, error)

	// CreateGrant appends one grant permitting the principal to perform the
	// action on the notebook.
	CreateGrant(ctx context.Context, principal models.PrincipalID, notebookID, action string) (*models.Grant, error)
}

// Authorizer evaluates whether the caller behind an identity token may
// perform an action on a notebook. Decisions are delegated entirely to the
// policy engine.
type Authorizer interface {
	IsAuthorized(ctx context.Context, identityToken, action, notebookID string) (bool, error)
}
