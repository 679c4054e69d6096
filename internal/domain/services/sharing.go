package services

import (
	"context"

	"quill/internal/domain/models"
)

// ShareRequest represents a request to share a notebook with a user
// identified by email.
type ShareRequest struct {
	NotebookID string `json:"notebookId"`
	Email      string `json:"email"`
}

// SharingService defines the share orchestration and ACL read operations.
type SharingService interface {
	// Share grants the user behind the email read access to the notebook.
	// The sequence is resolve identity, check for an existing grant, then
	// create one only if none exists; repeated calls converge on a single
	// grant. The returned result carries the reconciled access list with the
	// grantee unioned in as a provisional entry when the policy store has not
	// yet surfaced the new grant.
	Share(ctx context.Context, req *ShareRequest) (*models.ShareResult, error)

	// GetACL returns the notebook's current access list as visible in the
	// policy store. Principals that no longer resolve in the directory are
	// dropped; an empty list is a valid answer.
	GetACL(ctx context.Context, notebookID string) ([]models.ACLEntry, error)

	// SharedWith lists the notebooks the principal has been granted access
	// to. Grants referencing notebooks that no longer exist are dropped.
	SharedWith(ctx context.Context, principal models.PrincipalID) ([]models.Notebook, error)
}
