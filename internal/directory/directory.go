package directory

import (
	"context"

	"quill/internal/domain/models"
)

// Directory resolves users in the external identity directory. The directory
// is the source of truth; nothing is created or deleted through this
// interface. Lookups that find no user return domain.ErrNotFound, directory
// faults return domain.ErrDependency, and neither is retried here.
type Directory interface {
	// ResolveByEmail finds the user with the given email address.
	ResolveByEmail(ctx context.Context, email string) (*models.Identity, error)

	// ResolveBySubject finds the user with the given stable subject id
	// (reverse lookup, used to join grants back to emails).
	ResolveBySubject(ctx context.Context, subjectID string) (*models.Identity, error)
}
