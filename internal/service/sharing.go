package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"quill/internal/directory"
	"quill/internal/domain"
	"quill/internal/domain/models"
	"quill/internal/domain/repositories"
	"quill/internal/domain/services"
	"quill/internal/policy"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// sharingService implements the SharingService interface. It owns the
// share sequence: validate, resolve the grantee, check for an existing
// grant, and only then create one. The policy-store mutation is the last
// side-effecting step, so a failed share leaves nothing behind and the whole
// operation is safe to re-issue; the pre-mutation grant check makes repeats
// converge on a single grant.
//
// Two concurrent shares for the same (notebook, email) pair can both pass
// the grant check and both create a grant. The duplicate is harmless (both
// permit the same access) and accepted rather than guarded with a
// transaction the store does not offer.
type sharingService struct {
	notebooks repositories.NotebookRepository
	directory directory.Directory
	grants    policy.Store
	logger    *slog.Logger
}

// NewSharingService creates a new sharing service
func NewSharingService(
	notebooks repositories.NotebookRepository,
	dir directory.Directory,
	grants policy.Store,
	logger *slog.Logger,
) services.SharingService {
	return &sharingService{
		notebooks: notebooks,
		directory: dir,
		grants:    grants,
		logger:    logger,
	}
}

// Share grants the user behind the email read access to the notebook.
func (s *sharingService) Share(ctx context.Context, req *services.ShareRequest) (*models.ShareResult, error) {
	if err := s.validateShareRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	// The notebook must exist before anything is written about it
	if _, err := s.notebooks.FindByID(ctx, req.NotebookID); err != nil {
		return nil, err
	}

	grantee, err := s.directory.ResolveByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.ValidationError{Message: "grantee not found"}
		}
		return nil, err
	}

	existing, err := s.grants.FindGrants(ctx, models.GrantFilter{
		Principal:  &grantee.Principal,
		NotebookID: req.NotebookID,
	})
	if err != nil {
		return nil, err
	}

	alreadyShared := len(existing) > 0
	if alreadyShared {
		s.logger.Info("notebook already shared",
			"notebook_id", req.NotebookID,
			"grantee", grantee.Principal.SubjectID,
		)
	} else {
		if _, err := s.grants.CreateGrant(ctx, grantee.Principal, req.NotebookID, policy.ActionReadNotebook); err != nil {
			return nil, err
		}
		s.logger.Info("notebook shared",
			"notebook_id", req.NotebookID,
			"grantee", grantee.Principal.SubjectID,
		)
	}

	// Read back the access list for display. The store may not surface the
	// new grant yet, so the grantee is unioned in as a provisional entry; a
	// later fresh GetACL is the authority. A failed read-back does not undo
	// the share, the list is just served from the patch alone.
	acl, err := s.GetACL(ctx, req.NotebookID)
	if err != nil {
		s.logger.Warn("acl read-back failed after share",
			"notebook_id", req.NotebookID,
			"error", err,
		)
		acl = nil
	}

	confirmed := false
	for _, entry := range acl {
		if entry.Email == grantee.Email {
			confirmed = true
			break
		}
	}
	if !confirmed {
		acl = append([]models.ACLEntry{{Email: grantee.Email, Provisional: true}}, acl...)
	}

	return &models.ShareResult{
		AlreadyShared: alreadyShared,
		ACL:           acl,
	}, nil
}

// GetACL returns the notebook's current access list.
func (s *sharingService) GetACL(ctx context.Context, notebookID string) ([]models.ACLEntry, error) {
	if notebookID == "" {
		return nil, &domain.ValidationError{Message: "notebook id is required"}
	}

	grants, err := s.grants.FindGrants(ctx, models.GrantFilter{NotebookID: notebookID})
	if err != nil {
		return nil, err
	}

	// Join grants back to emails. Principals that fail the reverse lookup
	// (deleted users, directory faults) are dropped rather than surfaced as
	// partial errors; the list is best-effort display state. Duplicate
	// grants for one principal collapse to one entry.
	acl := make([]models.ACLEntry, 0, len(grants))
	seen := make(map[string]bool, len(grants))
	for _, grant := range grants {
		identity, err := s.directory.ResolveBySubject(ctx, grant.Principal.SubjectID)
		if err != nil {
			s.logger.Debug("dropping unresolvable grant principal",
				"notebook_id", notebookID,
				"subject", grant.Principal.SubjectID,
				"error", err,
			)
			continue
		}
		if identity.Email == "" || seen[identity.Email] {
			continue
		}
		seen[identity.Email] = true
		acl = append(acl, models.ACLEntry{Email: identity.Email})
	}

	return acl, nil
}

// SharedWith lists the notebooks granted to the principal.
func (s *sharingService) SharedWith(ctx context.Context, principal models.PrincipalID) ([]models.Notebook, error) {
	grants, err := s.grants.FindGrants(ctx, models.GrantFilter{Principal: &principal})
	if err != nil {
		return nil, err
	}

	notebooks := make([]models.Notebook, 0, len(grants))
	seen := make(map[string]bool, len(grants))
	for _, grant := range grants {
		if seen[grant.NotebookID] {
			continue
		}
		seen[grant.NotebookID] = true

		notebook, err := s.notebooks.FindByID(ctx, grant.NotebookID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// Grant outlived the notebook; skip the dangling reference
				continue
			}
			return nil, err
		}
		notebooks = append(notebooks, *notebook)
	}

	return notebooks, nil
}

// validateShareRequest validates a share request
func (s *sharingService) validateShareRequest(req *services.ShareRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.NotebookID, validation.Required),
		validation.Field(&req.Email, validation.Required, is.EmailFormat),
	)
}
