package policy

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"quill/internal/domain"
	"quill/internal/domain/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/verifiedpermissions"
	"github.com/aws/aws-sdk-go-v2/service/verifiedpermissions/types"
)

const (
	callTimeout = 5 * time.Second

	// grantPageSize caps one FindGrants result set; no cursor is exposed.
	grantPageSize = 20
)

// PolicyStoreClient is the subset of the Verified Permissions API the
// adapters use.
type PolicyStoreClient interface {
	ListPolicies(ctx context.Context, params *verifiedpermissions.ListPoliciesInput, optFns ...func(*verifiedpermissions.Options)) (*verifiedpermissions.ListPoliciesOutput, error)
	CreatePolicy(ctx context.Context, params *verifiedpermissions.CreatePolicyInput, optFns ...func(*verifiedpermissions.Options)) (*verifiedpermissions.CreatePolicyOutput, error)
	IsAuthorizedWithToken(ctx context.Context, params *verifiedpermissions.IsAuthorizedWithTokenInput, optFns ...func(*verifiedpermissions.Options)) (*verifiedpermissions.IsAuthorizedWithTokenOutput, error)
}

// AVPStore implements Store and Authorizer against a Verified Permissions
// policy store.
type AVPStore struct {
	client  PolicyStoreClient
	storeID string
	logger  *slog.Logger
}

// NewAVPStore creates policy adapters bound to one policy store.
func NewAVPStore(client PolicyStoreClient, storeID string, logger *slog.Logger) *AVPStore {
	return &AVPStore{
		client:  client,
		storeID: storeID,
		logger:  logger,
	}
}

// FindGrants lists grants for a principal, a notebook, or the exact pair.
func (s *AVPStore) FindGrants(ctx context.Context, filter models.GrantFilter) ([]models.Grant, error) {
	if filter.Principal == nil && filter.NotebookID == "" {
		return nil, fmt.Errorf("%w: grant filter needs a principal or a notebook", domain.ErrValidation)
	}

	pf := &types.PolicyFilter{}
	if filter.Principal != nil {
		pf.Principal = &types.EntityReferenceMemberIdentifier{
			Value: types.EntityIdentifier{
				EntityType: aws.String(EntityTypeUser),
				EntityId:   aws.String(filter.Principal.String()),
			},
		}
	}
	if filter.NotebookID != "" {
		pf.Resource = &types.EntityReferenceMemberIdentifier{
			Value: types.EntityIdentifier{
				EntityType: aws.String(EntityTypeNotebook),
				EntityId:   aws.String(filter.NotebookID),
			},
		}
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	out, err := s.client.ListPolicies(ctx, &verifiedpermissions.ListPoliciesInput{
		PolicyStoreId: aws.String(s.storeID),
		MaxResults:    aws.Int32(grantPageSize),
		Filter:        pf,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: list policies: %v", domain.ErrDependency, err)
	}

	grants := make([]models.Grant, 0, len(out.Policies))
	for _, p := range out.Policies {
		grant, err := s.grantFromPolicy(p)
		if err != nil {
			// Policies not written by the share flow (templates, wildcard
			// principals) are not grants; skip them on the read path.
			s.logger.Warn("skipping unreadable policy",
				"policy_id", aws.ToString(p.PolicyId),
				"error", err,
			)
			continue
		}
		grants = append(grants, *grant)
	}

	return grants, nil
}

// CreateGrant appends one static permit policy for the (principal, notebook,
// action) tuple.
func (s *AVPStore) CreateGrant(ctx context.Context, principal models.PrincipalID, notebookID, action string) (*models.Grant, error) {
	statement := permitStatement(principal, action, notebookID)

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	out, err := s.client.CreatePolicy(ctx, &verifiedpermissions.CreatePolicyInput{
		PolicyStoreId: aws.String(s.storeID),
		Definition: &types.PolicyDefinitionMemberStatic{
			Value: types.StaticPolicyDefinition{
				Statement: aws.String(statement),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create policy: %v", domain.ErrDependency, err)
	}

	s.logger.Info("grant created",
		"policy_id", aws.ToString(out.PolicyId),
		"principal", principal.String(),
		"notebook_id", notebookID,
		"action", action,
	)

	return &models.Grant{
		ID:         aws.ToString(out.PolicyId),
		Principal:  principal,
		NotebookID: notebookID,
		Action:     action,
		Statement:  statement,
	}, nil
}

// IsAuthorized asks the policy engine whether the caller behind the identity
// token may perform the action on the notebook.
func (s *AVPStore) IsAuthorized(ctx context.Context, identityToken, action, notebookID string) (bool, error) {
	input := &verifiedpermissions.IsAuthorizedWithTokenInput{
		PolicyStoreId: aws.String(s.storeID),
		IdentityToken: aws.String(identityToken),
		Action: &types.ActionIdentifier{
			ActionType: aws.String(ActionType),
			ActionId:   aws.String(action),
		},
	}
	if notebookID != "" {
		input.Resource = &types.EntityIdentifier{
			EntityType: aws.String(EntityTypeNotebook),
			EntityId:   aws.String(notebookID),
		}
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	out, err := s.client.IsAuthorizedWithToken(ctx, input)
	if err != nil {
		return false, fmt.Errorf("%w: is authorized: %v", domain.ErrDependency, err)
	}

	return out.Decision == types.DecisionAllow, nil
}

// grantFromPolicy maps one listed policy back to a grant. The list output
// carries principal and resource identifiers but not the statement, and the
// share flow only ever writes read grants, so the action is fixed.
func (s *AVPStore) grantFromPolicy(p types.PolicyItem) (*models.Grant, error) {
	if p.Principal == nil || p.Resource == nil {
		return nil, fmt.Errorf("policy has no principal/resource pair")
	}

	principal, err := models.ParsePrincipalID(aws.ToString(p.Principal.EntityId))
	if err != nil {
		return nil, err
	}

	return &models.Grant{
		ID:         aws.ToString(p.PolicyId),
		Principal:  principal,
		NotebookID: aws.ToString(p.Resource.EntityId),
		Action:     ActionReadNotebook,
	}, nil
}
