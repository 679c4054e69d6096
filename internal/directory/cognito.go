package directory

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"quill/internal/domain"
	"quill/internal/domain/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

const lookupTimeout = 5 * time.Second

// UserPoolClient is the subset of the Cognito identity provider API the
// directory uses.
type UserPoolClient interface {
	ListUsers(ctx context.Context, params *cognitoidentityprovider.ListUsersInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.ListUsersOutput, error)
}

// CognitoDirectory implements Directory against a Cognito user pool.
type CognitoDirectory struct {
	client UserPoolClient
	poolID string
	logger *slog.Logger
}

// NewCognitoDirectory creates a directory backed by the given user pool.
func NewCognitoDirectory(client UserPoolClient, poolID string, logger *slog.Logger) *CognitoDirectory {
	return &CognitoDirectory{
		client: client,
		poolID: poolID,
		logger: logger,
	}
}

// ResolveByEmail looks up the user with an exact-email filter, limit 1. The
// pool enforces email uniqueness; if it ever does not, first match wins.
func (d *CognitoDirectory) ResolveByEmail(ctx context.Context, email string) (*models.Identity, error) {
	return d.lookup(ctx, fmt.Sprintf("email = %q", email))
}

// ResolveBySubject looks up the user by stable subject id.
func (d *CognitoDirectory) ResolveBySubject(ctx context.Context, subjectID string) (*models.Identity, error) {
	return d.lookup(ctx, fmt.Sprintf("sub = %q", subjectID))
}

func (d *CognitoDirectory) lookup(ctx context.Context, filter string) (*models.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	out, err := d.client.ListUsers(ctx, &cognitoidentityprovider.ListUsersInput{
		UserPoolId: aws.String(d.poolID),
		Filter:     aws.String(filter),
		Limit:      aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: list users: %v", domain.ErrDependency, err)
	}

	if len(out.Users) == 0 {
		return nil, fmt.Errorf("user %s: %w", filter, domain.ErrNotFound)
	}

	identity, err := d.identityFromUser(out.Users[0])
	if err != nil {
		return nil, err
	}

	d.logger.Debug("directory lookup resolved",
		"filter", filter,
		"subject", identity.Principal.SubjectID,
	)

	return identity, nil
}

func (d *CognitoDirectory) identityFromUser(user types.UserType) (*models.Identity, error) {
	var subject, email string
	for _, attr := range user.Attributes {
		switch aws.ToString(attr.Name) {
		case "sub":
			subject = aws.ToString(attr.Value)
		case "email":
			email = aws.ToString(attr.Value)
		}
	}

	if subject == "" {
		return nil, fmt.Errorf("%w: directory user %s has no sub attribute",
			domain.ErrDependency, aws.ToString(user.Username))
	}

	return &models.Identity{
		Principal: models.NewPrincipalID(d.poolID, subject),
		Email:     email,
	}, nil
}
