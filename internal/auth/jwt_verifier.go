package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"quill/internal/domain"
	"quill/internal/domain/models"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// CognitoTokenVerifier implements TokenVerifier using the user pool's JWKS.
type CognitoTokenVerifier struct {
	jwks   keyfunc.Keyfunc
	issuer string
	logger *slog.Logger
}

// NewTokenVerifier creates a verifier that fetches public keys from the user
// pool's JWKS endpoint. Keys are cached and refreshed by keyfunc based on
// HTTP cache headers.
func NewTokenVerifier(jwksURL, issuer string, logger *slog.Logger) (TokenVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}

	ctx := context.Background()
	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}

	logger.Info("token verifier initialized", "jwks_url", jwksURL)

	return &CognitoTokenVerifier{
		jwks:   jwks,
		issuer: issuer,
		logger: logger,
	}, nil
}

// VerifyToken validates a Cognito id token and extracts its claims.
func (v *CognitoTokenVerifier) VerifyToken(tokenString string) (*models.CognitoClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.CognitoClaims{}, v.jwks.Keyfunc,
		jwt.WithIssuer(v.issuer),
		jwt.WithValidMethods([]string{"RS256"}),
	)
	if err != nil {
		v.logger.Debug("token parse failed", "error", err.Error())
		return nil, domain.ErrUnauthorized
	}

	if !token.Valid {
		return nil, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(*models.CognitoClaims)
	if !ok {
		v.logger.Error("failed to extract claims from token")
		return nil, domain.ErrUnauthorized
	}

	// The sub claim is the stable subject id everything downstream keys on
	if claims.Subject == "" {
		v.logger.Debug("token missing subject claim")
		return nil, domain.ErrUnauthorized
	}

	// Access tokens carry no email; only id tokens are accepted
	if claims.TokenUse != "" && claims.TokenUse != "id" {
		v.logger.Warn("token has unexpected use", "token_use", claims.TokenUse)
		return nil, domain.ErrUnauthorized
	}

	return claims, nil
}

// Close releases resources held by the verifier. keyfunc manages its own
// refresh lifecycle, so this is a no-op kept for shutdown symmetry.
func (v *CognitoTokenVerifier) Close() error {
	v.logger.Info("token verifier closed")
	return nil
}
