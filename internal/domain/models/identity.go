package models

import "github.com/golang-jwt/jwt/v5"

// Identity is a user looked up in the identity directory. Identities are
// never created or deleted here, only resolved.
type Identity struct {
	Principal PrincipalID `json:"principal"`
	Email     string      `json:"email"`
}

// CognitoClaims are the claims carried by a Cognito user pool id token.
type CognitoClaims struct {
	jwt.RegisteredClaims
	Email    string `json:"email"`
	Username string `json:"cognito:username"`
	TokenUse string `json:"token_use"`
}
