// Package jwttoken issues and validates short-lived operator tokens for the
// admin endpoints. Tokens are HS256-signed and carry the operator's identity.
package jwttoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "devotly/pkg/domain-errors"
)

const issuer = "devotly"
const audience = "devotly-admin"

// OperatorClaims represents the JWT claims for operator tokens.
type OperatorClaims struct {
	Actor string `json:"actor"`
	jwt.RegisteredClaims
}

// Service handles operator JWT creation and validation.
type Service struct {
	signingKey []byte
	tokenTTL   time.Duration
}

func NewService(signingKey string, tokenTTL time.Duration) *Service {
	return &Service{
		signingKey: []byte(signingKey),
		tokenTTL:   tokenTTL,
	}
}

// IssueToken creates a signed operator token for the given actor.
func (s *Service) IssueToken(actor string) (string, error) {
	if actor == "" {
		return "", dErrors.New(dErrors.CodeValidation, "actor cannot be empty")
	}

	now := time.Now()
	claims := OperatorClaims{
		Actor: actor,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			Subject:   actor,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not sign operator token")
	}
	return signed, nil
}

// ValidateToken parses and validates an operator token, returning the actor.
func (s *Service) ValidateToken(tokenString string) (string, error) {
	claims := &OperatorClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return s.signingKey, nil
		},
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeUnauthorized, "invalid operator token")
	}
	if !token.Valid || claims.Actor == "" {
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid operator token")
	}
	return claims.Actor, nil
}
