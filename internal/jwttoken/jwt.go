// Package jwttoken inspects bearer tokens carried through the mobile
// callback. The backend remains the authority on token validity; local
// inspection only feeds diagnostics and, when a signing key is shared,
// an early local check.
package jwttoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	dErrors "aura/pkg/domain-errors"
)

// Claims are the fields the gateway reads out of a callback token.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Service handles token inspection and optional local validation.
// An empty signing key disables validation; Inspect still works.
type Service struct {
	signingKey []byte
}

func NewService(signingKey string) *Service {
	return &Service{signingKey: []byte(signingKey)}
}

// Inspect parses a token without verifying its signature. The result is
// for logging and audit detail only and must never gate authorization.
func (s *Service) Inspect(tokenString string) (*Claims, error) {
	parser := jwt.NewParser()
	var claims Claims
	if _, _, err := parser.ParseUnverified(tokenString, &claims); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "malformed token")
	}
	return &claims, nil
}

// CanValidate reports whether a signing key is configured.
func (s *Service) CanValidate() bool {
	return len(s.signingKey) > 0
}

// Validate verifies the token's HS256 signature and expiry against the
// shared signing key.
func (s *Service) Validate(tokenString string) (*Claims, error) {
	if !s.CanValidate() {
		return nil, dErrors.New(dErrors.CodeInternal, "no signing key configured")
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	if !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	return claims, nil
}

// ExpiresIn returns how long the claims remain valid from now, zero when
// the token carries no expiry.
func (c *Claims) ExpiresIn(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	d := c.ExpiresAt.Time.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}
