package jwttoken

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"

	dErrors "aura/pkg/domain-errors"
)

type JWTSuite struct {
	suite.Suite
	svc *Service
}

func (s *JWTSuite) SetupTest() {
	s.svc = NewService("test-signing-key")
}

func TestJWTSuite(t *testing.T) {
	suite.Run(t, new(JWTSuite))
}

func (s *JWTSuite) signToken(key string, expiresIn time.Duration) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
	signed, err := token.SignedString([]byte(key))
	s.Require().NoError(err)
	return signed
}

func (s *JWTSuite) TestInspect() {
	s.Run("reads claims without verifying signature", func() {
		signed := s.signToken("some-other-key", time.Hour)

		claims, err := s.svc.Inspect(signed)
		s.Require().NoError(err)
		s.Equal("user-1", claims.UserID)
	})

	s.Run("malformed token is rejected", func() {
		_, err := s.svc.Inspect("not-a-jwt")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func (s *JWTSuite) TestValidate() {
	s.Run("accepts token signed with shared key", func() {
		signed := s.signToken("test-signing-key", time.Hour)

		claims, err := s.svc.Validate(signed)
		s.Require().NoError(err)
		s.Equal("user-1", claims.UserID)
	})

	s.Run("rejects token signed with a different key", func() {
		signed := s.signToken("wrong-key", time.Hour)

		_, err := s.svc.Validate(signed)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("rejects expired token", func() {
		signed := s.signToken("test-signing-key", -time.Minute)

		_, err := s.svc.Validate(signed)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("service without key cannot validate", func() {
		svc := NewService("")
		s.False(svc.CanValidate())

		_, err := svc.Validate(s.signToken("test-signing-key", time.Hour))
		s.Error(err)
	})
}

func (s *JWTSuite) TestExpiresIn() {
	s.Run("future expiry reports remaining duration", func() {
		claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
		s.InDelta(time.Hour, claims.ExpiresIn(time.Now()), float64(time.Minute))
	})

	s.Run("past expiry reports zero", func() {
		claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		}}
		s.Zero(claims.ExpiresIn(time.Now()))
	})

	s.Run("missing expiry reports zero", func() {
		claims := &Claims{}
		s.Zero(claims.ExpiresIn(time.Now()))
	})
}
