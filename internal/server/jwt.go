package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/server/middleware"
)

const (
	tokenIssuer = "resume-builder"
	clockSkew   = 30 * time.Second
)

// ErrInvalidToken wraps every token rejection.
var ErrInvalidToken = errors.New("invalid token")

// Claims carries the user id in the standard subject claim.
type Claims struct {
	jwt.RegisteredClaims
}

// GetUserID implements middleware.UserIDGetter. A missing or garbled subject
// yields uuid.Nil, which the middleware rejects.
func (c *Claims) GetUserID() uuid.UUID {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// JWTService signs and verifies HS256 session tokens.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	parser *jwt.Parser
	now    func() time.Time
}

func NewJWTService(cfg *config.JWTConfig) *JWTService {
	s := &JWTService{
		secret: []byte(cfg.Secret),
		ttl:    time.Duration(cfg.ExpirationHours) * time.Hour,
		now:    time.Now,
	}
	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(clockSkew),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	return s
}

// GenerateToken issues a token for userID valid for the configured lifetime.
func (s *JWTService) GenerateToken(userID uuid.UUID) (string, error) {
	now := s.now()
	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   userID.String(),
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies signature, issuer and lifetime. Every failure wraps ErrInvalidToken.
func (s *JWTService) ValidateToken(token string) (*Claims, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidToken)
	}

	claims := &Claims{}
	if _, err := s.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.GetUserID() == uuid.Nil {
		return nil, fmt.Errorf("%w: subject is not a user id", ErrInvalidToken)
	}
	return claims, nil
}

// AsTokenValidator exposes the service to the auth middleware.
func (s *JWTService) AsTokenValidator() middleware.TokenValidator {
	return middleware.TokenValidatorFunc(func(token string) (middleware.UserIDGetter, error) {
		claims, err := s.ValidateToken(token)
		if err != nil {
			return nil, err
		}
		return claims, nil
	})
}
