package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrTokenExpired is returned when a session token has passed its expiry.
var ErrTokenExpired = errors.New("token expired")

// ErrTokenMalformed is returned when a token fails signature or structural checks.
var ErrTokenMalformed = errors.New("token malformed")

// SessionClaims defines the claims carried by a session token.
// The role is intentionally absent; it is re-read from storage on every
// request so a role change takes effect immediately.
type SessionClaims struct {
	UserID uuid.UUID
	jwt.RegisteredClaims
}

// TokenService defines the interface for generating and validating session JWTs.
// This abstracts the details of token creation from the use cases.
type TokenService interface {
	// GenerateToken creates a new session token for a given user.
	GenerateToken(userID uuid.UUID) (string, error)

	// ValidateToken checks the validity of a token string. An expired token
	// yields ErrTokenExpired; any other failure yields ErrTokenMalformed.
	ValidateToken(tokenString string) (*SessionClaims, error)

	// GetTokenDuration returns the configured session token lifetime.
	GetTokenDuration() time.Duration
}
