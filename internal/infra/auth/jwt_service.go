package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"storefront/config"
	"storefront/internal/domain/service"
	"storefront/internal/errors"
)

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
// A single HS256-signed session token carries the user ID; roles are looked up
// from storage on every request.
type jwtService struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.Auth == nil || cfg.Auth.JWTSecret == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	return &jwtService{
		secret: []byte(cfg.Auth.JWTSecret),
		ttl:    cfg.Auth.TokenTTL,
	}, nil
}

// GenerateToken creates a new session token for a given user.
func (s *jwtService) GenerateToken(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID.String(),       // Subject (who the token is for)
		"iat": now.Unix(),            // Issued At
		"exp": now.Add(s.ttl).Unix(), // Expiration Time
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(s.secret)
}

// ValidateToken checks the validity of a token string.
func (s *jwtService) ValidateToken(tokenString string) (*service.SessionClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, service.ErrTokenExpired
		}

		return nil, service.ErrTokenMalformed
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, service.ErrTokenMalformed
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return nil, service.ErrTokenMalformed
	}

	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, service.ErrTokenMalformed
	}

	sessionClaims := &service.SessionClaims{UserID: userID}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		sessionClaims.ExpiresAt = exp
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		sessionClaims.IssuedAt = iat
	}

	return sessionClaims, nil
}

// GetTokenDuration returns the configured session token lifetime.
func (s *jwtService) GetTokenDuration() time.Duration {
	return s.ttl
}
