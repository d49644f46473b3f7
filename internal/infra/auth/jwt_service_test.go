package auth

import (
	"testing"
	"time"

	"storefront/config"
	"storefront/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func testConfig(ttl time.Duration) *config.Config {
	cfg := &config.Config{}
	cfg.Auth = &config.AuthConfig{
		JWTSecret: "test_secret_key_very_long_for_testing",
		TokenTTL:  ttl,
	}

	return cfg
}

func TestJWTService_GenerateAndValidateToken(t *testing.T) {
	jwtService, err := NewJWTService(testConfig(time.Hour))
	assert.NoError(t, err)
	assert.NotNil(t, jwtService)

	userID := uuid.New()

	token, err := jwtService.GenerateToken(userID)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := jwtService.ValidateToken(token)
	assert.NoError(t, err)
	assert.NotNil(t, claims)
	assert.Equal(t, userID, claims.UserID)
}

func TestJWTService_MalformedToken(t *testing.T) {
	jwtService, err := NewJWTService(testConfig(time.Hour))
	assert.NoError(t, err)

	claims, err := jwtService.ValidateToken("clearly-not-a-jwt-token-format")
	assert.Error(t, err)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, service.ErrTokenMalformed)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	jwtService, err := NewJWTService(testConfig(-time.Minute))
	assert.NoError(t, err)

	token, err := jwtService.GenerateToken(uuid.New())
	assert.NoError(t, err)

	claims, err := jwtService.ValidateToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, service.ErrTokenExpired)
}

func TestJWTService_WrongSecret(t *testing.T) {
	first, err := NewJWTService(testConfig(time.Hour))
	assert.NoError(t, err)

	otherCfg := testConfig(time.Hour)
	otherCfg.Auth.JWTSecret = "another_secret_key_very_long_for_testing"
	second, err := NewJWTService(otherCfg)
	assert.NoError(t, err)

	token, err := first.GenerateToken(uuid.New())
	assert.NoError(t, err)

	claims, err := second.ValidateToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, service.ErrTokenMalformed)
}

func TestJWTService_EmptySecret(t *testing.T) {
	cfg := &config.Config{}
	cfg.Auth = &config.AuthConfig{JWTSecret: ""}

	jwtService, err := NewJWTService(cfg)
	assert.Error(t, err)
	assert.Nil(t, jwtService)
	assert.Contains(t, err.Error(), "jwt secret must be provided")
}

func TestJWTService_GetTokenDuration(t *testing.T) {
	ttl := 720 * time.Hour
	jwtService, err := NewJWTService(testConfig(ttl))
	assert.NoError(t, err)

	assert.Equal(t, ttl, jwtService.GetTokenDuration())
}
