package google

import (
	"context"
	"log/slog"
	"testing"

	"storefront/config"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"
)

func testGoogleConfig() *config.Config {
	cfg := &config.Config{}
	cfg.GoogleOAuth = &config.GoogleOAuthConfig{
		ClientID:     "client-id.apps.googleusercontent.com",
		ClientSecret: "secret",
		RedirectURI:  "https://api.example.com/auth/google/callback",
	}

	return cfg
}

func TestUserFromPayload(t *testing.T) {
	payload := &idtoken.Payload{
		Subject: "108001234567890",
		Claims: map[string]any{
			"email":          "jane@example.com",
			"email_verified": true,
			"name":           "Jane Doe",
			"picture":        "https://lh3.googleusercontent.com/a/photo",
		},
	}

	user, err := userFromPayload(payload)
	require.NoError(t, err)
	assert.Equal(t, "108001234567890", user.ID)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.Equal(t, "Jane Doe", user.Name)
	assert.Equal(t, "https://lh3.googleusercontent.com/a/photo", user.AvatarURL)
	assert.True(t, user.EmailVerified)
}

func TestUserFromPayload_MissingEmail(t *testing.T) {
	payload := &idtoken.Payload{
		Subject: "108001234567890",
		Claims:  map[string]any{"email_verified": true},
	}

	user, err := userFromPayload(payload)
	assert.Error(t, err)
	assert.Nil(t, user)
}

func TestUserFromPayload_UnverifiedEmail(t *testing.T) {
	payload := &idtoken.Payload{
		Subject: "108001234567890",
		Claims: map[string]any{
			"email":          "jane@example.com",
			"email_verified": false,
		},
	}

	user, err := userFromPayload(payload)
	assert.Error(t, err)
	assert.Nil(t, user)
	assert.Contains(t, err.Error(), "not verified")
}

func TestVerifier_VerifyIDToken(t *testing.T) {
	verifier := &Verifier{
		clientID: "client-id.apps.googleusercontent.com",
		logger:   slog.Default(),
		validate: func(_ context.Context, _, audience string) (*idtoken.Payload, error) {
			assert.Equal(t, "client-id.apps.googleusercontent.com", audience)

			return &idtoken.Payload{
				Subject: "108001234567890",
				Claims: map[string]any{
					"email":          "jane@example.com",
					"email_verified": true,
					"name":           "Jane Doe",
				},
			}, nil
		},
	}

	user, err := verifier.VerifyIDToken(context.Background(), "some-id-token")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", user.Email)
}

func TestVerifier_VerifyIDToken_ValidationFails(t *testing.T) {
	verifier := &Verifier{
		clientID: "client-id.apps.googleusercontent.com",
		logger:   slog.Default(),
		validate: func(_ context.Context, _, _ string) (*idtoken.Payload, error) {
			return nil, errors.New("idtoken: token expired")
		},
	}

	user, err := verifier.VerifyIDToken(context.Background(), "expired-token")
	assert.Error(t, err)
	assert.Nil(t, user)
}

func TestOAuthService_StateLifecycle(t *testing.T) {
	svc := NewOAuthService(testGoogleConfig(), nil)

	state, err := svc.Issue()
	require.NoError(t, err)
	assert.NotEmpty(t, state)

	// First redemption succeeds, replay fails.
	assert.True(t, svc.Redeem(state))
	assert.False(t, svc.Redeem(state))

	assert.False(t, svc.Redeem("never-issued"))
}

func TestOAuthService_AuthCodeURL(t *testing.T) {
	svc := NewOAuthService(testGoogleConfig(), nil)

	u := svc.AuthCodeURL("state-123")
	assert.Contains(t, u, "https://accounts.google.com/o/oauth2/v2/auth?")
	assert.Contains(t, u, "client_id=client-id.apps.googleusercontent.com")
	assert.Contains(t, u, "state=state-123")
	assert.Contains(t, u, "response_type=code")
}
