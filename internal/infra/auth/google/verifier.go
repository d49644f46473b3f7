// Package google implements Google sign-in: ID token verification and the
// server-side authorization-code flow.
package google

import (
	"context"
	"log/slog"

	"storefront/config"
	"storefront/internal/domain/service"

	"github.com/pkg/errors"
	"google.golang.org/api/idtoken"
)

// IDTokenValidator validates a Google ID token against an audience.
// It matches idtoken.Validate and exists so tests can substitute the
// network-backed verification.
type IDTokenValidator func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

// Verifier verifies Google ID tokens using Google's public signing keys.
type Verifier struct {
	clientID string
	logger   *slog.Logger
	validate IDTokenValidator
}

// NewVerifier creates a new Google ID token verifier.
func NewVerifier(cfg *config.Config, logger *slog.Logger) service.OAuthVerifier {
	return &Verifier{
		clientID: cfg.GoogleOAuth.ClientID,
		logger:   logger,
		validate: idtoken.Validate,
	}
}

// VerifyIDToken implements service.OAuthVerifier. The signature, issuer,
// audience and expiry checks are delegated to the idtoken validator.
func (v *Verifier) VerifyIDToken(ctx context.Context, token string) (*service.OAuthUser, error) {
	payload, err := v.validate(ctx, token, v.clientID)
	if err != nil {
		v.logger.Warn("google id token validation failed", slog.Any("error", err))

		return nil, errors.Wrap(err, "validate google id token")
	}

	user, err := userFromPayload(payload)
	if err != nil {
		return nil, err
	}

	v.logger.Info("google id token verified",
		slog.String("sub", user.ID),
		slog.String("email", user.Email))

	return user, nil
}

// userFromPayload maps a verified ID token payload to the provider-neutral
// OAuth user. The email must be present and verified by Google.
func userFromPayload(payload *idtoken.Payload) (*service.OAuthUser, error) {
	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return nil, errors.New("id token carries no email claim")
	}

	verified, _ := payload.Claims["email_verified"].(bool)
	if !verified {
		return nil, errors.New("email not verified by provider")
	}

	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)

	return &service.OAuthUser{
		ID:            payload.Subject,
		Email:         email,
		Name:          name,
		AvatarURL:     picture,
		EmailVerified: verified,
	}, nil
}
