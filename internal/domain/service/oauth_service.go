package service

import (
	"context"
)

// OAuthUser represents user information from OAuth providers
type OAuthUser struct {
	ID            string // Provider-specific user ID (Google's 'sub' claim)
	Email         string // User's email address
	Name          string // User's display name
	AvatarURL     string // URL to user's profile picture
	EmailVerified bool   // Whether the email is verified by the provider
}

// OAuthVerifier defines the interface for ID token verification.
// This is used for Google Sign-In where the client sends an ID token directly.
type OAuthVerifier interface {
	// VerifyIDToken verifies an OAuth ID token signature and audience and
	// returns the asserted user information.
	VerifyIDToken(ctx context.Context, idToken string) (*OAuthUser, error)
}

// OAuthCodeExchanger defines the interface for the authorization-code flow,
// where the server redeems a one-time code for the user's identity.
type OAuthCodeExchanger interface {
	// AuthCodeURL builds the provider consent page URL carrying the given
	// anti-forgery state.
	AuthCodeURL(state string) string

	// ExchangeCode redeems an authorization code and returns the verified
	// user information.
	ExchangeCode(ctx context.Context, code string) (*OAuthUser, error)
}

// StateStore issues and redeems single-use anti-forgery states for the
// authorization-code flow.
type StateStore interface {
	// Issue creates a new single-use state value.
	Issue() (string, error)

	// Redeem consumes a state value, reporting whether it was outstanding.
	Redeem(state string) bool
}
