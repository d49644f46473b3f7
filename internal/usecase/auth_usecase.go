// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"storefront/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// ResetPasswordInput defines the data required to reset a forgotten password.
type ResetPasswordInput struct {
	Token       string
	NewPassword string
}

// --- Output DTOs ---

// AuthOutput returns the authenticated user and their session token.
type AuthOutput struct {
	User  *entity.User
	Token string
}

// AuthUsecase defines the interface for authentication business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AuthUsecase interface {
	// Register creates a new account with the default user role and issues a
	// session token. An already-registered email is a conflict.
	Register(ctx context.Context, input RegisterInput) (*AuthOutput, error)

	// Login authenticates by email and password. An unknown email and a wrong
	// password yield the same generic error.
	Login(ctx context.Context, input LoginInput) (*AuthOutput, error)

	// LoginWithGoogleIDToken verifies a client-supplied Google ID token and
	// finds or creates the matching account.
	LoginWithGoogleIDToken(ctx context.Context, idToken string) (*AuthOutput, error)

	// GoogleAuthURL issues an anti-forgery state and returns the Google
	// consent page URL for the redirect flow.
	GoogleAuthURL(ctx context.Context) (string, error)

	// HandleGoogleCallback redeems the state, exchanges the authorization
	// code server-side and finds or creates the matching account.
	HandleGoogleCallback(ctx context.Context, state, code string) (*AuthOutput, error)

	// ForgotPassword stores a short-lived reset token on the account. The
	// response never reveals whether the email exists.
	ForgotPassword(ctx context.Context, email string) error

	// ResetPassword sets a new password for the account holding a valid,
	// unexpired reset token.
	ResetPassword(ctx context.Context, input ResetPasswordInput) error
}
