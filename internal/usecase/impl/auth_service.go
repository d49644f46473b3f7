// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"time"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const resetTokenTTL = 10 * time.Minute

// authService implements the AuthUsecase interface.
type authService struct {
	userRepo     repository.UserRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	verifier     service.OAuthVerifier
	oauth        service.OAuthCodeExchanger
	states       service.StateStore
	logger       *slog.Logger
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Verifier     service.OAuthVerifier
	OAuth        service.OAuthCodeExchanger
	States       service.StateStore
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		userRepo:     params.UserRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		verifier:     params.Verifier,
		oauth:        params.OAuth,
		states:       params.States,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates a new account and issues a session token.
func (srv *authService) Register(ctx context.Context, input usecase.RegisterInput) (*usecase.AuthOutput, error) {
	email := entity.NormalizeEmail(input.Email)
	srv.log(ctx).Info("Registering new account", slog.String("email", email))

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	now := time.Now()
	user := &entity.User{
		Email:        email,
		Name:         input.Name,
		PasswordHash: hashedPassword,
		Role:         entity.RoleUser,
		IsActive:     true,
		LastLogin:    &now,
	}

	if err := srv.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, domainerrors.ErrEmailTaken
		}

		return nil, errors.Wrap(err, "failed to create user")
	}

	return srv.issueSession(ctx, user)
}

// Login authenticates by email and password. An unknown email and a wrong
// password are indistinguishable to the caller.
func (srv *authService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.AuthOutput, error) {
	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	if !user.MatchPassword(srv.hasher, input.Password) {
		return nil, domainerrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, domainerrors.ErrForbidden
	}

	user.TouchLastLogin(time.Now())
	if err := srv.userRepo.Update(ctx, user); err != nil {
		return nil, errors.Wrap(err, "failed to update last login")
	}

	return srv.issueSession(ctx, user)
}

// LoginWithGoogleIDToken verifies a client-supplied ID token and signs the
// matching account in, creating it on first sight.
func (srv *authService) LoginWithGoogleIDToken(ctx context.Context, idToken string) (*usecase.AuthOutput, error) {
	oauthUser, err := srv.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, domainerrors.ErrOAuthTokenInvalid
	}

	return srv.loginWithOAuthUser(ctx, oauthUser)
}

// GoogleAuthURL issues an anti-forgery state and returns the consent page URL.
func (srv *authService) GoogleAuthURL(_ context.Context) (string, error) {
	state, err := srv.states.Issue()
	if err != nil {
		return "", errors.Wrap(err, "failed to issue oauth state")
	}

	return srv.oauth.AuthCodeURL(state), nil
}

// HandleGoogleCallback redeems the state and the authorization code, then
// signs the matching account in.
func (srv *authService) HandleGoogleCallback(ctx context.Context, state, code string) (*usecase.AuthOutput, error) {
	if !srv.states.Redeem(state) {
		srv.log(ctx).Warn("OAuth callback with unknown or reused state")

		return nil, domainerrors.ErrOAuthTokenInvalid.WithDetails("state mismatch")
	}

	oauthUser, err := srv.oauth.ExchangeCode(ctx, code)
	if err != nil {
		srv.log(ctx).Error("OAuth code exchange failed", slog.Any("error", err))

		return nil, domainerrors.ErrOAuthExchangeFailed
	}

	return srv.loginWithOAuthUser(ctx, oauthUser)
}

// loginWithOAuthUser finds or creates the account matching a verified OAuth
// identity. A created account gets a random password that is never
// communicated; such users sign in through the provider.
func (srv *authService) loginWithOAuthUser(ctx context.Context, oauthUser *service.OAuthUser) (*usecase.AuthOutput, error) {
	user, err := srv.userRepo.FindByEmail(ctx, oauthUser.Email)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(err, "failed to find user by email")
		}

		user, err = srv.createOAuthAccount(ctx, oauthUser)
		if err != nil {
			return nil, err
		}
	}

	if !user.IsActive {
		return nil, domainerrors.ErrForbidden
	}

	user.TouchLastLogin(time.Now())
	if user.Avatar == "" && oauthUser.AvatarURL != "" {
		user.Avatar = oauthUser.AvatarURL
	}
	if err := srv.userRepo.Update(ctx, user); err != nil {
		return nil, errors.Wrap(err, "failed to update last login")
	}

	return srv.issueSession(ctx, user)
}

func (srv *authService) createOAuthAccount(ctx context.Context, oauthUser *service.OAuthUser) (*entity.User, error) {
	randomPassword, err := randomHex(32)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate random password")
	}

	hashedPassword, err := srv.hasher.Hash(randomPassword)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash random password")
	}

	name := oauthUser.Name
	if name == "" {
		name = oauthUser.Email
	}

	user := &entity.User{
		Email:        entity.NormalizeEmail(oauthUser.Email),
		Name:         name,
		PasswordHash: hashedPassword,
		Role:         entity.RoleUser,
		Avatar:       oauthUser.AvatarURL,
		IsActive:     true,
	}

	if err := srv.userRepo.Create(ctx, user); err != nil {
		return nil, errors.Wrap(err, "failed to create oauth user")
	}

	srv.log(ctx).Info("Created account from OAuth identity",
		slog.String("email", user.Email),
		slog.Any("userID", user.ID))

	return user, nil
}

// ForgotPassword stores a short-lived reset token on the account. The caller
// learns nothing about whether the email exists.
func (srv *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := srv.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil
		}

		return errors.Wrap(err, "failed to find user by email")
	}

	token, err := randomHex(32)
	if err != nil {
		return errors.Wrap(err, "failed to generate reset token")
	}

	expires := time.Now().Add(resetTokenTTL)
	user.PasswordResetToken = token
	user.PasswordResetExpires = &expires

	if err := srv.userRepo.Update(ctx, user); err != nil {
		return errors.Wrap(err, "failed to store reset token")
	}

	// Mail delivery is out of scope; the token is logged for operators.
	srv.log(ctx).Info("Password reset token issued",
		slog.Any("userID", user.ID),
		slog.String("token", token))

	return nil
}

// ResetPassword sets a new password for a valid, unexpired reset token.
func (srv *authService) ResetPassword(ctx context.Context, input usecase.ResetPasswordInput) error {
	if input.Token == "" {
		return domainerrors.ErrResetTokenInvalid
	}

	user, err := srv.userRepo.FindByResetToken(ctx, input.Token)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrResetTokenInvalid
		}

		return errors.Wrap(err, "failed to find user by reset token")
	}

	if user.PasswordResetExpires == nil || time.Now().After(*user.PasswordResetExpires) {
		return domainerrors.ErrResetTokenInvalid
	}

	hashedPassword, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		return errors.Wrap(err, "failed to hash new password")
	}

	user.PasswordHash = hashedPassword
	user.PasswordResetToken = ""
	user.PasswordResetExpires = nil

	if err := srv.userRepo.Update(ctx, user); err != nil {
		return errors.Wrap(err, "failed to update password")
	}

	srv.log(ctx).Info("Password reset completed", slog.Any("userID", user.ID))

	return nil
}

func (srv *authService) issueSession(ctx context.Context, user *entity.User) (*usecase.AuthOutput, error) {
	token, err := srv.tokenService.GenerateToken(user.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate session token")
	}

	srv.log(ctx).Debug("Session issued", slog.Any("userID", user.ID))

	return &usecase.AuthOutput{User: user, Token: token}, nil
}

// randomHex returns n random bytes hex-encoded.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	return hex.EncodeToString(buf), nil
}
