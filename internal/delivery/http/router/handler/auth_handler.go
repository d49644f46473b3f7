// Package handler contains the HTTP handlers for the application.
package handler

import (
	"net/http"

	"storefront/config"
	"storefront/internal/delivery/http/cookie"
	"storefront/internal/delivery/http/response"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AuthHandler holds dependencies for authentication handlers.
type AuthHandler struct {
	uc  usecase.AuthUsecase
	cfg *config.Config
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(uc usecase.AuthUsecase, cfg *config.Config) *AuthHandler {
	return &AuthHandler{uc: uc, cfg: cfg}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type oauthTokenRequest struct {
	Provider string `json:"provider" validate:"required"`
	IDToken  string `json:"idToken" validate:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

// authPayload is the body of every successful authentication response. The
// token is also set as an HttpOnly cookie for browser clients.
type authPayload struct {
	User  any    `json:"user"`
	Token string `json:"token"`
}

// Register handles the account registration request.
func (h *AuthHandler) Register(c echo.Context) error {
	var input registerRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	output, err := h.uc.Register(c.Request().Context(), usecase.RegisterInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	cookie.SetSession(c, h.cfg, output.Token)

	return response.Success(c, http.StatusCreated, authPayload{User: output.User, Token: output.Token}, "Account created successfully")
}

// Login handles the email and password login request.
func (h *AuthHandler) Login(c echo.Context) error {
	var input loginRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	output, err := h.uc.Login(c.Request().Context(), usecase.LoginInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	cookie.SetSession(c, h.cfg, output.Token)

	return response.Success(c, http.StatusOK, authPayload{User: output.User, Token: output.Token}, "Login successful")
}

// Logout clears the session cookie. The stateless token itself simply ages out.
func (h *AuthHandler) Logout(c echo.Context) error {
	cookie.ClearSession(c, h.cfg)

	return response.Success(c, http.StatusOK, nil, "Logged out successfully")
}

// OAuthToken handles the client-side sign-in flow, where the browser already
// holds a provider ID token. Google is the only supported provider.
func (h *AuthHandler) OAuthToken(c echo.Context) error {
	var input oauthTokenRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid sign-in input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	if input.Provider != "google" {
		return domainerrors.ErrOAuthProviderUnsupported.WithDetails("provider " + input.Provider + " is not supported")
	}

	output, err := h.uc.LoginWithGoogleIDToken(c.Request().Context(), input.IDToken)
	if err != nil {
		return errors.WithStack(err)
	}

	cookie.SetSession(c, h.cfg, output.Token)

	return response.Success(c, http.StatusOK, authPayload{User: output.User, Token: output.Token}, "Google sign-in successful")
}

// GoogleLogin initiates the server-side Google OAuth flow.
func (h *AuthHandler) GoogleLogin(c echo.Context) error {
	oauthURL, err := h.uc.GoogleAuthURL(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	if c.QueryParam("redirect") == "true" {
		return c.Redirect(http.StatusTemporaryRedirect, oauthURL)
	}

	return response.Success(c, http.StatusOK, map[string]string{"oauthUrl": oauthURL}, "Google OAuth URL generated")
}

// GoogleCallback completes the server-side OAuth flow: it redeems the state
// and authorization code, signs the account in and hands control back to the
// frontend.
func (h *AuthHandler) GoogleCallback(c echo.Context) error {
	state := c.QueryParam("state")
	code := c.QueryParam("code")
	if state == "" || code == "" {
		return response.BindingError(c, "INVALID_INPUT", "Missing state or code parameter")
	}

	output, err := h.uc.HandleGoogleCallback(c.Request().Context(), state, code)
	if err != nil {
		return errors.WithStack(err)
	}

	cookie.SetSession(c, h.cfg, output.Token)

	if h.cfg.GoogleOAuth != nil && h.cfg.GoogleOAuth.ClientCallbackURL != "" {
		return c.Redirect(http.StatusTemporaryRedirect, h.cfg.GoogleOAuth.ClientCallbackURL)
	}

	return response.Success(c, http.StatusOK, authPayload{User: output.User, Token: output.Token}, "Google sign-in successful")
}

// ForgotPassword issues a password reset token. The response is identical
// whether or not the email exists.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var input forgotPasswordRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	if err := h.uc.ForgotPassword(c.Request().Context(), input.Email); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "If that email is registered, a reset link has been sent")
}

// ResetPassword sets a new password from a reset token.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var input resetPasswordRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	err := h.uc.ResetPassword(c.Request().Context(), usecase.ResetPasswordInput{
		Token:       c.Param("token"),
		NewPassword: input.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Password reset successfully")
}
