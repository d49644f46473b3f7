// Package middleware contains HTTP middleware for authentication and errors.
package middleware

import (
	"strings"

	"storefront/config"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

const (
	// ContextKeyUser holds the loaded *entity.User after authentication.
	ContextKeyUser = "user"

	// ContextKeyUserID holds the authenticated uuid.UUID.
	ContextKeyUserID = "userID"
)

// AuthMiddleware validates session tokens and loads the current account.
// The token is accepted from the Authorization header first, then from the
// session cookie, so browser clients and API clients share the same gate.
type AuthMiddleware struct {
	tokenSvc service.TokenService
	accounts usecase.AccountUsecase
	cfg      *config.Config
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService, accounts usecase.AccountUsecase, cfg *config.Config) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc, accounts: accounts, cfg: cfg}
}

// Authenticate is the core middleware function that validates the session token.
// The account is re-read from storage on every request so deactivation and
// role changes take effect immediately.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenString := m.extractToken(c)
		if tokenString == "" {
			return domainerrors.ErrUnauthenticated
		}

		claims, err := m.tokenSvc.ValidateToken(tokenString)
		if err != nil {
			return domainerrors.ErrUnauthenticated
		}

		user, err := m.accounts.GetProfile(c.Request().Context(), claims.UserID)
		if err != nil {
			return domainerrors.ErrUnauthenticated
		}

		if !user.IsActive {
			return domainerrors.ErrUnauthenticated
		}

		c.Set(ContextKeyUser, user)
		c.Set(ContextKeyUserID, user.ID)

		return next(c)
	}
}

// OptionalAuthenticate loads the current account when a valid token is
// present but never rejects the request. Public routes use it to unlock
// admin-only query options.
func (m *AuthMiddleware) OptionalAuthenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenString := m.extractToken(c)
		if tokenString == "" {
			return next(c)
		}

		claims, err := m.tokenSvc.ValidateToken(tokenString)
		if err != nil {
			return next(c)
		}

		user, err := m.accounts.GetProfile(c.Request().Context(), claims.UserID)
		if err != nil || !user.IsActive {
			return next(c)
		}

		c.Set(ContextKeyUser, user)
		c.Set(ContextKeyUserID, user.ID)

		return next(c)
	}
}

// RequireRole is a middleware factory that checks the loaded user's role.
// It must be used AFTER the Authenticate middleware.
func (m *AuthMiddleware) RequireRole(requiredRole entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return domainerrors.ErrUnauthenticated
			}

			if user.Role != requiredRole {
				return domainerrors.ErrForbidden
			}

			return next(c)
		}
	}
}

// extractToken tries the credential sources in order: the Bearer header,
// then the session cookie. A non-Bearer Authorization header does not stop
// the chain.
func (m *AuthMiddleware) extractToken(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if tokenString := strings.TrimPrefix(authHeader, "Bearer "); authHeader != "" && tokenString != authHeader {
		return tokenString
	}

	sessionCookie, err := c.Cookie(m.cfg.Auth.CookieName)
	if err != nil || sessionCookie == nil {
		return ""
	}

	return sessionCookie.Value
}

// CurrentUser returns the authenticated user loaded by Authenticate.
func CurrentUser(c echo.Context) (*entity.User, bool) {
	user, ok := c.Get(ContextKeyUser).(*entity.User)

	return user, ok
}
