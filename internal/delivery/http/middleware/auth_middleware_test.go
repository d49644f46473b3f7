package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/config"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTokenService struct {
	claims *service.SessionClaims
	err    error
}

func (s *stubTokenService) GenerateToken(uuid.UUID) (string, error) { return "token", nil }

func (s *stubTokenService) ValidateToken(string) (*service.SessionClaims, error) {
	return s.claims, s.err
}

func (s *stubTokenService) GetTokenDuration() time.Duration { return time.Hour }

// stubAccounts serves a single profile; every other operation is unused here.
type stubAccounts struct {
	user *entity.User
	err  error
}

func (s *stubAccounts) GetProfile(context.Context, uuid.UUID) (*entity.User, error) {
	return s.user, s.err
}

func (s *stubAccounts) UpdateProfile(context.Context, uuid.UUID, usecase.UpdateProfileInput) (*entity.User, error) {
	panic("not used")
}

func (s *stubAccounts) UpdateAvatar(context.Context, uuid.UUID, string, string, io.Reader) (*entity.User, error) {
	panic("not used")
}

func (s *stubAccounts) ChangePassword(context.Context, uuid.UUID, usecase.ChangePasswordInput) error {
	panic("not used")
}

func (s *stubAccounts) ListUsers(context.Context, usecase.ListUsersInput) (*usecase.UserPage, error) {
	panic("not used")
}

func (s *stubAccounts) GetUser(context.Context, uuid.UUID) (*entity.User, error) {
	panic("not used")
}

func (s *stubAccounts) UpdateUser(context.Context, uuid.UUID, usecase.AdminUpdateUserInput) (*entity.User, error) {
	panic("not used")
}

func (s *stubAccounts) DeleteUser(context.Context, uuid.UUID, uuid.UUID) error {
	panic("not used")
}

func testAuthConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Auth = &config.AuthConfig{CookieName: "token"}

	return cfg
}

func invoke(m *AuthMiddleware, mutate func(*http.Request)) (echo.Context, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := m.Authenticate(func(c echo.Context) error { return nil })

	return c, handler(c)
}

func TestAuthenticateBearerToken(t *testing.T) {
	userID := uuid.New()
	user := &entity.User{ID: userID, Role: entity.RoleUser, IsActive: true}
	m := NewAuthMiddleware(
		&stubTokenService{claims: &service.SessionClaims{UserID: userID}},
		&stubAccounts{user: user},
		testAuthConfig(),
	)

	c, err := invoke(m, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer some-token")
	})
	require.NoError(t, err)

	loaded, ok := CurrentUser(c)
	require.True(t, ok)
	assert.Equal(t, userID, loaded.ID)
	assert.Equal(t, userID, c.Get(ContextKeyUserID))
}

func TestAuthenticateCookieToken(t *testing.T) {
	userID := uuid.New()
	user := &entity.User{ID: userID, Role: entity.RoleUser, IsActive: true}
	m := NewAuthMiddleware(
		&stubTokenService{claims: &service.SessionClaims{UserID: userID}},
		&stubAccounts{user: user},
		testAuthConfig(),
	)

	_, err := invoke(m, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "token", Value: "some-token"})
	})
	assert.NoError(t, err)
}

func TestAuthenticateMissingToken(t *testing.T) {
	m := NewAuthMiddleware(&stubTokenService{}, &stubAccounts{}, testAuthConfig())

	_, err := invoke(m, nil)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthenticated)
}

func TestAuthenticateMalformedBearer(t *testing.T) {
	m := NewAuthMiddleware(&stubTokenService{}, &stubAccounts{}, testAuthConfig())

	_, err := invoke(m, func(req *http.Request) {
		req.Header.Set("Authorization", "Basic abc")
	})
	assert.ErrorIs(t, err, domainerrors.ErrUnauthenticated)
}

func TestAuthenticateNonBearerHeaderFallsBackToCookie(t *testing.T) {
	userID := uuid.New()
	user := &entity.User{ID: userID, Role: entity.RoleUser, IsActive: true}
	m := NewAuthMiddleware(
		&stubTokenService{claims: &service.SessionClaims{UserID: userID}},
		&stubAccounts{user: user},
		testAuthConfig(),
	)

	c, err := invoke(m, func(req *http.Request) {
		req.Header.Set("Authorization", "Basic abc")
		req.AddCookie(&http.Cookie{Name: "token", Value: "some-token"})
	})
	require.NoError(t, err)

	loaded, ok := CurrentUser(c)
	require.True(t, ok)
	assert.Equal(t, userID, loaded.ID)
}

func TestAuthenticateInvalidToken(t *testing.T) {
	m := NewAuthMiddleware(
		&stubTokenService{err: service.ErrTokenMalformed},
		&stubAccounts{},
		testAuthConfig(),
	)

	_, err := invoke(m, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer bad")
	})
	assert.ErrorIs(t, err, domainerrors.ErrUnauthenticated)
}

func TestAuthenticateDeactivatedAccount(t *testing.T) {
	userID := uuid.New()
	m := NewAuthMiddleware(
		&stubTokenService{claims: &service.SessionClaims{UserID: userID}},
		&stubAccounts{user: &entity.User{ID: userID, IsActive: false}},
		testAuthConfig(),
	)

	_, err := invoke(m, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer some-token")
	})
	assert.ErrorIs(t, err, domainerrors.ErrUnauthenticated)
}

func TestRequireRole(t *testing.T) {
	m := NewAuthMiddleware(&stubTokenService{}, &stubAccounts{}, testAuthConfig())

	e := echo.New()
	handler := m.RequireRole(entity.RoleAdmin)(func(c echo.Context) error { return nil })

	// Without a loaded user the gate rejects as unauthenticated.
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.ErrorIs(t, handler(c), domainerrors.ErrUnauthenticated)

	// A non-admin user is forbidden.
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.Set(ContextKeyUser, &entity.User{Role: entity.RoleUser})
	assert.ErrorIs(t, handler(c), domainerrors.ErrForbidden)

	// An admin passes through.
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.Set(ContextKeyUser, &entity.User{Role: entity.RoleAdmin})
	assert.NoError(t, handler(c))
}

func TestOptionalAuthenticateNeverRejects(t *testing.T) {
	m := NewAuthMiddleware(
		&stubTokenService{err: service.ErrTokenExpired},
		&stubAccounts{},
		testAuthConfig(),
	)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer expired")
	c := e.NewContext(req, httptest.NewRecorder())

	handler := m.OptionalAuthenticate(func(c echo.Context) error { return nil })
	require.NoError(t, handler(c))

	_, ok := CurrentUser(c)
	assert.False(t, ok)
}
