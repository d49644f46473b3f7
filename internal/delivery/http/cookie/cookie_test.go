package cookie

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/config"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(env string) *config.Config {
	cfg := &config.Config{}
	cfg.Env.Env = env
	cfg.Auth = &config.AuthConfig{CookieName: "token", TokenTTL: 24 * time.Hour}

	return cfg
}

func written(rec *httptest.ResponseRecorder) *http.Cookie {
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		return nil
	}

	return cookies[0]
}

func TestSetSessionDevelopment(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	SetSession(c, testConfig("development"), "session-token")

	cookie := written(rec)
	require.NotNil(t, cookie)
	assert.Equal(t, "token", cookie.Name)
	assert.Equal(t, "session-token", cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.True(t, cookie.HttpOnly)
	assert.False(t, cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, int((24 * time.Hour).Seconds()), cookie.MaxAge)
}

func TestSetSessionProduction(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	SetSession(c, testConfig("production"), "session-token")

	cookie := written(rec)
	require.NotNil(t, cookie)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteNoneMode, cookie.SameSite)
}

func TestClearSession(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	ClearSession(c, testConfig("development"))

	cookie := written(rec)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}