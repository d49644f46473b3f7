// Package cookie manages the session token cookie shared by all auth flows.
package cookie

import (
	"net/http"
	"time"

	"storefront/config"

	"github.com/labstack/echo/v4"
)

// SetSession writes the session token cookie. In production the cookie is
// Secure with SameSite=None so cross-site frontends can carry it; elsewhere
// Lax keeps local development working over plain HTTP.
func SetSession(c echo.Context, cfg *config.Config, token string) {
	c.SetCookie(build(cfg, token, cfg.Auth.TokenTTL))
}

// ClearSession expires the session cookie immediately.
func ClearSession(c echo.Context, cfg *config.Config) {
	c.SetCookie(build(cfg, "", -time.Hour))
}

func build(cfg *config.Config, token string, ttl time.Duration) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if cfg.IsProduction() {
		sameSite = http.SameSiteNoneMode
	}

	return &http.Cookie{
		Name:     cfg.Auth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: sameSite,
	}
}
