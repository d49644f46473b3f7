package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/config"
	"storefront/internal/delivery/http/response"
	domainerrors "storefront/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func handleError(t *testing.T, err error, debug bool) (int, response.Response) {
	t.Helper()

	cfg := &config.Config{}
	cfg.Env.Debug = debug
	m := NewErrorMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil)), cfg)

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	m.HandleHTTPError(err, c)

	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return rec.Code, body
}

func TestHandleAppError(t *testing.T) {
	code, body := handleError(t, domainerrors.ErrProductNotFound, false)

	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, body.Success)
	assert.Equal(t, "Product not found", body.Message)
	require.NotNil(t, body.Error)
	assert.Equal(t, "PRODUCT_NOT_FOUND", body.Error.Code)
}

func TestHandleWrappedAppError(t *testing.T) {
	wrapped := errors.WithStack(domainerrors.ErrInvalidCredentials)
	code, body := handleError(t, wrapped, false)

	assert.Equal(t, http.StatusUnauthorized, code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "INVALID_CREDENTIALS", body.Error.Code)
}

func TestHandleValidationErrorCarriesFields(t *testing.T) {
	err := domainerrors.NewValidationError(
		domainerrors.FieldError{Field: "email", Message: "email is required"},
		domainerrors.FieldError{Field: "password", Message: "password is required"},
	)

	code, body := handleError(t, err, false)

	assert.Equal(t, http.StatusBadRequest, code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "VALIDATION_FAILED", body.Error.Code)
	require.Len(t, body.Error.Fields, 2)
	assert.Equal(t, "email", body.Error.Fields[0].Field)
}

func TestHandleEchoHTTPError(t *testing.T) {
	code, body := handleError(t, echo.NewHTTPError(http.StatusNotFound, "Not Found"), false)

	assert.Equal(t, http.StatusNotFound, code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "HTTP_ERROR", body.Error.Code)
}

func TestHandleUnexpectedErrorHidesDetails(t *testing.T) {
	code, body := handleError(t, errors.New("connection refused"), false)

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Server error", body.Message)
	require.NotNil(t, body.Error)
	assert.Empty(t, body.Error.Details)
}

func TestHandleUnexpectedErrorExposesDetailsInDebug(t *testing.T) {
	_, body := handleError(t, errors.New("connection refused"), true)

	require.NotNil(t, body.Error)
	assert.Equal(t, "connection refused", body.Error.Details)
}
