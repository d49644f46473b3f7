package handler

import (
	"strconv"

	domainerrors "storefront/internal/domain/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// pageParams reads the standard page and limit query parameters. Bounds are
// enforced again by the persistence layer; this only parses.
func pageParams(c echo.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	limit, _ = strconv.Atoi(c.QueryParam("limit"))

	return page, limit
}

// pathID parses the :id path parameter as a UUID.
func pathID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, domainerrors.NewValidationError(domainerrors.FieldError{
			Field:   name,
			Message: name + " must be a valid UUID",
		})
	}

	return id, nil
}

// queryDecimal parses an optional decimal query parameter.
func queryDecimal(c echo.Context, name string) *decimal.Decimal {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil
	}

	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}

	return &value
}

// queryBool parses an optional boolean query parameter.
func queryBool(c echo.Context, name string) *bool {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil
	}

	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}

	return &value
}
