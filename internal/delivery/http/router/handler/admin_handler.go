package handler

import (
	"net/http"

	"storefront/internal/delivery/http/middleware"
	"storefront/internal/delivery/http/response"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AdminHandler holds dependencies for admin user management and metrics.
type AdminHandler struct {
	accounts usecase.AccountUsecase
	metrics  usecase.MetricsUsecase
}

// NewAdminHandler is the constructor for AdminHandler, injected by Fx.
func NewAdminHandler(accounts usecase.AccountUsecase, metrics usecase.MetricsUsecase) *AdminHandler {
	return &AdminHandler{accounts: accounts, metrics: metrics}
}

type adminUpdateUserRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=100"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Role     *string `json:"role" validate:"omitempty,oneof=user admin"`
	IsActive *bool   `json:"isActive"`
}

// ListUsers returns a page of accounts.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	page, limit := pageParams(c)
	input := usecase.ListUsersInput{
		Page:   page,
		Limit:  limit,
		Search: c.QueryParam("search"),
	}

	if raw := c.QueryParam("role"); raw != "" {
		role := entity.Role(raw)
		if !role.IsValid() {
			return domainerrors.NewValidationError(domainerrors.FieldError{
				Field:   "role",
				Message: "role must be one of: user admin",
			})
		}
		input.Role = &role
	}

	result, err := h.accounts.ListUsers(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Page(c, result.Users, response.NewPagination(result.Page, result.Limit, result.Total), "")
}

// GetUser returns any account by ID.
func (h *AdminHandler) GetUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	user, err := h.accounts.GetUser(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, user, "")
}

// UpdateUser merges admin-editable fields into any account.
func (h *AdminHandler) UpdateUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req adminUpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid user input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	input := usecase.AdminUpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		IsActive: req.IsActive,
	}
	if req.Role != nil {
		role := entity.Role(*req.Role)
		input.Role = &role
	}

	user, err := h.accounts.UpdateUser(c.Request().Context(), id, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, user, "User updated successfully")
}

// DeleteUser removes an account. The acting administrator cannot delete
// themselves.
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		return domainerrors.ErrUnauthenticated
	}

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.accounts.DeleteUser(c.Request().Context(), actor.ID, id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "User deleted successfully")
}

// Dashboard returns the aggregated admin dashboard metrics.
func (h *AdminHandler) Dashboard(c echo.Context) error {
	metrics, err := h.metrics.Dashboard(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, metrics, "")
}
