package handler

import (
	"net/http"
	"strings"

	"storefront/internal/delivery/http/middleware"
	"storefront/internal/delivery/http/response"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// UserHandler holds dependencies for profile self-service handlers.
type UserHandler struct {
	uc usecase.AccountUsecase
}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler(uc usecase.AccountUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

type updateProfileRequest struct {
	Name           *string `json:"name" validate:"omitempty,max=100"`
	Email          *string `json:"email" validate:"omitempty,email"`
	Phone          *string `json:"phone" validate:"omitempty,max=30"`
	Profession     *string `json:"profession" validate:"omitempty,max=100"`
	IsProfessional *bool   `json:"isProfessional"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// GetProfile returns the authenticated user's profile.
func (h *UserHandler) GetProfile(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return domainerrors.ErrUnauthenticated
	}

	return response.Success(c, http.StatusOK, user, "")
}

// UpdateProfile merges the provided fields into the authenticated user's
// profile. A multipart request may additionally carry a new avatar file.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return domainerrors.ErrUnauthenticated
	}

	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(contentType, echo.MIMEMultipartForm) {
		return h.updateProfileMultipart(c, user)
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid profile input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	updated, err := h.uc.UpdateProfile(c.Request().Context(), user.ID, usecase.UpdateProfileInput{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Profession:     req.Profession,
		IsProfessional: req.IsProfessional,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, updated, "Profile updated successfully")
}

// updateProfileMultipart merges text fields from the form, then stores the
// attached avatar if one is present. Empty form fields are left untouched.
func (h *UserHandler) updateProfileMultipart(c echo.Context, user *entity.User) error {
	var req updateProfileRequest
	for key, assign := range map[string]**string{
		"name":       &req.Name,
		"email":      &req.Email,
		"phone":      &req.Phone,
		"profession": &req.Profession,
	} {
		if value := c.FormValue(key); value != "" {
			*assign = &value
		}
	}
	if value := c.FormValue("isProfessional"); value != "" {
		isProfessional := value == "true"
		req.IsProfessional = &isProfessional
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	updated, err := h.uc.UpdateProfile(c.Request().Context(), user.ID, usecase.UpdateProfileInput{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Profession:     req.Profession,
		IsProfessional: req.IsProfessional,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	if fileHeader, err := c.FormFile("avatar"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			return errors.Wrap(err, "failed to open uploaded file")
		}
		defer file.Close()

		updated, err = h.uc.UpdateAvatar(c.Request().Context(), user.ID,
			fileHeader.Filename, fileHeader.Header.Get("Content-Type"), file)
		if err != nil {
			return errors.WithStack(err)
		}
	}

	return response.Success(c, http.StatusOK, updated, "Profile updated successfully")
}

// ChangePassword verifies the current password before setting the new one.
func (h *UserHandler) ChangePassword(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return domainerrors.ErrUnauthenticated
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid password input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err := h.uc.ChangePassword(c.Request().Context(), user.ID, usecase.ChangePasswordInput{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Password changed successfully")
}
