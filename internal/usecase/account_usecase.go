package usecase

import (
	"context"
	"io"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// UpdateProfileInput carries the profile fields a user may change. Nil
// pointers leave the current value untouched.
type UpdateProfileInput struct {
	Name           *string
	Email          *string
	Phone          *string
	Profession     *string
	IsProfessional *bool
}

// ChangePasswordInput defines the data required to change a password while
// logged in.
type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}

// --- Admin DTOs ---

// ListUsersInput carries pagination and filters for the admin user listing.
type ListUsersInput struct {
	Page   int
	Limit  int
	Role   *entity.Role
	Search string
}

// AdminUpdateUserInput carries the fields an administrator may change on any
// account. Nil pointers leave the current value untouched.
type AdminUpdateUserInput struct {
	Name     *string
	Email    *string
	Role     *entity.Role
	IsActive *bool
}

// UserPage is one page of users plus the total match count.
type UserPage struct {
	Users []entity.User
	Total int64
	Page  int
	Limit int
}

// AccountUsecase defines profile self-service and admin user management.
type AccountUsecase interface {
	// GetProfile returns the persisted user for the given identity.
	GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error)

	// UpdateProfile merges the provided fields into the user's profile.
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*entity.User, error)

	// UpdateAvatar stores a new avatar through file storage and deletes the
	// previous asset best-effort.
	UpdateAvatar(ctx context.Context, userID uuid.UUID, nameHint, contentType string, content io.Reader) (*entity.User, error)

	// ChangePassword verifies the current password before setting the new one.
	ChangePassword(ctx context.Context, userID uuid.UUID, input ChangePasswordInput) error

	// ListUsers returns a page of users for administrators.
	ListUsers(ctx context.Context, input ListUsersInput) (*UserPage, error)

	// GetUser returns any user by ID for administrators.
	GetUser(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// UpdateUser merges admin-editable fields into any account.
	UpdateUser(ctx context.Context, id uuid.UUID, input AdminUpdateUserInput) (*entity.User, error)

	// DeleteUser removes an account. Administrators cannot delete themselves.
	DeleteUser(ctx context.Context, actorID, id uuid.UUID) error
}
