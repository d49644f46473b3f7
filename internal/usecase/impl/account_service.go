package impl

import (
	"context"
	"io"
	"log/slog"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// accountService implements the AccountUsecase interface.
type accountService struct {
	userRepo repository.UserRepository
	hasher   service.PasswordHasher
	storage  service.FileStorage
	logger   *slog.Logger
}

// AccountServiceParams holds dependencies for AccountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	UserRepo repository.UserRepository
	Hasher   service.PasswordHasher
	Storage  service.FileStorage
	Logger   *slog.Logger
}

// NewAccountService is the constructor for accountService.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	return &accountService{
		userRepo: params.UserRepo,
		hasher:   params.Hasher,
		storage:  params.Storage,
		logger:   params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetProfile returns the persisted user for the given identity.
func (srv *accountService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	return user, nil
}

// UpdateProfile merges the provided fields into the user's profile.
func (srv *accountService) UpdateProfile(ctx context.Context, userID uuid.UUID, input usecase.UpdateProfileInput) (*entity.User, error) {
	user, err := srv.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = entity.NormalizeEmail(*input.Email)
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Profession != nil {
		user.Profession = *input.Profession
	}
	if input.IsProfessional != nil {
		user.IsProfessional = *input.IsProfessional
	}

	if err := srv.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, domainerrors.ErrEmailTaken
		}

		return nil, errors.Wrap(err, "failed to update profile")
	}

	return user, nil
}

// UpdateAvatar stores a new avatar and deletes the previous asset best-effort.
func (srv *accountService) UpdateAvatar(ctx context.Context, userID uuid.UUID, nameHint, contentType string, content io.Reader) (*entity.User, error) {
	user, err := srv.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	stored, err := srv.storage.Store(ctx, nameHint, contentType, content)
	if err != nil {
		return nil, errors.Wrap(err, "failed to store avatar")
	}

	previousRef := user.AvatarRef
	user.Avatar = stored.URL
	user.AvatarRef = stored.Key

	if err := srv.userRepo.Update(ctx, user); err != nil {
		return nil, errors.Wrap(err, "failed to update avatar")
	}

	if previousRef != "" {
		if err := srv.storage.Delete(ctx, previousRef); err != nil {
			srv.log(ctx).Warn("Failed to delete previous avatar",
				slog.String("key", previousRef),
				slog.Any("error", err))
		}
	}

	return user, nil
}

// ChangePassword verifies the current password before setting the new one.
func (srv *accountService) ChangePassword(ctx context.Context, userID uuid.UUID, input usecase.ChangePasswordInput) error {
	user, err := srv.GetProfile(ctx, userID)
	if err != nil {
		return err
	}

	if !user.MatchPassword(srv.hasher, input.CurrentPassword) {
		return domainerrors.ErrCurrentPasswordIncorrect
	}

	hashedPassword, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		return errors.Wrap(err, "failed to hash new password")
	}

	user.PasswordHash = hashedPassword
	if err := srv.userRepo.Update(ctx, user); err != nil {
		return errors.Wrap(err, "failed to update password")
	}

	srv.log(ctx).Info("Password changed", slog.Any("userID", userID))

	return nil
}

// ListUsers returns a page of users for administrators.
func (srv *accountService) ListUsers(ctx context.Context, input usecase.ListUsersInput) (*usecase.UserPage, error) {
	users, total, err := srv.userRepo.List(ctx, repository.ListUsersQuery{
		Page:   input.Page,
		Limit:  input.Limit,
		Role:   input.Role,
		Search: input.Search,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}

	return &usecase.UserPage{
		Users: users,
		Total: total,
		Page:  input.Page,
		Limit: input.Limit,
	}, nil
}

// GetUser returns any user by ID for administrators.
func (srv *accountService) GetUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return srv.GetProfile(ctx, id)
}

// UpdateUser merges admin-editable fields into any account.
func (srv *accountService) UpdateUser(ctx context.Context, id uuid.UUID, input usecase.AdminUpdateUserInput) (*entity.User, error) {
	user, err := srv.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = entity.NormalizeEmail(*input.Email)
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := srv.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, domainerrors.ErrEmailTaken
		}

		return nil, errors.Wrap(err, "failed to update user")
	}

	return user, nil
}

// DeleteUser removes an account. Administrators cannot delete themselves.
func (srv *accountService) DeleteUser(ctx context.Context, actorID, id uuid.UUID) error {
	if actorID == id {
		return domainerrors.ErrSelfDeletion
	}

	if err := srv.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound
		}

		return errors.Wrap(err, "failed to delete user")
	}

	srv.log(ctx).Info("User deleted", slog.Any("userID", id), slog.Any("actorID", actorID))

	return nil
}
