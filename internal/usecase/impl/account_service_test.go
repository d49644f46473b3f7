package impl

import (
	"context"
	"strings"
	"testing"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type accountFixture struct {
	users   *memUserRepo
	storage *memStorage
	svc     usecase.AccountUsecase
}

func newAccountFixture() *accountFixture {
	f := &accountFixture{
		users:   newMemUserRepo(),
		storage: newMemStorage(),
	}
	f.svc = NewAccountService(AccountServiceParams{
		UserRepo: f.users,
		Hasher:   plainHasher{},
		Storage:  f.storage,
		Logger:   discardLogger(),
	})

	return f
}

func (f *accountFixture) seedUser(t *testing.T, email string, role entity.Role) *entity.User {
	t.Helper()

	hash, err := plainHasher{}.Hash("secret123")
	require.NoError(t, err)

	user := &entity.User{
		Email:        email,
		Name:         "Test User",
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, f.users.Create(context.Background(), user))

	return user
}

func TestUpdateProfileMergesFields(t *testing.T) {
	f := newAccountFixture()
	user := f.seedUser(t, "alex@example.com", entity.RoleUser)

	name := "Alex Updated"
	phone := "+1-555-0100"
	updated, err := f.svc.UpdateProfile(context.Background(), user.ID, usecase.UpdateProfileInput{
		Name:  &name,
		Phone: &phone,
	})
	require.NoError(t, err)

	assert.Equal(t, "Alex Updated", updated.Name)
	assert.Equal(t, "+1-555-0100", updated.Phone)
	assert.Equal(t, "alex@example.com", updated.Email)
}

func TestUpdateProfileDuplicateEmail(t *testing.T) {
	f := newAccountFixture()
	f.seedUser(t, "taken@example.com", entity.RoleUser)
	user := f.seedUser(t, "alex@example.com", entity.RoleUser)

	email := "Taken@Example.com"
	_, err := f.svc.UpdateProfile(context.Background(), user.ID, usecase.UpdateProfileInput{Email: &email})
	assert.ErrorIs(t, err, domainerrors.ErrEmailTaken)
}

func TestUpdateAvatarReplacesPreviousAsset(t *testing.T) {
	f := newAccountFixture()
	user := f.seedUser(t, "alex@example.com", entity.RoleUser)

	first, err := f.svc.UpdateAvatar(context.Background(), user.ID, "me.png", "image/png", strings.NewReader("img1"))
	require.NoError(t, err)
	assert.NotEmpty(t, first.Avatar)
	assert.Empty(t, f.storage.deleted)

	second, err := f.svc.UpdateAvatar(context.Background(), user.ID, "me2.png", "image/png", strings.NewReader("img2"))
	require.NoError(t, err)
	assert.NotEqual(t, first.Avatar, second.Avatar)
	require.Len(t, f.storage.deleted, 1)
	assert.Equal(t, first.AvatarRef, f.storage.deleted[0])
}

func TestChangePassword(t *testing.T) {
	f := newAccountFixture()
	user := f.seedUser(t, "alex@example.com", entity.RoleUser)

	err := f.svc.ChangePassword(context.Background(), user.ID, usecase.ChangePasswordInput{
		CurrentPassword: "wrong",
		NewPassword:     "newsecret",
	})
	assert.ErrorIs(t, err, domainerrors.ErrCurrentPasswordIncorrect)

	err = f.svc.ChangePassword(context.Background(), user.ID, usecase.ChangePasswordInput{
		CurrentPassword: "secret123",
		NewPassword:     "newsecret",
	})
	require.NoError(t, err)

	stored, err := f.users.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, stored.MatchPassword(plainHasher{}, "newsecret"))
}

func TestListUsersFilters(t *testing.T) {
	f := newAccountFixture()
	f.seedUser(t, "alex@example.com", entity.RoleUser)
	f.seedUser(t, "root@example.com", entity.RoleAdmin)

	page, err := f.svc.ListUsers(context.Background(), usecase.ListUsersInput{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)

	admin := entity.RoleAdmin
	page, err = f.svc.ListUsers(context.Background(), usecase.ListUsersInput{Page: 1, Limit: 20, Role: &admin})
	require.NoError(t, err)
	require.Len(t, page.Users, 1)
	assert.Equal(t, "root@example.com", page.Users[0].Email)

	page, err = f.svc.ListUsers(context.Background(), usecase.ListUsersInput{Page: 1, Limit: 20, Search: "alex"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
}

func TestAdminUpdateUserRoleAndActivation(t *testing.T) {
	f := newAccountFixture()
	user := f.seedUser(t, "alex@example.com", entity.RoleUser)

	role := entity.RoleAdmin
	inactive := false
	updated, err := f.svc.UpdateUser(context.Background(), user.ID, usecase.AdminUpdateUserInput{
		Role:     &role,
		IsActive: &inactive,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.RoleAdmin, updated.Role)
	assert.False(t, updated.IsActive)
}

func TestDeleteUserGuardsSelfDeletion(t *testing.T) {
	f := newAccountFixture()
	admin := f.seedUser(t, "root@example.com", entity.RoleAdmin)
	victim := f.seedUser(t, "alex@example.com", entity.RoleUser)

	err := f.svc.DeleteUser(context.Background(), admin.ID, admin.ID)
	assert.ErrorIs(t, err, domainerrors.ErrSelfDeletion)

	err = f.svc.DeleteUser(context.Background(), admin.ID, victim.ID)
	require.NoError(t, err)

	_, err = f.svc.GetUser(context.Background(), victim.ID)
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)

	err = f.svc.DeleteUser(context.Background(), admin.ID, uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}
