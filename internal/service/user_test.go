package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hanifml/storefront/internal/domain"
	"github.com/hanifml/storefront/internal/repository"
	apperrors "github.com/hanifml/storefront/pkg/errors"
	"github.com/hanifml/storefront/pkg/pagination"
)

func newTestUserService(userRepo *mockUserRepository, files *mockStorage) *UserService {
	return NewUserService(userRepo, files, newTestEventProducer(), newTestLogger())
}

func adminPrincipal() *domain.User {
	return &domain.User{ID: "admin-1", Role: domain.RoleAdmin, Status: domain.StatusActive}
}

func regularPrincipal() *domain.User {
	return &domain.User{ID: "u-1", Role: domain.RoleUser, Status: domain.StatusActive}
}

// --- Create ---

func TestUserCreate_Success(t *testing.T) {
	userRepo := new(mockUserRepository)
	files := new(mockStorage)
	svc := newTestUserService(userRepo, files)
	ctx := context.Background()

	userRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

	user, err := svc.Create(ctx, CreateUserInput{
		Email:    "new@example.com",
		Password: "SecurePass123",
		FullName: "New User",
		Role:     domain.RoleUser,
		Status:   domain.StatusActive,
	})

	require.NoError(t, err)
	assert.Equal(t, "new@example.com", user.Email)
	assert.Empty(t, user.ProfileImage)
	files.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestUserCreate_WithProfileImage(t *testing.T) {
	userRepo := new(mockUserRepository)
	files := new(mockStorage)
	svc := newTestUserService(userRepo, files)
	ctx := context.Background()

	files.On("Save", ctx, mock.AnythingOfType("storage.SaveInput")).
		Return("/uploads/users/u_1.jpg", nil)
	userRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

	user, err := svc.Create(ctx, CreateUserInput{
		Email:    "new@example.com",
		Password: "SecurePass123",
		FullName: "New User",
		ProfileImage: domain.FileInput{
			Kind:     domain.FileNew,
			Filename: "avatar.jpg",
			Data:     []byte("img"),
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "/uploads/users/u_1.jpg", user.ProfileImage)
}

func TestUserCreate_StoredImageRemovedWhenInsertFails(t *testing.T) {
	userRepo := new(mockUserRepository)
	files := new(mockStorage)
	svc := newTestUserService(userRepo, files)
	ctx := context.Background()

	files.On("Save", ctx, mock.AnythingOfType("storage.SaveInput")).
		Return("/uploads/users/u_1.jpg", nil)
	userRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).
		Return(apperrors.AlreadyExists("user", "email", "new@example.com"))
	files.On("Delete", ctx, "/uploads/users/u_1.jpg").Return(true)

	_, err := svc.Create(ctx, CreateUserInput{
		Email:    "new@example.com",
		Password: "SecurePass123",
		FullName: "New User",
		ProfileImage: domain.FileInput{
			Kind:     domain.FileNew,
			Filename: "avatar.jpg",
			Data:     []byte("img"),
		},
	})

	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	files.AssertCalled(t, "Delete", ctx, "/uploads/users/u_1.jpg")
}

func TestUserCreate_InvalidRole(t *testing.T) {
	svc := newTestUserService(new(mockUserRepository), new(mockStorage))

	_, err := svc.Create(context.Background(), CreateUserInput{
		Email:    "a@b.com",
		Password: "SecurePass123",
		FullName: "A",
		Role:     "superuser",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

// --- List ---

func TestUserList_PassesFilterThrough(t *testing.T) {
	userRepo := new(mockUserRepository)
	svc := newTestUserService(userRepo, new(mockStorage))
	ctx := context.Background()

	filter := repository.UserFilter{
		Search: strPtr("alice"),
		SortBy: "email",
		Order:  "asc",
		Params: pagination.Params{Page: 2, PerPage: 10, Offset: 10},
	}
	userRepo.On("List", ctx, filter).Return([]domain.User{{ID: "u-1"}}, 11, nil)

	users, total, err := svc.List(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, 11, total)
}

// --- Update ---

func TestUserUpdate_SelfChangesProfile(t *testing.T) {
	userRepo := new(mockUserRepository)
	svc := newTestUserService(userRepo, new(mockStorage))
	ctx := context.Background()

	existing := regularPrincipal()
	existing.FullName = "Old Name"
	existing.UpdatedAt = time.Now().UTC()
	userRepo.On("GetByID", ctx, "u-1").Return(existing, nil)
	userRepo.On("Update", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

	updated, err := svc.Update(ctx, "u-1", UpdateUserInput{FullName: strPtr("New Name")}, regularPrincipal())
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.FullName)
}

func TestUserUpdate_RegularUserCannotChangeRole(t *testing.T) {
	userRepo := new(mockUserRepository)
	svc := newTestUserService(userRepo, new(mockStorage))
	ctx := context.Background()

	userRepo.On("GetByID", ctx, "u-1").Return(regularPrincipal(), nil)

	_, err := svc.Update(ctx, "u-1", UpdateUserInput{Role: strPtr(domain.RoleAdmin)}, regularPrincipal())
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestUserUpdate_AdminChangesRoleAndStatus(t *testing.T) {
	userRepo := new(mockUserRepository)
	svc := newTestUserService(userRepo, new(mockStorage))
	ctx := context.Background()

	userRepo.On("GetByID", ctx, "u-1").Return(regularPrincipal(), nil)
	userRepo.On("Update", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

	updated, err := svc.Update(ctx, "u-1", UpdateUserInput{
		Role:   strPtr(domain.RoleAdmin),
		Status: strPtr(domain.StatusInactive),
	}, adminPrincipal())

	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, updated.Role)
	assert.Equal(t, domain.StatusInactive, updated.Status)
}

func TestUserUpdate_ReplacingImageDeletesOld(t *testing.T) {
	userRepo := new(mockUserRepository)
	files := new(mockStorage)
	svc := newTestUserService(userRepo, files)
	ctx := context.Background()

	existing := regularPrincipal()
	existing.ProfileImage = "/uploads/users/old.jpg"
	userRepo.On("GetByID", ctx, "u-1").Return(existing, nil)
	files.On("Save", ctx, mock.AnythingOfType("storage.SaveInput")).
		Return("/uploads/users/new.jpg", nil)
	userRepo.On("Update", ctx, mock.AnythingOfType("*domain.User")).Return(nil)
	files.On("Delete", ctx, "/uploads/users/old.jpg").Return(true)

	updated, err := svc.Update(ctx, "u-1", UpdateUserInput{
		ProfileImage: domain.FileInput{Kind: domain.FileNew, Filename: "new.jpg", Data: []byte("x")},
	}, regularPrincipal())

	require.NoError(t, err)
	assert.Equal(t, "/uploads/users/new.jpg", updated.ProfileImage)
	files.AssertCalled(t, "Delete", ctx, "/uploads/users/old.jpg")
}

func TestUserUpdate_RemoveImage(t *testing.T) {
	userRepo := new(mockUserRepository)
	files := new(mockStorage)
	svc := newTestUserService(userRepo, files)
	ctx := context.Background()

	existing := regularPrincipal()
	existing.ProfileImage = "/uploads/users/old.jpg"
	userRepo.On("GetByID", ctx, "u-1").Return(existing, nil)
	userRepo.On("Update", ctx, mock.AnythingOfType("*domain.User")).Return(nil)
	files.On("Delete", ctx, "/uploads/users/old.jpg").Return(true)

	updated, err := svc.Update(ctx, "u-1", UpdateUserInput{
		ProfileImage: domain.FileInput{Kind: domain.FileRemove},
	}, regularPrincipal())

	require.NoError(t, err)
	assert.Empty(t, updated.ProfileImage)
}

// --- Delete ---

func TestUserDelete_RemovesStoredImage(t *testing.T) {
	userRepo := new(mockUserRepository)
	files := new(mockStorage)
	svc := newTestUserService(userRepo, files)
	ctx := context.Background()

	existing := regularPrincipal()
	existing.ProfileImage = "/uploads/users/u-1.jpg"
	userRepo.On("GetByID", ctx, "u-1").Return(existing, nil)
	userRepo.On("Delete", ctx, "u-1").Return(nil)
	files.On("Delete", ctx, "/uploads/users/u-1.jpg").Return(true)

	require.NoError(t, svc.Delete(ctx, "u-1"))
	files.AssertExpectations(t)
}

func TestUserDelete_SurvivesMissingImage(t *testing.T) {
	userRepo := new(mockUserRepository)
	files := new(mockStorage)
	svc := newTestUserService(userRepo, files)
	ctx := context.Background()

	existing := regularPrincipal()
	existing.ProfileImage = "/uploads/users/u-1.jpg"
	userRepo.On("GetByID", ctx, "u-1").Return(existing, nil)
	userRepo.On("Delete", ctx, "u-1").Return(nil)
	files.On("Delete", ctx, "/uploads/users/u-1.jpg").Return(false)

	// A missing file is logged, not surfaced.
	assert.NoError(t, svc.Delete(ctx, "u-1"))
}

func TestUserDelete_NotFound(t *testing.T) {
	userRepo := new(mockUserRepository)
	svc := newTestUserService(userRepo, new(mockStorage))
	ctx := context.Background()

	userRepo.On("GetByID", ctx, "missing").Return(nil, apperrors.ErrNotFound)

	err := svc.Delete(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
