package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hanifml/storefront/internal/auth"
	"github.com/hanifml/storefront/internal/domain"
	"github.com/hanifml/storefront/internal/event"
	"github.com/hanifml/storefront/internal/repository"
	"github.com/hanifml/storefront/internal/storage"
	apperrors "github.com/hanifml/storefront/pkg/errors"
)

const userUploadSubdir = "users"

// UserService implements user management operations.
type UserService struct {
	userRepo repository.UserRepository
	files    storage.Storage
	producer *event.Producer
	logger   *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(
	userRepo repository.UserRepository,
	files storage.Storage,
	producer *event.Producer,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		files:    files,
		producer: producer,
		logger:   logger,
	}
}

// CreateUserInput holds the parameters for an admin creating a user.
type CreateUserInput struct {
	Email        string
	Password     string
	FullName     string
	PhoneNumber  string
	Role         string
	Status       string
	ProfileImage domain.FileInput
}

// UpdateUserInput holds the parameters for updating a user. Nil pointer
// fields are left unchanged.
type UpdateUserInput struct {
	Email        *string
	Password     *string
	FullName     *string
	PhoneNumber  *string
	Role         *string
	Status       *string
	ProfileImage domain.FileInput
}

// Create adds a user with an explicit role and status, optionally storing
// a profile image.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	if input.Email == "" {
		return nil, apperrors.InvalidInput("email is required")
	}
	if input.FullName == "" {
		return nil, apperrors.InvalidInput("full name is required")
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}
	if input.Role == "" {
		input.Role = domain.RoleUser
	}
	if !domain.IsValidRole(input.Role) {
		return nil, apperrors.InvalidInput("invalid role")
	}
	if input.Status == "" {
		input.Status = domain.StatusActive
	}
	if !domain.IsValidStatus(input.Status) {
		return nil, apperrors.InvalidInput("invalid status")
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        input.Email,
		PasswordHash: hash,
		FullName:     input.FullName,
		PhoneNumber:  input.PhoneNumber,
		Role:         input.Role,
		Status:       input.Status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if input.ProfileImage.Kind == domain.FileNew {
		path, err := s.files.Save(ctx, storage.SaveInput{
			Subdir:   userUploadSubdir,
			Prefix:   user.ID,
			Filename: input.ProfileImage.Filename,
			Data:     input.ProfileImage.Data,
		})
		if err != nil {
			return nil, fmt.Errorf("store profile image: %w", err)
		}
		user.ProfileImage = path
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		s.removeFile(ctx, user.ProfileImage)
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.producer.PublishUserRegistered(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.registered event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user created",
		slog.String("user_id", user.ID),
		slog.String("role", user.Role),
	)

	return user, nil
}

// Get retrieves a user by ID.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("user", id)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// List returns a page of users with the total match count.
func (s *UserService) List(ctx context.Context, filter repository.UserFilter) ([]domain.User, int, error) {
	users, total, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

// Update applies a partial update to a user. Role and status changes are
// restricted to admin principals; everything else follows the self-or-admin
// rule the handler already enforced.
func (s *UserService) Update(ctx context.Context, id string, input UpdateUserInput, principal *domain.User) (*domain.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil && *input.Email != "" {
		user.Email = *input.Email
	}
	if input.FullName != nil && *input.FullName != "" {
		user.FullName = *input.FullName
	}
	if input.PhoneNumber != nil {
		user.PhoneNumber = *input.PhoneNumber
	}
	if input.Password != nil {
		if err := validatePassword(*input.Password); err != nil {
			return nil, err
		}
		hash, err := auth.HashPassword(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}
	if input.Role != nil {
		if !principal.IsAdmin() {
			return nil, apperrors.Forbidden("only admins can change roles")
		}
		if !domain.IsValidRole(*input.Role) {
			return nil, apperrors.InvalidInput("invalid role")
		}
		user.Role = *input.Role
	}
	if input.Status != nil {
		if !principal.IsAdmin() {
			return nil, apperrors.Forbidden("only admins can change account status")
		}
		if !domain.IsValidStatus(*input.Status) {
			return nil, apperrors.InvalidInput("invalid status")
		}
		user.Status = *input.Status
	}

	oldImage := user.ProfileImage
	switch input.ProfileImage.Kind {
	case domain.FileNew:
		path, err := s.files.Save(ctx, storage.SaveInput{
			Subdir:   userUploadSubdir,
			Prefix:   user.ID,
			Filename: input.ProfileImage.Filename,
			Data:     input.ProfileImage.Data,
		})
		if err != nil {
			return nil, fmt.Errorf("store profile image: %w", err)
		}
		user.ProfileImage = path
	case domain.FileRemove:
		user.ProfileImage = ""
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if user.ProfileImage != oldImage {
			s.removeFile(ctx, user.ProfileImage)
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	if user.ProfileImage != oldImage {
		s.removeFile(ctx, oldImage)
	}

	s.logger.InfoContext(ctx, "user updated", slog.String("user_id", user.ID))

	return user, nil
}

// Delete removes a user and, best effort, their stored profile image.
func (s *UserService) Delete(ctx context.Context, id string) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	s.removeFile(ctx, user.ProfileImage)

	s.logger.InfoContext(ctx, "user deleted", slog.String("user_id", id))

	return nil
}

// removeFile deletes a stored file, logging rather than failing when the
// file is already gone.
func (s *UserService) removeFile(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if !s.files.Delete(ctx, path) {
		s.logger.WarnContext(ctx, "failed to remove stored file",
			slog.String("path", path),
		)
	}
}
