package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/hanifml/storefront/internal/auth"
	"github.com/hanifml/storefront/internal/domain"
	"github.com/hanifml/storefront/internal/event"
	"github.com/hanifml/storefront/internal/repository"
	apperrors "github.com/hanifml/storefront/pkg/errors"
)

// minPasswordLength is the minimum password length required.
const minPasswordLength = 8

// AuthService implements registration, login, logout, and request
// authentication.
type AuthService struct {
	userRepo    repository.UserRepository
	revocations repository.RevocationRepository
	tokens      *auth.TokenManager
	producer    *event.Producer
	logger      *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(
	userRepo repository.UserRepository,
	revocations repository.RevocationRepository,
	tokens *auth.TokenManager,
	producer *event.Producer,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		revocations: revocations,
		tokens:      tokens,
		producer:    producer,
		logger:      logger,
	}
}

// RegisterInput holds the parameters for registering a new user.
type RegisterInput struct {
	Email       string
	Password    string
	FullName    string
	PhoneNumber string
}

// LoginInput holds the parameters for user login.
type LoginInput struct {
	Email    string
	Password string
}

// Register creates a new account. The very first account in the system
// becomes an admin; everyone after that registers as a regular user.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if input.Email == "" {
		return nil, apperrors.InvalidInput("email is required")
	}
	if input.FullName == "" {
		return nil, apperrors.InvalidInput("full name is required")
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := domain.RoleUser
	adminExists, err := s.userRepo.AdminExists(ctx)
	if err != nil {
		return nil, fmt.Errorf("check admin exists: %w", err)
	}
	if !adminExists {
		role = domain.RoleAdmin
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        input.Email,
		PasswordHash: hash,
		FullName:     input.FullName,
		PhoneNumber:  input.PhoneNumber,
		Role:         role,
		Status:       domain.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	// Publish registration event (non-blocking on failure).
	if err := s.producer.PublishUserRegistered(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.registered event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
		slog.String("role", user.Role),
	)

	return user, nil
}

// Login verifies credentials and issues an access token. Wrong email and
// wrong password return the same message so neither can be probed.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*domain.User, *auth.IssuedToken, error) {
	if input.Email == "" {
		return nil, nil, apperrors.InvalidInput("email is required")
	}
	if input.Password == "" {
		return nil, nil, apperrors.InvalidInput("password is required")
	}

	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, apperrors.Unauthorized("invalid email or password")
		}
		return nil, nil, fmt.Errorf("load user by email: %w", err)
	}

	if !user.IsActive() {
		return nil, nil, apperrors.Unauthorized("account is deactivated")
	}

	if !auth.VerifyPassword(input.Password, user.PasswordHash) {
		return nil, nil, apperrors.Unauthorized("invalid email or password")
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("issue token: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, token, nil
}

// Logout revokes the presented token. Revoking the same token twice
// succeeds; only a token that fails validation is rejected.
func (s *AuthService) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.tokens.Validate(tokenString)
	if err != nil {
		return apperrors.Unauthorized("invalid or expired token")
	}

	if err := s.revocations.Record(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("record revocation: %w", err)
	}

	s.logger.InfoContext(ctx, "token revoked",
		slog.String("user_id", claims.Subject),
	)

	return nil
}

// Authenticate resolves a bearer token to its user. The checks run in a
// fixed order: signature and expiry, then the revocation ledger, then the
// user lookup. Each rejection carries its own message; an unreachable
// ledger or store is an internal error, not a rejection.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*domain.User, error) {
	claims, err := s.tokens.Validate(tokenString)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid or expired token")
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, apperrors.Unauthorized("token has been revoked")
	}

	user, err := s.userRepo.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("user not found")
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	return user, nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return apperrors.InvalidInput(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	var hasUpper, hasLower, hasDigit bool
	for _, ch := range password {
		switch {
		case unicode.IsUpper(ch):
			hasUpper = true
		case unicode.IsLower(ch):
			hasLower = true
		case unicode.IsDigit(ch):
			hasDigit = true
		}
	}

	if !hasUpper || !hasLower || !hasDigit {
		return apperrors.InvalidInput("password must contain at least one uppercase letter, one lowercase letter, and one digit")
	}

	return nil
}
