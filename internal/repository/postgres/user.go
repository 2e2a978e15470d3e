package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hanifml/storefront/internal/domain"
	"github.com/hanifml/storefront/internal/repository"
	apperrors "github.com/hanifml/storefront/pkg/errors"
	"github.com/hanifml/storefront/pkg/query"
)

const userColumns = "id, email, password_hash, full_name, phone_number, profile_image, role, status, created_at, updated_at"

var userSort = query.Sort{
	Allowed: map[string]string{
		"full_name":  "full_name",
		"email":      "email",
		"role":       "role",
		"status":     "status",
		"created_at": "created_at",
		"updated_at": "updated_at",
	},
	Default: "created_at",
}

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user. A duplicate email maps to an AlreadyExists
// error via the unique constraint rather than a racy pre-check.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	q := `
		INSERT INTO users (id, email, password_hash, full_name, phone_number, profile_image, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(ctx, q,
		u.ID,
		u.Email,
		u.PasswordHash,
		u.FullName,
		u.PhoneNumber,
		u.ProfileImage,
		u.Role,
		u.Status,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("user", "email", u.Email)
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by their ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	q := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	return r.scanUser(ctx, q, id)
}

// GetByEmail retrieves a user by their email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	q := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)
	return r.scanUser(ctx, q, email)
}

// AdminExists reports whether at least one admin account exists.
func (r *UserRepository) AdminExists(ctx context.Context) (bool, error) {
	q := `SELECT EXISTS (SELECT 1 FROM users WHERE role = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, q, domain.RoleAdmin).Scan(&exists); err != nil {
		return false, fmt.Errorf("check admin exists: %w", err)
	}

	return exists, nil
}

// List returns a page of users matching the filter along with the total
// match count. The count rides on each row via a window function so a
// second query is not needed.
func (r *UserRepository) List(ctx context.Context, filter repository.UserFilter) ([]domain.User, int, error) {
	b := query.NewBuilder()
	if filter.Search != nil {
		b.Search(*filter.Search, "full_name", "email", "phone_number")
	}
	if filter.Role != nil {
		b.Eq("role", *filter.Role)
	}
	if filter.Status != nil {
		b.Eq("status", *filter.Status)
	}

	q := fmt.Sprintf(`
		SELECT %s, count(*) OVER() AS total
		FROM users
		%s
		%s
		LIMIT $%d OFFSET $%d`,
		userColumns,
		b.Where(),
		userSort.OrderBy(filter.SortBy, filter.Order),
		b.NextArg(),
		b.NextArg()+1,
	)
	args := append(b.Args(), filter.Params.PerPage, filter.Params.Offset)

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var (
		users []domain.User
		total int
	)
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(
			&u.ID,
			&u.Email,
			&u.PasswordHash,
			&u.FullName,
			&u.PhoneNumber,
			&u.ProfileImage,
			&u.Role,
			&u.Status,
			&u.CreatedAt,
			&u.UpdatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate user rows: %w", err)
	}

	return users, total, nil
}

// Update modifies an existing user.
func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	u.UpdatedAt = time.Now().UTC()

	q := `
		UPDATE users
		SET email = $1, password_hash = $2, full_name = $3, phone_number = $4,
		    profile_image = $5, role = $6, status = $7, updated_at = $8
		WHERE id = $9`

	ct, err := r.db.Exec(ctx, q,
		u.Email,
		u.PasswordHash,
		u.FullName,
		u.PhoneNumber,
		u.ProfileImage,
		u.Role,
		u.Status,
		u.UpdatedAt,
		u.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("user", "email", u.Email)
		}
		return fmt.Errorf("update user: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", u.ID)
	}

	return nil
}

// Delete removes a user by their ID.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", id)
	}

	return nil
}

func (r *UserRepository) scanUser(ctx context.Context, q string, args ...any) (*domain.User, error) {
	var u domain.User

	err := r.db.QueryRow(ctx, q, args...).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.FullName,
		&u.PhoneNumber,
		&u.ProfileImage,
		&u.Role,
		&u.Status,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	return &u, nil
}
