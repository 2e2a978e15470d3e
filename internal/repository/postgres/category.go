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

const categoryColumns = "id, name, slug, status, created_at, updated_at"

var categorySort = query.Sort{
	Allowed: map[string]string{
		"name":       "name",
		"status":     "status",
		"created_at": "created_at",
		"updated_at": "updated_at",
	},
	Default: "created_at",
}

// CategoryRepository implements repository.CategoryRepository using PostgreSQL.
type CategoryRepository struct {
	db DB
}

// NewCategoryRepository creates a new PostgreSQL-backed category repository.
func NewCategoryRepository(db DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create inserts a new category. Names are unique case-insensitively via
// a functional index, so duplicates surface as AlreadyExists.
func (r *CategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	q := `
		INSERT INTO categories (id, name, slug, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, q,
		c.ID,
		c.Name,
		c.Slug,
		c.Status,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("category", "name", c.Name)
		}
		return fmt.Errorf("insert category: %w", err)
	}

	return nil
}

// GetByID retrieves a category by its ID.
func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	q := fmt.Sprintf(`SELECT %s FROM categories WHERE id = $1`, categoryColumns)

	var c domain.Category
	err := r.db.QueryRow(ctx, q, id).Scan(
		&c.ID,
		&c.Name,
		&c.Slug,
		&c.Status,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan category: %w", err)
	}

	return &c, nil
}

// List returns a page of categories matching the filter along with the
// total match count.
func (r *CategoryRepository) List(ctx context.Context, filter repository.CategoryFilter) ([]domain.Category, int, error) {
	b := query.NewBuilder()
	if filter.Search != nil {
		b.Search(*filter.Search, "name", "slug")
	}
	if filter.Status != nil {
		b.Eq("status", *filter.Status)
	}

	q := fmt.Sprintf(`
		SELECT %s, count(*) OVER() AS total
		FROM categories
		%s
		%s
		LIMIT $%d OFFSET $%d`,
		categoryColumns,
		b.Where(),
		categorySort.OrderBy(filter.SortBy, filter.Order),
		b.NextArg(),
		b.NextArg()+1,
	)
	args := append(b.Args(), filter.Params.PerPage, filter.Params.Offset)

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var (
		categories []domain.Category
		total      int
	)
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.Slug,
			&c.Status,
			&c.CreatedAt,
			&c.UpdatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate category rows: %w", err)
	}

	return categories, total, nil
}

// ListOptions returns every active category as an id/name pair sorted by
// name, for populating selection dropdowns.
func (r *CategoryRepository) ListOptions(ctx context.Context) ([]domain.CategoryOption, error) {
	q := `SELECT id, name FROM categories WHERE status = $1 ORDER BY name ASC`

	rows, err := r.db.Query(ctx, q, domain.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("list category options: %w", err)
	}
	defer rows.Close()

	var options []domain.CategoryOption
	for rows.Next() {
		var o domain.CategoryOption
		if err := rows.Scan(&o.ID, &o.Name); err != nil {
			return nil, fmt.Errorf("scan category option: %w", err)
		}
		options = append(options, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category options: %w", err)
	}

	return options, nil
}

// Update modifies an existing category.
func (r *CategoryRepository) Update(ctx context.Context, c *domain.Category) error {
	c.UpdatedAt = time.Now().UTC()

	q := `
		UPDATE categories
		SET name = $1, slug = $2, status = $3, updated_at = $4
		WHERE id = $5`

	ct, err := r.db.Exec(ctx, q,
		c.Name,
		c.Slug,
		c.Status,
		c.UpdatedAt,
		c.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("category", "name", c.Name)
		}
		return fmt.Errorf("update category: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("category", c.ID)
	}

	return nil
}

// Delete removes a category by its ID. The in-use check lives in the
// service layer, not here.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("category", id)
	}

	return nil
}
