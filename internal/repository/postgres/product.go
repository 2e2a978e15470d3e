package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hanifml/storefront/internal/domain"
	"github.com/hanifml/storefront/internal/repository"
	apperrors "github.com/hanifml/storefront/pkg/errors"
	"github.com/hanifml/storefront/pkg/query"
)

const productColumns = "id, name, description, price, category, images, created_at, updated_at"

var productSort = query.Sort{
	Allowed: map[string]string{
		"name":       "name",
		"price":      "price",
		"category":   "category",
		"created_at": "created_at",
		"updated_at": "updated_at",
	},
	Default: "created_at",
}

// ProductRepository implements repository.ProductRepository using PostgreSQL.
// Image paths are stored as a JSONB array.
type ProductRepository struct {
	db DB
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(db DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create inserts a new product.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	images, err := marshalImages(p.Images)
	if err != nil {
		return err
	}

	q := `
		INSERT INTO products (id, name, description, price, category, images, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = r.db.Exec(ctx, q,
		p.ID,
		p.Name,
		p.Description,
		p.Price,
		p.Category,
		images,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

// GetByID retrieves a product by its ID.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	q := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)

	var (
		p      domain.Product
		images []byte
	)
	err := r.db.QueryRow(ctx, q, id).Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Category,
		&images,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}

	if err := unmarshalImages(images, &p.Images); err != nil {
		return nil, err
	}

	return &p, nil
}

// List returns a page of products matching the filter along with the total
// match count.
func (r *ProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	b := query.NewBuilder()
	if filter.Search != nil {
		b.Search(*filter.Search, "name", "description")
	}
	if filter.Category != nil {
		b.EqFold("category", *filter.Category)
	}
	if filter.MinPrice != nil {
		b.GTE("price", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		b.LTE("price", *filter.MaxPrice)
	}

	q := fmt.Sprintf(`
		SELECT %s, count(*) OVER() AS total
		FROM products
		%s
		%s
		LIMIT $%d OFFSET $%d`,
		productColumns,
		b.Where(),
		productSort.OrderBy(filter.SortBy, filter.Order),
		b.NextArg(),
		b.NextArg()+1,
	)
	args := append(b.Args(), filter.Params.PerPage, filter.Params.Offset)

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var (
		products []domain.Product
		total    int
	)
	for rows.Next() {
		var (
			p      domain.Product
			images []byte
		)
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Description,
			&p.Price,
			&p.Category,
			&images,
			&p.CreatedAt,
			&p.UpdatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan product row: %w", err)
		}
		if err := unmarshalImages(images, &p.Images); err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate product rows: %w", err)
	}

	return products, total, nil
}

// Update modifies an existing product.
func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	p.UpdatedAt = time.Now().UTC()

	images, err := marshalImages(p.Images)
	if err != nil {
		return err
	}

	q := `
		UPDATE products
		SET name = $1, description = $2, price = $3, category = $4, images = $5, updated_at = $6
		WHERE id = $7`

	ct, err := r.db.Exec(ctx, q,
		p.Name,
		p.Description,
		p.Price,
		p.Category,
		images,
		p.UpdatedAt,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", p.ID)
	}

	return nil
}

// Delete removes a product by its ID.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", id)
	}

	return nil
}

// ExistsByCategory reports whether any product references the given
// category name. Used to block deleting categories that are still in use.
func (r *ProductRepository) ExistsByCategory(ctx context.Context, category string) (bool, error) {
	q := `SELECT EXISTS (SELECT 1 FROM products WHERE LOWER(category) = LOWER($1))`

	var exists bool
	if err := r.db.QueryRow(ctx, q, category).Scan(&exists); err != nil {
		return false, fmt.Errorf("check products by category: %w", err)
	}

	return exists, nil
}

func marshalImages(images []string) ([]byte, error) {
	if images == nil {
		images = []string{}
	}
	data, err := json.Marshal(images)
	if err != nil {
		return nil, fmt.Errorf("marshal images: %w", err)
	}
	return data, nil
}

func unmarshalImages(data []byte, images *[]string) error {
	if len(data) == 0 {
		*images = []string{}
		return nil
	}
	if err := json.Unmarshal(data, images); err != nil {
		return fmt.Errorf("unmarshal images: %w", err)
	}
	return nil
}
