package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanifml/storefront/internal/domain"
	"github.com/hanifml/storefront/internal/repository"
	apperrors "github.com/hanifml/storefront/pkg/errors"
	"github.com/hanifml/storefront/pkg/pagination"
)

func newProductTestFixture(t *testing.T) (*ProductRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	repo := NewProductRepository(mock)
	return repo, mock
}

func sampleProduct() *domain.Product {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Product{
		ID:          "p-1234",
		Name:        "USB-C Cable",
		Description: "Braided, 2m",
		Price:       12.50,
		Category:    "Electronics",
		Images:      []string{"/uploads/products/p-1234_0.jpg"},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func productTestColumns() []string {
	return []string{"id", "name", "description", "price", "category", "images", "created_at", "updated_at"}
}

func productRow(p *domain.Product) *pgxmock.Rows {
	return pgxmock.NewRows(productTestColumns()).AddRow(
		p.ID, p.Name, p.Description, p.Price, p.Category,
		[]byte(`["/uploads/products/p-1234_0.jpg"]`), p.CreatedAt, p.UpdatedAt,
	)
}

func TestProductRepository_Create_Success(t *testing.T) {
	repo, mock := newProductTestFixture(t)
	defer mock.Close()

	p := sampleProduct()

	mock.ExpectExec("INSERT INTO products").
		WithArgs(
			p.ID, p.Name, p.Description, p.Price, p.Category,
			[]byte(`["/uploads/products/p-1234_0.jpg"]`), p.CreatedAt, p.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), p)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Create_NilImagesStoredAsEmptyArray(t *testing.T) {
	repo, mock := newProductTestFixture(t)
	defer mock.Close()

	p := sampleProduct()
	p.Images = nil

	mock.ExpectExec("INSERT INTO products").
		WithArgs(
			p.ID, p.Name, p.Description, p.Price, p.Category,
			[]byte(`[]`), p.CreatedAt, p.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), p)
	assert.NoError(t, err)
}

func TestProductRepository_GetByID_Success(t *testing.T) {
	repo, mock := newProductTestFixture(t)
	defer mock.Close()

	p := sampleProduct()

	mock.ExpectQuery("SELECT (.+) FROM products WHERE id").
		WithArgs(p.ID).
		WillReturnRows(productRow(p))

	got, err := repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, []string{"/uploads/products/p-1234_0.jpg"}, got.Images)
}

func TestProductRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newProductTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT (.+) FROM products WHERE id").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.GetByID(context.Background(), "missing")
	assert.Nil(t, got)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestProductRepository_List_PriceRange(t *testing.T) {
	repo, mock := newProductTestFixture(t)
	defer mock.Close()

	p := sampleProduct()
	rows := pgxmock.NewRows(append(productTestColumns(), "total")).AddRow(
		p.ID, p.Name, p.Description, p.Price, p.Category,
		[]byte(`[]`), p.CreatedAt, p.UpdatedAt, 7,
	)

	minPrice, maxPrice := 10.0, 50.0
	mock.ExpectQuery("SELECT (.+) FROM products WHERE price >=").
		WithArgs(minPrice, maxPrice, 20, 0).
		WillReturnRows(rows)

	products, total, err := repo.List(context.Background(), repository.ProductFilter{
		MinPrice: &minPrice,
		MaxPrice: &maxPrice,
		Params:   pagination.Params{Page: 1, PerPage: 20, Offset: 0},
	})
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, 7, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_List_SearchAndCategory(t *testing.T) {
	repo, mock := newProductTestFixture(t)
	defer mock.Close()

	p := sampleProduct()
	rows := pgxmock.NewRows(append(productTestColumns(), "total")).AddRow(
		p.ID, p.Name, p.Description, p.Price, p.Category,
		[]byte(`[]`), p.CreatedAt, p.UpdatedAt, 1,
	)

	search := "cable"
	category := "electronics"
	mock.ExpectQuery("SELECT (.+) FROM products WHERE (.+) ILIKE").
		WithArgs("%cable%", category, 20, 0).
		WillReturnRows(rows)

	products, total, err := repo.List(context.Background(), repository.ProductFilter{
		Search:   &search,
		Category: &category,
		Params:   pagination.Params{Page: 1, PerPage: 20, Offset: 0},
	})
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, 1, total)
}

func TestProductRepository_Update_NotFound(t *testing.T) {
	repo, mock := newProductTestFixture(t)
	defer mock.Close()

	p := sampleProduct()

	mock.ExpectExec("UPDATE products").
		WithArgs(
			p.Name, p.Description, p.Price, p.Category,
			[]byte(`["/uploads/products/p-1234_0.jpg"]`), pgxmock.AnyArg(), p.ID,
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), p)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestProductRepository_Delete_Success(t *testing.T) {
	repo, mock := newProductTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM products").
		WithArgs("p-1234").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := repo.Delete(context.Background(), "p-1234")
	assert.NoError(t, err)
}

func TestProductRepository_ExistsByCategory(t *testing.T) {
	repo, mock := newProductTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("Electronics").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByCategory(context.Background(), "Electronics")
	require.NoError(t, err)
	assert.True(t, exists)
}
