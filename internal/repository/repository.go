// Package repository defines the persistence interfaces the service layer
// depends on. Implementations live in the postgres and redis subpackages.
package repository

import (
	"context"
	"time"

	"github.com/hanifml/storefront/internal/domain"
	"github.com/hanifml/storefront/pkg/pagination"
)

// UserFilter narrows and orders user listings. Nil pointer fields mean the
// dimension is not filtered.
type UserFilter struct {
	Search *string
	Role   *string
	Status *string
	SortBy string
	Order  string
	Params pagination.Params
}

// ProductFilter narrows and orders product listings.
type ProductFilter struct {
	Search   *string
	Category *string
	MinPrice *float64
	MaxPrice *float64
	SortBy   string
	Order    string
	Params   pagination.Params
}

// CategoryFilter narrows and orders category listings.
type CategoryFilter struct {
	Search *string
	Status *string
	SortBy string
	Order  string
	Params pagination.Params
}

// UserRepository persists user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	AdminExists(ctx context.Context) (bool, error)
	List(ctx context.Context, filter UserFilter) ([]domain.User, int, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
}

// ProductRepository persists catalog products.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) error
	ExistsByCategory(ctx context.Context, category string) (bool, error)
}

// CategoryRepository persists product categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context, filter CategoryFilter) ([]domain.Category, int, error)
	ListOptions(ctx context.Context) ([]domain.CategoryOption, error)
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id string) error
}

// RevocationRepository tracks revoked token identifiers until the tokens
// they belong to would have expired anyway.
type RevocationRepository interface {
	Record(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
