package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hanifml/storefront/internal/domain"
	"github.com/hanifml/storefront/internal/event"
	"github.com/hanifml/storefront/internal/repository"
	apperrors "github.com/hanifml/storefront/pkg/errors"
	"github.com/hanifml/storefront/pkg/slug"
)

// CategoryService implements category operations.
type CategoryService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	producer     *event.Producer
	logger       *slog.Logger
}

// NewCategoryService creates a new category service.
func NewCategoryService(
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	producer *event.Producer,
	logger *slog.Logger,
) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		producer:     producer,
		logger:       logger,
	}
}

// CreateCategoryInput holds the parameters for creating a category.
type CreateCategoryInput struct {
	Name   string
	Status string
}

// UpdateCategoryInput holds the parameters for updating a category. Nil
// pointer fields are left unchanged.
type UpdateCategoryInput struct {
	Name   *string
	Status *string
}

// Create adds a category with a slug derived from its name.
func (s *CategoryService) Create(ctx context.Context, input CreateCategoryInput) (*domain.Category, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("name is required")
	}
	if input.Status == "" {
		input.Status = domain.StatusActive
	}
	if !domain.IsValidStatus(input.Status) {
		return nil, apperrors.InvalidInput("invalid status")
	}

	now := time.Now().UTC()
	category := &domain.Category{
		ID:        uuid.New().String(),
		Name:      input.Name,
		Slug:      slug.Generate(input.Name),
		Status:    input.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	if err := s.producer.PublishCategoryCreated(ctx, category); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish category.created event",
			slog.String("category_id", category.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "category created",
		slog.String("category_id", category.ID),
		slog.String("name", category.Name),
	)

	return category, nil
}

// Get retrieves a category by ID.
func (s *CategoryService) Get(ctx context.Context, id string) (*domain.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("category", id)
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return category, nil
}

// List returns a page of categories with the total match count.
func (s *CategoryService) List(ctx context.Context, filter repository.CategoryFilter) ([]domain.Category, int, error) {
	categories, total, err := s.categoryRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list categories: %w", err)
	}
	return categories, total, nil
}

// ListOptions returns active categories as id/name pairs for dropdowns.
func (s *CategoryService) ListOptions(ctx context.Context) ([]domain.CategoryOption, error) {
	options, err := s.categoryRepo.ListOptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list category options: %w", err)
	}
	return options, nil
}

// Update applies a partial update to a category. Renaming regenerates the
// slug.
func (s *CategoryService) Update(ctx context.Context, id string, input UpdateCategoryInput) (*domain.Category, error) {
	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != "" {
		category.Name = *input.Name
		category.Slug = slug.Generate(*input.Name)
	}
	if input.Status != nil {
		if !domain.IsValidStatus(*input.Status) {
			return nil, apperrors.InvalidInput("invalid status")
		}
		category.Status = *input.Status
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}

	s.logger.InfoContext(ctx, "category updated", slog.String("category_id", category.ID))

	return category, nil
}

// Delete removes a category. A category that products still reference is
// not deletable.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	category, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	inUse, err := s.productRepo.ExistsByCategory(ctx, category.Name)
	if err != nil {
		return fmt.Errorf("check category in use: %w", err)
	}
	if inUse {
		return apperrors.Conflict("category is in use by one or more products")
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	s.logger.InfoContext(ctx, "category deleted", slog.String("category_id", id))

	return nil
}
