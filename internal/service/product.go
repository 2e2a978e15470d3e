package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/hanifml/storefront/internal/domain"
	"github.com/hanifml/storefront/internal/event"
	"github.com/hanifml/storefront/internal/repository"
	"github.com/hanifml/storefront/internal/storage"
	apperrors "github.com/hanifml/storefront/pkg/errors"
)

const productUploadSubdir = "products"

// ProductService implements catalog product operations.
type ProductService struct {
	productRepo repository.ProductRepository
	files       storage.Storage
	producer    *event.Producer
	logger      *slog.Logger
}

// NewProductService creates a new product service.
func NewProductService(
	productRepo repository.ProductRepository,
	files storage.Storage,
	producer *event.Producer,
	logger *slog.Logger,
) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		files:       files,
		producer:    producer,
		logger:      logger,
	}
}

// CreateProductInput holds the parameters for creating a product.
type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
	Category    string
	Images      []domain.FileInput
}

// UpdateProductInput holds the parameters for updating a product. Nil
// pointer fields are left unchanged. A non-empty NewImages gallery replaces
// the stored images; otherwise RemoveImages lists stored paths to detach
// and delete.
type UpdateProductInput struct {
	Name         *string
	Description  *string
	Price        *float64
	Category     *string
	NewImages    []domain.FileInput
	RemoveImages []string
}

// Create adds a product to the catalog, storing any uploaded images.
func (s *ProductService) Create(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("name is required")
	}
	if input.Price < 0 {
		return nil, apperrors.InvalidInput("price must not be negative")
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:          uuid.New().String(),
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		Images:      []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	paths, err := s.storeImages(ctx, product.ID, input.Images)
	if err != nil {
		return nil, err
	}
	product.Images = paths

	if err := s.productRepo.Create(ctx, product); err != nil {
		s.removeFiles(ctx, product.Images)
		return nil, fmt.Errorf("create product: %w", err)
	}

	if err := s.producer.PublishProductCreated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.created event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.String("name", product.Name),
	)

	return product, nil
}

// Get retrieves a product by ID.
func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

// List returns a page of products with the total match count. Negative
// price bounds are rejected; an inverted range is allowed and simply
// matches nothing.
func (s *ProductService) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	if filter.MinPrice != nil && *filter.MinPrice < 0 {
		return nil, 0, apperrors.InvalidInput("min_price must not be negative")
	}
	if filter.MaxPrice != nil && *filter.MaxPrice < 0 {
		return nil, 0, apperrors.InvalidInput("max_price must not be negative")
	}

	products, total, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	return products, total, nil
}

// Update applies a partial update to a product. An uploaded gallery
// replaces the stored images; RemoveImages detaches individual files when
// nothing new was uploaded.
func (s *ProductService) Update(ctx context.Context, id string, input UpdateProductInput) (*domain.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != "" {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, apperrors.InvalidInput("price must not be negative")
		}
		product.Price = *input.Price
	}
	if input.Category != nil {
		product.Category = *input.Category
	}

	// A non-empty uploaded gallery replaces the stored one. Without an
	// upload, RemoveImages detaches individual files.
	var added, removed []string
	if len(input.NewImages) > 0 {
		added, err = s.storeImages(ctx, product.ID, input.NewImages)
		if err != nil {
			return nil, err
		}
		removed = product.Images
		product.Images = added
	} else if len(input.RemoveImages) > 0 {
		kept := make([]string, 0, len(product.Images))
		for _, img := range product.Images {
			if slices.Contains(input.RemoveImages, img) {
				removed = append(removed, img)
			} else {
				kept = append(kept, img)
			}
		}
		product.Images = kept
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		s.removeFiles(ctx, added)
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.removeFiles(ctx, removed)

	s.logger.InfoContext(ctx, "product updated", slog.String("product_id", product.ID))

	return product, nil
}

// Delete removes a product, its stored images, and publishes a
// product.deleted event.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	product, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	s.removeFiles(ctx, product.Images)

	if err := s.producer.PublishProductDeleted(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.deleted event",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product deleted", slog.String("product_id", id))

	return nil
}

func (s *ProductService) storeImages(ctx context.Context, productID string, inputs []domain.FileInput) ([]string, error) {
	paths := make([]string, 0, len(inputs))
	for i, img := range inputs {
		if img.Kind != domain.FileNew {
			continue
		}
		path, err := s.files.Save(ctx, storage.SaveInput{
			Subdir:   productUploadSubdir,
			Prefix:   fmt.Sprintf("%s_%d", productID, i),
			Filename: img.Filename,
			Data:     img.Data,
		})
		if err != nil {
			s.removeFiles(ctx, paths)
			return nil, fmt.Errorf("store product image: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (s *ProductService) removeFiles(ctx context.Context, paths []string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if !s.files.Delete(ctx, path) {
			s.logger.WarnContext(ctx, "failed to remove stored file",
				slog.String("path", path),
			)
		}
	}
}
