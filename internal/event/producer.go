package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hanifml/storefront/internal/domain"
	pkgkafka "github.com/hanifml/storefront/pkg/kafka"
)

// Kafka topic constants for storefront domain events.
const (
	TopicUserRegistered  = "storefront.user.registered"
	TopicProductCreated  = "storefront.product.created"
	TopicProductDeleted  = "storefront.product.deleted"
	TopicCategoryCreated = "storefront.category.created"
)

// Aggregate type constants.
const (
	AggregateTypeUser     = "user"
	AggregateTypeProduct  = "product"
	AggregateTypeCategory = "category"
)

// Source identifier for events originating from this API.
const SourceAPI = "storefront-api"

// UserRegisteredData is the payload for a user.registered event.
type UserRegisteredData struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// ProductData is the payload for product lifecycle events.
type ProductData struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category,omitempty"`
}

// CategoryCreatedData is the payload for a category.created event.
type CategoryCreatedData struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Producer publishes storefront domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishUserRegistered publishes a user.registered event.
func (p *Producer) PublishUserRegistered(ctx context.Context, user *domain.User) error {
	data := UserRegisteredData{
		ID:       user.ID,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     user.Role,
	}

	event, err := pkgkafka.NewEvent(TopicUserRegistered, user.ID, AggregateTypeUser, SourceAPI, data)
	if err != nil {
		return fmt.Errorf("create user.registered event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicUserRegistered, event); err != nil {
		return fmt.Errorf("publish user.registered event: %w", err)
	}

	p.logger.DebugContext(ctx, "published user.registered event",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return nil
}

// PublishProductCreated publishes a product.created event.
func (p *Producer) PublishProductCreated(ctx context.Context, product *domain.Product) error {
	data := ProductData{
		ID:       product.ID,
		Name:     product.Name,
		Price:    product.Price,
		Category: product.Category,
	}

	event, err := pkgkafka.NewEvent(TopicProductCreated, product.ID, AggregateTypeProduct, SourceAPI, data)
	if err != nil {
		return fmt.Errorf("create product.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicProductCreated, event); err != nil {
		return fmt.Errorf("publish product.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published product.created event",
		slog.String("product_id", product.ID),
	)

	return nil
}

// PublishProductDeleted publishes a product.deleted event.
func (p *Producer) PublishProductDeleted(ctx context.Context, product *domain.Product) error {
	data := ProductData{
		ID:       product.ID,
		Name:     product.Name,
		Price:    product.Price,
		Category: product.Category,
	}

	event, err := pkgkafka.NewEvent(TopicProductDeleted, product.ID, AggregateTypeProduct, SourceAPI, data)
	if err != nil {
		return fmt.Errorf("create product.deleted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicProductDeleted, event); err != nil {
		return fmt.Errorf("publish product.deleted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published product.deleted event",
		slog.String("product_id", product.ID),
	)

	return nil
}

// PublishCategoryCreated publishes a category.created event.
func (p *Producer) PublishCategoryCreated(ctx context.Context, category *domain.Category) error {
	data := CategoryCreatedData{
		ID:   category.ID,
		Name: category.Name,
		Slug: category.Slug,
	}

	event, err := pkgkafka.NewEvent(TopicCategoryCreated, category.ID, AggregateTypeCategory, SourceAPI, data)
	if err != nil {
		return fmt.Errorf("create category.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCategoryCreated, event); err != nil {
		return fmt.Errorf("publish category.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published category.created event",
		slog.String("category_id", category.ID),
	)

	return nil
}
