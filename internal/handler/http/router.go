package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hanifml/storefront/internal/service"
	"github.com/hanifml/storefront/pkg/health"
	"github.com/hanifml/storefront/pkg/middleware"
)

// RouterConfig bundles the dependencies the router wires together.
type RouterConfig struct {
	AuthService     *service.AuthService
	UserService     *service.UserService
	ProductService  *service.ProductService
	CategoryService *service.CategoryService
	HealthHandler   *health.Handler
	Logger          *slog.Logger
	CORS            CORSConfig
	UploadDir       string
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(CORS(cfg.CORS))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("storefront"))

	// Health check endpoints
	r.Get("/health/live", cfg.HealthHandler.LivenessHandler())
	r.Get("/health/ready", cfg.HealthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Uploaded files
	if cfg.UploadDir != "" {
		fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir)))
		r.Get("/uploads/*", fileServer.ServeHTTP)
	}

	authenticated := Authenticator(cfg.AuthService)

	// Auth endpoints
	authHandler := NewAuthHandler(cfg.AuthService, cfg.Logger)
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(ContentTypeJSON).Post("/register", authHandler.Register)
		r.With(ContentTypeJSON).Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.With(authenticated).Get("/me", authHandler.Me)
	})

	// User management endpoints
	userHandler := NewUserHandler(cfg.UserService, cfg.Logger)
	r.Route("/api/v1/users", func(r chi.Router) {
		r.Use(authenticated)

		r.Get("/me", authHandler.Me)
		r.With(RequireAdmin()).Post("/", userHandler.Create)
		r.With(RequireAdmin()).Get("/", userHandler.List)
		r.Get("/{id}", userHandler.Get)
		r.Put("/{id}", userHandler.Update)
		r.With(RequireAdmin()).Delete("/{id}", userHandler.Delete)
	})

	// Product endpoints: reads for any authenticated user, writes admin only.
	productHandler := NewProductHandler(cfg.ProductService, cfg.Logger)
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Use(authenticated)

		r.Get("/", productHandler.List)
		r.Get("/{id}", productHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(RequireAdmin())

			r.Post("/", productHandler.Create)
			r.Put("/{id}", productHandler.Update)
			r.Delete("/{id}", productHandler.Delete)
		})
	})

	// Category endpoints: reads for any authenticated user, writes admin only.
	categoryHandler := NewCategoryHandler(cfg.CategoryService, cfg.Logger)
	r.Route("/api/v1/categories", func(r chi.Router) {
		r.Use(authenticated)

		r.Get("/", categoryHandler.List)
		r.Get("/select", categoryHandler.Select)
		r.Get("/{id}", categoryHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(RequireAdmin(), ContentTypeJSON)

			r.Post("/", categoryHandler.Create)
			r.Put("/{id}", categoryHandler.Update)
			r.Delete("/{id}", categoryHandler.Delete)
		})
	})

	return r
}
