package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hanifml/storefront/internal/repository"
	"github.com/hanifml/storefront/internal/service"
	"github.com/hanifml/storefront/pkg/pagination"
	"github.com/hanifml/storefront/pkg/validator"
)

// Category listing page sizes. Categories are a small dimension, so the cap
// is looser than elsewhere.
const (
	categoryDefaultPerPage = 20
	categoryMaxPerPage     = 200
)

// CategoryHandler handles HTTP requests for category endpoints.
type CategoryHandler struct {
	service *service.CategoryService
	logger  *slog.Logger
}

// NewCategoryHandler creates a new category HTTP handler.
func NewCategoryHandler(svc *service.CategoryService, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{service: svc, logger: logger}
}

// CreateCategoryRequest is the JSON request body for creating a category.
type CreateCategoryRequest struct {
	Name   string `json:"name" validate:"required,min=1,max=100"`
	Status string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// UpdateCategoryRequest is the JSON request body for updating a category.
type UpdateCategoryRequest struct {
	Name   *string `json:"name" validate:"omitempty,min=1,max=100"`
	Status *string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// Create handles POST /api/v1/categories (admin only).
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w, err)
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	category, err := h.service.Create(r.Context(), service.CreateCategoryInput{
		Name:   req.Name,
		Status: req.Status,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: category})
}

// List handles GET /api/v1/categories.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequestLimits(r, categoryDefaultPerPage, categoryMaxPerPage)

	filter := repository.CategoryFilter{
		Search: queryString(r, "q"),
		Status: queryString(r, "status"),
		SortBy: r.URL.Query().Get("sort_by"),
		Order:  r.URL.Query().Get("order"),
		Params: params,
	}

	categories, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: pagination.NewResult(categories, total, params)})
}

// Select handles GET /api/v1/categories/select, the trimmed dropdown feed.
func (h *CategoryHandler) Select(w http.ResponseWriter, r *http.Request) {
	options, err := h.service.ListOptions(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: options})
}

// Get handles GET /api/v1/categories/{id}.
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	category, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: category})
}

// Update handles PUT /api/v1/categories/{id} (admin only).
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req UpdateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w, err)
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	category, err := h.service.Update(r.Context(), id, service.UpdateCategoryInput{
		Name:   req.Name,
		Status: req.Status,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: category})
}

// Delete handles DELETE /api/v1/categories/{id} (admin only).
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]string{"id": id, "status": "deleted"}})
}
