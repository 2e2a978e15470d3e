package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/hanifml/storefront/internal/repository"
	"github.com/hanifml/storefront/internal/service"
	apperrors "github.com/hanifml/storefront/pkg/errors"
	"github.com/hanifml/storefront/pkg/pagination"
	"github.com/hanifml/storefront/pkg/validator"
)

// Product listing page sizes.
const (
	productDefaultPerPage = 10
	productMaxPerPage     = 100
)

// ProductHandler handles HTTP requests for catalog product endpoints.
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(svc *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{service: svc, logger: logger}
}

type createProductForm struct {
	Name        string  `validate:"required,min=1,max=200"`
	Description string  `validate:"omitempty,max=2000"`
	Price       float64 `validate:"gte=0"`
	Category    string  `validate:"omitempty,max=100"`
}

// Create handles POST /api/v1/products (multipart, admin only).
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeInvalidBody(w, err)
		return
	}

	price, err := strconv.ParseFloat(r.FormValue("price"), 64)
	if err != nil {
		writeAppError(w, r, apperrors.InvalidInput("price must be a number"))
		return
	}

	form := createProductForm{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Price:       price,
		Category:    r.FormValue("category"),
	}
	if err := validator.Validate(form); err != nil {
		writeValidationError(w, err)
		return
	}

	images, err := filesFromForm(r, "images")
	if err != nil {
		writeInvalidBody(w, err)
		return
	}

	product, err := h.service.Create(r.Context(), service.CreateProductInput{
		Name:        form.Name,
		Description: form.Description,
		Price:       form.Price,
		Category:    form.Category,
		Images:      images,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: product})
}

// List handles GET /api/v1/products.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequestLimits(r, productDefaultPerPage, productMaxPerPage)

	minPrice, err := queryFloat(r, "min_price")
	if err != nil {
		writeAppError(w, r, apperrors.InvalidInput(err.Error()))
		return
	}
	maxPrice, err := queryFloat(r, "max_price")
	if err != nil {
		writeAppError(w, r, apperrors.InvalidInput(err.Error()))
		return
	}

	filter := repository.ProductFilter{
		Search:   queryString(r, "search"),
		Category: queryString(r, "category"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		SortBy:   r.URL.Query().Get("sort_by"),
		Order:    r.URL.Query().Get("order"),
		Params:   params,
	}

	products, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: pagination.NewResult(products, total, params)})
}

// Get handles GET /api/v1/products/{id}.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: product})
}

// Update handles PUT /api/v1/products/{id} (multipart, admin only).
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeInvalidBody(w, err)
		return
	}

	input := service.UpdateProductInput{
		Name:        formString(r, "name"),
		Description: formString(r, "description"),
		Category:    formString(r, "category"),
	}

	if raw := formString(r, "price"); raw != nil {
		price, err := strconv.ParseFloat(*raw, 64)
		if err != nil {
			writeAppError(w, r, apperrors.InvalidInput("price must be a number"))
			return
		}
		input.Price = &price
	}

	images, err := filesFromForm(r, "images")
	if err != nil {
		writeInvalidBody(w, err)
		return
	}
	input.NewImages = images
	if r.MultipartForm != nil {
		input.RemoveImages = r.MultipartForm.Value["remove_images"]
	}

	product, err := h.service.Update(r.Context(), id, input)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: product})
}

// Delete handles DELETE /api/v1/products/{id} (admin only).
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
