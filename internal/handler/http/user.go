package http

import (
	"log/slog"
	"net/http"

	"github.com/hanifml/storefront/internal/domain"
	"github.com/hanifml/storefront/internal/repository"
	"github.com/hanifml/storefront/internal/service"
	apperrors "github.com/hanifml/storefront/pkg/errors"
	"github.com/hanifml/storefront/pkg/pagination"
	"github.com/hanifml/storefront/pkg/validator"
)

// User listing page sizes.
const (
	userDefaultPerPage = 10
	userMaxPerPage     = 100
)

// UserHandler handles HTTP requests for user management endpoints.
type UserHandler struct {
	service *service.UserService
	logger  *slog.Logger
}

// NewUserHandler creates a new user HTTP handler.
func NewUserHandler(svc *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{service: svc, logger: logger}
}

// createUserForm mirrors the multipart fields of the admin create endpoint.
type createUserForm struct {
	Email       string `validate:"required,email"`
	Password    string `validate:"required,min=8"`
	FullName    string `validate:"required,min=1,max=200"`
	PhoneNumber string `validate:"omitempty,max=32"`
	Role        string `validate:"omitempty,oneof=admin user"`
	Status      string `validate:"omitempty,oneof=active inactive"`
}

// Create handles POST /api/v1/users (multipart, admin only).
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeInvalidBody(w, err)
		return
	}

	form := createUserForm{
		Email:       r.FormValue("email"),
		Password:    r.FormValue("password"),
		FullName:    r.FormValue("full_name"),
		PhoneNumber: r.FormValue("phone_number"),
		Role:        r.FormValue("role"),
		Status:      r.FormValue("status"),
	}
	if err := validator.Validate(form); err != nil {
		writeValidationError(w, err)
		return
	}

	image, err := fileFromForm(r, "profile_image", "")
	if err != nil {
		writeInvalidBody(w, err)
		return
	}

	user, err := h.service.Create(r.Context(), service.CreateUserInput{
		Email:        form.Email,
		Password:     form.Password,
		FullName:     form.FullName,
		PhoneNumber:  form.PhoneNumber,
		Role:         form.Role,
		Status:       form.Status,
		ProfileImage: image,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: user})
}

// List handles GET /api/v1/users (admin only).
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequestLimits(r, userDefaultPerPage, userMaxPerPage)

	filter := repository.UserFilter{
		Search: queryString(r, "search"),
		Role:   queryString(r, "role"),
		Status: queryString(r, "status"),
		SortBy: r.URL.Query().Get("sort_by"),
		Order:  r.URL.Query().Get("order"),
		Params: params,
	}

	users, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: pagination.NewResult(users, total, params)})
}

// Get handles GET /api/v1/users/{id} (self or admin).
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if !domain.CanAccessUser(PrincipalFromContext(r.Context()), id) {
		writeAppError(w, r, apperrors.Forbidden("you can only access your own account"))
		return
	}

	user, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: user})
}

// Update handles PUT /api/v1/users/{id} (multipart, self or admin).
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	principal := PrincipalFromContext(r.Context())
	if !domain.CanAccessUser(principal, id) {
		writeAppError(w, r, apperrors.Forbidden("you can only modify your own account"))
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeInvalidBody(w, err)
		return
	}

	image, err := fileFromForm(r, "profile_image", "remove_profile_image")
	if err != nil {
		writeInvalidBody(w, err)
		return
	}

	input := service.UpdateUserInput{
		Email:        formString(r, "email"),
		Password:     formString(r, "password"),
		FullName:     formString(r, "full_name"),
		PhoneNumber:  formString(r, "phone_number"),
		Role:         formString(r, "role"),
		Status:       formString(r, "status"),
		ProfileImage: image,
	}

	user, err := h.service.Update(r.Context(), id, input, principal)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: user})
}

// Delete handles DELETE /api/v1/users/{id} (admin only).
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
