package http_handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/deskhive/deskhive/internal/application/auth"
	"github.com/deskhive/deskhive/internal/domain"
	"github.com/deskhive/deskhive/internal/transport/http/dto"
	"github.com/deskhive/deskhive/internal/transport/http/middleware"
	"github.com/deskhive/deskhive/internal/transport/http/response"
)

type UserHandler struct {
	svc *auth.Service
}

func NewUserHandler(svc *auth.Service) *UserHandler {
	return &UserHandler{svc: svc}
}

// Me handles GET /api/user: the authenticated user's own record.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	u, err := h.svc.GetUserByID(r.Context(), uid)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.ToUserView(u))
}

// List handles GET /api/users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.ToUserViews(users))
}

// Update handles PUT /api/users/{id}. Self-or-admin; the service enforces it.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}
	role, _ := middleware.RoleFromContext(r.Context())
	targetID := chi.URLParam(r, "id")

	var req dto.UpdateUserRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	u, err := h.svc.UpdateUser(r.Context(), uid, role, targetID, auth.UpdateUserInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		UserType: req.UserType,
		Image:    req.Image,
	})
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.ToUserView(u))
}

// AdminUpdate handles PUT /api/admin/users/{id}. The router's role gate
// has already required admin.
func (h *UserHandler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}
	targetID := chi.URLParam(r, "id")

	var req dto.AdminUpdateUserRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	u, err := h.svc.AdminUpdateUser(r.Context(), uid, targetID, auth.UpdateUserInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		UserType: req.UserType,
		Image:    req.Image,
		Verified: req.Verified,
	})
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.ToUserView(u))
}

// Delete handles DELETE /api/users/{id}. Self-or-admin.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}
	role, _ := middleware.RoleFromContext(r.Context())
	targetID := chi.URLParam(r, "id")

	if err := h.svc.DeleteUser(r.Context(), uid, role, targetID); err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.DeleteUserResponse{Success: true})
}
