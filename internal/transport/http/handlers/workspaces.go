package http_handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/deskhive/deskhive/internal/application/listing"
	"github.com/deskhive/deskhive/internal/domain"
	"github.com/deskhive/deskhive/internal/transport/http/dto"
	"github.com/deskhive/deskhive/internal/transport/http/middleware"
	"github.com/deskhive/deskhive/internal/transport/http/response"
)

type WorkspaceHandler struct {
	svc *listing.Service
}

func NewWorkspaceHandler(svc *listing.Service) *WorkspaceHandler {
	return &WorkspaceHandler{svc: svc}
}

// Create handles POST /api/workspaces.
func (h *WorkspaceHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	var req dto.CreateWorkspaceRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	ws, err := h.svc.Create(r.Context(), uid, listing.CreateInput{
		Name:        req.Name,
		Location:    req.Location,
		Capacity:    req.Capacity,
		Amenities:   req.Amenities,
		Price:       req.Price,
		Description: req.Description,
		Image:       req.Image,
	})
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.Created(w, dto.ToWorkspaceView(ws))
}

// ListOwn handles GET /api/workspaces: the caller's own listings.
func (h *WorkspaceHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	ws, err := h.svc.ListOwn(r.Context(), uid)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.ToWorkspaceViews(ws))
}

// ListActive handles GET /api/all-workspaces: every active listing.
func (h *WorkspaceHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	ws, err := h.svc.ListActive(r.Context())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.ToWorkspaceViews(ws))
}

// Update handles PUT /api/workspaces/{id}. Owner-or-admin.
func (h *WorkspaceHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}
	role, _ := middleware.RoleFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req dto.UpdateWorkspaceRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	ws, err := h.svc.Update(r.Context(), uid, role, id, listing.WorkspaceUpdate{
		Name:        req.Name,
		Location:    req.Location,
		Capacity:    req.Capacity,
		Amenities:   req.Amenities,
		Price:       req.Price,
		Description: req.Description,
		Image:       req.Image,
	})
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.ToWorkspaceView(ws))
}

// Toggle handles PUT /api/workspaces/{id}/toggle: flips active/inactive.
func (h *WorkspaceHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}
	role, _ := middleware.RoleFromContext(r.Context())
	id := chi.URLParam(r, "id")

	ws, err := h.svc.ToggleStatus(r.Context(), uid, role, id)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.ToWorkspaceView(ws))
}
