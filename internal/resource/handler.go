package resource

import (
	"context"
	"net/http"

	"github.com/frahmantamala/campus-ops/internal/auth"
	"github.com/frahmantamala/campus-ops/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	List(ctx context.Context) ([]ResourceResponse, error)
	Create(ctx context.Context, actor *auth.Actor, dto CreateResourceDTO) (*ResourceResponse, error)
	Update(ctx context.Context, actor *auth.Actor, id string, dto UpdateResourceDTO) (*ResourceResponse, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{BaseHandler: baseHandler, Service: service}
}

// ListResources handles GET /resources
func (h *Handler) ListResources(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Service.List(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// CreateResource handles POST /resources
func (h *Handler) CreateResource(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorOrAbort(h.BaseHandler, w, r)
	if !ok {
		return
	}
	var dto CreateResourceDTO
	if err := h.DecodeJSON(r, &dto, false); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	resp, err := h.Service.Create(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, resp)
}

// UpdateResource handles PATCH /resources/{id}
func (h *Handler) UpdateResource(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorOrAbort(h.BaseHandler, w, r)
	if !ok {
		return
	}
	var dto UpdateResourceDTO
	if err := h.DecodeJSON(r, &dto, false); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	resp, err := h.Service.Update(r.Context(), actor, chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) Routes(protected chi.Router, adminOnly func(http.Handler) http.Handler) {
	protected.Get("/resources", h.ListResources)
	protected.With(adminOnly).Post("/resources", h.CreateResource)
	protected.With(adminOnly).Patch("/resources/{id}", h.UpdateResource)
}
