package registration

import (
	"context"
	"net/http"

	"github.com/frahmantamala/campus-ops/internal/auth"
	"github.com/frahmantamala/campus-ops/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Register(ctx context.Context, actor *auth.Actor, dto RegisterDTO) (*RegistrationResponse, error)
	ListMine(ctx context.Context, actor *auth.Actor) ([]RegistrationResponse, error)
	Unregister(ctx context.Context, actor *auth.Actor, eventID string) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{BaseHandler: baseHandler, Service: service}
}

// Register handles POST /registrations
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorOrAbort(h.BaseHandler, w, r)
	if !ok {
		return
	}
	var dto RegisterDTO
	if err := h.DecodeJSON(r, &dto, false); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	resp, err := h.Service.Register(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// ListMyRegistrations handles GET /registrations/me
func (h *Handler) ListMyRegistrations(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorOrAbort(h.BaseHandler, w, r)
	if !ok {
		return
	}
	resp, err := h.Service.ListMine(r.Context(), actor)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// Unregister handles DELETE /registrations/by-event/{eventId}
func (h *Handler) Unregister(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorOrAbort(h.BaseHandler, w, r)
	if !ok {
		return
	}
	if err := h.Service.Unregister(r.Context(), actor, chi.URLParam(r, "eventId")); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, OKResponse{OK: true})
}

func (h *Handler) Routes(protected chi.Router) {
	protected.Post("/registrations", h.Register)
	protected.Get("/registrations/me", h.ListMyRegistrations)
	protected.Delete("/registrations/by-event/{eventId}", h.Unregister)
}
