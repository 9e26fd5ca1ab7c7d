package audit

import (
	"context"
	"net/http"

	"github.com/frahmantamala/campus-ops/internal/auth"
	"github.com/frahmantamala/campus-ops/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	ListRecent(ctx context.Context, actor *auth.Actor) ([]EntryResponse, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{BaseHandler: baseHandler, Service: service}
}

// ListRecent handles GET /audit/recent
func (h *Handler) ListRecent(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorOrAbort(h.BaseHandler, w, r)
	if !ok {
		return
	}
	resp, err := h.Service.ListRecent(r.Context(), actor)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) Routes(protected chi.Router, adminOnly func(http.Handler) http.Handler) {
	protected.With(adminOnly).Get("/audit/recent", h.ListRecent)
}
