package analytics

import (
	"context"
	"net/http"

	"github.com/frahmantamala/campus-ops/internal/auth"
	"github.com/frahmantamala/campus-ops/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	PendingAttention(ctx context.Context, actor *auth.Actor) (*PendingAttention, error)
	Summary(ctx context.Context, actor *auth.Actor, from, to string) (*Summary, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{BaseHandler: baseHandler, Service: service}
}

// PendingAttention handles GET /analytics/pending-attention
func (h *Handler) PendingAttention(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorOrAbort(h.BaseHandler, w, r)
	if !ok {
		return
	}
	resp, err := h.Service.PendingAttention(r.Context(), actor)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// Summary handles GET /analytics/summary?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorOrAbort(h.BaseHandler, w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	resp, err := h.Service.Summary(r.Context(), actor, q.Get("from"), q.Get("to"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) Routes(protected chi.Router, adminOnly func(http.Handler) http.Handler) {
	protected.With(adminOnly).Get("/analytics/pending-attention", h.PendingAttention)
	protected.With(adminOnly).Get("/analytics/summary", h.Summary)
}
