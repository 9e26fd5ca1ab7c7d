package notification

import (
	"context"
	"net/http"

	"github.com/frahmantamala/campus-ops/internal/auth"
	"github.com/frahmantamala/campus-ops/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	ListMine(ctx context.Context, actor *auth.Actor, category string) ([]NotificationResponse, error)
	UnreadCount(ctx context.Context, actor *auth.Actor) (*UnreadCountResponse, error)
	MarkRead(ctx context.Context, actor *auth.Actor, id string) (*NotificationResponse, error)
	MarkAllRead(ctx context.Context, actor *auth.Actor, dto MarkAllReadDTO) (*MarkAllReadResponse, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{BaseHandler: baseHandler, Service: service}
}

// ListMyNotifications handles GET /notifications/me
func (h *Handler) ListMyNotifications(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorOrAbort(h.BaseHandler, w, r)
	if !ok {
		return
	}
	resp, err := h.Service.ListMine(r.Context(), actor, r.URL.Query().Get("category"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// UnreadCount handles GET /notifications/me/unread-count
func (h *Handler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorOrAbort(h.BaseHandler, w, r)
	if !ok {
		return
	}
	resp, err := h.Service.UnreadCount(r.Context(), actor)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// MarkRead handles PATCH /notifications/{id}/read
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorOrAbort(h.BaseHandler, w, r)
	if !ok {
		return
	}
	resp, err := h.Service.MarkRead(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// MarkAllRead handles POST /notifications/me/mark-all-read. The body is optional.
func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorOrAbort(h.BaseHandler, w, r)
	if !ok {
		return
	}
	var dto MarkAllReadDTO
	if err := h.DecodeJSON(r, &dto, true); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	resp, err := h.Service.MarkAllRead(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) Routes(protected chi.Router) {
	protected.Get("/notifications/me", h.ListMyNotifications)
	protected.Get("/notifications/me/unread-count", h.UnreadCount)
	protected.Post("/notifications/me/mark-all-read", h.MarkAllRead)
	protected.Patch("/notifications/{id}/read", h.MarkRead)
}
