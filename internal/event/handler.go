package event

import (
	"context"
	"net/http"

	"github.com/frahmantamala/campus-ops/internal/auth"
	"github.com/frahmantamala/campus-ops/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Create(ctx context.Context, actor *auth.Actor, dto CreateEventDTO) (*EventResponse, error)
	ListMine(ctx context.Context, actor *auth.Actor) ([]EventResponse, error)
	ListPublic(ctx context.Context) ([]EventResponse, error)
	GetPublic(ctx context.Context, id string) (*EventResponse, error)
	ListSubmitted(ctx context.Context, actor *auth.Actor) ([]EventResponse, error)
	Get(ctx context.Context, actor *auth.Actor, id string) (*EventResponse, error)
	Submit(ctx context.Context, actor *auth.Actor, id string) (*EventResponse, error)
	Review(ctx context.Context, actor *auth.Actor, id string, dto ReviewDTO) (*EventResponse, error)
	Publish(ctx context.Context, actor *auth.Actor, id string) (*EventResponse, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// CreateEvent handles POST /events
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorOrAbort(h.BaseHandler, w, r)
	if !ok {
		return
	}

	var dto CreateEventDTO
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

// ListMyEvents handles GET /events
func (h *Handler) ListMyEvents(w http.ResponseWriter, r *http.Request) {
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

// ListPublicEvents handles GET /events/public
func (h *Handler) ListPublicEvents(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Service.ListPublic(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// GetPublicEvent handles GET /events/public/{id}
func (h *Handler) GetPublicEvent(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Service.GetPublic(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// ListSubmittedEvents handles GET /events/admin/submitted
func (h *Handler) ListSubmittedEvents(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorOrAbort(h.BaseHandler, w, r)
	if !ok {
		return
	}
	resp, err := h.Service.ListSubmitted(r.Context(), actor)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// GetEvent handles GET /events/{id}
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	h.withEvent(w, r, h.Service.Get)
}

// SubmitEvent handles POST /events/{id}/submit
func (h *Handler) SubmitEvent(w http.ResponseWriter, r *http.Request) {
	h.withEvent(w, r, h.Service.Submit)
}

// PublishEvent handles POST /events/{id}/publish
func (h *Handler) PublishEvent(w http.ResponseWriter, r *http.Request) {
	h.withEvent(w, r, h.Service.Publish)
}

// ReviewEvent handles POST /events/{id}/review
func (h *Handler) ReviewEvent(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorOrAbort(h.BaseHandler, w, r)
	if !ok {
		return
	}

	var dto ReviewDTO
	if err := h.DecodeJSON(r, &dto, false); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	resp, err := h.Service.Review(r.Context(), actor, chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) withEvent(w http.ResponseWriter, r *http.Request, op func(context.Context, *auth.Actor, string) (*EventResponse, error)) {
	actor, ok := auth.ActorOrAbort(h.BaseHandler, w, r)
	if !ok {
		return
	}
	resp, err := op(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// Routes mounts the event endpoints. public is served without auth; the rest
// expect AuthMiddleware on the enclosing router.
func (h *Handler) Routes(public, protected chi.Router, adminOnly func(http.Handler) http.Handler) {
	public.Get("/events/public", h.ListPublicEvents)
	public.Get("/events/public/{id}", h.GetPublicEvent)

	protected.Post("/events", h.CreateEvent)
	protected.Get("/events", h.ListMyEvents)
	protected.With(adminOnly).Get("/events/admin/submitted", h.ListSubmittedEvents)
	protected.Get("/events/{id}", h.GetEvent)
	protected.Post("/events/{id}/submit", h.SubmitEvent)
	protected.With(adminOnly).Post("/events/{id}/review", h.ReviewEvent)
	protected.Post("/events/{id}/publish", h.PublishEvent)
}
