package booking

import (
	"context"
	"net/http"

	"github.com/frahmantamala/campus-ops/internal/auth"
	"github.com/frahmantamala/campus-ops/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Create(ctx context.Context, actor *auth.Actor, dto CreateBookingDTO) (*BookingResponse, error)
	ListPending(ctx context.Context, actor *auth.Actor) ([]BookingResponse, error)
	ListMine(ctx context.Context, actor *auth.Actor) ([]BookingResponse, error)
	Review(ctx context.Context, actor *auth.Actor, id string, dto ReviewDTO) (*BookingResponse, error)
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

// CreateBooking handles POST /bookings
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorOrAbort(h.BaseHandler, w, r)
	if !ok {
		return
	}

	var dto CreateBookingDTO
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

// ListPendingBookings handles GET /bookings/pending
func (h *Handler) ListPendingBookings(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.Service.ListPending)
}

// ListMyBookings handles GET /bookings/mine
func (h *Handler) ListMyBookings(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.Service.ListMine)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, op func(context.Context, *auth.Actor) ([]BookingResponse, error)) {
	actor, ok := auth.ActorOrAbort(h.BaseHandler, w, r)
	if !ok {
		return
	}
	resp, err := op(r.Context(), actor)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// ReviewBooking handles POST /bookings/{id}/review
func (h *Handler) ReviewBooking(w http.ResponseWriter, r *http.Request) {
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

func (h *Handler) Routes(protected chi.Router, adminOnly func(http.Handler) http.Handler) {
	protected.Post("/bookings", h.CreateBooking)
	protected.Get("/bookings/mine", h.ListMyBookings)
	protected.With(adminOnly).Get("/bookings/pending", h.ListPendingBookings)
	protected.With(adminOnly).Post("/bookings/{id}/review", h.ReviewBooking)
}
