package club

import (
	"context"
	"net/http"

	"github.com/frahmantamala/campus-ops/internal/auth"
	"github.com/frahmantamala/campus-ops/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	List(ctx context.Context) ([]ClubResponse, error)
	Create(ctx context.Context, actor *auth.Actor, dto CreateClubDTO) (*ClubResponse, error)
	ListMine(ctx context.Context, actor *auth.Actor) ([]MembershipResponse, error)
	Join(ctx context.Context, actor *auth.Actor, clubID string) (*MembershipResponse, error)
	Leave(ctx context.Context, actor *auth.Actor, clubID string) error
	ListMembers(ctx context.Context, clubID string) ([]MemberResponse, error)
	RequestOrganizer(ctx context.Context, actor *auth.Actor, clubID string) (*RoleRequestResponse, error)
	ListRoleRequests(ctx context.Context, clubID string) ([]RoleRequestResponse, error)
	ReviewRoleRequest(ctx context.Context, actor *auth.Actor, clubID, requestID string, dto ReviewRoleRequestDTO) (*RoleRequestResponse, error)
	ChangeMemberRole(ctx context.Context, actor *auth.Actor, clubID, membershipID string, dto ChangeRoleDTO) (*MembershipResponse, error)
}

// ClubGuard builds middleware requiring one of allowed in the club named by
// a URL parameter.
type ClubGuard interface {
	RequireClubRoleParam(param string, allowed ...auth.ClubRole) func(http.Handler) http.Handler
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

// ListClubs handles GET /clubs
func (h *Handler) ListClubs(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Service.List(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// CreateClub handles POST /clubs
func (h *Handler) CreateClub(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorOrAbort(h.BaseHandler, w, r)
	if !ok {
		return
	}
	var dto CreateClubDTO
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

// ListMyMemberships handles GET /clubs/me
func (h *Handler) ListMyMemberships(w http.ResponseWriter, r *http.Request) {
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

// JoinClub handles POST /clubs/{clubId}/join
func (h *Handler) JoinClub(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorOrAbort(h.BaseHandler, w, r)
	if !ok {
		return
	}
	resp, err := h.Service.Join(r.Context(), actor, chi.URLParam(r, "clubId"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// LeaveClub handles POST /clubs/{clubId}/leave
func (h *Handler) LeaveClub(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorOrAbort(h.BaseHandler, w, r)
	if !ok {
		return
	}
	if err := h.Service.Leave(r.Context(), actor, chi.URLParam(r, "clubId")); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, OKResponse{OK: true})
}

// ListMembers handles GET /clubs/{clubId}/members
func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Service.ListMembers(r.Context(), chi.URLParam(r, "clubId"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// RequestOrganizer handles POST /clubs/{clubId}/request-organizer
func (h *Handler) RequestOrganizer(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorOrAbort(h.BaseHandler, w, r)
	if !ok {
		return
	}
	resp, err := h.Service.RequestOrganizer(r.Context(), actor, chi.URLParam(r, "clubId"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, resp)
}

// ListRoleRequests handles GET /clubs/{clubId}/role-requests
func (h *Handler) ListRoleRequests(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Service.ListRoleRequests(r.Context(), chi.URLParam(r, "clubId"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// ReviewRoleRequest handles PATCH /clubs/{clubId}/role-requests/{id}
func (h *Handler) ReviewRoleRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorOrAbort(h.BaseHandler, w, r)
	if !ok {
		return
	}
	var dto ReviewRoleRequestDTO
	if err := h.DecodeJSON(r, &dto, false); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	resp, err := h.Service.ReviewRoleRequest(r.Context(), actor, chi.URLParam(r, "clubId"), chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// ChangeMemberRole handles PATCH /clubs/{clubId}/members/{id}/role
func (h *Handler) ChangeMemberRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorOrAbort(h.BaseHandler, w, r)
	if !ok {
		return
	}
	var dto ChangeRoleDTO
	if err := h.DecodeJSON(r, &dto, false); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	resp, err := h.Service.ChangeMemberRole(r.Context(), actor, chi.URLParam(r, "clubId"), chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) Routes(protected chi.Router, adminOnly func(http.Handler) http.Handler, guard ClubGuard) {
	protected.Get("/clubs", h.ListClubs)
	protected.With(adminOnly).Post("/clubs", h.CreateClub)
	protected.Get("/clubs/me", h.ListMyMemberships)
	protected.Post("/clubs/{clubId}/join", h.JoinClub)
	protected.Post("/clubs/{clubId}/leave", h.LeaveClub)
	protected.With(guard.RequireClubRoleParam("clubId", auth.ClubRoleOrganizer, auth.ClubRoleHead)).
		Get("/clubs/{clubId}/members", h.ListMembers)
	protected.Patch("/clubs/{clubId}/members/{id}/role", h.ChangeMemberRole)
	protected.Post("/clubs/{clubId}/request-organizer", h.RequestOrganizer)
	protected.With(guard.RequireClubRoleParam("clubId", auth.ClubRoleHead)).
		Get("/clubs/{clubId}/role-requests", h.ListRoleRequests)
	protected.Patch("/clubs/{clubId}/role-requests/{id}", h.ReviewRoleRequest)
}
