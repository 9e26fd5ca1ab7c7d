package auth

import (
	"context"
	"net/http"

	"github.com/frahmantamala/campus-ops/internal"
	"github.com/frahmantamala/campus-ops/internal/transport"
	"github.com/frahmantamala/campus-ops/pkg/logger"
)

type ServiceAPI interface {
	Register(ctx context.Context, dto RegisterDTO) (*UserResponse, error)
	Login(ctx context.Context, dto LoginDTO) (*LoginResponse, error)
	Authenticate(ctx context.Context, token string) (*Actor, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.LoggerWrapper()),
		Service:     svc,
	}
}

// Register handles POST /auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterDTO
	if err := h.DecodeJSON(r, &dto, false); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	user, err := h.Service.Register(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, user)
}

// Login handles POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := h.DecodeJSON(r, &dto, false); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	resp, err := h.Service.Login(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.HandleServiceError(w, r, ErrMissingToken)
			return
		}

		actor, err := h.Service.Authenticate(r.Context(), token)
		if err != nil {
			logger.From(r.Context()).Warn("auth middleware: authentication failed", "error", err)
			h.HandleServiceError(w, r, err)
			return
		}

		ctx := ContextWithActor(r.Context(), actor)
		ctx = internal.ContextWithUserID(ctx, actor.ID)
		ctx = logger.With(ctx, "user_id", actor.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CurrentActor is what handlers use after AuthMiddleware. The bool is false
// only when the route was mounted without the middleware.
func CurrentActor(r *http.Request) (*Actor, bool) {
	return ActorFromContext(r.Context())
}

// ActorOrAbort returns the caller, or writes a 401 and reports false.
func ActorOrAbort(h *transport.BaseHandler, w http.ResponseWriter, r *http.Request) (*Actor, bool) {
	actor, ok := CurrentActor(r)
	if !ok {
		h.HandleServiceError(w, r, ErrMissingToken)
		return nil, false
	}
	return actor, true
}
