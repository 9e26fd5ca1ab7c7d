package auth

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/campus-ops/internal/transport"
)

// RBACAuthorization holds the route-level global role checks. Club and
// ownership checks need the target entity and live in the services.
type RBACAuthorization struct {
	*transport.BaseHandler
	resolver *Resolver
	logger   *slog.Logger
}

func NewRBACAuthorization(resolver *Resolver, logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{
		BaseHandler: transport.NewBaseHandler(logger),
		resolver:    resolver,
		logger:      logger,
	}
}

func (ra *RBACAuthorization) RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				ra.logger.Warn("authorization check failed: actor not found in context")
				ra.HandleServiceError(w, r, ErrMissingToken)
				return
			}

			if err := ra.resolver.RequireAdmin(r.Context(), actor); err != nil {
				ra.logger.WarnContext(r.Context(), "access denied: admin role required",
					"user_id", actor.ID,
					"global_role", actor.GlobalRole,
					"path", r.URL.Path)
				ra.HandleServiceError(w, r, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
