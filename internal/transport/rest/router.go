package rest

import (
	"github.com/frahmantamala/campus-ops/internal/analytics"
	"github.com/frahmantamala/campus-ops/internal/audit"
	"github.com/frahmantamala/campus-ops/internal/auth"
	"github.com/frahmantamala/campus-ops/internal/booking"
	"github.com/frahmantamala/campus-ops/internal/club"
	"github.com/frahmantamala/campus-ops/internal/event"
	"github.com/frahmantamala/campus-ops/internal/notification"
	"github.com/frahmantamala/campus-ops/internal/registration"
	"github.com/frahmantamala/campus-ops/internal/resource"
	"github.com/frahmantamala/campus-ops/internal/transport/middleware"
	"github.com/frahmantamala/campus-ops/internal/transport/swagger"
	"github.com/frahmantamala/campus-ops/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

const APIPrefix = "/api/v1"

// Handlers groups everything the router mounts. A nil handler leaves its
// routes out.
type Handlers struct {
	Health       *HealthHandler
	Auth         *auth.Handler
	User         *user.Handler
	Club         *club.Handler
	Event        *event.Handler
	Resource     *resource.Handler
	Booking      *booking.Handler
	Registration *registration.Handler
	Notification *notification.Handler
	Audit        *audit.Handler
	Analytics    *analytics.Handler
}

// Guards are the route-level checks shared by several modules.
type Guards struct {
	RBAC     *auth.RBACAuthorization
	Resolver *auth.Resolver
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, guards Guards, allowedOrigins []string) {
	router.Use(middleware.CORS(allowedOrigins))
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestID)
	router.Use(middleware.Recovery)
	router.Use(middleware.Logging)

	swagger.Mount(router)

	router.Route(APIPrefix, func(r chi.Router) {
		if h.Health != nil {
			h.Health.Routes(r)
		}

		if h.Auth != nil {
			r.Route("/auth", func(ar chi.Router) {
				ar.Post("/register", h.Auth.Register)
				ar.Post("/login", h.Auth.Login)
			})
		}

		if h.Auth == nil {
			return
		}

		adminOnly := guards.RBAC.RequireAdmin()

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			if h.Event != nil {
				// public event routes sit on r; the rest on the protected group
				h.Event.Routes(r, pr, adminOnly)
			}
			if h.User != nil {
				h.User.Routes(pr)
			}
			if h.Club != nil {
				h.Club.Routes(pr, adminOnly, guards.Resolver)
			}
			if h.Resource != nil {
				h.Resource.Routes(pr, adminOnly)
			}
			if h.Booking != nil {
				h.Booking.Routes(pr, adminOnly)
			}
			if h.Registration != nil {
				h.Registration.Routes(pr)
			}
			if h.Notification != nil {
				h.Notification.Routes(pr)
			}
			if h.Audit != nil {
				h.Audit.Routes(pr, adminOnly)
			}
			if h.Analytics != nil {
				h.Analytics.Routes(pr, adminOnly)
			}
		})
	})
}
