package auth

import (
	"context"
	"net/http"
	"slices"

	errors "github.com/frahmantamala/campus-ops/internal"
	"github.com/frahmantamala/campus-ops/internal/transport"
	"github.com/go-chi/chi"
)

// MembershipStore answers club-role lookups for the resolver.
type MembershipStore interface {
	// ClubRole returns "" when the user has no membership in the club.
	ClubRole(ctx context.Context, userID, clubID string) (ClubRole, error)
	ClubRoles(ctx context.Context, userID string, clubIDs []string) (map[string]ClubRole, error)
}

// Scope describes what an operation requires of its caller. A zero Scope
// admits any authenticated actor. Admins pass every scope.
type Scope struct {
	AdminOnly bool
	OwnerID   string
	ClubIDs   []string
	ClubRoles []ClubRole
}

type Resolver struct {
	store MembershipStore
}

func NewResolver(store MembershipStore) *Resolver {
	return &Resolver{store: store}
}

// CanAct reports whether actor satisfies scope. Owner and club checks are
// alternatives: matching either one is enough.
func (r *Resolver) CanAct(ctx context.Context, actor *Actor, scope Scope) (bool, error) {
	if actor == nil {
		return false, nil
	}
	if actor.IsAdmin() {
		return true, nil
	}
	if scope.AdminOnly {
		return false, nil
	}

	checked := false
	if scope.OwnerID != "" {
		checked = true
		if actor.ID == scope.OwnerID {
			return true, nil
		}
	}

	if len(scope.ClubIDs) > 0 {
		checked = true
		roles, err := r.store.ClubRoles(ctx, actor.ID, scope.ClubIDs)
		if err != nil {
			return false, err
		}
		for _, clubID := range scope.ClubIDs {
			if role, ok := roles[clubID]; ok && slices.Contains(scope.ClubRoles, role) {
				return true, nil
			}
		}
	}

	return !checked, nil
}

func (r *Resolver) require(ctx context.Context, actor *Actor, scope Scope) error {
	ok, err := r.CanAct(ctx, actor, scope)
	if err != nil {
		return errors.NewInternalError("failed to resolve permissions", err)
	}
	if !ok {
		return errors.ErrPermissionDenied
	}
	return nil
}

func (r *Resolver) RequireAdmin(ctx context.Context, actor *Actor) error {
	return r.require(ctx, actor, Scope{AdminOnly: true})
}

func (r *Resolver) RequireOwnerOrAdmin(ctx context.Context, actor *Actor, ownerID string) error {
	if ownerID == "" && !actor.IsAdmin() {
		return errors.ErrPermissionDenied
	}
	return r.require(ctx, actor, Scope{OwnerID: ownerID})
}

// RequireClubRole passes admins and members of clubID holding one of allowed.
func (r *Resolver) RequireClubRole(ctx context.Context, actor *Actor, clubID string, allowed ...ClubRole) error {
	return r.require(ctx, actor, Scope{ClubIDs: []string{clubID}, ClubRoles: allowed})
}

// RequireAnyClubRole passes when at least one of clubIDs grants an allowed role.
func (r *Resolver) RequireAnyClubRole(ctx context.Context, actor *Actor, clubIDs []string, allowed ...ClubRole) error {
	if len(clubIDs) == 0 {
		return r.RequireAdmin(ctx, actor)
	}
	return r.require(ctx, actor, Scope{ClubIDs: clubIDs, ClubRoles: allowed})
}

// ClubRoleOf returns the actor's role in clubID, or "" without a membership.
func (r *Resolver) ClubRoleOf(ctx context.Context, actor *Actor, clubID string) (ClubRole, error) {
	if actor == nil {
		return "", nil
	}
	return r.store.ClubRole(ctx, actor.ID, clubID)
}

// RequireClubRoleParam guards a route whose club id sits in the URL parameter
// param.
func (r *Resolver) RequireClubRoleParam(param string, allowed ...ClubRole) func(http.Handler) http.Handler {
	base := transport.NewBaseHandler(nil)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			actor, ok := ActorFromContext(req.Context())
			if !ok {
				base.HandleServiceError(w, req, ErrMissingToken)
				return
			}
			clubID := chi.URLParam(req, param)
			if err := r.RequireClubRole(req.Context(), actor, clubID, allowed...); err != nil {
				base.HandleServiceError(w, req, err)
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}
