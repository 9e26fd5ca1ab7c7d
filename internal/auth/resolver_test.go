package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"

	apperrors "github.com/frahmantamala/campus-ops/internal"
	"github.com/go-chi/chi"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

type fakeMembershipStore struct {
	roles map[string]map[string]ClubRole // userID -> clubID -> role
	err   error
}

func (f *fakeMembershipStore) ClubRole(_ context.Context, userID, clubID string) (ClubRole, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.roles[userID][clubID], nil
}

func (f *fakeMembershipStore) ClubRoles(_ context.Context, userID string, clubIDs []string) (map[string]ClubRole, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := map[string]ClubRole{}
	for _, id := range clubIDs {
		if role, ok := f.roles[userID][id]; ok {
			out[id] = role
		}
	}
	return out, nil
}

var _ = ginkgo.Describe("Resolver", func() {
	var (
		store    *fakeMembershipStore
		resolver *Resolver
		ctx      context.Context
		admin    = &Actor{ID: "admin", GlobalRole: GlobalRoleAdmin}
		member   = &Actor{ID: "m", GlobalRole: GlobalRoleStudent}
		head     = &Actor{ID: "h", GlobalRole: GlobalRoleStudent}
		outsider = &Actor{ID: "o", GlobalRole: GlobalRoleStudent}
	)

	ginkgo.BeforeEach(func() {
		store = &fakeMembershipStore{roles: map[string]map[string]ClubRole{
			"m": {"robotics": ClubRoleMember},
			"h": {"robotics": ClubRoleHead, "chess": ClubRoleMember},
		}}
		resolver = NewResolver(store)
		ctx = context.Background()
	})

	ginkgo.Describe("CanAct", func() {
		ginkgo.It("admits any authenticated actor for an empty scope", func() {
			ok, err := resolver.CanAct(ctx, outsider, Scope{})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(ok).To(gomega.BeTrue())
		})

		ginkgo.It("never admits an anonymous caller", func() {
			ok, _ := resolver.CanAct(ctx, nil, Scope{})
			gomega.Expect(ok).To(gomega.BeFalse())
		})

		ginkgo.It("passes admins through club scopes without a membership", func() {
			ok, _ := resolver.CanAct(ctx, admin, Scope{ClubIDs: []string{"robotics"}, ClubRoles: []ClubRole{ClubRoleHead}})
			gomega.Expect(ok).To(gomega.BeTrue())
		})

		ginkgo.It("accepts either ownership or a club role", func() {
			scope := Scope{OwnerID: "m", ClubIDs: []string{"robotics"}, ClubRoles: []ClubRole{ClubRoleHead}}
			okMember, _ := resolver.CanAct(ctx, member, scope)
			okHead, _ := resolver.CanAct(ctx, head, scope)
			okOut, _ := resolver.CanAct(ctx, outsider, scope)
			gomega.Expect(okMember).To(gomega.BeTrue())
			gomega.Expect(okHead).To(gomega.BeTrue())
			gomega.Expect(okOut).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("RequireClubRole", func() {
		ginkgo.It("allows HEAD where HEAD is required", func() {
			gomega.Expect(resolver.RequireClubRole(ctx, head, "robotics", ClubRoleHead)).To(gomega.Succeed())
		})

		ginkgo.It("denies a MEMBER where ORGANIZER or HEAD is required", func() {
			err := resolver.RequireClubRole(ctx, member, "robotics", ClubRoleOrganizer, ClubRoleHead)
			gomega.Expect(err).To(gomega.Equal(apperrors.ErrPermissionDenied))
		})

		ginkgo.It("treats a missing membership as a denial", func() {
			err := resolver.RequireClubRole(ctx, outsider, "robotics", ClubRoleMember)
			gomega.Expect(err).To(gomega.Equal(apperrors.ErrPermissionDenied))
		})

		ginkgo.It("does not leak roles across clubs", func() {
			err := resolver.RequireClubRole(ctx, head, "chess", ClubRoleHead)
			gomega.Expect(err).To(gomega.Equal(apperrors.ErrPermissionDenied))
		})

		ginkgo.It("reports store failures as internal errors", func() {
			store.err = errors.New("connection reset")
			err := resolver.RequireClubRole(ctx, head, "robotics", ClubRoleHead)
			status, _ := apperrors.ToHTTPResponse(err)
			gomega.Expect(status).To(gomega.Equal(http.StatusInternalServerError))
		})
	})

	ginkgo.Describe("RequireAnyClubRole", func() {
		ginkgo.It("passes when one of several clubs grants the role", func() {
			gomega.Expect(resolver.RequireAnyClubRole(ctx, head, []string{"chess", "robotics"}, ClubRoleOrganizer, ClubRoleHead)).To(gomega.Succeed())
		})

		ginkgo.It("fails when none do", func() {
			err := resolver.RequireAnyClubRole(ctx, head, []string{"chess"}, ClubRoleOrganizer, ClubRoleHead)
			gomega.Expect(err).To(gomega.Equal(apperrors.ErrPermissionDenied))
		})
	})

	ginkgo.Describe("RequireAdmin", func() {
		ginkgo.It("admits admins and denies everyone else under the request context", func() {
			reqCtx, cancel := context.WithCancel(ctx)
			defer cancel()
			gomega.Expect(resolver.RequireAdmin(reqCtx, admin)).To(gomega.Succeed())
			gomega.Expect(resolver.RequireAdmin(reqCtx, head)).To(gomega.Equal(apperrors.ErrPermissionDenied))
			gomega.Expect(resolver.RequireAdmin(reqCtx, nil)).To(gomega.Equal(apperrors.ErrPermissionDenied))
		})

		ginkgo.It("falls back to the admin check when no club is named", func() {
			gomega.Expect(resolver.RequireAnyClubRole(ctx, head, nil, ClubRoleHead)).To(gomega.Equal(apperrors.ErrPermissionDenied))
			gomega.Expect(resolver.RequireAnyClubRole(ctx, admin, nil, ClubRoleHead)).To(gomega.Succeed())
		})
	})

	ginkgo.Describe("RequireOwnerOrAdmin", func() {
		ginkgo.It("allows the owner and admins only", func() {
			gomega.Expect(resolver.RequireOwnerOrAdmin(ctx, member, "m")).To(gomega.Succeed())
			gomega.Expect(resolver.RequireOwnerOrAdmin(ctx, admin, "m")).To(gomega.Succeed())
			gomega.Expect(resolver.RequireOwnerOrAdmin(ctx, outsider, "m")).To(gomega.Equal(apperrors.ErrPermissionDenied))
		})
	})

	ginkgo.Describe("RequireClubRoleParam", func() {
		serve := func(actor *Actor) *httptest.ResponseRecorder {
			r := chi.NewRouter()
			r.With(func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
					if actor != nil {
						req = req.WithContext(ContextWithActor(req.Context(), actor))
					}
					next.ServeHTTP(w, req)
				})
			}, resolver.RequireClubRoleParam("clubId", ClubRoleHead)).
				Get("/clubs/{clubId}/role-requests", func(w http.ResponseWriter, _ *http.Request) {
					w.WriteHeader(http.StatusNoContent)
				})

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/clubs/robotics/role-requests", nil))
			return rec
		}

		ginkgo.It("lets the club head through", func() {
			gomega.Expect(serve(head).Code).To(gomega.Equal(http.StatusNoContent))
		})

		ginkgo.It("answers 403 with the generic message otherwise", func() {
			rec := serve(member)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
			gomega.Expect(rec.Body.String()).To(gomega.MatchJSON(`{"error":"You don't have permission to perform this action."}`))
		})

		ginkgo.It("answers 401 without an actor", func() {
			gomega.Expect(serve(nil).Code).To(gomega.Equal(http.StatusUnauthorized))
		})
	})
})
