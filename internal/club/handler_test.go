package club_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/frahmantamala/campus-ops/internal/auth"
	"github.com/frahmantamala/campus-ops/internal/auth/authtest"
	"github.com/frahmantamala/campus-ops/internal/club"
	clubPostgres "github.com/frahmantamala/campus-ops/internal/club/postgres"
	"github.com/frahmantamala/campus-ops/internal/core/datamodel/dbtest"
	"github.com/frahmantamala/campus-ops/internal/core/events/eventstest"
	"github.com/frahmantamala/campus-ops/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("Club Handler Integration", func() {
	var (
		db     *gorm.DB
		router *chi.Mux

		member, head, organizer, admin *auth.Actor
	)

	BeforeEach(func() {
		db = openClubDB()
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		members := authtest.NewMembershipStore()
		members.Set("member", "robotics", auth.ClubRoleMember)
		members.Set("head", "robotics", auth.ClubRoleHead)
		members.Set("organizer", "robotics", auth.ClubRoleOrganizer)
		resolver := auth.NewResolver(members)

		service := club.NewService(clubPostgres.NewClubRepository(db), resolver, &eventstest.Recorder{}, slogger)
		handler := club.NewHandler(transport.NewBaseHandler(slogger), service)

		member = authtest.Student("member")
		head = authtest.Student("head")
		organizer = authtest.Student("organizer")
		admin = authtest.Admin("admin")

		router = chi.NewRouter()
		router.Group(func(protected chi.Router) {
			protected.Use(authtest.Inject(member, head, organizer, admin))
			handler.Routes(protected, auth.NewRBACAuthorization(resolver, slogger).RequireAdmin(), resolver)
		})
	})

	AfterEach(func() {
		dbtest.Close(db)
	})

	do := func(method, path, body string, actor *auth.Actor) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		if actor != nil {
			req.Header.Set(authtest.ActorHeader, actor.ID)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	It("runs the organizer request scenario end to end", func() {
		rec := do(http.MethodPost, "/clubs/robotics/request-organizer", "", member)
		Expect(rec.Code).To(Equal(http.StatusCreated))
		var req club.RoleRequestResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &req)).To(Succeed())
		Expect(req.Status).To(Equal(club.StatePending))

		rec = do(http.MethodPost, "/clubs/robotics/request-organizer", "", member)
		Expect(rec.Code).To(Equal(http.StatusConflict))
		Expect(rec.Body.String()).To(MatchJSON(`{"error":"A role request is already pending."}`))

		rec = do(http.MethodPatch, "/clubs/robotics/role-requests/"+req.ID, `{"approve":true}`, head)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring(`"status":"APPROVED"`))
		Expect(storedRole(db, "member", "robotics")).To(Equal("ORGANIZER"))
	})

	It("guards the roster and the request queue by club role", func() {
		Expect(do(http.MethodGet, "/clubs/robotics/members", "", member).Code).To(Equal(http.StatusForbidden))
		Expect(do(http.MethodGet, "/clubs/robotics/members", "", organizer).Code).To(Equal(http.StatusOK))
		Expect(do(http.MethodGet, "/clubs/robotics/role-requests", "", organizer).Code).To(Equal(http.StatusForbidden))
		Expect(do(http.MethodGet, "/clubs/robotics/role-requests", "", head).Code).To(Equal(http.StatusOK))
		Expect(do(http.MethodGet, "/clubs/robotics/role-requests", "", admin).Code).To(Equal(http.StatusOK))
	})

	It("creates clubs for admins only", func() {
		Expect(do(http.MethodPost, "/clubs", `{"name":"Chess"}`, head).Code).To(Equal(http.StatusForbidden))
		Expect(do(http.MethodPost, "/clubs", `{"name":"Chess"}`, admin).Code).To(Equal(http.StatusCreated))
		Expect(do(http.MethodPost, "/clubs", `{"name":"Chess"}`, admin).Code).To(Equal(http.StatusConflict))
	})

	It("leaves and answers ok", func() {
		rec := do(http.MethodPost, "/clubs/robotics/leave", "", member)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(MatchJSON(`{"ok":true}`))
		Expect(do(http.MethodPost, "/clubs/robotics/leave", "", member).Code).To(Equal(http.StatusNotFound))
	})

	It("overrides a member role", func() {
		rec := do(http.MethodPatch, "/clubs/robotics/members/m-member/role", `{"clubRole":"ORGANIZER"}`, head)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(storedRole(db, "member", "robotics")).To(Equal("ORGANIZER"))

		rec = do(http.MethodPatch, "/clubs/robotics/members/m-member/role", `{"clubRole":"KING"}`, head)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})
})
