package event_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/frahmantamala/campus-ops/internal/auth"
	"github.com/frahmantamala/campus-ops/internal/auth/authtest"
	clubDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/club"
	"github.com/frahmantamala/campus-ops/internal/core/datamodel/dbtest"
	eventDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/event"
	"github.com/frahmantamala/campus-ops/internal/core/events/eventstest"
	"github.com/frahmantamala/campus-ops/internal/event"
	eventPostgres "github.com/frahmantamala/campus-ops/internal/event/postgres"
	"github.com/frahmantamala/campus-ops/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("Event Handler Integration", func() {
	var (
		db        *gorm.DB
		router    *chi.Mux
		organizer *auth.Actor
		member    *auth.Actor
		admin     *auth.Actor
	)

	BeforeEach(func() {
		var err error
		db, err = dbtest.Open(&clubDatamodel.Club{}, &eventDatamodel.Event{}, &eventDatamodel.EventClub{})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.Create(&clubDatamodel.Club{ID: "club-1", Name: "Robotics"}).Error).To(Succeed())

		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		members := authtest.NewMembershipStore()
		organizer = authtest.Student("organizer")
		member = authtest.Student("member")
		admin = authtest.Admin("admin")
		members.Set(organizer.ID, "club-1", auth.ClubRoleOrganizer)
		members.Set(member.ID, "club-1", auth.ClubRoleMember)

		resolver := auth.NewResolver(members)
		service := event.NewService(eventPostgres.NewEventRepository(db), resolver, &eventstest.Recorder{}, slogger)
		handler := event.NewHandler(transport.NewBaseHandler(slogger), service)
		rbac := auth.NewRBACAuthorization(resolver, slogger)

		router = chi.NewRouter()
		router.Group(func(protected chi.Router) {
			protected.Use(authtest.Inject(organizer, member, admin))
			handler.Routes(router, protected, rbac.RequireAdmin())
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

	createEvent := func() event.EventResponse {
		rec := do(http.MethodPost, "/events", `{
			"title": "Robot Wars",
			"description": "Bring a robot",
			"startDate": "2030-05-01T09:00:00Z",
			"endDate": "2030-05-01T17:00:00Z",
			"clubIds": ["club-1"]
		}`, organizer)
		Expect(rec.Code).To(Equal(http.StatusCreated), rec.Body.String())
		var resp event.EventResponse
		Expect(json.NewDecoder(rec.Body).Decode(&resp)).To(Succeed())
		return resp
	}

	It("walks an event from draft to published", func() {
		e := createEvent()
		Expect(e.Status).To(Equal(event.StatusDraft))

		Expect(do(http.MethodPost, "/events/"+e.ID+"/submit", "", organizer).Code).To(Equal(http.StatusOK))
		Expect(do(http.MethodPost, "/events/"+e.ID+"/review", `{"approve":true}`, admin).Code).To(Equal(http.StatusOK))

		rec := do(http.MethodPost, "/events/"+e.ID+"/publish", "", organizer)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring(`"status":"PUBLISHED"`))

		rec = do(http.MethodGet, "/events/public/"+e.ID, "", nil)
		Expect(rec.Code).To(Equal(http.StatusOK))
		rec = do(http.MethodGet, "/events/public", "", nil)
		Expect(rec.Body.String()).To(ContainSubstring(e.ID))
	})

	It("answers 400 with the required source state on an invalid transition", func() {
		e := createEvent()
		rec := do(http.MethodPost, "/events/"+e.ID+"/publish", "", organizer)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(rec.Body.String()).To(MatchJSON(`{"error":"Only APPROVED events can be published."}`))
	})

	It("requires a reason to reject", func() {
		e := createEvent()
		Expect(do(http.MethodPost, "/events/"+e.ID+"/submit", "", organizer).Code).To(Equal(http.StatusOK))

		rec := do(http.MethodPost, "/events/"+e.ID+"/review", `{"approve":false,"reason":"  "}`, admin)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(rec.Body.String()).To(MatchJSON(`{"error":"reason is required"}`))

		var stored eventDatamodel.Event
		Expect(db.First(&stored, "id = ?", e.ID).Error).To(Succeed())
		Expect(stored.Status).To(Equal(string(event.StatusSubmitted)))
	})

	It("guards the review endpoints with the admin role", func() {
		e := createEvent()
		Expect(do(http.MethodGet, "/events/admin/submitted", "", organizer).Code).To(Equal(http.StatusForbidden))
		Expect(do(http.MethodPost, "/events/"+e.ID+"/review", `{"approve":true}`, organizer).Code).To(Equal(http.StatusForbidden))
		Expect(do(http.MethodGet, "/events/admin/submitted", "", admin).Code).To(Equal(http.StatusOK))
	})

	It("keeps drafts out of the public view", func() {
		e := createEvent()
		rec := do(http.MethodGet, "/events/public/"+e.ID, "", nil)
		Expect(rec.Code).To(Equal(http.StatusNotFound))
		Expect(rec.Body.String()).To(MatchJSON(`{"error":"Event not found."}`))
	})

	It("answers 401 on protected routes without a caller", func() {
		Expect(do(http.MethodGet, "/events", "", nil).Code).To(Equal(http.StatusUnauthorized))
	})

	It("answers 403 when a plain member creates an event", func() {
		rec := do(http.MethodPost, "/events", `{"title":"x","startDate":"2030-05-01T09:00:00Z","endDate":"2030-05-01T10:00:00Z","clubIds":["club-1"]}`, member)
		Expect(rec.Code).To(Equal(http.StatusForbidden))
	})

	It("lets the owner read a draft and hides it from others", func() {
		e := createEvent()
		Expect(do(http.MethodGet, "/events/"+e.ID, "", organizer).Code).To(Equal(http.StatusOK))
		Expect(do(http.MethodGet, "/events/"+e.ID, "", member).Code).To(Equal(http.StatusForbidden))

		rec := do(http.MethodGet, "/events", "", organizer)
		var mine []event.EventResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &mine)).To(Succeed())
		Expect(mine).To(HaveLen(1))
	})
})
