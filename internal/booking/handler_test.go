package booking_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/frahmantamala/campus-ops/internal/auth"
	"github.com/frahmantamala/campus-ops/internal/auth/authtest"
	"github.com/frahmantamala/campus-ops/internal/booking"
	bookingPostgres "github.com/frahmantamala/campus-ops/internal/booking/postgres"
	"github.com/frahmantamala/campus-ops/internal/core/datamodel/dbtest"
	"github.com/frahmantamala/campus-ops/internal/core/events/eventstest"
	"github.com/frahmantamala/campus-ops/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("Booking Handler Integration", func() {
	var (
		db     *gorm.DB
		router *chi.Mux
		alice  *auth.Actor
		admin  *auth.Actor
	)

	BeforeEach(func() {
		db = openBookingDB()
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		resolver := auth.NewResolver(authtest.NewMembershipStore())
		service := booking.NewService(bookingPostgres.NewBookingRepository(db), resolver, &eventstest.Recorder{}, slogger)
		handler := booking.NewHandler(transport.NewBaseHandler(slogger), service)

		alice = authtest.Student("alice")
		admin = authtest.Admin("admin")

		router = chi.NewRouter()
		router.Group(func(protected chi.Router) {
			protected.Use(authtest.Inject(alice, admin))
			handler.Routes(protected, auth.NewRBACAuthorization(resolver, slogger).RequireAdmin())
		})
	})

	AfterEach(func() {
		dbtest.Close(db)
	})

	do := func(method, path, body string, actor *auth.Actor) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(authtest.ActorHeader, actor.ID)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	It("creates a pending booking and answers 409 for an overlapping one", func() {
		rec := do(http.MethodPost, "/bookings", `{"eventId":"e1","resourceId":"hall","startTime":"2026-01-10T10:00:00Z","endTime":"2026-01-10T12:00:00Z"}`, alice)
		Expect(rec.Code).To(Equal(http.StatusCreated))
		Expect(rec.Body.String()).To(ContainSubstring(`"approved":false`))
		Expect(rec.Body.String()).To(ContainSubstring(`"status":"PENDING"`))

		rec = do(http.MethodPost, "/bookings", `{"eventId":"e1","resourceId":"hall","startTime":"2026-01-10T11:00:00Z","endTime":"2026-01-10T13:00:00Z"}`, alice)
		Expect(rec.Code).To(Equal(http.StatusConflict))
		Expect(rec.Body.String()).To(MatchJSON(`{"error":"Time slot conflict."}`))
	})

	It("keeps the review queue for admins", func() {
		Expect(do(http.MethodGet, "/bookings/pending", "", alice).Code).To(Equal(http.StatusForbidden))
		Expect(do(http.MethodGet, "/bookings/pending", "", admin).Code).To(Equal(http.StatusOK))
		Expect(do(http.MethodPost, "/bookings/x/review", `{"approve":true}`, alice).Code).To(Equal(http.StatusForbidden))
	})

	It("answers 404 when reviewing an unknown booking", func() {
		rec := do(http.MethodPost, "/bookings/missing/review", `{"approve":true}`, admin)
		Expect(rec.Code).To(Equal(http.StatusNotFound))
		Expect(rec.Body.String()).To(MatchJSON(`{"error":"Booking not found."}`))
	})

	It("answers 400 for an inactive resource", func() {
		rec := do(http.MethodPost, "/bookings", `{"eventId":"e1","resourceId":"closed","startTime":"2026-01-10T10:00:00Z","endTime":"2026-01-10T12:00:00Z"}`, alice)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(rec.Body.String()).To(MatchJSON(`{"error":"Resource is inactive."}`))
	})
})
