package booking_test

import (
	"context"
	"log/slog"
	"os"
	"strings"

	apperrors "github.com/frahmantamala/campus-ops/internal"
	"github.com/frahmantamala/campus-ops/internal/auth"
	"github.com/frahmantamala/campus-ops/internal/auth/authtest"
	"github.com/frahmantamala/campus-ops/internal/booking"
	bookingPostgres "github.com/frahmantamala/campus-ops/internal/booking/postgres"
	bookingDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/booking"
	"github.com/frahmantamala/campus-ops/internal/core/datamodel/dbtest"
	eventDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/event"
	resourceDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/resource"
	"github.com/frahmantamala/campus-ops/internal/core/events"
	"github.com/frahmantamala/campus-ops/internal/core/events/eventstest"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

func openBookingDB() *gorm.DB {
	db, err := dbtest.Open(&eventDatamodel.Event{}, &resourceDatamodel.Resource{}, &bookingDatamodel.Booking{})
	Expect(err).NotTo(HaveOccurred())

	Expect(db.Create(&[]eventDatamodel.Event{
		{ID: "e1", Title: "Robot Wars", StartDate: at(9), EndDate: at(18), Status: "APPROVED", CreatedByID: "alice"},
		{ID: "e2", Title: "Chess Open", StartDate: at(9), EndDate: at(18), Status: "APPROVED", CreatedByID: "bob"},
		{ID: "e3", Title: "Drama Night", StartDate: at(9), EndDate: at(18), Status: "APPROVED", CreatedByID: "bob"},
	}).Error).To(Succeed())
	Expect(db.Create(&[]resourceDatamodel.Resource{
		{ID: "hall", Name: "Main Hall", Type: "HALL", RequiresApproval: true, AutoApprove: false, Active: true},
		{ID: "lab", Name: "Lab 1", Type: "LAB", RequiresApproval: true, AutoApprove: true, Active: true},
		{ID: "room", Name: "Room 101", Type: "ROOM", RequiresApproval: false, AutoApprove: false, Active: true},
		{ID: "closed", Name: "Old Gym", Type: "HALL", RequiresApproval: false, AutoApprove: false, Active: false},
	}).Error).To(Succeed())
	return db
}

func countBookings(db *gorm.DB) int64 {
	var n int64
	Expect(db.Model(&bookingDatamodel.Booking{}).Count(&n).Error).To(Succeed())
	return n
}

var _ = Describe("Service", func() {
	var (
		ctx     context.Context
		db      *gorm.DB
		effects *eventstest.Recorder
		service *booking.Service

		alice, bob, admin *auth.Actor
	)

	BeforeEach(func() {
		ctx = context.Background()
		db = openBookingDB()
		effects = &eventstest.Recorder{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = booking.NewService(bookingPostgres.NewBookingRepository(db), auth.NewResolver(authtest.NewMembershipStore()), effects, logger)

		alice = authtest.Student("alice")
		bob = authtest.Student("bob")
		admin = authtest.Admin("admin")
	})

	AfterEach(func() {
		dbtest.Close(db)
	})

	book := func(actor *auth.Actor, eventID, resourceID string, s booking.Interval) (*booking.BookingResponse, error) {
		return service.Create(ctx, actor, booking.CreateBookingDTO{
			EventID:    eventID,
			ResourceID: resourceID,
			StartTime:  s.Start,
			EndTime:    s.End,
		})
	}

	Describe("Create", func() {
		It("refuses an overlapping slot and treats touching slots as overlapping", func() {
			_, err := book(alice, "e1", "room", slot(10, 12))
			Expect(err).NotTo(HaveOccurred())

			_, err = book(bob, "e2", "room", slot(11, 13))
			Expect(err).To(MatchError(booking.ErrTimeSlotConflict))

			_, err = book(bob, "e2", "room", slot(12, 13))
			Expect(err).To(MatchError(booking.ErrTimeSlotConflict))

			_, err = book(bob, "e2", "room", slot(13, 14))
			Expect(err).NotTo(HaveOccurred())
			Expect(countBookings(db)).To(Equal(int64(2)))
		})

		It("lets pending bookings block and rejected ones free the slot", func() {
			pending, err := book(alice, "e1", "hall", slot(10, 12))
			Expect(err).NotTo(HaveOccurred())
			Expect(pending.Approved).To(BeFalse())

			_, err = book(bob, "e2", "hall", slot(11, 13))
			Expect(err).To(MatchError(booking.ErrTimeSlotConflict))

			_, err = service.Review(ctx, admin, pending.ID, booking.ReviewDTO{Approve: false})
			Expect(err).NotTo(HaveOccurred())

			_, err = book(bob, "e2", "hall", slot(11, 13))
			Expect(err).NotTo(HaveOccurred())
		})

		DescribeTable("applies the resource approval policy",
			func(resourceID string, approved bool) {
				resp, err := book(alice, "e1", resourceID, slot(10, 12))
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.Approved).To(Equal(approved))
			},
			Entry("auto approve", "lab", true),
			Entry("approval not required", "room", true),
			Entry("manual review", "hall", false),
		)

		It("only lets the event creator or an admin book", func() {
			_, err := book(bob, "e1", "room", slot(10, 12))
			Expect(err).To(MatchError(apperrors.ErrPermissionDenied))

			_, err = book(admin, "e1", "room", slot(10, 12))
			Expect(err).NotTo(HaveOccurred())
		})

		It("reports missing events and resources as 404", func() {
			_, err := book(alice, "nope", "room", slot(10, 12))
			Expect(err).To(MatchError(booking.ErrEventNotFound))

			_, err = book(alice, "e1", "nope", slot(10, 12))
			Expect(err).To(MatchError(booking.ErrResourceNotFound))
		})

		It("refuses inactive resources", func() {
			_, err := book(alice, "e1", "closed", slot(10, 12))
			Expect(err).To(MatchError(booking.ErrResourceInactive))
			Expect(err.Error()).To(Equal("Resource is inactive."))
			Expect(countBookings(db)).To(BeZero())
		})

		It("validates the interval", func() {
			_, err := book(alice, "e1", "room", slot(12, 10))
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(Equal("endTime must not be before startTime"))

			_, err = service.Create(ctx, alice, booking.CreateBookingDTO{EventID: "e1"})
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})
	})

	Describe("Review", func() {
		It("runs the main hall scenario", func() {
			first, err := book(alice, "e1", "hall", slot(10, 12))
			Expect(err).NotTo(HaveOccurred())
			Expect(first.Approved).To(BeFalse())

			approved, err := service.Review(ctx, admin, first.ID, booking.ReviewDTO{Approve: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(approved.Approved).To(BeTrue())
			Expect(approved.RejectionReason).To(BeNil())

			Expect(effects.Notifications()).To(HaveLen(1))
			Expect(effects.Notifications()[0].UserID).To(Equal("alice"))
			Expect(effects.Notifications()[0].Category).To(Equal(events.CategoryBookings))
			Expect(effects.Audits()[0].Action).To(Equal("BOOKING_APPROVED"))

			_, err = book(bob, "e2", "hall", slot(11, 13))
			Expect(err).To(MatchError(booking.ErrTimeSlotConflict))
			Expect(countBookings(db)).To(Equal(int64(1)))
		})

		It("explains a rejection with the approved bookings it overlaps", func() {
			Expect(db.Create(&[]bookingDatamodel.Booking{
				{ID: "b-approved", ResourceID: "hall", EventID: "e1", StartTime: at(10), EndTime: at(12), Approved: true},
				{ID: "b-touching", ResourceID: "hall", EventID: "e3", StartTime: at(12), EndTime: at(14), Approved: true},
				{ID: "b-pending", ResourceID: "hall", EventID: "e2", StartTime: at(11), EndTime: at(12)},
			}).Error).To(Succeed())

			resp, err := service.Review(ctx, admin, "b-pending", booking.ReviewDTO{Approve: false, Reason: "Double booked"})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Rejected).To(BeTrue())
			Expect(*resp.RejectionReason).To(Equal("Double booked (Conflicts with: Robot Wars 2026-01-10 10:00–2026-01-10 12:00)"))
			Expect(effects.Notifications()[0].UserID).To(Equal("bob"))
			Expect(effects.Audits()[0].Action).To(Equal("BOOKING_REJECTED"))
		})

		It("defaults the reason when nothing explains the rejection", func() {
			Expect(db.Create(&bookingDatamodel.Booking{ID: "b1", ResourceID: "hall", EventID: "e1", StartTime: at(10), EndTime: at(12)}).Error).To(Succeed())

			resp, err := service.Review(ctx, admin, "b1", booking.ReviewDTO{Approve: false})
			Expect(err).NotTo(HaveOccurred())
			Expect(*resp.RejectionReason).To(Equal("Not specified"))
		})

		It("refuses to re-approve a rejected booking over the one that took its slot", func() {
			first, err := book(alice, "e1", "hall", slot(10, 12))
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Review(ctx, admin, first.ID, booking.ReviewDTO{Approve: false, Reason: "Hall closed"})
			Expect(err).NotTo(HaveOccurred())

			second, err := book(bob, "e2", "hall", slot(10, 12))
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Review(ctx, admin, second.ID, booking.ReviewDTO{Approve: true})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Review(ctx, admin, first.ID, booking.ReviewDTO{Approve: true})
			Expect(err).To(MatchError(booking.ErrTimeSlotConflict))

			var approved int64
			Expect(db.Model(&bookingDatamodel.Booking{}).
				Where("resource_id = ? AND approved = ?", "hall", true).
				Count(&approved).Error).To(Succeed())
			Expect(approved).To(Equal(int64(1)))

			var stored bookingDatamodel.Booking
			Expect(db.First(&stored, "id = ?", first.ID).Error).To(Succeed())
			Expect(stored.Rejected).To(BeTrue())
			Expect(*stored.RejectionReason).To(Equal("Hall closed"))
		})

		It("refuses an approval that only touches an approved booking", func() {
			Expect(db.Create(&[]bookingDatamodel.Booking{
				{ID: "b-approved", ResourceID: "hall", EventID: "e1", StartTime: at(10), EndTime: at(12), Approved: true},
				{ID: "b-rejected", ResourceID: "hall", EventID: "e2", StartTime: at(12), EndTime: at(13), Rejected: true},
			}).Error).To(Succeed())

			_, err := service.Review(ctx, admin, "b-rejected", booking.ReviewDTO{Approve: true})
			Expect(err).To(MatchError(booking.ErrTimeSlotConflict))
			Expect(effects.Notifications()).To(BeEmpty())
		})

		It("bounds the free-text reason", func() {
			Expect(db.Create(&bookingDatamodel.Booking{ID: "b1", ResourceID: "hall", EventID: "e1", StartTime: at(10), EndTime: at(12)}).Error).To(Succeed())

			_, err := service.Review(ctx, admin, "b1", booking.ReviewDTO{Approve: false, Reason: strings.Repeat("x", 1001)})
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
			Expect(appErr.GetDetailedMessage()).To(Equal("reason must not exceed 1000 characters"))

			var stored bookingDatamodel.Booking
			Expect(db.First(&stored, "id = ?", "b1").Error).To(Succeed())
			Expect(stored.Rejected).To(BeFalse())
		})

		It("is admin only and reports unknown bookings", func() {
			_, err := service.Review(ctx, alice, "b1", booking.ReviewDTO{Approve: true})
			Expect(err).To(MatchError(apperrors.ErrPermissionDenied))

			_, err = service.Review(ctx, admin, "missing", booking.ReviewDTO{Approve: true})
			Expect(err).To(MatchError(booking.ErrBookingNotFound))
		})
	})

	Describe("lists", func() {
		It("shows admins the pending queue with titles and names", func() {
			_, err := book(alice, "e1", "hall", slot(10, 12))
			Expect(err).NotTo(HaveOccurred())
			_, err = book(alice, "e1", "room", slot(10, 12))
			Expect(err).NotTo(HaveOccurred())

			_, err = service.ListPending(ctx, alice)
			Expect(err).To(MatchError(apperrors.ErrPermissionDenied))

			pending, err := service.ListPending(ctx, admin)
			Expect(err).NotTo(HaveOccurred())
			Expect(pending).To(HaveLen(1))
			Expect(pending[0].EventTitle).To(Equal("Robot Wars"))
			Expect(pending[0].ResourceName).To(Equal("Main Hall"))
			Expect(pending[0].Status).To(Equal("PENDING"))
		})

		It("lists bookings of the caller's events", func() {
			_, err := book(alice, "e1", "room", slot(10, 12))
			Expect(err).NotTo(HaveOccurred())

			mine, err := service.ListMine(ctx, alice)
			Expect(err).NotTo(HaveOccurred())
			Expect(mine).To(HaveLen(1))

			theirs, err := service.ListMine(ctx, bob)
			Expect(err).NotTo(HaveOccurred())
			Expect(theirs).To(BeEmpty())
		})
	})
})
