package event_test

import (
	"context"
	"log/slog"
	"os"
	"sort"
	"sync"
	"time"

	apperrors "github.com/frahmantamala/campus-ops/internal"
	"github.com/frahmantamala/campus-ops/internal/auth"
	"github.com/frahmantamala/campus-ops/internal/auth/authtest"
	eventDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/event"
	"github.com/frahmantamala/campus-ops/internal/core/events/eventstest"
	"github.com/frahmantamala/campus-ops/internal/event"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fakeEventRepository struct {
	mu     sync.Mutex
	events map[string]*eventDatamodel.Event
	clubs  map[string][]string
	known  map[string]bool

	// beforeUpdate runs ahead of every conditional update, standing in for
	// a concurrent writer.
	beforeUpdate func(id string)
}

func newFakeEventRepository(clubIDs ...string) *fakeEventRepository {
	known := map[string]bool{}
	for _, id := range clubIDs {
		known[id] = true
	}
	return &fakeEventRepository{
		events: map[string]*eventDatamodel.Event{},
		clubs:  map[string][]string{},
		known:  known,
	}
}

func (r *fakeEventRepository) Create(_ context.Context, e *eventDatamodel.Event, clubIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.CreatedAt = time.Now().UTC()
	e.UpdatedAt = e.CreatedAt
	cp := *e
	r.events[e.ID] = &cp
	r.clubs[e.ID] = append([]string(nil), clubIDs...)
	return nil
}

func (r *fakeEventRepository) GetByID(_ context.Context, id string) (*eventDatamodel.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return nil, event.ErrEventNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *fakeEventRepository) ClubIDs(_ context.Context, eventID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.clubs[eventID]...), nil
}

func (r *fakeEventRepository) CountClubs(_ context.Context, clubIDs []string) (int64, error) {
	var n int64
	for _, id := range clubIDs {
		if r.known[id] {
			n++
		}
	}
	return n, nil
}

func (r *fakeEventRepository) ListByCreator(_ context.Context, userID string) ([]*eventDatamodel.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*eventDatamodel.Event
	for _, e := range r.events {
		if e.CreatedByID == userID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeEventRepository) ListByStatus(_ context.Context, status string, _ bool) ([]*eventDatamodel.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*eventDatamodel.Event
	for _, e := range r.events {
		if e.Status == status {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (r *fakeEventRepository) UpdateStatus(_ context.Context, id, from, to string, reason *string) (bool, error) {
	if r.beforeUpdate != nil {
		r.beforeUpdate(id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok || e.Status != from {
		return false, nil
	}
	e.Status = to
	e.RejectionReason = reason
	return true, nil
}

func (r *fakeEventRepository) setStatus(id string, status event.Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[id].Status = string(status)
}

func (r *fakeEventRepository) status(id string) event.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return event.Status(r.events[id].Status)
}

func validCreateDTO(clubIDs ...string) event.CreateEventDTO {
	start := time.Date(2030, 3, 1, 9, 0, 0, 0, time.UTC)
	return event.CreateEventDTO{
		Title:       "Spring Hackathon",
		Description: "<p>Build things</p><script>alert(1)</script>",
		StartDate:   start,
		EndDate:     start.Add(8 * time.Hour),
		ClubIDs:     clubIDs,
	}
}

var _ = Describe("Service", func() {
	var (
		ctx       context.Context
		repo      *fakeEventRepository
		members   *authtest.MembershipStore
		effects   *eventstest.Recorder
		service   *event.Service
		organizer *auth.Actor
		outsider  *auth.Actor
		admin     *auth.Actor
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = newFakeEventRepository("club-1", "club-2")
		members = authtest.NewMembershipStore()
		effects = &eventstest.Recorder{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = event.NewService(repo, auth.NewResolver(members), effects, logger)

		organizer = authtest.Student("organizer")
		outsider = authtest.Student("outsider")
		admin = authtest.Admin("admin")
		members.Set(organizer.ID, "club-1", auth.ClubRoleOrganizer)
		members.Set(outsider.ID, "club-1", auth.ClubRoleMember)
	})

	create := func() *event.EventResponse {
		resp, err := service.Create(ctx, organizer, validCreateDTO("club-1"))
		Expect(err).NotTo(HaveOccurred())
		return resp
	}

	Describe("Create", func() {
		It("stores a sanitized DRAFT owned by the caller", func() {
			resp := create()
			Expect(resp.Status).To(Equal(event.StatusDraft))
			Expect(resp.CreatedByID).To(Equal(organizer.ID))
			Expect(resp.ClubIDs).To(Equal([]string{"club-1"}))
			Expect(resp.Description).To(Equal("<p>Build things</p>"))
		})

		It("refuses plain members", func() {
			_, err := service.Create(ctx, outsider, validCreateDTO("club-1"))
			Expect(err).To(MatchError(apperrors.ErrPermissionDenied))
		})

		It("accepts an organizer of any one of the listed clubs", func() {
			members.Set(organizer.ID, "club-2", auth.ClubRoleHead)
			members.Remove(organizer.ID, "club-1")
			_, err := service.Create(ctx, organizer, validCreateDTO("club-1", "club-2", "club-2"))
			Expect(err).NotTo(HaveOccurred())
		})

		It("reports unknown clubs as 404", func() {
			members.Set(organizer.ID, "club-9", auth.ClubRoleOrganizer)
			_, err := service.Create(ctx, organizer, validCreateDTO("club-1", "club-9"))
			Expect(err).To(MatchError(event.ErrClubNotFound))
		})

		It("validates dates and team sizes", func() {
			dto := validCreateDTO("club-1")
			dto.EndDate = dto.StartDate.Add(-time.Hour)
			minSize, maxSize := 5, 2
			dto.MinTeamSize, dto.MaxTeamSize = &minSize, &maxSize

			_, err := service.Create(ctx, organizer, dto)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("endDate must not be before startDate"))
			Expect(err.Error()).To(ContainSubstring("minTeamSize must not exceed maxTeamSize"))
		})

		It("requires at least one club id", func() {
			_, err := service.Create(ctx, organizer, validCreateDTO("", ""))
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("clubIds is required"))
		})
	})

	Describe("Submit and Publish", func() {
		It("lets only the owner or an admin submit", func() {
			e := create()
			_, err := service.Submit(ctx, outsider, e.ID)
			Expect(err).To(MatchError(apperrors.ErrPermissionDenied))

			resp, err := service.Submit(ctx, organizer, e.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Status).To(Equal(event.StatusSubmitted))
		})

		It("refuses to submit twice", func() {
			e := create()
			_, err := service.Submit(ctx, organizer, e.ID)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Submit(ctx, organizer, e.ID)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(Equal("Only DRAFT events can be submitted."))
		})

		It("publishes only approved events", func() {
			e := create()
			_, err := service.Publish(ctx, organizer, e.ID)
			Expect(err.Error()).To(Equal("Only APPROVED events can be published."))

			repo.setStatus(e.ID, event.StatusApproved)
			resp, err := service.Publish(ctx, admin, e.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Status).To(Equal(event.StatusPublished))
		})

		It("answers 404 for unknown events", func() {
			_, err := service.Submit(ctx, organizer, "missing")
			Expect(err).To(MatchError(event.ErrEventNotFound))
		})

		It("reports the fresh state when a concurrent writer wins", func() {
			e := create()
			repo.beforeUpdate = func(id string) { repo.setStatus(id, event.StatusSubmitted) }

			_, err := service.Submit(ctx, organizer, e.ID)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(Equal("Only DRAFT events can be submitted."))
		})
	})

	Describe("Review", func() {
		var submitted *event.EventResponse

		BeforeEach(func() {
			e := create()
			var err error
			submitted, err = service.Submit(ctx, organizer, e.ID)
			Expect(err).NotTo(HaveOccurred())
		})

		It("is admin only", func() {
			_, err := service.Review(ctx, organizer, submitted.ID, event.ReviewDTO{Approve: true})
			Expect(err).To(MatchError(apperrors.ErrPermissionDenied))
			Expect(repo.status(submitted.ID)).To(Equal(event.StatusSubmitted))
		})

		It("approves, notifies the creator and audits", func() {
			resp, err := service.Review(ctx, admin, submitted.ID, event.ReviewDTO{Approve: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Status).To(Equal(event.StatusApproved))

			Expect(effects.Notifications()).To(HaveLen(1))
			Expect(effects.Notifications()[0].UserID).To(Equal(organizer.ID))
			Expect(effects.Notifications()[0].Title).To(Equal("Event approved"))
			Expect(effects.Audits()).To(HaveLen(1))
			Expect(effects.Audits()[0].Action).To(Equal("EVENT_APPROVED"))
			Expect(effects.Audits()[0].EntityID).To(Equal(submitted.ID))
		})

		It("stores the trimmed reason on rejection", func() {
			resp, err := service.Review(ctx, admin, submitted.ID, event.ReviewDTO{Approve: false, Reason: "  budget too high  "})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Status).To(Equal(event.StatusRejected))
			Expect(*resp.RejectionReason).To(Equal("budget too high"))
			Expect(effects.Notifications()[0].Message).To(ContainSubstring("budget too high"))
			Expect(effects.Audits()[0].Metadata).To(HaveKeyWithValue("reason", "budget too high"))
		})

		DescribeTable("rejection without a usable reason leaves the event SUBMITTED",
			func(reason string) {
				_, err := service.Review(ctx, admin, submitted.ID, event.ReviewDTO{Approve: false, Reason: reason})
				appErr, ok := apperrors.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.StatusCode).To(Equal(400))
				Expect(repo.status(submitted.ID)).To(Equal(event.StatusSubmitted))
				Expect(effects.Notifications()).To(BeEmpty())
				Expect(effects.Audits()).To(BeEmpty())
			},
			Entry("empty", ""),
			Entry("whitespace", "   \t\n"),
		)

		It("refuses to review an event twice", func() {
			_, err := service.Review(ctx, admin, submitted.ID, event.ReviewDTO{Approve: true})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Review(ctx, admin, submitted.ID, event.ReviewDTO{Approve: false, Reason: "changed my mind"})
			Expect(err.Error()).To(Equal("Only SUBMITTED events can be reviewed."))
			Expect(repo.status(submitted.ID)).To(Equal(event.StatusApproved))
		})
	})

	Describe("Reads", func() {
		It("hides unpublished events from the public view", func() {
			e := create()
			_, err := service.GetPublic(ctx, e.ID)
			Expect(err).To(MatchError(event.ErrEventNotFound))

			repo.setStatus(e.ID, event.StatusPublished)
			resp, err := service.GetPublic(ctx, e.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.ID).To(Equal(e.ID))

			list, err := service.ListPublic(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))
		})

		It("restricts the detail view to the owner or an admin", func() {
			e := create()
			_, err := service.Get(ctx, outsider, e.ID)
			Expect(err).To(MatchError(apperrors.ErrPermissionDenied))
			_, err = service.Get(ctx, admin, e.ID)
			Expect(err).NotTo(HaveOccurred())
		})

		It("lists the caller's own events", func() {
			create()
			mine, err := service.ListMine(ctx, organizer)
			Expect(err).NotTo(HaveOccurred())
			Expect(mine).To(HaveLen(1))

			theirs, err := service.ListMine(ctx, outsider)
			Expect(err).NotTo(HaveOccurred())
			Expect(theirs).To(BeEmpty())
		})

		It("shows the review queue to admins only", func() {
			e := create()
			_, err := service.Submit(ctx, organizer, e.ID)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.ListSubmitted(ctx, organizer)
			Expect(err).To(MatchError(apperrors.ErrPermissionDenied))
			queue, err := service.ListSubmitted(ctx, admin)
			Expect(err).NotTo(HaveOccurred())
			Expect(queue).To(HaveLen(1))
		})
	})
})
