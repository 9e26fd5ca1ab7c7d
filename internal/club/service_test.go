package club_test

import (
	"context"
	"log/slog"
	"os"

	apperrors "github.com/frahmantamala/campus-ops/internal"
	"github.com/frahmantamala/campus-ops/internal/auth"
	"github.com/frahmantamala/campus-ops/internal/auth/authtest"
	"github.com/frahmantamala/campus-ops/internal/club"
	clubPostgres "github.com/frahmantamala/campus-ops/internal/club/postgres"
	clubDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/club"
	"github.com/frahmantamala/campus-ops/internal/core/datamodel/dbtest"
	userDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/user"
	"github.com/frahmantamala/campus-ops/internal/core/events"
	"github.com/frahmantamala/campus-ops/internal/core/events/eventstest"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

func openClubDB() *gorm.DB {
	db, err := dbtest.Open(&userDatamodel.User{}, &clubDatamodel.Club{}, &clubDatamodel.Membership{}, &clubDatamodel.RoleRequest{})
	Expect(err).NotTo(HaveOccurred())

	Expect(db.Create(&[]userDatamodel.User{
		{ID: "member", Email: "m@campus.edu", Name: "Mia", PasswordHash: "x", GlobalRole: "STUDENT"},
		{ID: "head", Email: "h@campus.edu", Name: "Hal", PasswordHash: "x", GlobalRole: "STUDENT"},
		{ID: "organizer", Email: "o@campus.edu", Name: "Oda", PasswordHash: "x", GlobalRole: "STUDENT"},
		{ID: "admin", Email: "a@campus.edu", Name: "Ada", PasswordHash: "x", GlobalRole: "ADMIN"},
	}).Error).To(Succeed())
	Expect(db.Create(&clubDatamodel.Club{ID: "robotics", Name: "Robotics"}).Error).To(Succeed())
	Expect(db.Create(&[]clubDatamodel.Membership{
		{ID: "m-member", UserID: "member", ClubID: "robotics", ClubRole: "MEMBER"},
		{ID: "m-head", UserID: "head", ClubID: "robotics", ClubRole: "HEAD"},
		{ID: "m-organizer", UserID: "organizer", ClubID: "robotics", ClubRole: "ORGANIZER"},
	}).Error).To(Succeed())
	return db
}

func storedRole(db *gorm.DB, userID, clubID string) string {
	var m clubDatamodel.Membership
	Expect(db.Where("user_id = ? AND club_id = ?", userID, clubID).First(&m).Error).To(Succeed())
	return m.ClubRole
}

var _ = Describe("Service", func() {
	var (
		ctx     context.Context
		db      *gorm.DB
		effects *eventstest.Recorder
		service *club.Service

		member, head, organizer, admin, stranger *auth.Actor
	)

	BeforeEach(func() {
		ctx = context.Background()
		db = openClubDB()

		members := authtest.NewMembershipStore()
		members.Set("member", "robotics", auth.ClubRoleMember)
		members.Set("head", "robotics", auth.ClubRoleHead)
		members.Set("organizer", "robotics", auth.ClubRoleOrganizer)

		effects = &eventstest.Recorder{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = club.NewService(clubPostgres.NewClubRepository(db), auth.NewResolver(members), effects, logger)

		member = authtest.Student("member")
		head = authtest.Student("head")
		organizer = authtest.Student("organizer")
		admin = authtest.Admin("admin")
		stranger = authtest.Student("stranger")
	})

	AfterEach(func() {
		dbtest.Close(db)
	})

	Describe("clubs and memberships", func() {
		It("lets only admins create clubs and rejects duplicate names", func() {
			_, err := service.Create(ctx, head, club.CreateClubDTO{Name: "Chess"})
			Expect(err).To(MatchError(apperrors.ErrPermissionDenied))

			resp, err := service.Create(ctx, admin, club.CreateClubDTO{Name: "  Chess ", Description: "<b>moves</b><script>x</script>"})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Name).To(Equal("Chess"))
			Expect(resp.Description).To(Equal("<b>moves</b>"))

			_, err = service.Create(ctx, admin, club.CreateClubDTO{Name: "Chess"})
			Expect(err).To(MatchError(club.ErrClubNameTaken))

			_, err = service.Create(ctx, admin, club.CreateClubDTO{Name: "   "})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(Equal("name is required"))
		})

		It("lists clubs by name", func() {
			Expect(db.Create(&clubDatamodel.Club{ID: "art", Name: "Art"}).Error).To(Succeed())
			list, err := service.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(2))
			Expect(list[0].Name).To(Equal("Art"))
		})

		It("joins idempotently", func() {
			first, err := service.Join(ctx, stranger, "robotics")
			Expect(err).NotTo(HaveOccurred())
			Expect(first.ClubRole).To(Equal(auth.ClubRoleMember))

			second, err := service.Join(ctx, stranger, "robotics")
			Expect(err).NotTo(HaveOccurred())
			Expect(second.ID).To(Equal(first.ID))

			again, err := service.Join(ctx, head, "robotics")
			Expect(err).NotTo(HaveOccurred())
			Expect(again.ClubRole).To(Equal(auth.ClubRoleHead))
		})

		It("answers 404 when joining a missing club", func() {
			_, err := service.Join(ctx, stranger, "nope")
			Expect(err).To(MatchError(club.ErrClubNotFound))
		})

		It("leaves a club and reports a missing membership", func() {
			Expect(service.Leave(ctx, member, "robotics")).To(Succeed())
			Expect(service.Leave(ctx, member, "robotics")).To(MatchError(club.ErrMembershipNotFound))
		})

		It("lists the caller's memberships with their clubs", func() {
			mine, err := service.ListMine(ctx, head)
			Expect(err).NotTo(HaveOccurred())
			Expect(mine).To(HaveLen(1))
			Expect(mine[0].Club.Name).To(Equal("Robotics"))
		})

		It("lists the roster with names and emails", func() {
			roster, err := service.ListMembers(ctx, "robotics")
			Expect(err).NotTo(HaveOccurred())
			Expect(roster).To(HaveLen(3))
			Expect(roster[0].Name).To(Equal("Hal"))
			Expect(roster[0].Email).To(Equal("h@campus.edu"))
		})
	})

	Describe("organizer requests", func() {
		It("accepts only plain members", func() {
			_, err := service.RequestOrganizer(ctx, organizer, "robotics")
			Expect(err).To(MatchError(apperrors.ErrPermissionDenied))

			_, err = service.RequestOrganizer(ctx, stranger, "robotics")
			Expect(err).To(MatchError(apperrors.ErrPermissionDenied))

			_, err = service.RequestOrganizer(ctx, member, "nope")
			Expect(err).To(MatchError(club.ErrClubNotFound))
		})

		It("refuses a second request while the first is pending and reopens after rejection", func() {
			first, err := service.RequestOrganizer(ctx, member, "robotics")
			Expect(err).NotTo(HaveOccurred())
			Expect(first.Status).To(Equal(club.StatePending))
			Expect(first.RequestedRole).To(Equal(auth.ClubRoleOrganizer))

			_, err = service.RequestOrganizer(ctx, member, "robotics")
			Expect(err).To(MatchError(club.ErrRoleRequestPending))
			appErr, _ := apperrors.IsAppError(err)
			Expect(appErr.StatusCode).To(Equal(409))

			rejected, err := service.ReviewRoleRequest(ctx, head, "robotics", first.ID, club.ReviewRoleRequestDTO{Approve: false})
			Expect(err).NotTo(HaveOccurred())
			Expect(rejected.Status).To(Equal(club.StateRejected))
			Expect(rejected.ReviewedAt).NotTo(BeNil())

			third, err := service.RequestOrganizer(ctx, member, "robotics")
			Expect(err).NotTo(HaveOccurred())
			Expect(third.ID).To(Equal(first.ID))
			Expect(third.Status).To(Equal(club.StatePending))

			var stored clubDatamodel.RoleRequest
			Expect(db.First(&stored, "id = ?", first.ID).Error).To(Succeed())
			Expect(stored.Status).To(Equal("PENDING"))
			Expect(stored.ReviewedAt).To(BeNil())
			Expect(stored.ReviewedByID).To(BeNil())
		})

		It("promotes the member when a head approves", func() {
			req, err := service.RequestOrganizer(ctx, member, "robotics")
			Expect(err).NotTo(HaveOccurred())

			queue, err := service.ListRoleRequests(ctx, "robotics")
			Expect(err).NotTo(HaveOccurred())
			Expect(queue).To(HaveLen(1))
			Expect(queue[0].User.Name).To(Equal("Mia"))

			approved, err := service.ReviewRoleRequest(ctx, head, "robotics", req.ID, club.ReviewRoleRequestDTO{Approve: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(approved.Status).To(Equal(club.StateApproved))
			Expect(approved.ReviewedAt).NotTo(BeNil())
			Expect(*approved.ReviewedByID).To(Equal("head"))
			Expect(storedRole(db, "member", "robotics")).To(Equal("ORGANIZER"))

			Expect(effects.Notifications()).To(HaveLen(1))
			Expect(effects.Notifications()[0].UserID).To(Equal("member"))
			Expect(effects.Notifications()[0].Category).To(Equal(events.CategorySystem))
			Expect(effects.Audits()[0].Action).To(Equal("ROLE_REQUEST_APPROVED"))

			_, err = service.RequestOrganizer(ctx, member, "robotics")
			Expect(err).To(MatchError(apperrors.ErrPermissionDenied))
		})

		It("leaves the membership alone on rejection", func() {
			req, err := service.RequestOrganizer(ctx, member, "robotics")
			Expect(err).NotTo(HaveOccurred())

			_, err = service.ReviewRoleRequest(ctx, admin, "robotics", req.ID, club.ReviewRoleRequestDTO{Approve: false})
			Expect(err).NotTo(HaveOccurred())
			Expect(storedRole(db, "member", "robotics")).To(Equal("MEMBER"))
			Expect(effects.Audits()[0].Action).To(Equal("ROLE_REQUEST_REJECTED"))
		})

		It("refuses reviewers who are not head or admin", func() {
			req, err := service.RequestOrganizer(ctx, member, "robotics")
			Expect(err).NotTo(HaveOccurred())

			_, err = service.ReviewRoleRequest(ctx, organizer, "robotics", req.ID, club.ReviewRoleRequestDTO{Approve: true})
			Expect(err).To(MatchError(apperrors.ErrPermissionDenied))
			Expect(storedRole(db, "member", "robotics")).To(Equal("MEMBER"))
		})

		It("refuses to review twice or across clubs", func() {
			req, err := service.RequestOrganizer(ctx, member, "robotics")
			Expect(err).NotTo(HaveOccurred())

			_, err = service.ReviewRoleRequest(ctx, admin, "chess", req.ID, club.ReviewRoleRequestDTO{Approve: true})
			Expect(err).To(MatchError(club.ErrRoleRequestNotFound))

			_, err = service.ReviewRoleRequest(ctx, head, "robotics", req.ID, club.ReviewRoleRequestDTO{Approve: true})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.ReviewRoleRequest(ctx, head, "robotics", req.ID, club.ReviewRoleRequestDTO{Approve: false})
			Expect(err).To(MatchError(club.ErrRoleRequestReviewed))
			Expect(storedRole(db, "member", "robotics")).To(Equal("ORGANIZER"))
		})
	})

	Describe("role override", func() {
		It("changes the role and audits from and to", func() {
			resp, err := service.ChangeMemberRole(ctx, head, "robotics", "m-member", club.ChangeRoleDTO{ClubRole: "head"})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.ClubRole).To(Equal(auth.ClubRoleHead))
			Expect(storedRole(db, "member", "robotics")).To(Equal("HEAD"))

			Expect(effects.Audits()).To(HaveLen(1))
			Expect(effects.Audits()[0].Action).To(Equal("MEMBER_ROLE_CHANGED"))
			Expect(effects.Audits()[0].Metadata).To(Equal(map[string]interface{}{"from": "MEMBER", "to": "HEAD"}))
		})

		It("validates the role", func() {
			_, err := service.ChangeMemberRole(ctx, head, "robotics", "m-member", club.ChangeRoleDTO{ClubRole: "OWNER"})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(Equal("clubRole must be one of MEMBER, ORGANIZER, HEAD"))
		})

		It("answers 404 for a membership of another club", func() {
			_, err := service.ChangeMemberRole(ctx, admin, "chess", "m-member", club.ChangeRoleDTO{ClubRole: "HEAD"})
			Expect(err).To(MatchError(club.ErrMembershipNotFound))
		})

		It("is limited to heads and admins", func() {
			_, err := service.ChangeMemberRole(ctx, organizer, "robotics", "m-member", club.ChangeRoleDTO{ClubRole: "HEAD"})
			Expect(err).To(MatchError(apperrors.ErrPermissionDenied))
		})
	})
})
