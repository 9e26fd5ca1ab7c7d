package club

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	errors "github.com/frahmantamala/campus-ops/internal"
	"github.com/frahmantamala/campus-ops/internal/auth"
	"github.com/frahmantamala/campus-ops/internal/core/common/sanitize"
	clubDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/club"
	"github.com/frahmantamala/campus-ops/internal/core/events"
	"github.com/google/uuid"
)

var (
	ErrClubNotFound        = errors.NewNotFoundError("Club not found.", errors.ErrCodeClubNotFound)
	ErrClubNameTaken       = errors.NewConflictError("A club with this name already exists.", errors.ErrCodeClubNameTaken)
	ErrMembershipNotFound  = errors.NewNotFoundError("Membership not found.", errors.ErrCodeMembershipNotFound)
	ErrRoleRequestNotFound = errors.NewNotFoundError("Role request not found.", errors.ErrCodeRoleRequestNotFound)
	ErrRoleRequestPending  = errors.NewConflictError("A role request is already pending.", errors.ErrCodeRoleRequestPending)
	ErrRoleAlreadyGranted  = errors.NewConflictError("The requested role has already been granted.", errors.ErrCodeRoleAlreadyGranted)
	ErrRoleRequestReviewed = errors.NewConflictError("Role request has already been reviewed.", errors.ErrCodeRoleRequestReviewed)
)

type RepositoryAPI interface {
	ListClubs(ctx context.Context) ([]*clubDatamodel.Club, error)
	CreateClub(ctx context.Context, c *clubDatamodel.Club) error
	GetClub(ctx context.Context, id string) (*clubDatamodel.Club, error)

	ListMembershipsByUser(ctx context.Context, userID string) ([]*clubDatamodel.MembershipWithClub, error)
	GetMembership(ctx context.Context, userID, clubID string) (*clubDatamodel.Membership, error)
	GetMembershipByID(ctx context.Context, id string) (*clubDatamodel.Membership, error)
	// CreateMembership inserts m unless (user, club) already exists and
	// returns whichever row is stored.
	CreateMembership(ctx context.Context, m *clubDatamodel.Membership) (*clubDatamodel.Membership, error)
	DeleteMembership(ctx context.Context, id string) error
	ListMembers(ctx context.Context, clubID string) ([]*clubDatamodel.MemberRow, error)
	UpdateMembershipRole(ctx context.Context, id, role string) error

	GetRoleRequest(ctx context.Context, userID, clubID string) (*clubDatamodel.RoleRequest, error)
	GetRoleRequestByID(ctx context.Context, id string) (*clubDatamodel.RoleRequest, error)
	// OpenRoleRequest inserts req, or resets the stored row when it is still
	// in prev. It reports false when another writer got there first.
	OpenRoleRequest(ctx context.Context, req *clubDatamodel.RoleRequest, prev string) (bool, error)
	ListPendingRoleRequests(ctx context.Context, clubID string) ([]*clubDatamodel.RoleRequestRow, error)
	// ReviewRoleRequest settles a PENDING request and, on approval, grants
	// the role in the same transaction.
	ReviewRoleRequest(ctx context.Context, req *clubDatamodel.RoleRequest, grant bool) (bool, error)
}

type Authorizer interface {
	RequireAdmin(ctx context.Context, actor *auth.Actor) error
	RequireClubRole(ctx context.Context, actor *auth.Actor, clubID string, allowed ...auth.ClubRole) error
}

type Service struct {
	repo    RepositoryAPI
	authz   Authorizer
	effects events.SideEffects
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(repo RepositoryAPI, authz Authorizer, effects events.SideEffects, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		authz:   authz,
		effects: effects,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *Service) List(ctx context.Context) ([]ClubResponse, error) {
	rows, err := s.repo.ListClubs(ctx)
	if err != nil {
		s.logger.Error("failed to list clubs", "error", err)
		return nil, err
	}
	out := make([]ClubResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, ClubFromDataModel(row).ToResponse())
	}
	return out, nil
}

func (s *Service) Create(ctx context.Context, actor *auth.Actor, dto CreateClubDTO) (*ClubResponse, error) {
	if err := s.authz.RequireAdmin(ctx, actor); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	c := &Club{
		ID:          uuid.NewString(),
		Name:        sanitize.PlainText(dto.Name),
		Description: sanitize.RichText(dto.Description),
	}
	model := c.ToDataModel()
	if err := s.repo.CreateClub(ctx, model); err != nil {
		if !errors.Is(err, ErrClubNameTaken) {
			s.logger.Error("failed to create club", "name", c.Name, "error", err)
		}
		return nil, err
	}

	s.logger.Info("club created", "club_id", model.ID, "actor_id", actor.ID)
	resp := ClubFromDataModel(model).ToResponse()
	return &resp, nil
}

// ListMine returns the caller's memberships, each with its club.
func (s *Service) ListMine(ctx context.Context, actor *auth.Actor) ([]MembershipResponse, error) {
	rows, err := s.repo.ListMembershipsByUser(ctx, actor.ID)
	if err != nil {
		s.logger.Error("failed to list memberships", "actor_id", actor.ID, "error", err)
		return nil, err
	}
	out := make([]MembershipResponse, 0, len(rows))
	for _, row := range rows {
		resp := MembershipFromDataModel(&row.Membership).ToResponse()
		resp.Club = &ClubResponse{ID: row.ClubID, Name: row.ClubName, Description: row.ClubDescription}
		out = append(out, resp)
	}
	return out, nil
}

// Join is idempotent: an existing membership comes back unchanged.
func (s *Service) Join(ctx context.Context, actor *auth.Actor, clubID string) (*MembershipResponse, error) {
	if _, err := s.repo.GetClub(ctx, clubID); err != nil {
		return nil, err
	}

	row, err := s.repo.CreateMembership(ctx, &clubDatamodel.Membership{
		ID:       uuid.NewString(),
		UserID:   actor.ID,
		ClubID:   clubID,
		ClubRole: string(auth.ClubRoleMember),
	})
	if err != nil {
		s.logger.Error("failed to join club", "club_id", clubID, "actor_id", actor.ID, "error", err)
		return nil, err
	}

	resp := MembershipFromDataModel(row).ToResponse()
	return &resp, nil
}

func (s *Service) Leave(ctx context.Context, actor *auth.Actor, clubID string) error {
	m, err := s.repo.GetMembership(ctx, actor.ID, clubID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteMembership(ctx, m.ID); err != nil {
		s.logger.Error("failed to leave club", "club_id", clubID, "actor_id", actor.ID, "error", err)
		return err
	}
	s.logger.Info("club left", "club_id", clubID, "actor_id", actor.ID)
	return nil
}

// ListMembers returns the roster. Callers are checked at the route.
func (s *Service) ListMembers(ctx context.Context, clubID string) ([]MemberResponse, error) {
	if _, err := s.repo.GetClub(ctx, clubID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListMembers(ctx, clubID)
	if err != nil {
		s.logger.Error("failed to list members", "club_id", clubID, "error", err)
		return nil, err
	}
	out := make([]MemberResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, MemberResponse{
			MembershipResponse: MembershipFromDataModel(&row.Membership).ToResponse(),
			Name:               row.UserName,
			Email:              row.UserEmail,
		})
	}
	return out, nil
}

// RequestOrganizer opens an ORGANIZER request for a plain member.
func (s *Service) RequestOrganizer(ctx context.Context, actor *auth.Actor, clubID string) (*RoleRequestResponse, error) {
	if _, err := s.repo.GetClub(ctx, clubID); err != nil {
		return nil, err
	}

	m, err := s.repo.GetMembership(ctx, actor.ID, clubID)
	if err != nil && !errors.Is(err, ErrMembershipNotFound) {
		return nil, err
	}
	if m == nil || auth.ClubRole(m.ClubRole) != auth.ClubRoleMember {
		s.logger.Warn("role request denied", "club_id", clubID, "actor_id", actor.ID)
		return nil, errors.ErrPermissionDenied
	}

	current := StateNone
	existing, err := s.repo.GetRoleRequest(ctx, actor.ID, clubID)
	switch {
	case err == nil:
		current = RequestState(existing.Status)
	case !errors.Is(err, ErrRoleRequestNotFound):
		return nil, err
	}

	next, err := current.Request()
	if err != nil {
		return nil, err
	}

	req := &RoleRequest{
		ID:            uuid.NewString(),
		UserID:        actor.ID,
		ClubID:        clubID,
		RequestedRole: auth.ClubRoleOrganizer,
		State:         next,
	}
	if existing != nil {
		req.ID = existing.ID
		req.CreatedAt = existing.CreatedAt
	}

	model := req.ToDataModel()
	opened, err := s.repo.OpenRoleRequest(ctx, model, string(current))
	if err != nil {
		s.logger.Error("failed to open role request", "club_id", clubID, "actor_id", actor.ID, "error", err)
		return nil, err
	}
	if !opened {
		return nil, ErrRoleRequestPending
	}

	s.logger.Info("role request opened", "request_id", model.ID, "club_id", clubID, "actor_id", actor.ID)
	resp := RoleRequestFromDataModel(model).ToResponse()
	return &resp, nil
}

// ListRoleRequests returns the PENDING queue. Callers are checked at the route.
func (s *Service) ListRoleRequests(ctx context.Context, clubID string) ([]RoleRequestResponse, error) {
	rows, err := s.repo.ListPendingRoleRequests(ctx, clubID)
	if err != nil {
		s.logger.Error("failed to list role requests", "club_id", clubID, "error", err)
		return nil, err
	}
	out := make([]RoleRequestResponse, 0, len(rows))
	for _, row := range rows {
		resp := RoleRequestFromDataModel(&row.RoleRequest).ToResponse()
		resp.User = &UserSummary{ID: row.UserID, Name: row.UserName, Email: row.UserEmail}
		out = append(out, resp)
	}
	return out, nil
}

// ReviewRoleRequest lets a HEAD or an admin settle a pending request.
func (s *Service) ReviewRoleRequest(ctx context.Context, actor *auth.Actor, clubID, requestID string, dto ReviewRoleRequestDTO) (*RoleRequestResponse, error) {
	if err := s.authz.RequireClubRole(ctx, actor, clubID, auth.ClubRoleHead); err != nil {
		return nil, err
	}

	row, err := s.repo.GetRoleRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if row.ClubID != clubID {
		return nil, ErrRoleRequestNotFound
	}

	req := RoleRequestFromDataModel(row)
	next, err := req.State.Review(dto.Approve)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	req.State = next
	req.ReviewedByID = &actor.ID
	req.ReviewedAt = &now

	model := req.ToDataModel()
	reviewed, err := s.repo.ReviewRoleRequest(ctx, model, dto.Approve)
	if err != nil {
		s.logger.Error("failed to review role request", "request_id", requestID, "error", err)
		return nil, err
	}
	if !reviewed {
		return nil, ErrRoleRequestReviewed
	}

	s.logger.Info("role request reviewed", "request_id", requestID, "club_id", clubID, "actor_id", actor.ID, "status", next)

	title, message, action := "Role request approved", fmt.Sprintf("You are now %s of the club.", req.RequestedRole), "ROLE_REQUEST_APPROVED"
	if !dto.Approve {
		title = "Role request rejected"
		message = fmt.Sprintf("Your request to become %s was rejected.", req.RequestedRole)
		action = "ROLE_REQUEST_REJECTED"
	}
	s.effects.Notify(ctx, req.UserID, title, message, events.CategorySystem)
	s.effects.Audit(ctx, actor.ID, action, "RoleRequest", req.ID, map[string]interface{}{
		"clubId":        clubID,
		"userId":        req.UserID,
		"requestedRole": string(req.RequestedRole),
	})

	resp := req.ToResponse()
	return &resp, nil
}

// ChangeMemberRole overrides a membership's role directly.
func (s *Service) ChangeMemberRole(ctx context.Context, actor *auth.Actor, clubID, membershipID string, dto ChangeRoleDTO) (*MembershipResponse, error) {
	if err := s.authz.RequireClubRole(ctx, actor, clubID, auth.ClubRoleHead); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetMembershipByID(ctx, membershipID)
	if err != nil {
		return nil, err
	}
	if row.ClubID != clubID {
		return nil, ErrMembershipNotFound
	}

	from := row.ClubRole
	if err := s.repo.UpdateMembershipRole(ctx, row.ID, dto.ClubRole); err != nil {
		s.logger.Error("failed to change member role", "membership_id", membershipID, "error", err)
		return nil, err
	}
	row.ClubRole = dto.ClubRole

	s.logger.Info("member role changed", "membership_id", row.ID, "club_id", clubID, "from", from, "to", dto.ClubRole, "actor_id", actor.ID)
	s.effects.Audit(ctx, actor.ID, "MEMBER_ROLE_CHANGED", "Membership", row.ID, map[string]interface{}{
		"from": from,
		"to":   dto.ClubRole,
	})

	resp := MembershipFromDataModel(row).ToResponse()
	return &resp, nil
}
