package club

import (
	"time"

	"github.com/frahmantamala/campus-ops/internal/auth"
	clubDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/club"
)

// RequestState is where a (user, club) role request stands. StateNone means
// no row exists yet; the row is reused for later requests.
type RequestState string

const (
	StateNone     RequestState = ""
	StatePending  RequestState = "PENDING"
	StateApproved RequestState = "APPROVED"
	StateRejected RequestState = "REJECTED"
)

// Request moves a request into PENDING. Only an absent or rejected request
// can be (re)opened.
func (s RequestState) Request() (RequestState, error) {
	switch s {
	case StateNone, StateRejected:
		return StatePending, nil
	case StatePending:
		return s, ErrRoleRequestPending
	default:
		return s, ErrRoleAlreadyGranted
	}
}

// Review settles a PENDING request.
func (s RequestState) Review(approve bool) (RequestState, error) {
	if s != StatePending {
		return s, ErrRoleRequestReviewed
	}
	if approve {
		return StateApproved, nil
	}
	return StateRejected, nil
}

type RoleRequest struct {
	ID            string
	UserID        string
	ClubID        string
	RequestedRole auth.ClubRole
	State         RequestState
	ReviewedByID  *string
	ReviewedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func RoleRequestFromDataModel(m *clubDatamodel.RoleRequest) *RoleRequest {
	return &RoleRequest{
		ID:            m.ID,
		UserID:        m.UserID,
		ClubID:        m.ClubID,
		RequestedRole: auth.ClubRole(m.RequestedRole),
		State:         RequestState(m.Status),
		ReviewedByID:  m.ReviewedByID,
		ReviewedAt:    m.ReviewedAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func (r *RoleRequest) ToDataModel() *clubDatamodel.RoleRequest {
	return &clubDatamodel.RoleRequest{
		ID:            r.ID,
		UserID:        r.UserID,
		ClubID:        r.ClubID,
		RequestedRole: string(r.RequestedRole),
		Status:        string(r.State),
		ReviewedByID:  r.ReviewedByID,
		ReviewedAt:    r.ReviewedAt,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func (r *RoleRequest) ToResponse() RoleRequestResponse {
	return RoleRequestResponse{
		ID:            r.ID,
		UserID:        r.UserID,
		ClubID:        r.ClubID,
		RequestedRole: r.RequestedRole,
		Status:        r.State,
		ReviewedByID:  r.ReviewedByID,
		ReviewedAt:    r.ReviewedAt,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}
