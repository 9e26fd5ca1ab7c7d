package user

import (
	"time"

	"github.com/frahmantamala/campus-ops/internal/auth"
	"github.com/frahmantamala/campus-ops/internal/club"
	clubDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/club"
	userDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/user"
)

type User struct {
	ID           string
	Email        string
	Name         string
	GlobalRole   auth.GlobalRole
	Department   *string
	AcademicYear *int
	CreatedAt    time.Time
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		GlobalRole:   auth.GlobalRole(u.GlobalRole),
		Department:   u.Department,
		AcademicYear: u.AcademicYear,
		CreatedAt:    u.CreatedAt,
	}
}

// ActivitySummary counts what the user has done across the platform.
// EventsApproved counts events sitting in APPROVED, not ones since published.
type ActivitySummary struct {
	EventsRegistered int64 `json:"eventsRegistered"`
	EventsOrganized  int64 `json:"eventsOrganized"`
	EventsApproved   int64 `json:"eventsApproved"`
}

func membershipResponse(row *clubDatamodel.MembershipWithClub) club.MembershipResponse {
	resp := club.MembershipFromDataModel(&row.Membership).ToResponse()
	resp.Club = &club.ClubResponse{
		ID:          row.ClubID,
		Name:        row.ClubName,
		Description: row.ClubDescription,
	}
	return resp
}

func (u *User) ToProfile(memberships []*clubDatamodel.MembershipWithClub, summary ActivitySummary) ProfileResponse {
	out := ProfileResponse{
		ID:              u.ID,
		Email:           u.Email,
		Name:            u.Name,
		Department:      u.Department,
		AcademicYear:    u.AcademicYear,
		GlobalRole:      u.GlobalRole,
		CreatedAt:       u.CreatedAt,
		Memberships:     make([]club.MembershipResponse, 0, len(memberships)),
		ActivitySummary: summary,
	}
	for _, m := range memberships {
		out.Memberships = append(out.Memberships, membershipResponse(m))
	}
	return out
}
