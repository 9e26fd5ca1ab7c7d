package club

import (
	"strings"
	"time"

	errors "github.com/frahmantamala/campus-ops/internal"
	"github.com/frahmantamala/campus-ops/internal/auth"
	"github.com/frahmantamala/campus-ops/internal/core/common/validation"
)

type CreateClubDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (d *CreateClubDTO) Validate() *errors.AppError {
	d.Name = strings.TrimSpace(d.Name)
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(120)
	v.Field("description", d.Description).MaxLength(5000)
	return v.Validate()
}

type ReviewRoleRequestDTO struct {
	Approve bool `json:"approve"`
}

type ChangeRoleDTO struct {
	ClubRole string `json:"clubRole"`
}

func (d *ChangeRoleDTO) Validate() *errors.AppError {
	d.ClubRole = strings.ToUpper(strings.TrimSpace(d.ClubRole))
	v := validation.NewValidator()
	v.Field("clubRole", d.ClubRole).Required().OneOf(
		string(auth.ClubRoleMember),
		string(auth.ClubRoleOrganizer),
		string(auth.ClubRoleHead),
	)
	return v.Validate()
}

type ClubResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

type MembershipResponse struct {
	ID        string        `json:"id"`
	UserID    string        `json:"userId"`
	ClubID    string        `json:"clubId"`
	ClubRole  auth.ClubRole `json:"clubRole"`
	CreatedAt time.Time     `json:"createdAt"`
	Club      *ClubResponse `json:"club,omitempty"`
}

type MemberResponse struct {
	MembershipResponse
	Name  string `json:"name"`
	Email string `json:"email"`
}

type RoleRequestResponse struct {
	ID            string        `json:"id"`
	UserID        string        `json:"userId"`
	ClubID        string        `json:"clubId"`
	RequestedRole auth.ClubRole `json:"requestedRole"`
	Status        RequestState  `json:"status"`
	ReviewedByID  *string       `json:"reviewedById"`
	ReviewedAt    *time.Time    `json:"reviewedAt"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
	User          *UserSummary  `json:"user,omitempty"`
}

type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}
