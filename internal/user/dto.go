package user

import (
	"strings"
	"time"

	errors "github.com/frahmantamala/campus-ops/internal"
	"github.com/frahmantamala/campus-ops/internal/auth"
	"github.com/frahmantamala/campus-ops/internal/club"
	"github.com/frahmantamala/campus-ops/internal/core/common/sanitize"
	"github.com/frahmantamala/campus-ops/internal/core/common/validation"
)

type ProfileResponse struct {
	ID              string                    `json:"id"`
	Email           string                    `json:"email"`
	Name            string                    `json:"name"`
	Department      *string                   `json:"department"`
	AcademicYear    *int                      `json:"academicYear"`
	GlobalRole      auth.GlobalRole           `json:"globalRole"`
	CreatedAt       time.Time                 `json:"createdAt"`
	Memberships     []club.MembershipResponse `json:"memberships"`
	ActivitySummary ActivitySummary           `json:"activitySummary"`
}

// UpdateProfileDTO is a partial update; nil fields are left alone. An empty
// department clears it.
type UpdateProfileDTO struct {
	Name         *string `json:"name,omitempty"`
	Department   *string `json:"department,omitempty"`
	AcademicYear *int    `json:"academicYear,omitempty"`
}

func (d *UpdateProfileDTO) Normalize() {
	if d.Name != nil {
		name := sanitize.PlainText(strings.TrimSpace(*d.Name))
		d.Name = &name
	}
	if d.Department != nil {
		dept := sanitize.PlainText(strings.TrimSpace(*d.Department))
		d.Department = &dept
	}
}

func (d *UpdateProfileDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	if d.Name != nil {
		v.Field("name", *d.Name).Required().MaxLength(120)
	}
	if d.Department != nil {
		v.Field("department", *d.Department).MaxLength(120)
	}
	v.Field("academicYear", d.AcademicYear).NonNegative()
	return v.Validate()
}

func (d *UpdateProfileDTO) changes() map[string]interface{} {
	out := map[string]interface{}{}
	if d.Name != nil {
		out["name"] = *d.Name
	}
	if d.Department != nil {
		if *d.Department == "" {
			out["department"] = nil
		} else {
			out["department"] = *d.Department
		}
	}
	if d.AcademicYear != nil {
		out["academic_year"] = *d.AcademicYear
	}
	return out
}
