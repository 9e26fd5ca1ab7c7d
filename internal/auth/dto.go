package auth

import (
	"strings"
	"time"

	errors "github.com/frahmantamala/campus-ops/internal"
	"github.com/frahmantamala/campus-ops/internal/core/common/validation"
	userDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/user"
)

type RegisterDTO struct {
	Email        string  `json:"email"`
	Password     string  `json:"password"`
	Name         string  `json:"name"`
	Department   *string `json:"department,omitempty"`
	AcademicYear *int    `json:"academicYear,omitempty"`
}

func (d *RegisterDTO) Normalize() {
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.Name = strings.TrimSpace(d.Name)
}

func (d RegisterDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required().Email().MaxLength(254)
	v.Field("password", d.Password).Required().MinLength(8).MaxLength(72)
	v.Field("name", d.Name).Required().MaxLength(120)
	v.Field("academicYear", d.AcademicYear).NonNegative()
	return v.Validate()
}

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d LoginDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required()
	v.Field("password", d.Password).Required()
	return v.Validate()
}

type UserResponse struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	Name       string     `json:"name"`
	GlobalRole GlobalRole `json:"globalRole"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

func userResponse(u *userDatamodel.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		GlobalRole: GlobalRole(u.GlobalRole),
	}
}
