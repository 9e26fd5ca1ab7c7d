package club

import (
	"time"

	"github.com/frahmantamala/campus-ops/internal/auth"
	clubDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/club"
)

type Club struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Membership struct {
	ID        string
	UserID    string
	ClubID    string
	ClubRole  auth.ClubRole
	CreatedAt time.Time
}

func ClubFromDataModel(m *clubDatamodel.Club) *Club {
	return &Club{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func (c *Club) ToDataModel() *clubDatamodel.Club {
	return &clubDatamodel.Club{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func MembershipFromDataModel(m *clubDatamodel.Membership) *Membership {
	return &Membership{
		ID:        m.ID,
		UserID:    m.UserID,
		ClubID:    m.ClubID,
		ClubRole:  auth.ClubRole(m.ClubRole),
		CreatedAt: m.CreatedAt,
	}
}

func (m *Membership) ToResponse() MembershipResponse {
	return MembershipResponse{
		ID:        m.ID,
		UserID:    m.UserID,
		ClubID:    m.ClubID,
		ClubRole:  m.ClubRole,
		CreatedAt: m.CreatedAt,
	}
}

func (c *Club) ToResponse() ClubResponse {
	return ClubResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
	}
}
