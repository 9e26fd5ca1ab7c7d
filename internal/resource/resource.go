package resource

import (
	"time"

	resourceDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/resource"
)

type Type string

const (
	TypeRoom      Type = "ROOM"
	TypeHall      Type = "HALL"
	TypeLab       Type = "LAB"
	TypeEquipment Type = "EQUIPMENT"
)

var types = []string{string(TypeRoom), string(TypeHall), string(TypeLab), string(TypeEquipment)}

type Resource struct {
	ID               string
	Name             string
	Type             Type
	Capacity         *int
	RequiresApproval bool
	AutoApprove      bool
	Active           bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func FromDataModel(m *resourceDatamodel.Resource) *Resource {
	return &Resource{
		ID:               m.ID,
		Name:             m.Name,
		Type:             Type(m.Type),
		Capacity:         m.Capacity,
		RequiresApproval: m.RequiresApproval,
		AutoApprove:      m.AutoApprove,
		Active:           m.Active,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func (r *Resource) ToDataModel() *resourceDatamodel.Resource {
	return &resourceDatamodel.Resource{
		ID:               r.ID,
		Name:             r.Name,
		Type:             string(r.Type),
		Capacity:         r.Capacity,
		RequiresApproval: r.RequiresApproval,
		AutoApprove:      r.AutoApprove,
		Active:           r.Active,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func (r *Resource) ToResponse() ResourceResponse {
	return ResourceResponse{
		ID:               r.ID,
		Name:             r.Name,
		Type:             r.Type,
		Capacity:         r.Capacity,
		RequiresApproval: r.RequiresApproval,
		AutoApprove:      r.AutoApprove,
		Active:           r.Active,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}
