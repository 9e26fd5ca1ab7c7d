package resource

import (
	"strings"
	"time"

	errors "github.com/frahmantamala/campus-ops/internal"
	"github.com/frahmantamala/campus-ops/internal/core/common/validation"
)

type CreateResourceDTO struct {
	Name             string `json:"name"`
	Type             string `json:"type"`
	Capacity         *int   `json:"capacity,omitempty"`
	RequiresApproval *bool  `json:"requiresApproval,omitempty"`
	AutoApprove      *bool  `json:"autoApprove,omitempty"`
	Active           *bool  `json:"active,omitempty"`
}

func (d *CreateResourceDTO) Validate() *errors.AppError {
	d.Name = strings.TrimSpace(d.Name)
	d.Type = strings.ToUpper(strings.TrimSpace(d.Type))

	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(120)
	v.Field("type", d.Type).Required().OneOf(types...)
	v.Field("capacity", d.Capacity).NonNegative()
	return v.Validate()
}

// UpdateResourceDTO carries only the fields being changed.
type UpdateResourceDTO struct {
	Capacity         *int  `json:"capacity,omitempty"`
	RequiresApproval *bool `json:"requiresApproval,omitempty"`
	AutoApprove      *bool `json:"autoApprove,omitempty"`
	Active           *bool `json:"active,omitempty"`
}

func (d *UpdateResourceDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("capacity", d.Capacity).NonNegative()
	return v.Validate()
}

func (d *UpdateResourceDTO) changes() map[string]interface{} {
	out := map[string]interface{}{}
	if d.Capacity != nil {
		out["capacity"] = *d.Capacity
	}
	if d.RequiresApproval != nil {
		out["requires_approval"] = *d.RequiresApproval
	}
	if d.AutoApprove != nil {
		out["auto_approve"] = *d.AutoApprove
	}
	if d.Active != nil {
		out["active"] = *d.Active
	}
	return out
}

type ResourceResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Type             Type      `json:"type"`
	Capacity         *int      `json:"capacity"`
	RequiresApproval bool      `json:"requiresApproval"`
	AutoApprove      bool      `json:"autoApprove"`
	Active           bool      `json:"active"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
