package resource

import (
	"context"
	"log/slog"

	errors "github.com/frahmantamala/campus-ops/internal"
	"github.com/frahmantamala/campus-ops/internal/auth"
	resourceDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/resource"
	"github.com/frahmantamala/campus-ops/internal/core/events"
	"github.com/google/uuid"
)

var (
	ErrResourceNotFound  = errors.NewNotFoundError("Resource not found.", errors.ErrCodeResourceNotFound)
	ErrResourceNameTaken = errors.NewConflictError("A resource with this name already exists.", errors.ErrCodeResourceNameTaken)
)

type RepositoryAPI interface {
	List(ctx context.Context) ([]*resourceDatamodel.Resource, error)
	Create(ctx context.Context, r *resourceDatamodel.Resource) error
	GetByID(ctx context.Context, id string) (*resourceDatamodel.Resource, error)
	Update(ctx context.Context, id string, changes map[string]interface{}) error
}

type Authorizer interface {
	RequireAdmin(ctx context.Context, actor *auth.Actor) error
}

type Service struct {
	repo    RepositoryAPI
	authz   Authorizer
	effects events.SideEffects
	logger  *slog.Logger
}

func NewService(repo RepositoryAPI, authz Authorizer, effects events.SideEffects, logger *slog.Logger) *Service {
	return &Service{repo: repo, authz: authz, effects: effects, logger: logger}
}

func (s *Service) List(ctx context.Context) ([]ResourceResponse, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list resources", "error", err)
		return nil, err
	}
	out := make([]ResourceResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row).ToResponse())
	}
	return out, nil
}

// Create adds a resource. Unset policy flags default to requiring approval,
// no auto-approval and active.
func (s *Service) Create(ctx context.Context, actor *auth.Actor, dto CreateResourceDTO) (*ResourceResponse, error) {
	if err := s.authz.RequireAdmin(ctx, actor); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	r := &Resource{
		ID:               uuid.NewString(),
		Name:             dto.Name,
		Type:             Type(dto.Type),
		Capacity:         dto.Capacity,
		RequiresApproval: boolOr(dto.RequiresApproval, true),
		AutoApprove:      boolOr(dto.AutoApprove, false),
		Active:           boolOr(dto.Active, true),
	}
	model := r.ToDataModel()
	if err := s.repo.Create(ctx, model); err != nil {
		if !errors.Is(err, ErrResourceNameTaken) {
			s.logger.Error("failed to create resource", "name", r.Name, "error", err)
		}
		return nil, err
	}

	s.logger.Info("resource created", "resource_id", model.ID, "actor_id", actor.ID)
	s.effects.Audit(ctx, actor.ID, "RESOURCE_CREATED", "Resource", model.ID, map[string]interface{}{"name": model.Name})

	resp := FromDataModel(model).ToResponse()
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, actor *auth.Actor, id string, dto UpdateResourceDTO) (*ResourceResponse, error) {
	if err := s.authz.RequireAdmin(ctx, actor); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	changes := dto.changes()
	if len(changes) > 0 {
		if err := s.repo.Update(ctx, id, changes); err != nil {
			if !errors.Is(err, ErrResourceNotFound) {
				s.logger.Error("failed to update resource", "resource_id", id, "error", err)
			}
			return nil, err
		}
		s.logger.Info("resource updated", "resource_id", id, "actor_id", actor.ID)
		s.effects.Audit(ctx, actor.ID, "RESOURCE_UPDATED", "Resource", id, changes)
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := FromDataModel(row).ToResponse()
	return &resp, nil
}
