package user

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/campus-ops/internal/auth"
	clubDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/club"
	userDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/user"
)

var ErrUserNotFound = auth.ErrUserNotFound

type RepositoryAPI interface {
	GetByID(ctx context.Context, id string) (*userDatamodel.User, error)
	ListMemberships(ctx context.Context, userID string) ([]*clubDatamodel.MembershipWithClub, error)
	ActivitySummary(ctx context.Context, userID string) (ActivitySummary, error)
	Update(ctx context.Context, id string, changes map[string]interface{}) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Profile(ctx context.Context, actor *auth.Actor) (*ProfileResponse, error) {
	row, err := s.repo.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	memberships, err := s.repo.ListMemberships(ctx, actor.ID)
	if err != nil {
		s.logger.Error("failed to load memberships", "user_id", actor.ID, "error", err)
		return nil, err
	}

	summary, err := s.repo.ActivitySummary(ctx, actor.ID)
	if err != nil {
		s.logger.Error("failed to load activity summary", "user_id", actor.ID, "error", err)
		return nil, err
	}

	resp := FromDataModel(row).ToProfile(memberships, summary)
	return &resp, nil
}

func (s *Service) UpdateProfile(ctx context.Context, actor *auth.Actor, dto UpdateProfileDTO) (*ProfileResponse, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if changes := dto.changes(); len(changes) > 0 {
		if err := s.repo.Update(ctx, actor.ID, changes); err != nil {
			s.logger.Error("failed to update profile", "user_id", actor.ID, "error", err)
			return nil, err
		}
		s.logger.Info("profile updated", "user_id", actor.ID)
	}
	return s.Profile(ctx, actor)
}
