package postgres

import (
	"context"
	"errors"

	clubDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/club"
	eventDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/event"
	registrationDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/registration"
	userDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/user"
	"github.com/frahmantamala/campus-ops/internal/user"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, pkgerrors.WithStack(err)
	}
	return &u, nil
}

func (r *UserRepository) ListMemberships(ctx context.Context, userID string) ([]*clubDatamodel.MembershipWithClub, error) {
	var rows []*clubDatamodel.MembershipWithClub
	err := r.db.WithContext(ctx).
		Table("memberships").
		Select("memberships.*, clubs.name AS club_name, clubs.description AS club_description").
		Joins("JOIN clubs ON clubs.id = memberships.club_id").
		Where("memberships.user_id = ?", userID).
		Order("memberships.created_at ASC").
		Scan(&rows).Error
	return rows, pkgerrors.WithStack(err)
}

func (r *UserRepository) ActivitySummary(ctx context.Context, userID string) (user.ActivitySummary, error) {
	var s user.ActivitySummary
	db := r.db.WithContext(ctx)

	if err := db.Model(&registrationDatamodel.Registration{}).
		Where("user_id = ?", userID).
		Count(&s.EventsRegistered).Error; err != nil {
		return s, pkgerrors.WithStack(err)
	}
	if err := db.Model(&eventDatamodel.Event{}).
		Where("created_by_id = ?", userID).
		Count(&s.EventsOrganized).Error; err != nil {
		return s, pkgerrors.WithStack(err)
	}
	if err := db.Model(&eventDatamodel.Event{}).
		Where("created_by_id = ? AND status = ?", userID, "APPROVED").
		Count(&s.EventsApproved).Error; err != nil {
		return s, pkgerrors.WithStack(err)
	}
	return s, nil
}

func (r *UserRepository) Update(ctx context.Context, id string, changes map[string]interface{}) error {
	res := r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Where("id = ?", id).
		Updates(changes)
	if res.Error != nil {
		return pkgerrors.WithStack(res.Error)
	}
	if res.RowsAffected == 0 {
		return user.ErrUserNotFound
	}
	return nil
}
