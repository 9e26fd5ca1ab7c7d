package postgres

import (
	"context"
	"errors"

	eventDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/event"
	registrationDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/registration"
	userDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/user"
	"github.com/frahmantamala/campus-ops/internal/registration"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RegistrationRepository struct {
	db *gorm.DB
}

func NewRegistrationRepository(db *gorm.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

func (r *RegistrationRepository) GetEvent(ctx context.Context, id string) (*eventDatamodel.Event, error) {
	var e eventDatamodel.Event
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, registration.ErrEventNotFound
		}
		return nil, pkgerrors.WithStack(err)
	}
	return &e, nil
}

func (r *RegistrationRepository) GetUser(ctx context.Context, id string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, pkgerrors.WithStack(err)
	}
	return &u, nil
}

func (r *RegistrationRepository) Create(ctx context.Context, reg *registrationDatamodel.Registration) (*registrationDatamodel.Registration, error) {
	db := r.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(reg).Error
	if err != nil {
		return nil, pkgerrors.WithStack(err)
	}

	var stored registrationDatamodel.Registration
	err = db.Where("event_id = ? AND user_id = ?", reg.EventID, reg.UserID).First(&stored).Error
	return &stored, pkgerrors.WithStack(err)
}

func (r *RegistrationRepository) ListByUser(ctx context.Context, userID string) ([]*registrationDatamodel.RegistrationRow, error) {
	var rows []*registrationDatamodel.RegistrationRow
	err := r.db.WithContext(ctx).
		Table("registrations").
		Select("registrations.*, events.title AS event_title, events.start_date AS event_start_date").
		Joins("JOIN events ON events.id = registrations.event_id").
		Where("registrations.user_id = ?", userID).
		Order("registrations.created_at DESC").
		Scan(&rows).Error
	return rows, pkgerrors.WithStack(err)
}

func (r *RegistrationRepository) DeleteByEvent(ctx context.Context, userID, eventID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Delete(&registrationDatamodel.Registration{})
	if res.Error != nil {
		return false, pkgerrors.WithStack(res.Error)
	}
	return res.RowsAffected > 0, nil
}
