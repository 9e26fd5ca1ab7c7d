package postgres

import (
	"context"
	"errors"

	eventDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/event"
	"github.com/frahmantamala/campus-ops/internal/event"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create inserts the event and its club links in one transaction.
func (r *EventRepository) Create(ctx context.Context, e *eventDatamodel.Event, clubIDs []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(e).Error; err != nil {
			return err
		}
		links := make([]eventDatamodel.EventClub, 0, len(clubIDs))
		for _, id := range clubIDs {
			links = append(links, eventDatamodel.EventClub{EventID: e.ID, ClubID: id})
		}
		if len(links) == 0 {
			return nil
		}
		return tx.Create(&links).Error
	})
	return pkgerrors.WithStack(err)
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*eventDatamodel.Event, error) {
	var e eventDatamodel.Event
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, event.ErrEventNotFound
		}
		return nil, pkgerrors.WithStack(err)
	}
	return &e, nil
}

func (r *EventRepository) ClubIDs(ctx context.Context, eventID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&eventDatamodel.EventClub{}).
		Where("event_id = ?", eventID).
		Order("club_id").
		Pluck("club_id", &ids).Error
	if err != nil {
		return nil, pkgerrors.WithStack(err)
	}
	return ids, nil
}

func (r *EventRepository) CountClubs(ctx context.Context, clubIDs []string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Table("clubs").Where("id IN ?", clubIDs).Count(&n).Error
	return n, pkgerrors.WithStack(err)
}

func (r *EventRepository) ListByCreator(ctx context.Context, userID string) ([]*eventDatamodel.Event, error) {
	var rows []*eventDatamodel.Event
	err := r.db.WithContext(ctx).
		Where("created_by_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, pkgerrors.WithStack(err)
}

func (r *EventRepository) ListByStatus(ctx context.Context, status string, newestFirst bool) ([]*eventDatamodel.Event, error) {
	order := "start_date ASC"
	if status == string(event.StatusSubmitted) {
		order = "updated_at ASC"
	}
	if newestFirst {
		order = "created_at DESC"
	}

	var rows []*eventDatamodel.Event
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order(order).
		Find(&rows).Error
	return rows, pkgerrors.WithStack(err)
}

func (r *EventRepository) UpdateStatus(ctx context.Context, id, from, to string, rejectionReason *string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&eventDatamodel.Event{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":           to,
			"rejection_reason": rejectionReason,
		})
	if res.Error != nil {
		return false, pkgerrors.WithStack(res.Error)
	}
	return res.RowsAffected == 1, nil
}
