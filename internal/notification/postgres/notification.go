package postgres

import (
	"context"
	"errors"
	"time"

	notificationDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/notification"
	"github.com/frahmantamala/campus-ops/internal/notification"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *notificationDatamodel.Notification) error {
	return pkgerrors.WithStack(r.db.WithContext(ctx).Create(n).Error)
}

func (r *NotificationRepository) GetByID(ctx context.Context, id string) (*notificationDatamodel.Notification, error) {
	var n notificationDatamodel.Notification
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notification.ErrNotificationNotFound
		}
		return nil, pkgerrors.WithStack(err)
	}
	return &n, nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID, category string) ([]*notificationDatamodel.Notification, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var rows []*notificationDatamodel.Notification
	err := q.Order("created_at DESC").Find(&rows).Error
	return rows, pkgerrors.WithStack(err)
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&notificationDatamodel.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&n).Error
	return n, pkgerrors.WithStack(err)
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id string, at time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&notificationDatamodel.Notification{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"read": true, "read_at": at}).Error
	return pkgerrors.WithStack(err)
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string, before *time.Time, at time.Time) (int64, error) {
	q := r.db.WithContext(ctx).
		Model(&notificationDatamodel.Notification{}).
		Where("user_id = ? AND read = ?", userID, false)
	if before != nil {
		q = q.Where("created_at <= ?", *before)
	}
	res := q.Updates(map[string]interface{}{"read": true, "read_at": at})
	if res.Error != nil {
		return 0, pkgerrors.WithStack(res.Error)
	}
	return res.RowsAffected, nil
}

func (r *NotificationRepository) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("read = ? AND created_at < ?", true, cutoff).
		Delete(&notificationDatamodel.Notification{})
	if res.Error != nil {
		return 0, pkgerrors.WithStack(res.Error)
	}
	return res.RowsAffected, nil
}
