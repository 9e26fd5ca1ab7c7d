package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/campus-ops/internal/booking"
	bookingDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/booking"
	eventDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/event"
	resourceDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/resource"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const rowSelect = "bookings.*, events.title AS event_title, events.created_by_id AS event_creator_id, resources.name AS resource_name"

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) GetEvent(ctx context.Context, id string) (*eventDatamodel.Event, error) {
	var e eventDatamodel.Event
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, booking.ErrEventNotFound
		}
		return nil, pkgerrors.WithStack(err)
	}
	return &e, nil
}

// lockResource takes a row lock on the resource so that every check and
// write for its bookings inside tx runs one at a time.
func lockResource(tx *gorm.DB, resourceID string) (*resourceDatamodel.Resource, error) {
	var res resourceDatamodel.Resource
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", resourceID).
		First(&res).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, booking.ErrResourceNotFound
		}
		return nil, pkgerrors.WithStack(err)
	}
	return &res, nil
}

// overlapping counts bookings on resourceID whose slot touches or overlaps
// [start, end], other than excludeID.
func overlapping(tx *gorm.DB, resourceID, excludeID string, slot booking.Interval, approvedOnly bool) (int64, error) {
	q := tx.Model(&bookingDatamodel.Booking{}).
		Where("resource_id = ? AND id <> ?", resourceID, excludeID).
		Where("start_time <= ? AND end_time >= ?", slot.End, slot.Start)
	if approvedOnly {
		q = q.Where("approved = ?", true)
	} else {
		q = q.Where("rejected = ?", false)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, pkgerrors.WithStack(err)
	}
	return n, nil
}

// CreateIfFree serializes bookings per resource with SELECT ... FOR UPDATE on
// the resource row, so the overlap check and the insert see the same state.
func (r *BookingRepository) CreateIfFree(ctx context.Context, b *bookingDatamodel.Booking, admit func(*resourceDatamodel.Resource) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res, err := lockResource(tx, b.ResourceID)
		if err != nil {
			return err
		}
		if err := admit(res); err != nil {
			return err
		}

		n, err := overlapping(tx, b.ResourceID, b.ID, booking.Interval{Start: b.StartTime, End: b.EndTime}, false)
		if err != nil {
			return err
		}
		if n > 0 {
			return booking.ErrTimeSlotConflict
		}

		return pkgerrors.WithStack(tx.Create(b).Error)
	})
}

// ApproveIfFree approves a booking under the same resource lock as
// CreateIfFree. It refuses while another approved booking overlaps it, so a
// rejected booking freed by an admin cannot be approved over its successor.
func (r *BookingRepository) ApproveIfFree(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b bookingDatamodel.Booking
		if err := tx.Where("id = ?", id).First(&b).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return booking.ErrBookingNotFound
			}
			return pkgerrors.WithStack(err)
		}
		if _, err := lockResource(tx, b.ResourceID); err != nil {
			return err
		}

		n, err := overlapping(tx, b.ResourceID, b.ID, booking.Interval{Start: b.StartTime, End: b.EndTime}, true)
		if err != nil {
			return err
		}
		if n > 0 {
			return booking.ErrTimeSlotConflict
		}

		return pkgerrors.WithStack(tx.Model(&bookingDatamodel.Booking{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"approved":         true,
				"rejected":         false,
				"rejection_reason": nil,
			}).Error)
	})
}

func (r *BookingRepository) rows(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("bookings").
		Select(rowSelect).
		Joins("JOIN events ON events.id = bookings.event_id").
		Joins("JOIN resources ON resources.id = bookings.resource_id")
}

func (r *BookingRepository) GetRow(ctx context.Context, id string) (*bookingDatamodel.BookingRow, error) {
	var rows []*bookingDatamodel.BookingRow
	if err := r.rows(ctx).Where("bookings.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, pkgerrors.WithStack(err)
	}
	if len(rows) == 0 {
		return nil, booking.ErrBookingNotFound
	}
	return rows[0], nil
}

func (r *BookingRepository) ListPending(ctx context.Context) ([]*bookingDatamodel.BookingRow, error) {
	var rows []*bookingDatamodel.BookingRow
	err := r.rows(ctx).
		Where("bookings.approved = ? AND bookings.rejected = ?", false, false).
		Order("bookings.created_at DESC").
		Scan(&rows).Error
	return rows, pkgerrors.WithStack(err)
}

func (r *BookingRepository) ListByEventCreator(ctx context.Context, userID string) ([]*bookingDatamodel.BookingRow, error) {
	var rows []*bookingDatamodel.BookingRow
	err := r.rows(ctx).
		Where("events.created_by_id = ?", userID).
		Order("bookings.start_time ASC").
		Scan(&rows).Error
	return rows, pkgerrors.WithStack(err)
}

func (r *BookingRepository) ApprovedOverlapping(ctx context.Context, resourceID, excludeID string, slot booking.Interval) ([]*bookingDatamodel.BookingRow, error) {
	var rows []*bookingDatamodel.BookingRow
	err := r.rows(ctx).
		Where("bookings.resource_id = ? AND bookings.id <> ? AND bookings.approved = ?", resourceID, excludeID, true).
		Where("bookings.start_time < ? AND bookings.end_time > ?", slot.End, slot.Start).
		Order("bookings.start_time ASC").
		Scan(&rows).Error
	return rows, pkgerrors.WithStack(err)
}

func (r *BookingRepository) SetDecision(ctx context.Context, id string, approved, rejected bool, reason *string) error {
	res := r.db.WithContext(ctx).
		Model(&bookingDatamodel.Booking{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"approved":         approved,
			"rejected":         rejected,
			"rejection_reason": reason,
		})
	if res.Error != nil {
		return pkgerrors.WithStack(res.Error)
	}
	if res.RowsAffected == 0 {
		return booking.ErrBookingNotFound
	}
	return nil
}
