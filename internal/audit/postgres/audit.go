package postgres

import (
	"context"
	"time"

	auditDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/audit"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Create(ctx context.Context, log *auditDatamodel.AuditLog) error {
	return pkgerrors.WithStack(r.db.WithContext(ctx).Create(log).Error)
}

// ListRecent joins the acting user; entries whose user is gone still list.
func (r *AuditRepository) ListRecent(ctx context.Context, limit int) ([]*auditDatamodel.AuditLogRow, error) {
	var rows []*auditDatamodel.AuditLogRow
	err := r.db.WithContext(ctx).
		Table("audit_logs").
		Select("audit_logs.*, users.name AS user_name, users.email AS user_email").
		Joins("LEFT JOIN users ON users.id = audit_logs.user_id").
		Order("audit_logs.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, pkgerrors.WithStack(err)
}

func (r *AuditRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&auditDatamodel.AuditLog{})
	if res.Error != nil {
		return 0, pkgerrors.WithStack(res.Error)
	}
	return res.RowsAffected, nil
}
