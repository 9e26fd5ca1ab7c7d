package postgres

import (
	"context"
	"errors"

	resourceDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/resource"
	"github.com/frahmantamala/campus-ops/internal/resource"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

type ResourceRepository struct {
	db *gorm.DB
}

func NewResourceRepository(db *gorm.DB) *ResourceRepository {
	return &ResourceRepository{db: db}
}

func (r *ResourceRepository) List(ctx context.Context) ([]*resourceDatamodel.Resource, error) {
	var rows []*resourceDatamodel.Resource
	err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error
	return rows, pkgerrors.WithStack(err)
}

func (r *ResourceRepository) Create(ctx context.Context, res *resourceDatamodel.Resource) error {
	if err := r.db.WithContext(ctx).Create(res).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return resource.ErrResourceNameTaken
		}
		return pkgerrors.WithStack(err)
	}
	return nil
}

func (r *ResourceRepository) GetByID(ctx context.Context, id string) (*resourceDatamodel.Resource, error) {
	var res resourceDatamodel.Resource
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&res).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, resource.ErrResourceNotFound
		}
		return nil, pkgerrors.WithStack(err)
	}
	return &res, nil
}

func (r *ResourceRepository) Update(ctx context.Context, id string, changes map[string]interface{}) error {
	res := r.db.WithContext(ctx).
		Model(&resourceDatamodel.Resource{}).
		Where("id = ?", id).
		Updates(changes)
	if res.Error != nil {
		return pkgerrors.WithStack(res.Error)
	}
	if res.RowsAffected == 0 {
		return resource.ErrResourceNotFound
	}
	return nil
}
