package postgres

import (
	"context"

	userDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/user"
	"github.com/frahmantamala/campus-ops/internal/mailer"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

type RecipientRepository struct {
	db *gorm.DB
}

func NewRecipientRepository(db *gorm.DB) *RecipientRepository {
	return &RecipientRepository{db: db}
}

func (r *RecipientRepository) Recipient(ctx context.Context, userID string) (*mailer.Recipient, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).
		Select("email", "name").
		Where("id = ?", userID).
		First(&u).Error
	if err != nil {
		return nil, pkgerrors.WithStack(err)
	}
	return &mailer.Recipient{Email: u.Email, Name: u.Name}, nil
}
