package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/campus-ops/internal/club"
	clubDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/club"
	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ClubRepository struct {
	db *gorm.DB
}

func NewClubRepository(db *gorm.DB) *ClubRepository {
	return &ClubRepository{db: db}
}

func (r *ClubRepository) ListClubs(ctx context.Context) ([]*clubDatamodel.Club, error) {
	var rows []*clubDatamodel.Club
	err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error
	return rows, pkgerrors.WithStack(err)
}

func (r *ClubRepository) CreateClub(ctx context.Context, c *clubDatamodel.Club) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return club.ErrClubNameTaken
		}
		return pkgerrors.WithStack(err)
	}
	return nil
}

func (r *ClubRepository) GetClub(ctx context.Context, id string) (*clubDatamodel.Club, error) {
	var c clubDatamodel.Club
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, notFound(err, club.ErrClubNotFound)
	}
	return &c, nil
}

func (r *ClubRepository) ListMembershipsByUser(ctx context.Context, userID string) ([]*clubDatamodel.MembershipWithClub, error) {
	var rows []*clubDatamodel.MembershipWithClub
	err := r.db.WithContext(ctx).
		Table("memberships").
		Select("memberships.*, clubs.name AS club_name, clubs.description AS club_description").
		Joins("JOIN clubs ON clubs.id = memberships.club_id").
		Where("memberships.user_id = ?", userID).
		Order("clubs.name ASC").
		Scan(&rows).Error
	return rows, pkgerrors.WithStack(err)
}

func (r *ClubRepository) GetMembership(ctx context.Context, userID, clubID string) (*clubDatamodel.Membership, error) {
	var m clubDatamodel.Membership
	err := r.db.WithContext(ctx).Where("user_id = ? AND club_id = ?", userID, clubID).First(&m).Error
	if err != nil {
		return nil, notFound(err, club.ErrMembershipNotFound)
	}
	return &m, nil
}

func (r *ClubRepository) GetMembershipByID(ctx context.Context, id string) (*clubDatamodel.Membership, error) {
	var m clubDatamodel.Membership
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFound(err, club.ErrMembershipNotFound)
	}
	return &m, nil
}

func (r *ClubRepository) CreateMembership(ctx context.Context, m *clubDatamodel.Membership) (*clubDatamodel.Membership, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "club_id"}},
			DoNothing: true,
		}).
		Create(m).Error
	if err != nil {
		return nil, pkgerrors.WithStack(err)
	}
	return r.GetMembership(ctx, m.UserID, m.ClubID)
}

func (r *ClubRepository) DeleteMembership(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&clubDatamodel.Membership{})
	if res.Error != nil {
		return pkgerrors.WithStack(res.Error)
	}
	if res.RowsAffected == 0 {
		return club.ErrMembershipNotFound
	}
	return nil
}

func (r *ClubRepository) ListMembers(ctx context.Context, clubID string) ([]*clubDatamodel.MemberRow, error) {
	var rows []*clubDatamodel.MemberRow
	err := r.db.WithContext(ctx).
		Table("memberships").
		Select("memberships.*, users.name AS user_name, users.email AS user_email").
		Joins("JOIN users ON users.id = memberships.user_id").
		Where("memberships.club_id = ?", clubID).
		Order("users.name ASC").
		Scan(&rows).Error
	return rows, pkgerrors.WithStack(err)
}

func (r *ClubRepository) UpdateMembershipRole(ctx context.Context, id, role string) error {
	res := r.db.WithContext(ctx).
		Model(&clubDatamodel.Membership{}).
		Where("id = ?", id).
		Update("club_role", role)
	if res.Error != nil {
		return pkgerrors.WithStack(res.Error)
	}
	if res.RowsAffected == 0 {
		return club.ErrMembershipNotFound
	}
	return nil
}

func (r *ClubRepository) GetRoleRequest(ctx context.Context, userID, clubID string) (*clubDatamodel.RoleRequest, error) {
	var rr clubDatamodel.RoleRequest
	err := r.db.WithContext(ctx).Where("user_id = ? AND club_id = ?", userID, clubID).First(&rr).Error
	if err != nil {
		return nil, notFound(err, club.ErrRoleRequestNotFound)
	}
	return &rr, nil
}

func (r *ClubRepository) GetRoleRequestByID(ctx context.Context, id string) (*clubDatamodel.RoleRequest, error) {
	var rr clubDatamodel.RoleRequest
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rr).Error; err != nil {
		return nil, notFound(err, club.ErrRoleRequestNotFound)
	}
	return &rr, nil
}

func (r *ClubRepository) OpenRoleRequest(ctx context.Context, req *clubDatamodel.RoleRequest, prev string) (bool, error) {
	db := r.db.WithContext(ctx)
	if prev == "" {
		if err := db.Create(req).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return false, nil
			}
			return false, pkgerrors.WithStack(err)
		}
		return true, nil
	}

	res := db.Model(&clubDatamodel.RoleRequest{}).
		Where("id = ? AND status = ?", req.ID, prev).
		Updates(map[string]interface{}{
			"status":         req.Status,
			"requested_role": req.RequestedRole,
			"reviewed_by_id": nil,
			"reviewed_at":    nil,
		})
	if res.Error != nil {
		return false, pkgerrors.WithStack(res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *ClubRepository) ListPendingRoleRequests(ctx context.Context, clubID string) ([]*clubDatamodel.RoleRequestRow, error) {
	var rows []*clubDatamodel.RoleRequestRow
	err := r.db.WithContext(ctx).
		Table("role_requests").
		Select("role_requests.*, users.name AS user_name, users.email AS user_email").
		Joins("JOIN users ON users.id = role_requests.user_id").
		Where("role_requests.club_id = ? AND role_requests.status = ?", clubID, string(club.StatePending)).
		Order("role_requests.updated_at ASC").
		Scan(&rows).Error
	return rows, pkgerrors.WithStack(err)
}

func (r *ClubRepository) ReviewRoleRequest(ctx context.Context, req *clubDatamodel.RoleRequest, grant bool) (bool, error) {
	reviewed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&clubDatamodel.RoleRequest{}).
			Where("id = ? AND status = ?", req.ID, string(club.StatePending)).
			Updates(map[string]interface{}{
				"status":         req.Status,
				"reviewed_by_id": req.ReviewedByID,
				"reviewed_at":    req.ReviewedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return nil
		}
		reviewed = true
		if !grant {
			return nil
		}

		// the member may have left while the request was pending
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "club_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"club_role"}),
		}).Create(&clubDatamodel.Membership{
			ID:       uuid.NewString(),
			UserID:   req.UserID,
			ClubID:   req.ClubID,
			ClubRole: req.RequestedRole,
		}).Error
	})
	if err != nil {
		return false, pkgerrors.WithStack(err)
	}
	return reviewed, nil
}

func notFound(err error, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return pkgerrors.WithStack(err)
}
