package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/frahmantamala/campus-ops/internal/auth"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	pkgerrors "github.com/pkg/errors"
)

// MembershipStore reads club roles straight from the memberships table.
type MembershipStore struct {
	db *sqlx.DB
}

func NewMembershipStore(db *sqlx.DB) *MembershipStore {
	return &MembershipStore{db: db}
}

func (s *MembershipStore) ClubRole(ctx context.Context, userID, clubID string) (auth.ClubRole, error) {
	var role string
	err := s.db.GetContext(ctx, &role,
		`SELECT club_role FROM memberships WHERE user_id = $1 AND club_id = $2`, userID, clubID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", pkgerrors.WithStack(err)
	}
	return auth.ClubRole(role), nil
}

type membershipRole struct {
	ClubID   string `db:"club_id"`
	ClubRole string `db:"club_role"`
}

func (s *MembershipStore) ClubRoles(ctx context.Context, userID string, clubIDs []string) (map[string]auth.ClubRole, error) {
	roles := make(map[string]auth.ClubRole, len(clubIDs))
	if len(clubIDs) == 0 {
		return roles, nil
	}

	var rows []membershipRole
	err := s.db.SelectContext(ctx, &rows,
		`SELECT club_id, club_role FROM memberships WHERE user_id = $1 AND club_id = ANY($2)`,
		userID, pq.Array(clubIDs))
	if err != nil {
		return nil, pkgerrors.WithStack(err)
	}

	for _, row := range rows {
		roles[row.ClubID] = auth.ClubRole(row.ClubRole)
	}
	return roles, nil
}
