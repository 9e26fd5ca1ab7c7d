package club

import "time"

type Club struct {
	ID          string    `gorm:"primaryKey"`
	Name        string    `gorm:"column:name;uniqueIndex;not null"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Club) TableName() string { return "clubs" }

type Membership struct {
	ID        string    `gorm:"primaryKey"`
	UserID    string    `gorm:"column:user_id;not null;uniqueIndex:idx_memberships_user_club"`
	ClubID    string    `gorm:"column:club_id;not null;uniqueIndex:idx_memberships_user_club"`
	ClubRole  string    `gorm:"column:club_role;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Membership) TableName() string { return "memberships" }

type RoleRequest struct {
	ID            string     `gorm:"primaryKey"`
	UserID        string     `gorm:"column:user_id;not null;uniqueIndex:idx_role_requests_user_club"`
	ClubID        string     `gorm:"column:club_id;not null;uniqueIndex:idx_role_requests_user_club"`
	RequestedRole string     `gorm:"column:requested_role;not null"`
	Status        string     `gorm:"column:status;not null"`
	ReviewedByID  *string    `gorm:"column:reviewed_by_id"`
	ReviewedAt    *time.Time `gorm:"column:reviewed_at"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (RoleRequest) TableName() string { return "role_requests" }

// MemberRow is the roster projection joined with users.
type MemberRow struct {
	Membership
	UserName  string `gorm:"column:user_name"`
	UserEmail string `gorm:"column:user_email"`
}

// RoleRequestRow is a role request joined with the requesting user.
type RoleRequestRow struct {
	RoleRequest
	UserName  string `gorm:"column:user_name"`
	UserEmail string `gorm:"column:user_email"`
}

// MembershipWithClub is a membership joined with its club.
type MembershipWithClub struct {
	Membership
	ClubName        string `gorm:"column:club_name"`
	ClubDescription string `gorm:"column:club_description"`
}
