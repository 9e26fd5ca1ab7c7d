package user

import "time"

type User struct {
	ID           string    `gorm:"primaryKey"`
	Email        string    `gorm:"column:email;uniqueIndex;not null"`
	Name         string    `gorm:"column:name;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	GlobalRole   string    `gorm:"column:global_role;not null"`
	Department   *string   `gorm:"column:department"`
	AcademicYear *int      `gorm:"column:academic_year"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string { return "users" }
