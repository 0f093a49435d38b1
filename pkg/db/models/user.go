package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/supplychain-backend/pkg/enums"
)

// User represents an authenticated operator of the backend.
type User struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Username     string     `gorm:"column:username;size:150;not null;uniqueIndex"`
	Email        string     `gorm:"column:email;not null"`
	FirstName    string     `gorm:"column:first_name;size:150;not null"`
	LastName     string     `gorm:"column:last_name;size:150;not null"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	IsActive     bool       `gorm:"column:is_active;not null"`
	IsStaff      bool       `gorm:"column:is_staff;not null"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns the primary key.
func (u *User) BeforeCreate(*gorm.DB) error {
	assignID(&u.ID)
	u.Username = strings.TrimSpace(u.Username)
	return nil
}

// Role reports the authorization role carried in access tokens.
func (u User) Role() enums.UserRole {
	if u.IsStaff {
		return enums.UserRoleStaff
	}
	return enums.UserRoleMember
}
