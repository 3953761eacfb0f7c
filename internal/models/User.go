package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles. Admins manage users, admins and dispatchers manage routes,
// viewers only read.
const (
	RoleAdmin      = "admin"
	RoleDispatcher = "dispatcher"
	RoleViewer     = "viewer"
)

type User struct {
	ID                 uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Email              string    `json:"email" gorm:"uniqueIndex;not null"`
	FullName           string    `json:"full_name" gorm:"not null"`
	PasswordHash       string    `json:"-" gorm:"not null"`
	Role               string    `json:"role" gorm:"not null;default:viewer"`
	IsActive           bool      `json:"is_active" gorm:"not null;default:true"`
	MustChangePassword bool      `json:"must_change_password" gorm:"not null;default:true"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	Routes        []Route        `gorm:"foreignKey:CreatedBy" json:"-"`
	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// ValidRole reports whether r is one of the known user roles.
func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleDispatcher, RoleViewer:
		return true
	}
	return false
}
