package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RefreshToken is a persisted long-lived session credential. Created at
// login, marked revoked at logout, deleted by the maintenance cleanup once
// past expiry.
type RefreshToken struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Token     string    `json:"token" gorm:"uniqueIndex;not null;size:500"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	IsRevoked bool      `json:"is_revoked" gorm:"not null;default:false"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (t *RefreshToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
