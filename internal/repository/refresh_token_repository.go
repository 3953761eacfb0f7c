package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"freight_routes/internal/models"
)

// RefreshTokenRepository is the persistence gateway for the session ledger.
type RefreshTokenRepository struct {
	db *gorm.DB
}

func NewRefreshTokenRepository(db *gorm.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

// ByToken returns the record for the exact token string, or nil when
// absent.
func (r *RefreshTokenRepository) ByToken(token string) (*models.RefreshToken, error) {
	var record models.RefreshToken
	if err := r.db.First(&record, "token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *RefreshTokenRepository) Create(record *models.RefreshToken) error {
	return r.db.Create(record).Error
}

// Revoke marks the record revoked.
func (r *RefreshTokenRepository) Revoke(record *models.RefreshToken) error {
	record.IsRevoked = true
	return r.db.Save(record).Error
}

// RevokeAllForUser marks every non-revoked token of the user as revoked and
// returns the number affected.
func (r *RefreshTokenRepository) RevokeAllForUser(userID uuid.UUID) (int64, error) {
	result := r.db.Model(&models.RefreshToken{}).
		Where("user_id = ? AND is_revoked = ?", userID, false).
		Update("is_revoked", true)
	return result.RowsAffected, result.Error
}

// DeleteExpired removes records past their expiry and returns the number
// deleted. Maintenance operation, run by an operator or cron.
func (r *RefreshTokenRepository) DeleteExpired() (int64, error) {
	result := r.db.Where("expires_at < ?", time.Now()).Delete(&models.RefreshToken{})
	return result.RowsAffected, result.Error
}
