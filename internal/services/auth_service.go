package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"freight_routes/internal/apperr"
	"freight_routes/internal/auth"
	"freight_routes/internal/models"
	"freight_routes/internal/repository"
)

// AuthService orchestrates the login/refresh/logout protocol over the
// credential store, token issuer and session ledger.
type AuthService struct {
	issuer *auth.Issuer
	users  *repository.UserRepository
	tokens *repository.RefreshTokenRepository
}

func NewAuthService(db *gorm.DB, issuer *auth.Issuer) *AuthService {
	return &AuthService{
		issuer: issuer,
		users:  repository.NewUserRepository(db),
		tokens: repository.NewRefreshTokenRepository(db),
	}
}

// Login verifies the credentials and issues an access and a refresh token,
// persisting the refresh token record. Unknown email and wrong password
// produce the identical failure so callers cannot probe for accounts.
func (s *AuthService) Login(email, password string) (accessToken, refreshToken string, user *models.User, err error) {
	user, err = s.users.ByEmail(email)
	if err != nil {
		return "", "", nil, err
	}
	if user == nil {
		logrus.WithField("email", email).Warn("login failed: user not found")
		return "", "", nil, apperr.Authentication("Invalid email or password")
	}
	if !auth.VerifyPassword(password, user.PasswordHash) {
		logrus.WithField("email", email).Warn("login failed: invalid password")
		return "", "", nil, apperr.Authentication("Invalid email or password")
	}
	if !user.IsActive {
		logrus.WithField("email", email).Warn("login failed: user inactive")
		return "", "", nil, apperr.Authentication("User account is deactivated")
	}

	accessToken, err = s.issuer.IssueAccess(user.ID)
	if err != nil {
		return "", "", nil, err
	}
	refreshToken, err = s.issuer.IssueRefresh(user.ID)
	if err != nil {
		return "", "", nil, err
	}

	record := &models.RefreshToken{
		Token:     refreshToken,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.issuer.RefreshTTL()),
	}
	if err := s.tokens.Create(record); err != nil {
		return "", "", nil, err
	}

	logrus.WithFields(logrus.Fields{"user_id": user.ID, "email": email}).Info("login success")
	return accessToken, refreshToken, user, nil
}

// Refresh exchanges a valid refresh token for a new access token. The
// refresh token itself is not rotated and stays usable until revoked or
// expired.
func (s *AuthService) Refresh(refreshToken string) (string, error) {
	if _, err := s.issuer.Decode(refreshToken, auth.TokenTypeRefresh); err != nil {
		if errors.Is(err, auth.ErrWrongTokenType) {
			return "", apperr.Authentication("Invalid token type")
		}
		return "", apperr.Authentication("Invalid refresh token")
	}

	record, err := s.tokens.ByToken(refreshToken)
	if err != nil {
		return "", err
	}
	if record == nil {
		return "", apperr.Authentication("Refresh token not found")
	}
	if record.IsRevoked {
		return "", apperr.Authentication("Refresh token has been revoked")
	}
	if record.ExpiresAt.Before(time.Now()) {
		return "", apperr.Authentication("Refresh token has expired")
	}

	user, err := s.users.ByID(record.UserID)
	if err != nil {
		return "", err
	}
	if user == nil || !user.IsActive {
		return "", apperr.Authentication("User not found or inactive")
	}

	accessToken, err := s.issuer.IssueAccess(user.ID)
	if err != nil {
		return "", err
	}

	logrus.WithField("user_id", user.ID).Info("token refreshed")
	return accessToken, nil
}

// Logout revokes the refresh token record if it exists and reports whether
// it was found. A missing token is a no-op, not an error.
func (s *AuthService) Logout(refreshToken string) (bool, error) {
	record, err := s.tokens.ByToken(refreshToken)
	if err != nil {
		return false, err
	}
	if record == nil {
		return false, nil
	}
	if err := s.tokens.Revoke(record); err != nil {
		return false, err
	}
	logrus.WithField("user_id", record.UserID).Info("logout")
	return true, nil
}

// LogoutAll revokes every active session of the user and returns the count
// affected. Maintenance operation, not reachable over HTTP.
func (s *AuthService) LogoutAll(userID uuid.UUID) (int64, error) {
	count, err := s.tokens.RevokeAllForUser(userID)
	if err != nil {
		return 0, err
	}
	logrus.WithFields(logrus.Fields{"user_id": userID, "revoked_count": count}).Info("logout all")
	return count, nil
}

// CleanupExpired deletes refresh token records past their expiry and
// returns the count deleted. Maintenance operation, not reachable over
// HTTP.
func (s *AuthService) CleanupExpired() (int64, error) {
	count, err := s.tokens.DeleteExpired()
	if err != nil {
		return 0, err
	}
	logrus.WithField("deleted_count", count).Info("expired refresh tokens cleaned up")
	return count, nil
}
