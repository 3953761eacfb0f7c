// Command sessiongc is the operator maintenance tool for the session
// ledger. Run from cron to delete expired refresh tokens, or with
// -logout-all to revoke every active session of one user.
package main

import (
	"flag"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"freight_routes/internal/auth"
	"freight_routes/internal/config"
	"freight_routes/internal/logger"
	"freight_routes/internal/services"
)

func main() {
	logoutAll := flag.String("logout-all", "", "revoke all sessions of the user with this id")
	flag.Parse()

	logger.Setup()

	cfg := config.Load()
	db, err := config.OpenDB(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}

	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)
	authService := services.NewAuthService(db, issuer)

	if *logoutAll != "" {
		userID, err := uuid.Parse(*logoutAll)
		if err != nil {
			logrus.WithError(err).Fatal("invalid user id")
		}
		count, err := authService.LogoutAll(userID)
		if err != nil {
			logrus.WithError(err).Fatal("failed to revoke sessions")
		}
		logrus.WithFields(logrus.Fields{"user_id": userID, "revoked": count}).Info("sessions revoked")
		return
	}

	count, err := authService.CleanupExpired()
	if err != nil {
		logrus.WithError(err).Fatal("failed to clean up expired tokens")
	}
	logrus.WithField("deleted", count).Info("expired tokens deleted")
}
