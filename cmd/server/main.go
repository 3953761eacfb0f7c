package main

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"freight_routes/internal/auth"
	"freight_routes/internal/config"
	"freight_routes/internal/logger"
	"freight_routes/internal/middleware"
	"freight_routes/internal/routes"
	"freight_routes/internal/services"
)

func main() {
	logger.Setup()

	cfg := config.Load()

	db, err := config.OpenDB(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}

	// Bootstrap admin account so a fresh deployment is usable.
	userService := services.NewUserService(db)
	if _, err := userService.EnsureAdmin(cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logrus.WithError(err).Fatal("failed to ensure admin user")
	}

	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)
	r := routes.SetupRouter(cfg, db, issuer)

	handler := middleware.EnableCORS(r)

	logrus.WithField("addr", cfg.HTTPAddr).Info("server running")
	if err := http.ListenAndServe(cfg.HTTPAddr, handler); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}
