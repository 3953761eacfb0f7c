package config

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"freight_routes/internal/models"
)

// OpenDB opens the postgres connection and migrates the schema. The handle
// is returned to main and passed down; there is no package-level database
// singleton.
func OpenDB(cfg Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate applies the schema for all entities.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Route{},
		&models.Stop{},
		&models.RefreshToken{},
	)
}
