package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"freight_routes/internal/auth"
	"freight_routes/internal/config"
	"freight_routes/internal/models"
)

// newTestDB opens an isolated in-memory database, named per test so the
// pooled connections all see the same schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	return db
}

func newTestIssuer() *auth.Issuer {
	return auth.NewIssuer("test-secret", time.Minute, 24*time.Hour)
}

func seedUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()
	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)
	user := &models.User{
		Email:        email,
		FullName:     "Test " + role,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func validStops() []StopInput {
	return []StopInput{
		{Seq: 1, Type: models.StopTypeOrigin, Address: "Warehouse A"},
		{Seq: 2, Type: models.StopTypeDestination, Address: "Warehouse B"},
	}
}
