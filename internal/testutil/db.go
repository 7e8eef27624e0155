// Package testutil builds throwaway databases and fixtures for tests.
package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/lilpaf/Super-Barber-sub000/internal/db"
	"github.com/lilpaf/Super-Barber-sub000/internal/models"
)

// Categories mirrors the seed migration.
var Categories = []string{"Haircut", "Beard", "Shave", "Coloring", "Styling", "Kids"}

// NewDB opens a private in-memory SQLite database with every model migrated
// and the categories seeded.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, conn.AutoMigrate(db.Models()...))

	for _, name := range Categories {
		require.NoError(t, conn.Create(&models.Category{Name: name}).Error)
	}

	return conn
}
