package database

import (
	"testing"

	"quill/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMigrate_CreatesAllTables(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, Migrate(db))

	for _, table := range []string{"users", "groups", "posts", "comments", "follows"} {
		assert.True(t, db.Migrator().HasTable(table), "table %s should exist", table)
	}

	// Re-running migration on an existing schema is safe.
	require.NoError(t, Migrate(db))

	// The composite follow index backs ON CONFLICT inserts; without it
	// duplicate edges would slip through.
	assert.True(t, db.Migrator().HasIndex(&models.Follow{}, "idx_follow_edge"))
}

func TestCustomGormLogger_LogModeReturnsCopy(t *testing.T) {
	base := &CustomGormLogger{Config: logger.Config{LogLevel: logger.Warn}}

	quiet := base.LogMode(logger.Silent)
	require.NotSame(t, base, quiet)
	assert.Equal(t, logger.Warn, base.Config.LogLevel, "original logger is untouched")
}
