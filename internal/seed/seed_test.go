package seed

import (
	"testing"
	"time"

	"quill/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
	); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

func TestSeed_PopulatesAllTables(t *testing.T) {
	db := setupSeedTestDB(t)

	err := Seed(db, Options{
		NumUsers:  5,
		NumGroups: 2,
		NumPosts:  20,
		MaxDays:   30,
		// TRUNCATE is postgres-only; sqlite tests start empty anyway.
		ShouldClean: false,
	})
	require.NoError(t, err)

	var users, groups, posts int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Group{}).Count(&groups).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	assert.Equal(t, int64(5), users)
	assert.Equal(t, int64(2), groups)
	assert.Equal(t, int64(20), posts)

	// No follow edge may point at its own user.
	var selfEdges int64
	require.NoError(t, db.Model(&models.Follow{}).
		Where("user_id = author_id").Count(&selfEdges).Error)
	assert.Equal(t, int64(0), selfEdges)

	// Every post belongs to a seeded user.
	var orphanPosts int64
	require.NoError(t, db.Model(&models.Post{}).
		Where("user_id NOT IN (SELECT id FROM users)").Count(&orphanPosts).Error)
	assert.Equal(t, int64(0), orphanPosts)
}

func TestFactory_CreateFollowSkipsSelf(t *testing.T) {
	db := setupSeedTestDB(t)
	factory := NewFactory(db, Options{})

	user, err := factory.CreateUser()
	require.NoError(t, err)

	require.NoError(t, factory.CreateFollow(user, user))

	var count int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestFactory_BuildPostSpreadsCreatedAt(t *testing.T) {
	db := setupSeedTestDB(t)
	factory := NewFactory(db, Options{MaxDays: 30})

	user, err := factory.CreateUser()
	require.NoError(t, err)

	post := factory.BuildPost(user)
	assert.NotEmpty(t, post.Text)
	now := time.Now()
	assert.False(t, post.CreatedAt.After(now), "posts are never dated in the future")
	assert.True(t, post.CreatedAt.After(now.AddDate(0, 0, -31)), "posts stay within MaxDays")
}
