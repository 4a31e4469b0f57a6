package services

import (
	"fmt"
	"testing"
	"time"

	"inkwell/internal/db"
	"inkwell/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB points the package-level connection at an in-memory SQLite
// database for the duration of one test.
func setupTestDB(t *testing.T) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))

	db.DB = conn
	t.Cleanup(func() {
		sqlDB, _ := conn.DB()
		_ = sqlDB.Close()
		db.DB = nil
	})
}

func createUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Password: "x"}
	require.NoError(t, db.DB.Create(user).Error)
	return user
}

func createPost(t *testing.T, author *models.User, text string) *models.Post {
	t.Helper()
	post := &models.Post{UserID: author.ID, Text: text}
	require.NoError(t, db.DB.Create(post).Error)
	return post
}

// createPostAt backdates a post so ordering tests don't depend on insert
// timing.
func createPostAt(t *testing.T, author *models.User, text string, at time.Time) *models.Post {
	t.Helper()
	post := createPost(t, author, text)
	require.NoError(t, db.DB.Model(post).UpdateColumn("created_at", at).Error)
	post.CreatedAt = at
	return post
}

func createGroup(t *testing.T, slug string) *models.Group {
	t.Helper()
	group := &models.Group{Title: slug, Slug: slug, Description: fmt.Sprintf("group %s", slug)}
	require.NoError(t, db.DB.Create(group).Error)
	return group
}
