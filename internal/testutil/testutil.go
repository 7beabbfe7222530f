// Package testutil provides an in-memory database and fixtures for tests.
package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yukikurage/task-tracker-api/internal/auth"
	"github.com/yukikurage/task-tracker-api/internal/config"
	"github.com/yukikurage/task-tracker-api/internal/database"
	"github.com/yukikurage/task-tracker-api/internal/models"
)

// DefaultPassword is the plaintext password of every fixture user.
const DefaultPassword = "password123"

// NewDB opens a migrated in-memory SQLite database that is closed with the test.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	auth.HashCost = bcrypt.MinCost

	db, err := database.Connect(config.DatabaseConfig{Driver: "sqlite", Name: ":memory:", LogLevel: "silent"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}

// CreateUser inserts a user with DefaultPassword.
func CreateUser(t testing.TB, db *gorm.DB, username string, role models.UserRole) *models.User {
	t.Helper()
	hash, err := auth.HashPassword(DefaultPassword)
	require.NoError(t, err)

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		Role:         role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateTask inserts a pending task created by creatorID.
func CreateTask(t testing.TB, db *gorm.DB, title string, creatorID uint64) *models.Task {
	t.Helper()
	task := &models.Task{
		Title:       title,
		Status:      models.TaskStatusPending,
		Priority:    models.TaskPriorityMedium,
		CreatorID:   &creatorID,
		CreatedDate: time.Now().UTC().Truncate(24 * time.Hour),
	}
	require.NoError(t, db.Omit("Creator", "PA", "Assignees", "Comments", "History").Create(task).Error)
	return task
}

// Assign links users to a task.
func Assign(t testing.TB, db *gorm.DB, taskID uint64, userIDs ...uint64) {
	t.Helper()
	for _, id := range userIDs {
		require.NoError(t, db.Omit("User").Create(&models.TaskAssignee{TaskID: taskID, UserID: id}).Error)
	}
}

// Comment adds a comment by userID.
func Comment(t testing.TB, db *gorm.DB, taskID, userID uint64, content string) *models.TaskComment {
	t.Helper()
	c := &models.TaskComment{TaskID: taskID, UserID: &userID, Content: content}
	require.NoError(t, db.Omit("User").Create(c).Error)
	return c
}
