package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yukikurage/task-tracker-api/internal/logger"
	"github.com/yukikurage/task-tracker-api/internal/models"
)

// Models lists every persisted model in dependency order.
var Models = []interface{}{
	&models.User{},
	&models.Task{},
	&models.TaskAssignee{},
	&models.TaskComment{},
	&models.TaskHistory{},
}

// Migrate creates or updates the schema and the composite indexes used by
// list and detail queries.
func Migrate(db *gorm.DB) error {
	logger.Log.Info("running database migrations")
	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}
	logger.Log.Info("database migrations completed")
	return nil
}

// AddIndexes adds composite indexes that struct tags do not express.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// comment threads and history trails are read newest first per task
		{"task_comments", "idx_task_comments_task_created", "task_id, created_at"},
		{"task_history", "idx_task_history_task_created", "task_id, created_at"},

		// dashboard status counts and the recent list
		{"tasks", "idx_tasks_status_created", "status, created_at"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.table, idx.name) {
			logger.Log.Debug("index already exists, skipping", zap.String("index", idx.name))
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		logger.Log.Info("created index",
			zap.String("index", idx.name),
			zap.String("table", idx.table),
			zap.String("columns", idx.columns),
		)
	}

	return nil
}
