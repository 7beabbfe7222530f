package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yukikurage/task-tracker-api/internal/models"
)

// GormHistoryRepository is a GORM implementation of HistoryRepository
type GormHistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &GormHistoryRepository{db: db}
}

// Append adds an entry. Entries are never updated.
func (r *GormHistoryRepository) Append(ctx context.Context, entry *models.TaskHistory) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(entry).Error
}

func (r *GormHistoryRepository) DeleteByTask(ctx context.Context, taskID uint64) error {
	return r.db.WithContext(ctx).Where("task_id = ?", taskID).Delete(&models.TaskHistory{}).Error
}

func (r *GormHistoryRepository) ClearActor(ctx context.Context, userID uint64) error {
	return r.db.WithContext(ctx).
		Model(&models.TaskHistory{}).
		Where("user_id = ?", userID).
		Update("user_id", nil).Error
}
