package repository

import (
	"context"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yukikurage/task-tracker-api/internal/models"
)

// GormAssigneeRepository is a GORM implementation of AssigneeRepository
type GormAssigneeRepository struct {
	db *gorm.DB
}

// NewAssigneeRepository creates a new AssigneeRepository
func NewAssigneeRepository(db *gorm.DB) AssigneeRepository {
	return &GormAssigneeRepository{db: db}
}

// Replace removes every assignee of a task and inserts userIDs. Run it inside a
// transaction to make the swap atomic.
func (r *GormAssigneeRepository) Replace(ctx context.Context, taskID uint64, userIDs []uint64) error {
	if err := r.DeleteByTask(ctx, taskID); err != nil {
		return err
	}
	if len(userIDs) == 0 {
		return nil
	}

	assignees := lo.Map(lo.Uniq(userIDs), func(userID uint64, _ int) models.TaskAssignee {
		return models.TaskAssignee{TaskID: taskID, UserID: userID}
	})

	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&assignees).Error
}

// DeleteByTask removes all assignees of a task
func (r *GormAssigneeRepository) DeleteByTask(ctx context.Context, taskID uint64) error {
	return r.db.WithContext(ctx).Where("task_id = ?", taskID).Delete(&models.TaskAssignee{}).Error
}

// DeleteByUser removes every assignment of a user
func (r *GormAssigneeRepository) DeleteByUser(ctx context.Context, userID uint64) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.TaskAssignee{}).Error
}

// LoadByUser counts assigned tasks per user in one grouped join
func (r *GormAssigneeRepository) LoadByUser(ctx context.Context) ([]AssigneeLoad, error) {
	var loads []AssigneeLoad
	err := r.db.WithContext(ctx).
		Table("task_assignees").
		Select("users.id AS user_id, users.username AS username, users.full_name AS full_name, COUNT(*) AS task_count").
		Joins("JOIN users ON users.id = task_assignees.user_id").
		Group("users.id, users.username, users.full_name").
		Order("task_count DESC").
		Order("users.id ASC").
		Scan(&loads).Error
	return loads, err
}
