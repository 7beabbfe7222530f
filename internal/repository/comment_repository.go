package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yukikurage/task-tracker-api/internal/models"
)

// GormCommentRepository is a GORM implementation of CommentRepository
type GormCommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &GormCommentRepository{db: db}
}

func (r *GormCommentRepository) Create(ctx context.Context, comment *models.TaskComment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error
}

// FindByID loads a comment with its author
func (r *GormCommentRepository) FindByID(ctx context.Context, id uint64) (*models.TaskComment, error) {
	var comment models.TaskComment
	if err := r.db.WithContext(ctx).Preload("User").First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *GormCommentRepository) DeleteByTask(ctx context.Context, taskID uint64) error {
	return r.db.WithContext(ctx).Where("task_id = ?", taskID).Delete(&models.TaskComment{}).Error
}

// ClearAuthor keeps the comments of a deleted user but drops the reference
func (r *GormCommentRepository) ClearAuthor(ctx context.Context, userID uint64) error {
	return r.db.WithContext(ctx).
		Model(&models.TaskComment{}).
		Where("user_id = ?", userID).
		Update("user_id", nil).Error
}
