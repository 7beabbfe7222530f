package repository

import (
	"context"

	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/utils"
)

// Store groups the per-entity repositories that share one connection or transaction.
type Store interface {
	Users() UserRepository
	Tasks() TaskRepository
	Assignees() AssigneeRepository
	Comments() CommentRepository
	History() HistoryRepository

	// WithinTransaction runs fn against a Store bound to a single transaction.
	// The transaction is rolled back when fn returns an error.
	WithinTransaction(ctx context.Context, fn func(tx Store) error) error

	// ReadSnapshot runs fn inside a read-only repeatable-read transaction so that
	// several reads observe one point in time.
	ReadSnapshot(ctx context.Context, fn func(tx Store) error) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// List returns every user, newest first
	List(ctx context.Context) ([]models.User, error)

	// Update saves profile fields of an existing user
	Update(ctx context.Context, user *models.User) error

	// UpdatePassword replaces the password digest of a user
	UpdatePassword(ctx context.Context, id uint64, passwordHash string) error

	// Delete removes a user row. References must be cleared beforehand.
	Delete(ctx context.Context, id uint64) error

	// CountByRole counts users per role
	CountByRole(ctx context.Context) (map[models.UserRole]int64, error)

	// CountByIDs counts how many of the given user IDs exist
	CountByIDs(ctx context.Context, ids []uint64) (int64, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create inserts a task without touching its associations
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Task, error)

	// FindDetail loads a task with creator, PA, assignees, comments and history
	FindDetail(ctx context.Context, id uint64) (*models.Task, error)

	// List retrieves tasks with filtering and optional pagination, newest first
	List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error)

	// Update saves the scalar fields of a task
	Update(ctx context.Context, task *models.Task) error

	// Delete removes the task row only
	Delete(ctx context.Context, id uint64) error

	// ClearUserReferences unsets creator and PA references to a user
	ClearUserReferences(ctx context.Context, userID uint64) error

	// CountByStatus counts tasks per status
	CountByStatus(ctx context.Context) (map[models.TaskStatus]int64, error)

	// Recent returns the most recently created tasks
	Recent(ctx context.Context, limit int) ([]models.Task, error)
}

// TaskFilter holds filtering options for listing tasks. Nil fields do not restrict.
type TaskFilter struct {
	Status     *models.TaskStatus
	Priority   *models.TaskPriority
	CreatorID  *uint64
	AssigneeID *uint64
	Pagination utils.PaginationParams
}

// AssigneeRepository maintains the task to user assignment relation.
type AssigneeRepository interface {
	// Replace removes every assignee of a task and inserts userIDs
	Replace(ctx context.Context, taskID uint64, userIDs []uint64) error

	// DeleteByTask removes all assignees of a task
	DeleteByTask(ctx context.Context, taskID uint64) error

	// DeleteByUser removes every assignment of a user
	DeleteByUser(ctx context.Context, userID uint64) error

	// LoadByUser counts assigned tasks per user, highest load first
	LoadByUser(ctx context.Context) ([]AssigneeLoad, error)
}

// AssigneeLoad is the number of tasks assigned to one user.
type AssigneeLoad struct {
	UserID    uint64  `gorm:"column:user_id"`
	Username  string  `gorm:"column:username"`
	FullName  *string `gorm:"column:full_name"`
	TaskCount int64   `gorm:"column:task_count"`
}

// CommentRepository defines the interface for task comments
type CommentRepository interface {
	Create(ctx context.Context, comment *models.TaskComment) error
	FindByID(ctx context.Context, id uint64) (*models.TaskComment, error)
	DeleteByTask(ctx context.Context, taskID uint64) error
	ClearAuthor(ctx context.Context, userID uint64) error
}

// HistoryRepository defines the interface for the task audit trail
type HistoryRepository interface {
	Append(ctx context.Context, entry *models.TaskHistory) error
	DeleteByTask(ctx context.Context, taskID uint64) error
	ClearActor(ctx context.Context, userID uint64) error
}
