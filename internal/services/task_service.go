package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/samber/lo"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yukikurage/task-tracker-api/internal/auth"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"github.com/yukikurage/task-tracker-api/internal/utils"
)

// TaskService handles the task lifecycle: creation, partial updates,
// assignment, comments, deletion and the audit trail.
type TaskService struct {
	store  repository.Store
	policy auth.TaskPolicy
	now    func() time.Time
}

// NewTaskService creates a new TaskService
func NewTaskService(store repository.Store, policy auth.TaskPolicy) *TaskService {
	return &TaskService{
		store:  store,
		policy: policy,
		now:    time.Now,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	Status     *models.TaskStatus
	Priority   *models.TaskPriority
	CreatorID  *uint64
	AssigneeID *uint64
	Pagination utils.PaginationParams
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title             string
	Description       *string
	Status            models.TaskStatus
	Priority          models.TaskPriority
	DueDate           *time.Time
	EstimatedDuration *int
	PaID              *uint64
	TicketURL         *string
	Tags              []string
	Notes             *string
	AssigneeIDs       []uint64
}

// UpdateTaskInput represents a partial update. Nil pointers and unset patches
// leave the field unchanged. A non-nil AssigneeIDs replaces the assignee set,
// even when empty.
type UpdateTaskInput struct {
	Title             *string
	Description       Patch[string]
	Status            *models.TaskStatus
	Priority          *models.TaskPriority
	DueDate           Patch[time.Time]
	CompletedDate     Patch[time.Time]
	EstimatedDuration Patch[int]
	PaID              Patch[uint64]
	TicketURL         Patch[string]
	Tags              Patch[[]string]
	Notes             Patch[string]
	AssigneeIDs       *[]uint64

	// Changes is the request payload recorded in the history entry.
	Changes json.RawMessage
}

// List returns tasks newest first with creator, PA and assignees loaded.
func (s *TaskService) List(ctx context.Context, input ListTasksInput) ([]models.Task, int64, error) {
	if input.Status != nil && !input.Status.Valid() {
		return nil, 0, ErrInvalidStatus
	}
	if input.Priority != nil && !input.Priority.Valid() {
		return nil, 0, ErrInvalidPriority
	}

	tasks, total, err := s.store.Tasks().List(ctx, repository.TaskFilter{
		Status:     input.Status,
		Priority:   input.Priority,
		CreatorID:  input.CreatorID,
		AssigneeID: input.AssigneeID,
		Pagination: input.Pagination,
	})
	if err != nil {
		return nil, 0, wrapInternal("failed to list tasks", err)
	}
	return tasks, total, nil
}

// Get returns a task with its relations, comments and history newest first.
func (s *TaskService) Get(ctx context.Context, id uint64) (*models.Task, error) {
	task, err := s.store.Tasks().FindDetail(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, wrapInternal("failed to find task", err)
	}
	return task, nil
}

// Create inserts a task, its assignees and a "created" history entry atomically.
func (s *TaskService) Create(ctx context.Context, actor *auth.Actor, input CreateTaskInput) (*models.Task, error) {
	if err := auth.RequireActor(actor); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if input.Status == "" {
		input.Status = models.TaskStatusPending
	}
	if !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}
	if !input.Priority.Valid() {
		return nil, ErrInvalidPriority
	}
	if input.EstimatedDuration != nil && *input.EstimatedDuration < 0 {
		return nil, ErrInvalidDuration
	}

	creatorID := actor.ID
	task := &models.Task{
		Title:             title,
		Description:       input.Description,
		Status:            input.Status,
		Priority:          input.Priority,
		CreatorID:         &creatorID,
		PaID:              input.PaID,
		CreatedDate:       utils.Today(s.now()),
		DueDate:           input.DueDate,
		EstimatedDuration: input.EstimatedDuration,
		TicketURL:         input.TicketURL,
		Notes:             input.Notes,
	}
	if input.Tags != nil {
		task.Tags = datatypes.JSONSlice[string](input.Tags)
	}
	assigneeIDs := lo.Uniq(input.AssigneeIDs)

	details, err := json.Marshal(map[string]string{"title": title})
	if err != nil {
		return nil, wrapInternal("failed to encode history", err)
	}

	err = s.store.WithinTransaction(ctx, func(tx repository.Store) error {
		if err := verifyUserRefs(ctx, tx.Users(), task.PaID, assigneeIDs); err != nil {
			return err
		}
		if err := tx.Tasks().Create(ctx, task); err != nil {
			return err
		}
		if len(assigneeIDs) > 0 {
			if err := tx.Assignees().Replace(ctx, task.ID, assigneeIDs); err != nil {
				return err
			}
		}
		return tx.History().Append(ctx, &models.TaskHistory{
			TaskID:  task.ID,
			UserID:  &creatorID,
			Action:  models.HistoryActionCreated,
			Details: datatypes.JSON(details),
		})
	})
	if err != nil {
		return nil, wrapInternal("failed to create task", err)
	}

	return s.Get(ctx, task.ID)
}

// Update applies a partial update, optionally replaces the assignee set and
// appends an "updated" history entry, all in one transaction. Any status may
// follow any status.
func (s *TaskService) Update(ctx context.Context, actor *auth.Actor, id uint64, input UpdateTaskInput) (*models.Task, error) {
	if err := auth.RequireActor(actor); err != nil {
		return nil, err
	}

	changes := input.Changes
	if len(changes) == 0 {
		changes = json.RawMessage("{}")
	}
	details, err := json.Marshal(map[string]json.RawMessage{"changes": changes})
	if err != nil {
		return nil, wrapInternal("failed to encode history", err)
	}

	err = s.store.WithinTransaction(ctx, func(tx repository.Store) error {
		task, err := tx.Tasks().FindByID(ctx, id, "Assignees")
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return err
		}
		if err := s.policy.AuthorizeTaskMutation(actor, task); err != nil {
			return err
		}
		if err := applyTaskUpdate(task, input); err != nil {
			return err
		}

		var assigneeIDs []uint64
		if input.AssigneeIDs != nil {
			assigneeIDs = lo.Uniq(*input.AssigneeIDs)
		}
		var paID *uint64
		if input.PaID.Set {
			paID = task.PaID
		}
		if err := verifyUserRefs(ctx, tx.Users(), paID, assigneeIDs); err != nil {
			return err
		}

		if err := tx.Tasks().Update(ctx, task); err != nil {
			return err
		}
		if input.AssigneeIDs != nil {
			if err := tx.Assignees().Replace(ctx, task.ID, assigneeIDs); err != nil {
				return err
			}
		}
		return tx.History().Append(ctx, &models.TaskHistory{
			TaskID:  task.ID,
			UserID:  &actor.ID,
			Action:  models.HistoryActionUpdated,
			Details: datatypes.JSON(details),
		})
	})
	if err != nil {
		return nil, wrapInternal("failed to update task", err)
	}

	return s.Get(ctx, id)
}

// Delete removes a task with its assignees, comments and history.
func (s *TaskService) Delete(ctx context.Context, actor *auth.Actor, id uint64) error {
	if err := auth.RequireActor(actor); err != nil {
		return err
	}

	err := s.store.WithinTransaction(ctx, func(tx repository.Store) error {
		task, err := tx.Tasks().FindByID(ctx, id, "Assignees")
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return err
		}
		if err := s.policy.AuthorizeTaskMutation(actor, task); err != nil {
			return err
		}

		if err := tx.Assignees().DeleteByTask(ctx, id); err != nil {
			return err
		}
		if err := tx.Comments().DeleteByTask(ctx, id); err != nil {
			return err
		}
		if err := tx.History().DeleteByTask(ctx, id); err != nil {
			return err
		}
		return tx.Tasks().Delete(ctx, id)
	})
	if err != nil {
		return wrapInternal("failed to delete task", err)
	}
	return nil
}

// AddComment appends a comment by the actor to a task.
func (s *TaskService) AddComment(ctx context.Context, actor *auth.Actor, taskID uint64, content string) (*models.TaskComment, error) {
	if err := auth.RequireActor(actor); err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrCommentEmpty
	}

	comment := &models.TaskComment{
		TaskID:  taskID,
		UserID:  &actor.ID,
		Content: content,
	}
	err := s.store.WithinTransaction(ctx, func(tx repository.Store) error {
		if _, err := tx.Tasks().FindByID(ctx, taskID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return err
		}
		return tx.Comments().Create(ctx, comment)
	})
	if err != nil {
		return nil, wrapInternal("failed to add comment", err)
	}

	created, err := s.store.Comments().FindByID(ctx, comment.ID)
	if err != nil {
		return nil, wrapInternal("failed to load comment", err)
	}
	return created, nil
}

func applyTaskUpdate(task *models.Task, input UpdateTaskInput) error {
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return ErrTitleRequired
		}
		task.Title = title
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return ErrInvalidStatus
		}
		task.Status = *input.Status
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return ErrInvalidPriority
		}
		task.Priority = *input.Priority
	}
	if input.EstimatedDuration.Set && input.EstimatedDuration.Value != nil && *input.EstimatedDuration.Value < 0 {
		return ErrInvalidDuration
	}

	input.Description.applyTo(&task.Description)
	input.DueDate.applyTo(&task.DueDate)
	input.CompletedDate.applyTo(&task.CompletedDate)
	input.EstimatedDuration.applyTo(&task.EstimatedDuration)
	input.PaID.applyTo(&task.PaID)
	input.TicketURL.applyTo(&task.TicketURL)
	input.Notes.applyTo(&task.Notes)
	if input.Tags.Set {
		if input.Tags.Value == nil {
			task.Tags = nil
		} else {
			task.Tags = datatypes.JSONSlice[string](*input.Tags.Value)
		}
	}
	return nil
}

// verifyUserRefs rejects PA and assignee ids that do not reference a user.
// assigneeIDs must already be unique.
func verifyUserRefs(ctx context.Context, users repository.UserRepository, paID *uint64, assigneeIDs []uint64) error {
	if paID != nil {
		n, err := users.CountByIDs(ctx, []uint64{*paID})
		if err != nil {
			return err
		}
		if n != 1 {
			return ErrInvalidPA
		}
	}
	if len(assigneeIDs) > 0 {
		n, err := users.CountByIDs(ctx, assigneeIDs)
		if err != nil {
			return err
		}
		if int(n) != len(assigneeIDs) {
			return ErrInvalidTaskAssignee
		}
	}
	return nil
}
