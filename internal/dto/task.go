package dto

import (
	"encoding/json"
	"time"

	"github.com/samber/lo"

	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/services"
	"github.com/yukikurage/task-tracker-api/internal/utils"
)

// CreateTaskRequest is the body of POST /api/tasks
type CreateTaskRequest struct {
	Title             string   `json:"title" binding:"required,max=255"`
	Description       *string  `json:"description"`
	Status            string   `json:"status" binding:"omitempty,oneof=pending in_progress completed cancelled"`
	Priority          string   `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	DueDate           *string  `json:"dueDate"`
	EstimatedDuration *int     `json:"estimatedDuration" binding:"omitempty,min=0"`
	PaID              *uint64  `json:"paId"`
	TicketURL         *string  `json:"ticketUrl" binding:"omitempty,max=500"`
	Tags              []string `json:"tags"`
	Notes             *string  `json:"notes"`
	AssigneeIDs       []uint64 `json:"assigneeIds"`
}

// CommentRequest is the body of POST /api/tasks/:id/comments
type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// ToCreateTaskInput converts the request into service input
func (r CreateTaskRequest) ToCreateTaskInput() (services.CreateTaskInput, error) {
	input := services.CreateTaskInput{
		Title:             r.Title,
		Description:       r.Description,
		Status:            models.TaskStatus(r.Status),
		Priority:          models.TaskPriority(r.Priority),
		EstimatedDuration: r.EstimatedDuration,
		PaID:              r.PaID,
		TicketURL:         r.TicketURL,
		Tags:              r.Tags,
		Notes:             r.Notes,
		AssigneeIDs:       r.AssigneeIDs,
	}
	if r.DueDate != nil && *r.DueDate != "" {
		due, err := utils.ParseDate(*r.DueDate)
		if err != nil {
			return input, invalidField("dueDate")
		}
		input.DueDate = &due
	}
	return input, nil
}

// TaskDTO represents a task in list responses
type TaskDTO struct {
	ID                uint64              `json:"id"`
	Title             string              `json:"title"`
	Description       *string             `json:"description"`
	Status            models.TaskStatus   `json:"status"`
	Priority          models.TaskPriority `json:"priority"`
	CreatorID         *uint64             `json:"creatorId"`
	PaID              *uint64             `json:"paId"`
	CreatedDate       *string             `json:"createdDate"`
	DueDate           *string             `json:"dueDate"`
	CompletedDate     *string             `json:"completedDate"`
	EstimatedDuration *int                `json:"estimatedDuration"`
	TicketURL         *string             `json:"ticketUrl"`
	Tags              []string            `json:"tags"`
	Notes             *string             `json:"notes"`
	CreatedAt         time.Time           `json:"createdAt"`
	UpdatedAt         time.Time           `json:"updatedAt"`
	Creator           *UserSummaryDTO     `json:"creator"`
	PA                *UserSummaryDTO     `json:"pa"`
	Assignees         []UserSummaryDTO    `json:"assignees"`
}

// TaskDetailDTO adds the comment thread and the history trail
type TaskDetailDTO struct {
	TaskDTO
	Comments []CommentDTO `json:"comments"`
	History  []HistoryDTO `json:"history"`
}

// CommentDTO represents a task comment in API responses
type CommentDTO struct {
	ID        uint64          `json:"id"`
	TaskID    uint64          `json:"taskId"`
	Content   string          `json:"content"`
	CreatedAt time.Time       `json:"createdAt"`
	User      *UserSummaryDTO `json:"user"`
}

// HistoryDTO represents an audit entry in API responses
type HistoryDTO struct {
	ID        uint64               `json:"id"`
	Action    models.HistoryAction `json:"action"`
	Details   json.RawMessage      `json:"details"`
	CreatedAt time.Time            `json:"createdAt"`
	User      *UserSummaryDTO      `json:"user"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:                task.ID,
		Title:             task.Title,
		Description:       task.Description,
		Status:            task.Status,
		Priority:          task.Priority,
		CreatorID:         task.CreatorID,
		PaID:              task.PaID,
		CreatedDate:       utils.FormatDate(&task.CreatedDate),
		DueDate:           utils.FormatDate(task.DueDate),
		CompletedDate:     utils.FormatDate(task.CompletedDate),
		EstimatedDuration: task.EstimatedDuration,
		TicketURL:         task.TicketURL,
		Tags:              []string{},
		Notes:             task.Notes,
		CreatedAt:         task.CreatedAt,
		UpdatedAt:         task.UpdatedAt,
		Creator:           ToUserSummary(task.Creator),
		PA:                ToUserSummary(task.PA),
	}

	if len(task.Tags) > 0 {
		dto.Tags = []string(task.Tags)
	}

	dto.Assignees = lo.FilterMap(task.Assignees, func(a models.TaskAssignee, _ int) (UserSummaryDTO, bool) {
		summary := ToUserSummary(&a.User)
		if summary == nil {
			return UserSummaryDTO{}, false
		}
		return *summary, true
	})

	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	return lo.Map(tasks, func(t models.Task, _ int) TaskDTO {
		return ToTaskDTO(t)
	})
}

// ToTaskDetailDTO converts a fully loaded task
func ToTaskDetailDTO(task models.Task) TaskDetailDTO {
	return TaskDetailDTO{
		TaskDTO:  ToTaskDTO(task),
		Comments: lo.Map(task.Comments, func(c models.TaskComment, _ int) CommentDTO { return ToCommentDTO(c) }),
		History: lo.Map(task.History, func(h models.TaskHistory, _ int) HistoryDTO {
			return HistoryDTO{
				ID:        h.ID,
				Action:    h.Action,
				Details:   json.RawMessage(h.Details),
				CreatedAt: h.CreatedAt,
				User:      ToUserSummary(h.User),
			}
		}),
	}
}

// ToCommentDTO converts a TaskComment model
func ToCommentDTO(comment models.TaskComment) CommentDTO {
	return CommentDTO{
		ID:        comment.ID,
		TaskID:    comment.TaskID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
		User:      ToUserSummary(comment.User),
	}
}
