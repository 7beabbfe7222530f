package dto

import (
	"github.com/samber/lo"

	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/services"
	"github.com/yukikurage/task-tracker-api/internal/utils"
)

type AssigneeCountDTO struct {
	UserID   uint64  `json:"userId"`
	Username string  `json:"username"`
	FullName *string `json:"fullName"`
	Count    int64   `json:"count"`
}

type RecentTaskDTO struct {
	ID          uint64              `json:"id"`
	Title       string              `json:"title"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
	CreatedDate *string             `json:"createdDate"`
	TicketURL   *string             `json:"ticketUrl"`
}

// DashboardResponse is returned by GET /api/tasks/dashboard
type DashboardResponse struct {
	Total          int64                       `json:"total"`
	CompletionRate int                         `json:"completionRate"`
	ByStatus       map[models.TaskStatus]int64 `json:"byStatus"`
	ByAssignee     []AssigneeCountDTO          `json:"byAssignee"`
	RecentTasks    []RecentTaskDTO             `json:"recentTasks"`
}

func ToDashboardResponse(d *services.Dashboard) DashboardResponse {
	return DashboardResponse{
		Total:          d.Total,
		CompletionRate: d.CompletionRate,
		ByStatus:       d.ByStatus,
		ByAssignee: lo.Map(d.ByAssignee, func(a services.AssigneeCount, _ int) AssigneeCountDTO {
			return AssigneeCountDTO{
				UserID:   a.UserID,
				Username: a.Username,
				FullName: a.FullName,
				Count:    a.Count,
			}
		}),
		RecentTasks: lo.Map(d.RecentTasks, func(t models.Task, _ int) RecentTaskDTO {
			return RecentTaskDTO{
				ID:          t.ID,
				Title:       t.Title,
				Status:      t.Status,
				Priority:    t.Priority,
				CreatedDate: utils.FormatDate(&t.CreatedDate),
				TicketURL:   t.TicketURL,
			}
		}),
	}
}
