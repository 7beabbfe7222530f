package models

import (
	"time"

	"gorm.io/datatypes"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// TaskStatuses lists every status. Dashboard counts are zero-filled from it.
var TaskStatuses = []TaskStatus{
	TaskStatusPending,
	TaskStatusInProgress,
	TaskStatusCompleted,
	TaskStatusCancelled,
}

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	}
	return false
}

type Task struct {
	ID                uint64                      `gorm:"primarykey" json:"id"`
	Title             string                      `gorm:"type:varchar(255);not null" json:"title"`
	Description       *string                     `gorm:"type:text" json:"description"`
	Status            TaskStatus                  `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Priority          TaskPriority                `gorm:"type:varchar(20);not null;default:'medium';index" json:"priority"`
	CreatorID         *uint64                     `gorm:"index" json:"creatorId"`
	PaID              *uint64                     `gorm:"column:pa_id;index" json:"paId"`
	CreatedDate       time.Time                   `gorm:"type:date;not null" json:"createdDate"`
	DueDate           *time.Time                  `gorm:"type:date" json:"dueDate"`
	CompletedDate     *time.Time                  `gorm:"type:date" json:"completedDate"`
	EstimatedDuration *int                        `json:"estimatedDuration"`
	TicketURL         *string                     `gorm:"type:varchar(500)" json:"ticketUrl"`
	Tags              datatypes.JSONSlice[string] `json:"tags"`
	Notes             *string                     `gorm:"type:text" json:"notes"`
	CreatedAt         time.Time                   `gorm:"index" json:"createdAt"`
	UpdatedAt         time.Time                   `json:"updatedAt"`

	// Relations
	Creator   *User          `gorm:"foreignKey:CreatorID;constraint:OnDelete:SET NULL" json:"creator,omitempty"`
	PA        *User          `gorm:"foreignKey:PaID;constraint:OnDelete:SET NULL" json:"pa,omitempty"`
	Assignees []TaskAssignee `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"assignees,omitempty"`
	Comments  []TaskComment  `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
	History   []TaskHistory  `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"history,omitempty"`
}

// IsParticipant reports whether userID created, assists, or is assigned to the task.
// Assignees must be loaded.
func (t *Task) IsParticipant(userID uint64) bool {
	if t.CreatorID != nil && *t.CreatorID == userID {
		return true
	}
	if t.PaID != nil && *t.PaID == userID {
		return true
	}
	for _, a := range t.Assignees {
		if a.UserID == userID {
			return true
		}
	}
	return false
}
