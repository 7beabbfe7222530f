package models

import (
	"time"

	"gorm.io/datatypes"
)

type HistoryAction string

const (
	HistoryActionCreated HistoryAction = "created"
	HistoryActionUpdated HistoryAction = "updated"
)

// TaskHistory is an append-only audit entry for a task mutation.
type TaskHistory struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	TaskID    uint64         `gorm:"not null;index" json:"taskId"`
	UserID    *uint64        `gorm:"index" json:"userId"`
	Action    HistoryAction  `gorm:"type:varchar(50);not null" json:"action"`
	Details   datatypes.JSON `json:"details"`
	CreatedAt time.Time      `gorm:"index" json:"createdAt"`

	// Relations
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"user,omitempty"`
}

func (TaskHistory) TableName() string {
	return "task_history"
}
