package models

import "time"

type TaskAssignee struct {
	TaskID    uint64    `gorm:"primarykey;autoIncrement:false" json:"taskId"`
	UserID    uint64    `gorm:"primarykey;autoIncrement:false;index" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`

	// Relations
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}
