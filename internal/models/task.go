package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusNone       TaskStatus = "None"
	TaskStatusInProgress TaskStatus = "In progress"
	TaskStatusPending    TaskStatus = "Pending"
	TaskStatusDone       TaskStatus = "Done"
)

// TaskStatuses lists the status tags a task may carry.
var TaskStatuses = []TaskStatus{
	TaskStatusNone,
	TaskStatusInProgress,
	TaskStatusPending,
	TaskStatusDone,
}

// Valid reports whether s is one of the known status tags.
func (s TaskStatus) Valid() bool {
	for _, known := range TaskStatuses {
		if s == known {
			return true
		}
	}
	return false
}

type Task struct {
	ID             uint64         `gorm:"primarykey" json:"id"`
	Title          string         `gorm:"not null" json:"title"`
	Description    string         `gorm:"type:text" json:"description"`
	Status         TaskStatus     `gorm:"type:varchar(20);not null;default:'None'" json:"status"`
	Progress       int            `gorm:"not null;default:0" json:"progress"`
	Deadline       *time.Time     `json:"deadline"`
	StartAt        *time.Time     `json:"start_at"`
	CompletionTime *time.Time     `json:"completion_time"`
	TimeDone       *float64       `json:"time_done"`
	IsImportant    bool           `gorm:"not null;default:false" json:"is_important"`
	Repeat         bool           `gorm:"not null;default:false" json:"repeat"`
	Hours          float64        `gorm:"not null;default:0" json:"hours"`
	UserID         uint64         `gorm:"index;not null" json:"user_id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// IsDone reports whether the task carries the Done tag.
func (t *Task) IsDone() bool {
	return t.Status == TaskStatusDone
}
