package dto

import (
	"time"

	"github.com/yukikurage/okr-dashboard/internal/models"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID             uint64            `json:"id"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Status         models.TaskStatus `json:"status"`
	Progress       int               `json:"progress"`
	Deadline       *time.Time        `json:"deadline"`
	StartAt        *time.Time        `json:"start_at"`
	CompletionTime *time.Time        `json:"completion_time"`
	TimeDone       *float64          `json:"time_done"`
	IsImportant    bool              `json:"is_important"`
	Repeat         bool              `json:"repeat"`
	Hours          float64           `json:"hours"`
	UserID         uint64            `json:"user_id"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	User           *UserSummaryDTO   `json:"user,omitempty"`
}

// DayViewResponse is one user's tasks for a day in display order
// TaskDraft is a suggested task. Drafts are never persisted by the server.
type TaskDraft struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Hours       float64    `json:"hours"`
	IsImportant bool       `json:"is_important"`
	Deadline    *time.Time `json:"deadline"`
}

type DayViewResponse struct {
	Data       []TaskDTO `json:"data"`
	Date       string    `json:"date"`
	TotalHours float64   `json:"total_hours"`
}

// Conversion functions

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:             task.ID,
		Title:          task.Title,
		Description:    task.Description,
		Status:         task.Status,
		Progress:       task.Progress,
		Deadline:       task.Deadline,
		StartAt:        task.StartAt,
		CompletionTime: task.CompletionTime,
		TimeDone:       task.TimeDone,
		IsImportant:    task.IsImportant,
		Repeat:         task.Repeat,
		Hours:          task.Hours,
		UserID:         task.UserID,
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
	}

	// Include owner if preloaded
	if task.User != nil {
		owner := ToUserSummaryDTO(*task.User)
		dto.User = &owner
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}
	return items
}

// ToDayViewResponse converts one day of tasks
func ToDayViewResponse(date string, tasks []models.Task, totalHours float64) DayViewResponse {
	return DayViewResponse{
		Data:       ToTaskDTOs(tasks),
		Date:       date,
		TotalHours: totalHours,
	}
}
