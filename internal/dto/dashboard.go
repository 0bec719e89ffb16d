package dto

import "github.com/yukikurage/okr-dashboard/internal/models"

// Bucket is one slice of a chart.
type Bucket struct {
	Type  string `json:"type"`
	Value int    `json:"value"`
}

// DashboardStats holds every aggregate shown on the admin dashboard.
type DashboardStats struct {
	UsersByPosition []Bucket          `json:"users_by_position"`
	TasksByStatus   []Bucket          `json:"tasks_by_status"`
	Deadlines       []Bucket          `json:"deadlines"`
	Positions       []models.Position `json:"positions"`
	TotalUsers      int               `json:"total_users"`
	TotalTasks      int               `json:"total_tasks"`
}
