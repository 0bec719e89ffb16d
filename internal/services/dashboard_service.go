package services

import (
	"fmt"
	"time"

	"github.com/yukikurage/okr-dashboard/internal/dto"
	"github.com/yukikurage/okr-dashboard/internal/models"
	"github.com/yukikurage/okr-dashboard/internal/repository"
)

// UnassignedPosition labels users that have no position.
const UnassignedPosition = "Unassigned"

// Deadline bucket labels
const (
	DeadlineOnTime = "on_time"
	DeadlineLate   = "late"
)

// dashboardPositionLimit matches the single page of positions the
// dashboard shows.
const dashboardPositionLimit = 100

type (
	Bucket         = dto.Bucket
	DashboardStats = dto.DashboardStats
)

// DashboardService computes the admin statistics
type DashboardService struct {
	userRepo     repository.UserRepository
	taskRepo     repository.TaskRepository
	positionRepo repository.PositionRepository
	now          func() time.Time
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(userRepo repository.UserRepository, taskRepo repository.TaskRepository, positionRepo repository.PositionRepository) *DashboardService {
	return &DashboardService{
		userRepo:     userRepo,
		taskRepo:     taskRepo,
		positionRepo: positionRepo,
		now:          time.Now,
	}
}

// Stats loads users, tasks and positions and aggregates them.
func (s *DashboardService) Stats() (*DashboardStats, error) {
	users, err := s.userRepo.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	tasks, err := s.taskRepo.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	positions, _, err := s.positionRepo.List(1, dashboardPositionLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}

	return &DashboardStats{
		UsersByPosition: CountUsersByPosition(users),
		TasksByStatus:   CountTasksByStatus(tasks),
		Deadlines:       CountDeadlines(tasks, s.now()),
		Positions:       positions,
		TotalUsers:      len(users),
		TotalTasks:      len(tasks),
	}, nil
}

// CountUsersByPosition tallies users per position name in first-seen order.
func CountUsersByPosition(users []models.User) []Bucket {
	buckets := make([]Bucket, 0)
	index := make(map[string]int)
	for _, user := range users {
		name := UnassignedPosition
		if user.Position != nil && user.Position.Name != "" {
			name = user.Position.Name
		}
		if i, ok := index[name]; ok {
			buckets[i].Value++
			continue
		}
		index[name] = len(buckets)
		buckets = append(buckets, Bucket{Type: name, Value: 1})
	}
	return buckets
}

// CountTasksByStatus tallies tasks per status. The known statuses are always
// present; an empty status counts as None.
func CountTasksByStatus(tasks []models.Task) []Bucket {
	buckets := make([]Bucket, 0, len(models.TaskStatuses))
	index := make(map[models.TaskStatus]int, len(models.TaskStatuses))
	for _, status := range models.TaskStatuses {
		index[status] = len(buckets)
		buckets = append(buckets, Bucket{Type: string(status)})
	}

	for _, task := range tasks {
		status := task.Status
		if status == "" {
			status = models.TaskStatusNone
		}
		if i, ok := index[status]; ok {
			buckets[i].Value++
			continue
		}
		index[status] = len(buckets)
		buckets = append(buckets, Bucket{Type: string(status), Value: 1})
	}
	return buckets
}

// IsLate reports whether a task missed its deadline: still open after it,
// or completed after it. Tasks without a deadline are never late.
func IsLate(task models.Task, now time.Time) bool {
	if task.Deadline == nil {
		return false
	}
	if task.IsDone() {
		return task.CompletionTime != nil && task.CompletionTime.After(*task.Deadline)
	}
	return now.After(*task.Deadline)
}

// CountDeadlines splits tasks into on-time and late buckets.
func CountDeadlines(tasks []models.Task, now time.Time) []Bucket {
	onTime, late := 0, 0
	for _, task := range tasks {
		if IsLate(task, now) {
			late++
		} else {
			onTime++
		}
	}
	return []Bucket{
		{Type: DeadlineOnTime, Value: onTime},
		{Type: DeadlineLate, Value: late},
	}
}
