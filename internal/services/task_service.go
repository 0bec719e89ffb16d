package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/okr-dashboard/internal/constants"
	"github.com/yukikurage/okr-dashboard/internal/metrics"
	"github.com/yukikurage/okr-dashboard/internal/models"
	"github.com/yukikurage/okr-dashboard/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrTitleRequired          = errors.New("title is required")
	ErrTitleEmpty             = errors.New("title cannot be empty")
	ErrInvalidStatus          = errors.New("invalid task status")
	ErrInvalidProgress        = errors.New("progress must be between 0 and 100")
	ErrInvalidHours           = errors.New("hours cannot be negative")
	ErrInvalidDate            = errors.New("invalid date, expected YYYY-MM-DD")
	ErrTaskAlreadyStarted     = errors.New("task is already in progress")
	ErrTaskAlreadyDone        = errors.New("task is already done")
	ErrSuggestTextRequired    = errors.New("text is required")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be created from AI output")
)

// TaskSuggester turns free text into task drafts.
type TaskSuggester interface {
	SuggestTasks(ctx context.Context, text string) ([]TaskDraft, error)
}

// TaskService handles task business logic
type TaskService struct {
	taskRepo  repository.TaskRepository
	userRepo  repository.UserRepository
	suggester TaskSuggester
	loc       *time.Location
	now       func() time.Time
}

// NewTaskService creates a new TaskService. suggester may be nil when no AI
// backend is configured.
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository, suggester TaskSuggester, loc *time.Location) *TaskService {
	if loc == nil {
		loc = time.Local
	}
	return &TaskService{
		taskRepo:  taskRepo,
		userRepo:  userRepo,
		suggester: suggester,
		loc:       loc,
		now:       time.Now,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	UserID   *uint64
	Status   *models.TaskStatus
	Date     string
	Page     int
	PageSize int
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	Status      models.TaskStatus
	Progress    int
	Deadline    *time.Time
	IsImportant bool
	Repeat      bool
	Hours       float64
	UserID      uint64
}

// UpdateTaskInput represents input for updating a task
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	Status        *models.TaskStatus
	Progress      *int
	Deadline      *time.Time
	ClearDeadline bool
	IsImportant   *bool
	Repeat        *bool
	Hours         *float64
}

// DayView is one user's tasks for a calendar day in display order.
type DayView struct {
	Date       string
	Tasks      []models.Task
	TotalHours float64
}

// ListTasks returns tasks matching the provided filters
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, int64, error) {
	filter := repository.TaskFilter{
		UserID:   input.UserID,
		Page:     input.Page,
		PageSize: input.PageSize,
	}

	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, 0, ErrInvalidStatus
		}
		filter.Status = input.Status
	}

	if input.Date != "" {
		from, to, err := DayBounds(input.Date, s.now(), s.loc)
		if err != nil {
			return nil, 0, err
		}
		from, to = from.UTC(), to.UTC()
		filter.CreatedFrom = &from
		filter.CreatedTo = &to
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// ListForDay returns the tasks a user created on date, sorted for display,
// with their summed estimated hours. An empty date means today.
func (s *TaskService) ListForDay(userID uint64, date string) (*DayView, error) {
	if _, err := s.findUser(userID); err != nil {
		return nil, err
	}

	from, to, err := DayBounds(date, s.now(), s.loc)
	if err != nil {
		return nil, err
	}
	// timestamps are stored in UTC
	from, to = from.UTC(), to.UTC()

	tasks, _, err := s.taskRepo.List(repository.TaskFilter{
		UserID:      &userID,
		CreatedFrom: &from,
		CreatedTo:   &to,
		OldestFirst: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	SortForDisplay(tasks)

	return &DayView{
		Date:       from.Format(constants.DateLayout),
		Tasks:      tasks,
		TotalHours: TotalHours(tasks),
	}, nil
}

// GetTask returns a task with its owner
func (s *TaskService) GetTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "User")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// CreateTask creates a new task for input.UserID
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	if input.Status == "" {
		input.Status = models.TaskStatusNone
	}
	if !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if !validProgress(input.Progress) {
		return nil, ErrInvalidProgress
	}
	if input.Hours < 0 {
		return nil, ErrInvalidHours
	}

	if _, err := s.findUser(input.UserID); err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:       title,
		Description: input.Description,
		Status:      input.Status,
		Progress:    input.Progress,
		Deadline:    input.Deadline,
		IsImportant: input.IsImportant,
		Repeat:      input.Repeat,
		Hours:       input.Hours,
		UserID:      input.UserID,
	}

	if task.Status == models.TaskStatusInProgress {
		start := s.now().UTC()
		task.StartAt = &start
	}
	if task.IsDone() {
		s.markDone(task)
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	metrics.TasksCreated.Inc()

	return s.GetTask(task.ID)
}

// UpdateTask applies a partial update. Moving a task to Done records its
// completion; moving it out of Done clears the completion record.
func (s *TaskService) UpdateTask(taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.GetTask(taskID)
	if err != nil {
		return nil, err
	}
	wasDone := task.IsDone()

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleEmpty
		}
		task.Title = title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Progress != nil {
		if !validProgress(*input.Progress) {
			return nil, ErrInvalidProgress
		}
		task.Progress = *input.Progress
	}
	if input.Hours != nil {
		if *input.Hours < 0 {
			return nil, ErrInvalidHours
		}
		task.Hours = *input.Hours
	}
	if input.IsImportant != nil {
		task.IsImportant = *input.IsImportant
	}
	if input.Repeat != nil {
		task.Repeat = *input.Repeat
	}
	if input.ClearDeadline {
		task.Deadline = nil
	} else if input.Deadline != nil {
		task.Deadline = input.Deadline
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		task.Status = *input.Status
	}

	switch {
	case task.IsDone() && !wasDone:
		s.markDone(task)
		metrics.TasksCompleted.Inc()
	case !task.IsDone() && wasDone:
		task.CompletionTime = nil
		task.TimeDone = nil
	}
	if task.Status == models.TaskStatusInProgress && task.StartAt == nil {
		start := s.now().UTC()
		task.StartAt = &start
	}

	return s.save(task)
}

// DeleteTask deletes a task
func (s *TaskService) DeleteTask(taskID uint64) error {
	if _, err := s.GetTask(taskID); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// StartTask stamps the start time and moves the task to In progress.
func (s *TaskService) StartTask(taskID uint64) (*models.Task, error) {
	task, err := s.GetTask(taskID)
	if err != nil {
		return nil, err
	}

	switch task.Status {
	case models.TaskStatusInProgress:
		return nil, ErrTaskAlreadyStarted
	case models.TaskStatusDone:
		return nil, ErrTaskAlreadyDone
	}

	start := s.now().UTC()
	task.StartAt = &start
	task.Status = models.TaskStatusInProgress

	return s.save(task)
}

// UpdateProgress sets the task's progress. Reaching 100 completes it.
func (s *TaskService) UpdateProgress(taskID uint64, progress int) (*models.Task, error) {
	if !validProgress(progress) {
		return nil, ErrInvalidProgress
	}

	task, err := s.GetTask(taskID)
	if err != nil {
		return nil, err
	}
	if task.IsDone() {
		return nil, ErrTaskAlreadyDone
	}

	task.Progress = progress
	if progress == constants.MaxProgress {
		task.Status = models.TaskStatusDone
		s.markDone(task)
		metrics.TasksCompleted.Inc()
	}

	return s.save(task)
}

// CompleteTask marks the task Done and records how long it took.
func (s *TaskService) CompleteTask(taskID uint64) (*models.Task, error) {
	task, err := s.GetTask(taskID)
	if err != nil {
		return nil, err
	}
	if task.IsDone() {
		return nil, ErrTaskAlreadyDone
	}

	task.Status = models.TaskStatusDone
	s.markDone(task)
	metrics.TasksCompleted.Inc()

	return s.save(task)
}

// SuggestTasks asks the configured suggester for drafts and drops the ones
// that cannot become tasks.
func (s *TaskService) SuggestTasks(ctx context.Context, text string) ([]TaskDraft, error) {
	if s.suggester == nil {
		return nil, ErrAIServiceNotConfigured
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrSuggestTextRequired
	}

	drafts, err := s.suggester.SuggestTasks(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest tasks: %w", err)
	}

	if len(drafts) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(drafts) > constants.MaxSuggestedTasks {
		drafts = drafts[:constants.MaxSuggestedTasks]
	}

	valid := make([]TaskDraft, 0, len(drafts))
	cutoff := s.now().Add(-24 * time.Hour)
	for _, draft := range drafts {
		draft.Title = strings.TrimSpace(draft.Title)
		if draft.Title == "" {
			continue
		}
		if draft.Deadline != nil && draft.Deadline.Before(cutoff) {
			draft.Deadline = nil
		}
		if draft.Hours < 0 {
			draft.Hours = 0
		}
		valid = append(valid, draft)
	}

	if len(valid) == 0 {
		return nil, ErrAINoValidTasks
	}

	return valid, nil
}

// markDone records completion: full progress, completion time and, when the
// task was started, the hours spent.
func (s *TaskService) markDone(task *models.Task) {
	done := s.now().UTC()
	task.Progress = constants.MaxProgress
	task.CompletionTime = &done
	task.TimeDone = nil
	if task.StartAt != nil {
		hours := hoursBetween(*task.StartAt, done)
		task.TimeDone = &hours
	}
}

func (s *TaskService) save(task *models.Task) (*models.Task, error) {
	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return s.GetTask(task.ID)
}

func (s *TaskService) findUser(userID uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

func validProgress(progress int) bool {
	return progress >= constants.MinProgress && progress <= constants.MaxProgress
}
