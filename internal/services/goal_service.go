package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/okr-dashboard/internal/metrics"
	"github.com/yukikurage/okr-dashboard/internal/models"
	"github.com/yukikurage/okr-dashboard/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrInvalidPeriod    = errors.New("invalid goal period")
	ErrGoalNotFound     = errors.New("goal not found")
	ErrGoalNameRequired = errors.New("goal name is required")
	ErrInvalidQuantity  = errors.New("quantity cannot be negative")
)

// GoalService manages the goal lists embedded in user records.
type GoalService struct {
	userRepo repository.UserRepository
	loc      *time.Location
	now      func() time.Time
	newID    func() string
}

// NewGoalService creates a new GoalService
func NewGoalService(userRepo repository.UserRepository, loc *time.Location) *GoalService {
	if loc == nil {
		loc = time.Local
	}
	return &GoalService{
		userRepo: userRepo,
		loc:      loc,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// AddGoalInput represents input for adding a goal
type AddGoalInput struct {
	Name        string
	Description string
	Quantity    int
	Period      string
}

// EditGoalInput represents a partial goal update
type EditGoalInput struct {
	Name        *string
	Description *string
	Quantity    *int
	Progress    *int
	Period      *string
}

// ParsePeriod validates a period path segment.
func ParsePeriod(raw string) (models.GoalPeriod, error) {
	period := models.GoalPeriod(strings.ToLower(strings.TrimSpace(raw)))
	if !period.Valid() {
		return "", ErrInvalidPeriod
	}
	return period, nil
}

// List returns the user's goals for period. A non-empty date keeps only
// the goals created on that calendar day.
func (s *GoalService) List(userID uint64, period models.GoalPeriod, date string) ([]models.Goal, error) {
	user, err := s.findUser(userID)
	if err != nil {
		return nil, err
	}
	if !period.Valid() {
		return nil, ErrInvalidPeriod
	}

	goals := user.Goals(period)
	if date == "" {
		return nonNilGoals(goals), nil
	}

	from, to, err := DayBounds(date, s.now(), s.loc)
	if err != nil {
		return nil, err
	}

	filtered := make([]models.Goal, 0, len(goals))
	for _, goal := range goals {
		if !goal.CreatedAt.Before(from) && goal.CreatedAt.Before(to) {
			filtered = append(filtered, goal)
		}
	}
	return filtered, nil
}

// Add appends a goal with zero progress and returns the refreshed list.
func (s *GoalService) Add(userID uint64, period models.GoalPeriod, input AddGoalInput) ([]models.Goal, error) {
	if !period.Valid() {
		return nil, ErrInvalidPeriod
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrGoalNameRequired
	}
	if input.Quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	user, err := s.findUser(userID)
	if err != nil {
		return nil, err
	}

	goal := models.Goal{
		ID:          s.newID(),
		Name:        name,
		Description: input.Description,
		Quantity:    input.Quantity,
		Progress:    0,
		Period:      input.Period,
		CreatedAt:   s.now().UTC(),
	}

	goals := append(nonNilGoals(user.Goals(period)), goal)
	if err := s.store(user, period, goals); err != nil {
		return nil, err
	}
	metrics.GoalMutations.WithLabelValues("add").Inc()

	return s.List(userID, period, "")
}

// Edit merges the supplied fields into the goal with goalID.
func (s *GoalService) Edit(userID uint64, period models.GoalPeriod, goalID string, input EditGoalInput) ([]models.Goal, error) {
	if !period.Valid() {
		return nil, ErrInvalidPeriod
	}

	user, err := s.findUser(userID)
	if err != nil {
		return nil, err
	}

	goals := nonNilGoals(user.Goals(period))
	index := indexOfGoal(goals, goalID)
	if index < 0 {
		return nil, ErrGoalNotFound
	}

	goal := goals[index]
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrGoalNameRequired
		}
		goal.Name = name
	}
	if input.Description != nil {
		goal.Description = *input.Description
	}
	if input.Quantity != nil {
		if *input.Quantity < 0 {
			return nil, ErrInvalidQuantity
		}
		goal.Quantity = *input.Quantity
	}
	if input.Progress != nil {
		if !validProgress(*input.Progress) {
			return nil, ErrInvalidProgress
		}
		goal.Progress = *input.Progress
	}
	if input.Period != nil {
		goal.Period = *input.Period
	}
	goals[index] = goal

	if err := s.store(user, period, goals); err != nil {
		return nil, err
	}
	metrics.GoalMutations.WithLabelValues("edit").Inc()

	return s.List(userID, period, "")
}

// Delete removes the goal with goalID and returns the refreshed list.
func (s *GoalService) Delete(userID uint64, period models.GoalPeriod, goalID string) ([]models.Goal, error) {
	if !period.Valid() {
		return nil, ErrInvalidPeriod
	}

	user, err := s.findUser(userID)
	if err != nil {
		return nil, err
	}

	goals := nonNilGoals(user.Goals(period))
	index := indexOfGoal(goals, goalID)
	if index < 0 {
		return nil, ErrGoalNotFound
	}

	remaining := append(goals[:index:index], goals[index+1:]...)
	if err := s.store(user, period, remaining); err != nil {
		return nil, err
	}
	metrics.GoalMutations.WithLabelValues("delete").Inc()

	return s.List(userID, period, "")
}

// ReplaceAll overwrites the lists of every period present in goals. Goals
// without an id get a fresh one; missing creation times are set to now.
// Periods absent from goals are left untouched.
func (s *GoalService) ReplaceAll(userID uint64, goals map[models.GoalPeriod][]models.Goal) (*models.User, error) {
	for period := range goals {
		if !period.Valid() {
			return nil, ErrInvalidPeriod
		}
	}

	user, err := s.findUser(userID)
	if err != nil {
		return nil, err
	}

	columns := make([]string, 0, len(goals))
	for _, period := range models.GoalPeriods {
		list, ok := goals[period]
		if !ok {
			continue
		}

		normalized := make([]models.Goal, 0, len(list))
		for _, goal := range list {
			goal.Name = strings.TrimSpace(goal.Name)
			if goal.Name == "" {
				return nil, ErrGoalNameRequired
			}
			if goal.Quantity < 0 {
				return nil, ErrInvalidQuantity
			}
			if !validProgress(goal.Progress) {
				return nil, ErrInvalidProgress
			}
			if goal.ID == "" {
				goal.ID = s.newID()
			}
			if goal.CreatedAt.IsZero() {
				goal.CreatedAt = s.now().UTC()
			}
			normalized = append(normalized, goal)
		}

		user.SetGoals(period, normalized)
		columns = append(columns, period.Column())
	}

	if len(columns) > 0 {
		if err := s.userRepo.UpdateColumns(user, columns...); err != nil {
			return nil, fmt.Errorf("failed to update goals: %w", err)
		}
		metrics.GoalMutations.WithLabelValues("replace").Inc()
	}

	return s.findUser(userID)
}

func (s *GoalService) store(user *models.User, period models.GoalPeriod, goals []models.Goal) error {
	user.SetGoals(period, goals)
	if err := s.userRepo.UpdateColumns(user, period.Column()); err != nil {
		return fmt.Errorf("failed to update goals: %w", err)
	}
	return nil
}

func (s *GoalService) findUser(userID uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

func indexOfGoal(goals []models.Goal, id string) int {
	for i, goal := range goals {
		if goal.ID == id {
			return i
		}
	}
	return -1
}

func nonNilGoals(goals []models.Goal) []models.Goal {
	if goals == nil {
		return []models.Goal{}
	}
	return goals
}
