package dto

import (
	"time"

	"github.com/yukikurage/okr-dashboard/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID           uint64        `json:"id"`
	Username     string        `json:"username"`
	Email        string        `json:"email"`
	Phone        string        `json:"phone"`
	Name         string        `json:"name"`
	PositionID   *uint64       `json:"position_id"`
	IsInstruct   bool          `json:"is_instruct"`
	Confirmed    bool          `json:"confirmed"`
	Blocked      bool          `json:"blocked"`
	GoalDaily    []models.Goal `json:"goal_daily"`
	GoalWeek     []models.Goal `json:"goal_week"`
	GoalPrecious []models.Goal `json:"goal_precious"`
	GoalMonth    []models.Goal `json:"goal_month"`
	GoalYear     []models.Goal `json:"goal_year"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	Position     *PositionDTO  `json:"postion,omitempty"`
	Tasks        []TaskDTO     `json:"tasks,omitempty"`
}

// UserSummaryDTO is the owner shown next to a task
type UserSummaryDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// LoginResponse is returned by a successful login
type LoginResponse struct {
	JWT  string  `json:"jwt"`
	User UserDTO `json:"user"`
}

// CreatedUserResponse is returned when an administrator creates a user.
// GeneratedPassword is only set when the server picked the password.
type CreatedUserResponse struct {
	Data              UserDTO `json:"data"`
	GeneratedPassword string  `json:"generated_password,omitempty"`
}

// GoalsDTO holds every goal list of a user
type GoalsDTO struct {
	Daily   []models.Goal `json:"daily"`
	Week    []models.Goal `json:"week"`
	Quarter []models.Goal `json:"quarter"`
	Month   []models.Goal `json:"month"`
	Year    []models.Goal `json:"year"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	dto := UserDTO{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		Phone:        user.Phone,
		Name:         user.Name,
		PositionID:   user.PositionID,
		IsInstruct:   user.IsInstruct,
		Confirmed:    user.Confirmed,
		Blocked:      user.Blocked,
		GoalDaily:    goalsOrEmpty(user.GoalDaily),
		GoalWeek:     goalsOrEmpty(user.GoalWeek),
		GoalPrecious: goalsOrEmpty(user.GoalPrecious),
		GoalMonth:    goalsOrEmpty(user.GoalMonth),
		GoalYear:     goalsOrEmpty(user.GoalYear),
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}

	// Include position if preloaded
	if user.Position != nil {
		position := ToPositionDTO(*user.Position)
		dto.Position = &position
	}

	return dto
}

// ToUserDTOWithTasks converts a User and its preloaded tasks
func ToUserDTOWithTasks(user models.User) UserDTO {
	dto := ToUserDTO(user)
	dto.Tasks = ToTaskDTOs(user.Tasks)
	return dto
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	items := make([]UserDTO, len(users))
	for i, user := range users {
		items[i] = ToUserDTO(user)
	}
	return items
}

// ToUserSummaryDTO converts a User model to UserSummaryDTO
func ToUserSummaryDTO(user models.User) UserSummaryDTO {
	return UserSummaryDTO{
		ID:       user.ID,
		Username: user.Username,
		Name:     user.Name,
	}
}

// ToGoalsDTO collects the goal lists of a user
func ToGoalsDTO(user models.User) GoalsDTO {
	return GoalsDTO{
		Daily:   goalsOrEmpty(user.GoalDaily),
		Week:    goalsOrEmpty(user.GoalWeek),
		Quarter: goalsOrEmpty(user.GoalPrecious),
		Month:   goalsOrEmpty(user.GoalMonth),
		Year:    goalsOrEmpty(user.GoalYear),
	}
}

func goalsOrEmpty(goals []models.Goal) []models.Goal {
	if goals == nil {
		return []models.Goal{}
	}
	return goals
}
