package repository

import (
	"time"

	"github.com/yukikurage/okr-dashboard/internal/models"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// ListAll retrieves every task without pagination, for statistics
	ListAll() ([]models.Task, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete soft deletes a task
	Delete(id uint64) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	UserID      *uint64
	Status      *models.TaskStatus
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	OldestFirst bool
	Page        int
	PageSize    int
}

// PositionRepository defines the interface for position data access
type PositionRepository interface {
	// Create creates a new position
	Create(position *models.Position) error

	// FindByID finds a position by ID
	FindByID(id uint64) (*models.Position, error)

	// FindByName finds a position by name
	FindByName(name string) (*models.Position, error)

	// List retrieves positions with pagination
	List(page, pageSize int) ([]models.Position, int64, error)

	// Update updates a position
	Update(position *models.Position) error

	// Delete deletes a position and detaches its users
	Delete(id uint64) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// FindByIdentifier finds a user whose username or email equals identifier
	FindByIdentifier(identifier string) (*models.User, error)

	// ExistsByUsernameOrEmail reports whether another user already uses the
	// username or email; excludeID skips the user being edited
	ExistsByUsernameOrEmail(username, email string, excludeID uint64) (bool, error)

	// List retrieves users with pagination and optional preloading
	List(page, pageSize int, preload ...string) ([]models.User, int64, error)

	// ListAll retrieves every user with their position, for statistics
	ListAll() ([]models.User, error)

	// UpdateColumns writes only the named columns of user, zero values included
	UpdateColumns(user *models.User, columns ...string) error

	// Delete deletes a user and their tasks
	Delete(id uint64) error
}
