package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/okr-dashboard/internal/constants"
	"github.com/yukikurage/okr-dashboard/internal/models"
	"github.com/yukikurage/okr-dashboard/internal/repository"
	"github.com/yukikurage/okr-dashboard/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrUserAlreadyExists   = errors.New("username or email already exists")
	ErrInvalidUsername     = errors.New("username must be between 3 and 50 characters")
	ErrInvalidEmail        = errors.New("a valid email is required")
	ErrAdminFieldForbidden = errors.New("only administrators can change position, blocked or confirmed")
	ErrCannotDeleteSelf    = errors.New("administrators cannot delete their own account")
)

// AdminPositionName is the position created for the bootstrap administrator.
const AdminPositionName = "Administrator"

// UserService handles user management
type UserService struct {
	userRepo     repository.UserRepository
	positionRepo repository.PositionRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository, positionRepo repository.PositionRepository) *UserService {
	return &UserService{
		userRepo:     userRepo,
		positionRepo: positionRepo,
	}
}

// CreateUserInput represents input for creating a user
type CreateUserInput struct {
	Username   string
	Email      string
	Password   string
	Name       string
	Phone      string
	PositionID *uint64
	Confirmed  *bool
	Blocked    *bool
}

// UpdateUserInput represents a partial user update. Position, Blocked and
// Confirmed may only be changed by administrators.
type UpdateUserInput struct {
	Name          *string
	Email         *string
	Phone         *string
	IsInstruct    *bool
	PositionID    *uint64
	ClearPosition bool
	Blocked       *bool
	Confirmed     *bool
}

func (in UpdateUserInput) touchesAdminFields() bool {
	return in.PositionID != nil || in.ClearPosition || in.Blocked != nil || in.Confirmed != nil
}

// List returns a page of users
func (s *UserService) List(page, pageSize int, populate ...string) ([]models.User, int64, error) {
	users, total, err := s.userRepo.List(page, pageSize, populate...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// Get returns a user with the requested relations
func (s *UserService) Get(id uint64, populate ...string) (*models.User, error) {
	user, err := s.userRepo.FindByID(id, populate...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// Create registers a user. When no password is supplied a random one is
// generated and returned so it can be handed to the user once.
func (s *UserService) Create(input CreateUserInput) (*models.User, string, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)

	if len(username) < constants.MinUsernameLength || len(username) > constants.MaxUsernameLength {
		return nil, "", ErrInvalidUsername
	}
	if !validEmail(email) {
		return nil, "", ErrInvalidEmail
	}

	var generated string
	password := input.Password
	if password == "" {
		var err error
		generated, err = utils.GeneratePassword()
		if err != nil {
			return nil, "", fmt.Errorf("failed to generate password: %w", err)
		}
		password = generated
	}
	if len(password) < constants.MinPasswordLength {
		return nil, "", ErrPasswordTooShort
	}

	exists, err := s.userRepo.ExistsByUsernameOrEmail(username, email, 0)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check user: %w", err)
	}
	if exists {
		return nil, "", ErrUserAlreadyExists
	}

	if input.PositionID != nil {
		if err := s.ensurePosition(*input.PositionID); err != nil {
			return nil, "", err
		}
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		Phone:        input.Phone,
		Name:         input.Name,
		PasswordHash: hash,
		PositionID:   input.PositionID,
		IsInstruct:   true,
		Confirmed:    true,
	}
	if input.Confirmed != nil {
		user.Confirmed = *input.Confirmed
	}
	if input.Blocked != nil {
		user.Blocked = *input.Blocked
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	// gorm skips false for columns with a non-false default on insert
	if !user.Confirmed {
		if err := s.userRepo.UpdateColumns(user, "confirmed"); err != nil {
			return nil, "", fmt.Errorf("failed to create user: %w", err)
		}
	}

	created, err := s.Get(user.ID, "Position")
	if err != nil {
		return nil, "", err
	}
	return created, generated, nil
}

// Update applies a partial update on behalf of actor.
func (s *UserService) Update(id uint64, actor *models.User, input UpdateUserInput) (*models.User, error) {
	if input.touchesAdminFields() && (actor == nil || !actor.IsAdmin()) {
		return nil, ErrAdminFieldForbidden
	}

	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	columns := make([]string, 0, 8)
	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
		columns = append(columns, "name")
	}
	if input.Phone != nil {
		user.Phone = strings.TrimSpace(*input.Phone)
		columns = append(columns, "phone")
	}
	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if !validEmail(email) {
			return nil, ErrInvalidEmail
		}
		if email != user.Email {
			exists, err := s.userRepo.ExistsByUsernameOrEmail("", email, user.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to check user: %w", err)
			}
			if exists {
				return nil, ErrUserAlreadyExists
			}
		}
		user.Email = email
		columns = append(columns, "email")
	}
	if input.IsInstruct != nil {
		user.IsInstruct = *input.IsInstruct
		columns = append(columns, "is_instruct")
	}
	if input.ClearPosition {
		user.PositionID = nil
		columns = append(columns, "position_id")
	} else if input.PositionID != nil {
		if err := s.ensurePosition(*input.PositionID); err != nil {
			return nil, err
		}
		user.PositionID = input.PositionID
		columns = append(columns, "position_id")
	}
	if input.Blocked != nil {
		user.Blocked = *input.Blocked
		columns = append(columns, "blocked")
	}
	if input.Confirmed != nil {
		user.Confirmed = *input.Confirmed
		columns = append(columns, "confirmed")
	}

	if len(columns) > 0 {
		if err := s.userRepo.UpdateColumns(user, columns...); err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
	}

	return s.Get(id, "Position")
}

// SetGuide turns the guide tooltips on or off for a user.
func (s *UserService) SetGuide(id uint64, enabled bool) (*models.User, error) {
	return s.Update(id, nil, UpdateUserInput{IsInstruct: &enabled})
}

// Delete removes a user and their tasks.
func (s *UserService) Delete(id, actorID uint64) error {
	if id == actorID {
		return ErrCannotDeleteSelf
	}

	if _, err := s.Get(id); err != nil {
		return err
	}

	if err := s.userRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// EnsureAdmin creates the bootstrap administrator and its position unless a
// user with that username already exists. It reports whether a user was
// created.
func (s *UserService) EnsureAdmin(username, email, password string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}

	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return false, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("failed to find user: %w", err)
	}

	position, err := s.positionRepo.FindByName(AdminPositionName)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return false, fmt.Errorf("failed to find position: %w", err)
		}
		position = &models.Position{Name: AdminPositionName, IsAdmin: true}
		if err := s.positionRepo.Create(position); err != nil {
			return false, fmt.Errorf("failed to create position: %w", err)
		}
	}

	if email == "" {
		email = username + "@localhost"
	}

	_, _, err = s.Create(CreateUserInput{
		Username:   username,
		Email:      email,
		Password:   password,
		Name:       username,
		PositionID: &position.ID,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *UserService) ensurePosition(id uint64) error {
	if _, err := s.positionRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPositionNotFound
		}
		return fmt.Errorf("failed to find position: %w", err)
	}
	return nil
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t")
}
