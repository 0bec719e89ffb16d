package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/okr-dashboard/internal/models"
	"github.com/yukikurage/okr-dashboard/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrPositionNotFound     = errors.New("position not found")
	ErrPositionNameRequired = errors.New("position name is required")
	ErrPositionNameTaken    = errors.New("position name already exists")
)

// PositionService handles position management
type PositionService struct {
	positionRepo repository.PositionRepository
}

// NewPositionService creates a new PositionService
func NewPositionService(positionRepo repository.PositionRepository) *PositionService {
	return &PositionService{positionRepo: positionRepo}
}

// UpdatePositionInput represents a partial position update
type UpdatePositionInput struct {
	Name    *string
	IsAdmin *bool
}

// List returns a page of positions
func (s *PositionService) List(page, pageSize int) ([]models.Position, int64, error) {
	positions, total, err := s.positionRepo.List(page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list positions: %w", err)
	}
	return positions, total, nil
}

// Get returns a position by ID
func (s *PositionService) Get(id uint64) (*models.Position, error) {
	position, err := s.positionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPositionNotFound
		}
		return nil, fmt.Errorf("failed to find position: %w", err)
	}
	return position, nil
}

// Create creates a position with a unique name
func (s *PositionService) Create(name string, isAdmin bool) (*models.Position, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrPositionNameRequired
	}
	if err := s.ensureNameFree(name, 0); err != nil {
		return nil, err
	}

	position := &models.Position{Name: name, IsAdmin: isAdmin}
	if err := s.positionRepo.Create(position); err != nil {
		return nil, fmt.Errorf("failed to create position: %w", err)
	}
	return position, nil
}

// Update renames a position or changes its admin flag
func (s *PositionService) Update(id uint64, input UpdatePositionInput) (*models.Position, error) {
	position, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrPositionNameRequired
		}
		if err := s.ensureNameFree(name, id); err != nil {
			return nil, err
		}
		position.Name = name
	}
	if input.IsAdmin != nil {
		position.IsAdmin = *input.IsAdmin
	}

	if err := s.positionRepo.Update(position); err != nil {
		return nil, fmt.Errorf("failed to update position: %w", err)
	}
	return position, nil
}

// Delete removes a position; its users are kept without a position.
func (s *PositionService) Delete(id uint64) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	if err := s.positionRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete position: %w", err)
	}
	return nil
}

func (s *PositionService) ensureNameFree(name string, exceptID uint64) error {
	existing, err := s.positionRepo.FindByName(name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to find position: %w", err)
	}
	if existing.ID != exceptID {
		return ErrPositionNameTaken
	}
	return nil
}
