package repository

import (
	"github.com/yukikurage/okr-dashboard/internal/database"
	"github.com/yukikurage/okr-dashboard/internal/models"
	"github.com/yukikurage/okr-dashboard/internal/utils"
	"gorm.io/gorm"
)

// GormPositionRepository is a GORM implementation of PositionRepository
type GormPositionRepository struct {
	db *gorm.DB
}

// NewPositionRepository creates a new PositionRepository
func NewPositionRepository(db *gorm.DB) PositionRepository {
	return &GormPositionRepository{db: db}
}

// Create creates a new position
func (r *GormPositionRepository) Create(position *models.Position) error {
	return r.db.Create(position).Error
}

// FindByID finds a position by ID
func (r *GormPositionRepository) FindByID(id uint64) (*models.Position, error) {
	var position models.Position
	if err := r.db.First(&position, id).Error; err != nil {
		return nil, err
	}
	return &position, nil
}

// FindByName finds a position by name
func (r *GormPositionRepository) FindByName(name string) (*models.Position, error) {
	var position models.Position
	if err := r.db.Where("name = ?", name).First(&position).Error; err != nil {
		return nil, err
	}
	return &position, nil
}

// List retrieves positions with pagination
func (r *GormPositionRepository) List(page, pageSize int) ([]models.Position, int64, error) {
	var positions []models.Position
	var total int64

	if err := r.db.Model(&models.Position{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.db.Order("id ASC")
	if page > 0 && pageSize > 0 {
		query = query.Scopes(database.Paginate(utils.NewPaginationParams(page, pageSize)))
	}
	if err := query.Find(&positions).Error; err != nil {
		return nil, 0, err
	}

	return positions, total, nil
}

// Update updates a position
func (r *GormPositionRepository) Update(position *models.Position) error {
	return r.db.Save(position).Error
}

// Delete deletes a position and detaches its users in a transaction
func (r *GormPositionRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).
			Where("position_id = ?", id).
			Update("position_id", nil).Error; err != nil {
			return err
		}

		return tx.Unscoped().Delete(&models.Position{}, id).Error
	})
}
