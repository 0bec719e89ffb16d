package dto

import (
	"time"

	"github.com/yukikurage/okr-dashboard/internal/models"
)

// PositionDTO represents a position in API responses
type PositionDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToPositionDTO converts a Position model to PositionDTO
func ToPositionDTO(position models.Position) PositionDTO {
	return PositionDTO{
		ID:        position.ID,
		Name:      position.Name,
		IsAdmin:   position.IsAdmin,
		CreatedAt: position.CreatedAt,
		UpdatedAt: position.UpdatedAt,
	}
}

// ToPositionDTOs converts a slice of positions
func ToPositionDTOs(positions []models.Position) []PositionDTO {
	items := make([]PositionDTO, len(positions))
	for i, position := range positions {
		items[i] = ToPositionDTO(position)
	}
	return items
}
