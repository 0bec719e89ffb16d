package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/okr-dashboard/internal/dto"
	apierrors "github.com/yukikurage/okr-dashboard/internal/errors"
	"github.com/yukikurage/okr-dashboard/internal/services"
	"github.com/yukikurage/okr-dashboard/internal/utils"
)

// PositionHandler serves the /postions resource.
type PositionHandler struct {
	positionService *services.PositionService
}

// NewPositionHandler creates a new PositionHandler.
func NewPositionHandler(positionService *services.PositionService) *PositionHandler {
	return &PositionHandler{positionService: positionService}
}

// ListPositions returns a page of positions
func (h *PositionHandler) ListPositions(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	positions, total, err := h.positionService.List(params.Page, params.PageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(dto.ToPositionDTOs(positions), params, total))
}

// GetPosition returns a position by ID
func (h *PositionHandler) GetPosition(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid position ID")
		return
	}

	position, err := h.positionService.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DataResponse[dto.PositionDTO]{Data: dto.ToPositionDTO(*position)})
}

// CreatePosition creates a position
func (h *PositionHandler) CreatePosition(c *gin.Context) {
	type CreatePositionRequest struct {
		Name    string `json:"name" binding:"required"`
		IsAdmin bool   `json:"is_admin"`
	}

	var req CreatePositionRequest
	if err := bindData(c, &req); err != nil {
		respondBindError(c, err)
		return
	}

	position, err := h.positionService.Create(req.Name, req.IsAdmin)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.DataResponse[dto.PositionDTO]{Data: dto.ToPositionDTO(*position)})
}

// UpdatePosition renames a position or flips its admin flag
func (h *PositionHandler) UpdatePosition(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid position ID")
		return
	}

	type UpdatePositionRequest struct {
		Name    *string `json:"name"`
		IsAdmin *bool   `json:"is_admin"`
	}

	var req UpdatePositionRequest
	if err := bindData(c, &req); err != nil {
		respondBindError(c, err)
		return
	}

	position, err := h.positionService.Update(id, services.UpdatePositionInput{
		Name:    req.Name,
		IsAdmin: req.IsAdmin,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DataResponse[dto.PositionDTO]{Data: dto.ToPositionDTO(*position)})
}

// DeletePosition removes a position and detaches its users
func (h *PositionHandler) DeletePosition(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid position ID")
		return
	}

	if err := h.positionService.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Position deleted successfully"})
}
