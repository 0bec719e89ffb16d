package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/okr-dashboard/internal/dto"
	apierrors "github.com/yukikurage/okr-dashboard/internal/errors"
	"github.com/yukikurage/okr-dashboard/internal/models"
	"github.com/yukikurage/okr-dashboard/internal/services"
)

// GoalHandler serves the goal lists embedded in user records.
type GoalHandler struct {
	goalService *services.GoalService
}

// NewGoalHandler creates a new GoalHandler.
func NewGoalHandler(goalService *services.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// goalTarget parses the :id and :period parameters
func goalTarget(c *gin.Context) (uint64, models.GoalPeriod, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid user ID")
		return 0, "", false
	}

	period, err := services.ParsePeriod(c.Param("period"))
	if err != nil {
		respondServiceError(c, err)
		return 0, "", false
	}

	return id, period, true
}

// ListGoals returns one period's goals, optionally for a single day
func (h *GoalHandler) ListGoals(c *gin.Context) {
	userID, period, ok := goalTarget(c)
	if !ok {
		return
	}

	goals, err := h.goalService.List(userID, period, c.Query("date"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DataResponse[[]models.Goal]{Data: goals})
}

// AddGoal appends a goal to a period
func (h *GoalHandler) AddGoal(c *gin.Context) {
	userID, period, ok := goalTarget(c)
	if !ok {
		return
	}

	type AddGoalRequest struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		Quantity    int    `json:"quantity"`
		Period      string `json:"period"`
	}

	var req AddGoalRequest
	if err := bindData(c, &req); err != nil {
		respondBindError(c, err)
		return
	}

	goals, err := h.goalService.Add(userID, period, services.AddGoalInput{
		Name:        req.Name,
		Description: req.Description,
		Quantity:    req.Quantity,
		Period:      req.Period,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.DataResponse[[]models.Goal]{Data: goals})
}

// EditGoal merges the supplied fields into one goal
func (h *GoalHandler) EditGoal(c *gin.Context) {
	userID, period, ok := goalTarget(c)
	if !ok {
		return
	}

	type EditGoalRequest struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Quantity    *int    `json:"quantity"`
		Progress    *int    `json:"progress"`
		Period      *string `json:"period"`
	}

	var req EditGoalRequest
	if err := bindData(c, &req); err != nil {
		respondBindError(c, err)
		return
	}

	goals, err := h.goalService.Edit(userID, period, c.Param("goalId"), services.EditGoalInput{
		Name:        req.Name,
		Description: req.Description,
		Quantity:    req.Quantity,
		Progress:    req.Progress,
		Period:      req.Period,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DataResponse[[]models.Goal]{Data: goals})
}

// DeleteGoal removes one goal
func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	userID, period, ok := goalTarget(c)
	if !ok {
		return
	}

	goals, err := h.goalService.Delete(userID, period, c.Param("goalId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DataResponse[[]models.Goal]{Data: goals})
}

// ReplaceGoals overwrites every period present in the body
func (h *GoalHandler) ReplaceGoals(c *gin.Context) {
	userID, ok := paramID(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	var req map[models.GoalPeriod][]models.Goal
	if err := bindData(c, &req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.goalService.ReplaceAll(userID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DataResponse[dto.GoalsDTO]{Data: dto.ToGoalsDTO(*user)})
}
