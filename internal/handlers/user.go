package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/okr-dashboard/internal/dto"
	apierrors "github.com/yukikurage/okr-dashboard/internal/errors"
	"github.com/yukikurage/okr-dashboard/internal/logging"
	"github.com/yukikurage/okr-dashboard/internal/middleware"
	"github.com/yukikurage/okr-dashboard/internal/services"
	"github.com/yukikurage/okr-dashboard/internal/utils"
)

// UserHandler serves user management and per-user views.
type UserHandler struct {
	userService *services.UserService
	taskService *services.TaskService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService, taskService *services.TaskService) *UserHandler {
	return &UserHandler{
		userService: userService,
		taskService: taskService,
	}
}

// pickID prefers the first explicitly supplied id field.
func pickID(fields ...dto.NullableID) dto.NullableID {
	for _, f := range fields {
		if f.Set {
			return f
		}
	}
	return dto.NullableID{}
}

// ListUsers returns a page of users
func (h *UserHandler) ListUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	populate := utils.GetPopulate(c)

	users, total, err := h.userService.List(params.Page, params.PageSize, populate...)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(dto.ToUserDTOs(users), params, total))
}

// CreateUser registers a user on behalf of an administrator
func (h *UserHandler) CreateUser(c *gin.Context) {
	type CreateUserRequest struct {
		Username   string         `json:"username" binding:"required"`
		Email      string         `json:"email" binding:"required"`
		Password   string         `json:"password"`
		Name       string         `json:"name"`
		Phone      string         `json:"phone"`
		PositionID dto.NullableID `json:"position_id"`
		Postion    dto.NullableID `json:"postion"`
		Confirmed  *bool          `json:"confirmed"`
		Blocked    *bool          `json:"blocked"`
	}

	var req CreateUserRequest
	if err := bindData(c, &req); err != nil {
		respondBindError(c, err)
		return
	}

	user, generated, err := h.userService.Create(services.CreateUserInput{
		Username:   req.Username,
		Email:      req.Email,
		Password:   req.Password,
		Name:       req.Name,
		Phone:      req.Phone,
		PositionID: pickID(req.PositionID, req.Postion).Value,
		Confirmed:  req.Confirmed,
		Blocked:    req.Blocked,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	logging.FromContext(c).Info("user created", "user_id", user.ID, "generated_password", generated != "")

	c.JSON(http.StatusCreated, dto.CreatedUserResponse{
		Data:              dto.ToUserDTO(*user),
		GeneratedPassword: generated,
	})
}

// GetUser returns a user; populate=tasks includes their tasks
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	populate := utils.GetPopulate(c)
	user, err := h.userService.Get(id, populate...)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	body := dto.ToUserDTO(*user)
	if utils.HasRelation(populate, "Tasks") {
		body = dto.ToUserDTOWithTasks(*user)
	}

	c.JSON(http.StatusOK, dto.DataResponse[dto.UserDTO]{Data: body})
}

// UpdateUser applies a partial profile update. Position, blocked and
// confirmed are reserved to administrators.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	actor, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type UpdateUserRequest struct {
		Name       *string        `json:"name"`
		Email      *string        `json:"email"`
		Phone      *string        `json:"phone"`
		IsInstruct *bool          `json:"is_instruct"`
		PositionID dto.NullableID `json:"position_id"`
		Postion    dto.NullableID `json:"postion"`
		Blocked    *bool          `json:"blocked"`
		Confirmed  *bool          `json:"confirmed"`
	}

	var req UpdateUserRequest
	if err := bindData(c, &req); err != nil {
		respondBindError(c, err)
		return
	}

	input := services.UpdateUserInput{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		IsInstruct: req.IsInstruct,
		Blocked:    req.Blocked,
		Confirmed:  req.Confirmed,
	}
	if position := pickID(req.PositionID, req.Postion); position.Set {
		input.PositionID = position.Value
		input.ClearPosition = position.Value == nil
	}

	user, err := h.userService.Update(id, actor, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DataResponse[dto.UserDTO]{Data: dto.ToUserDTO(*user)})
}

// DeleteUser removes a user and their tasks
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	actorID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.userService.Delete(id, actorID); err != nil {
		respondServiceError(c, err)
		return
	}

	logging.FromContext(c).Info("user deleted", "user_id", id, "actor_id", actorID)

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "User deleted successfully"})
}

// ListUserTasks returns the user's tasks for ?date=YYYY-MM-DD (default
// today) in display order with the day's total estimated hours
func (h *UserHandler) ListUserTasks(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	view, err := h.taskService.ListForDay(id, c.Query("date"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDayViewResponse(view.Date, view.Tasks, view.TotalHours))
}

// SetGuide turns the guide tooltips on or off
func (h *UserHandler) SetGuide(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	type SetGuideRequest struct {
		Enabled *bool `json:"enabled" binding:"required"`
	}

	var req SetGuideRequest
	if err := bindData(c, &req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userService.SetGuide(id, *req.Enabled)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DataResponse[dto.UserDTO]{Data: dto.ToUserDTO(*user)})
}
