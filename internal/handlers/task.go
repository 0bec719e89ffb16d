package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/okr-dashboard/internal/dto"
	apierrors "github.com/yukikurage/okr-dashboard/internal/errors"
	"github.com/yukikurage/okr-dashboard/internal/middleware"
	"github.com/yukikurage/okr-dashboard/internal/models"
	"github.com/yukikurage/okr-dashboard/internal/services"
	"github.com/yukikurage/okr-dashboard/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// taskFromContext returns the task loaded by RequireTaskAccess
func taskFromContext(c *gin.Context) (models.Task, bool) {
	taskInterface, exists := c.Get(middleware.ContextKeyTask)
	if !exists {
		apierrors.InternalError(c, "Task not found in context")
		return models.Task{}, false
	}

	task, ok := taskInterface.(models.Task)
	if !ok {
		apierrors.InternalError(c, "Invalid task data")
		return models.Task{}, false
	}

	return task, true
}

// ListTasks returns the current user's tasks. Administrators see every task
// unless they filter by user_id.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	params := utils.GetPaginationParams(c)
	input := services.ListTasksInput{
		Date:     c.Query("date"),
		Page:     params.Page,
		PageSize: params.PageSize,
	}

	if raw := c.Query("user_id"); raw != "" {
		userID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid user_id")
			return
		}
		if userID != user.ID && !user.IsAdmin() {
			apierrors.Forbidden(c, "You can only list your own tasks")
			return
		}
		input.UserID = &userID
	} else if !user.IsAdmin() {
		input.UserID = &user.ID
	}

	if raw := c.Query("status"); raw != "" {
		status := models.TaskStatus(raw)
		input.Status = &status
	}

	tasks, total, err := h.taskService.ListTasks(input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(dto.ToTaskDTOs(tasks), params, total))
}

// GetTask returns a specific task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, ok := taskFromContext(c)
	if !ok {
		return
	}

	fresh, err := h.taskService.GetTask(task.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DataResponse[dto.TaskDTO]{Data: dto.ToTaskDTO(*fresh)})
}

// CreateTask creates a task for the current user, or for user_id when the
// caller is an administrator
func (h *TaskHandler) CreateTask(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateTaskRequest struct {
		Title       string            `json:"title" binding:"required"`
		Description string            `json:"description"`
		Status      models.TaskStatus `json:"status"`
		Progress    int               `json:"progress"`
		Deadline    dto.NullableTime  `json:"deadline"`
		IsImportant bool              `json:"is_important"`
		Repeat      bool              `json:"repeat"`
		Hours       float64           `json:"hours"`
		UserID      dto.NullableID    `json:"user_id"`
	}

	var req CreateTaskRequest
	if err := bindData(c, &req); err != nil {
		respondBindError(c, err)
		return
	}

	ownerID := user.ID
	if req.UserID.Value != nil {
		ownerID = *req.UserID.Value
	}
	if ownerID != user.ID && !user.IsAdmin() {
		apierrors.Forbidden(c, "Only administrators can create tasks for other users")
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Progress:    req.Progress,
		Deadline:    req.Deadline.Value,
		IsImportant: req.IsImportant,
		Repeat:      req.Repeat,
		Hours:       req.Hours,
		UserID:      ownerID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.DataResponse[dto.TaskDTO]{Data: dto.ToTaskDTO(*task)})
}

// UpdateTask updates only the fields present in the body; deadline null
// clears the deadline
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	task, ok := taskFromContext(c)
	if !ok {
		return
	}

	type UpdateTaskRequest struct {
		Title       *string            `json:"title"`
		Description *string            `json:"description"`
		Status      *models.TaskStatus `json:"status"`
		Progress    *int               `json:"progress"`
		Deadline    dto.NullableTime   `json:"deadline"`
		IsImportant *bool              `json:"is_important"`
		Repeat      *bool              `json:"repeat"`
		Hours       *float64           `json:"hours"`
	}

	var req UpdateTaskRequest
	if err := bindData(c, &req); err != nil {
		respondBindError(c, err)
		return
	}

	input := services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Progress:    req.Progress,
		IsImportant: req.IsImportant,
		Repeat:      req.Repeat,
		Hours:       req.Hours,
	}
	if req.Deadline.Set {
		input.Deadline = req.Deadline.Value
		input.ClearDeadline = req.Deadline.Value == nil
	}

	updated, err := h.taskService.UpdateTask(task.ID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DataResponse[dto.TaskDTO]{Data: dto.ToTaskDTO(*updated)})
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	task, ok := taskFromContext(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(task.ID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Task deleted successfully"})
}

// StartTask stamps the start time and moves the task to In progress
func (h *TaskHandler) StartTask(c *gin.Context) {
	task, ok := taskFromContext(c)
	if !ok {
		return
	}

	started, err := h.taskService.StartTask(task.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DataResponse[dto.TaskDTO]{Data: dto.ToTaskDTO(*started)})
}

// UpdateProgress sets the progress percentage
func (h *TaskHandler) UpdateProgress(c *gin.Context) {
	task, ok := taskFromContext(c)
	if !ok {
		return
	}

	type UpdateProgressRequest struct {
		Progress *int `json:"progress" binding:"required"`
	}

	var req UpdateProgressRequest
	if err := bindData(c, &req); err != nil {
		respondBindError(c, err)
		return
	}

	updated, err := h.taskService.UpdateProgress(task.ID, *req.Progress)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DataResponse[dto.TaskDTO]{Data: dto.ToTaskDTO(*updated)})
}

// CompleteTask marks the task Done
func (h *TaskHandler) CompleteTask(c *gin.Context) {
	task, ok := taskFromContext(c)
	if !ok {
		return
	}

	completed, err := h.taskService.CompleteTask(task.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DataResponse[dto.TaskDTO]{Data: dto.ToTaskDTO(*completed)})
}

// SuggestTasks drafts tasks from free text with the AI service
func (h *TaskHandler) SuggestTasks(c *gin.Context) {
	type SuggestTasksRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req SuggestTasksRequest
	if err := bindData(c, &req); err != nil {
		respondBindError(c, err)
		return
	}

	drafts, err := h.taskService.SuggestTasks(c.Request.Context(), req.Text)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DataResponse[[]services.TaskDraft]{Data: drafts})
}
