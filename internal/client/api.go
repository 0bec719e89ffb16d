package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/yukikurage/okr-dashboard/internal/dto"
	"github.com/yukikurage/okr-dashboard/internal/models"
)

// Login exchanges credentials for a token and installs it on the client.
func (c *Client) Login(ctx context.Context, identifier, password string) (*dto.LoginResponse, error) {
	var resp dto.LoginResponse
	err := c.do(ctx, http.MethodPost, "/auth/local", nil, map[string]string{
		"identifier": identifier,
		"password":   password,
	}, &resp)
	if err != nil {
		return nil, err
	}

	c.SetToken(resp.JWT)
	return &resp, nil
}

// Logout ends the server session and drops the token.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
	c.SetToken("")
	return err
}

// ChangePassword replaces the current user's password.
func (c *Client) ChangePassword(ctx context.Context, current, password, confirmation string) error {
	return c.do(ctx, http.MethodPost, "/auth/change-password", nil, map[string]string{
		"currentPassword":      current,
		"password":             password,
		"passwordConfirmation": confirmation,
	}, nil)
}

// Me returns the authenticated user with their position.
func (c *Client) Me(ctx context.Context) (*dto.UserDTO, error) {
	var user dto.UserDTO
	query := url.Values{"populate": {"role,postion"}}
	if err := c.do(ctx, http.MethodGet, "/users/me", query, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func pageQuery(page, pageSize int) url.Values {
	query := url.Values{}
	if page > 0 {
		query.Set("pagination[page]", strconv.Itoa(page))
	}
	if pageSize > 0 {
		query.Set("pagination[pageSize]", strconv.Itoa(pageSize))
	}
	return query
}

// ListUsers returns one page of users with their positions.
func (c *Client) ListUsers(ctx context.Context, page, pageSize int) (*dto.ListResponse[dto.UserDTO], error) {
	query := pageQuery(page, pageSize)
	query.Set("populate", "postion")

	var resp dto.ListResponse[dto.UserDTO]
	if err := c.do(ctx, http.MethodGet, "/users", query, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetUser returns a user, with their tasks when withTasks is set.
func (c *Client) GetUser(ctx context.Context, id uint64, withTasks bool) (*dto.UserDTO, error) {
	query := url.Values{"populate": {"postion"}}
	if withTasks {
		query.Set("populate", "postion,tasks")
	}

	var resp dto.DataResponse[dto.UserDTO]
	if err := c.do(ctx, http.MethodGet, idPath("/users/%d", id), query, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// NewUser is the body of a user creation.
type NewUser struct {
	Username   string  `json:"username"`
	Email      string  `json:"email"`
	Password   string  `json:"password,omitempty"`
	Name       string  `json:"name,omitempty"`
	Phone      string  `json:"phone,omitempty"`
	PositionID *uint64 `json:"postion,omitempty"`
}

// CreateUser registers a user. The response carries the generated password
// when none was given.
func (c *Client) CreateUser(ctx context.Context, user NewUser) (*dto.CreatedUserResponse, error) {
	var resp dto.CreatedUserResponse
	if err := c.do(ctx, http.MethodPost, "/users", nil, data(user), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateUser sends a partial update; only the keys present in fields change.
// A nil "postion" detaches the user from their position.
func (c *Client) UpdateUser(ctx context.Context, id uint64, fields map[string]any) (*dto.UserDTO, error) {
	var resp dto.DataResponse[dto.UserDTO]
	if err := c.do(ctx, http.MethodPut, idPath("/users/%d", id), nil, data(fields), &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// DeleteUser removes a user and their tasks.
func (c *Client) DeleteUser(ctx context.Context, id uint64) error {
	return c.do(ctx, http.MethodDelete, idPath("/users/%d", id), nil, nil, nil)
}

// SetGuide turns the guide tooltips on or off.
func (c *Client) SetGuide(ctx context.Context, userID uint64, enabled bool) (*dto.UserDTO, error) {
	var resp dto.DataResponse[dto.UserDTO]
	err := c.do(ctx, http.MethodPut, idPath("/users/%d/guide", userID), nil, map[string]bool{"enabled": enabled}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// DayTasks returns a user's tasks for date (empty for today) in display
// order.
func (c *Client) DayTasks(ctx context.Context, userID uint64, date string) (*dto.DayViewResponse, error) {
	query := url.Values{}
	if date != "" {
		query.Set("date", date)
	}

	var resp dto.DayViewResponse
	if err := c.do(ctx, http.MethodGet, idPath("/users/%d/tasks", userID), query, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TaskQuery filters ListTasks.
type TaskQuery struct {
	UserID   uint64
	Status   string
	Date     string
	Page     int
	PageSize int
}

// ListTasks returns a page of tasks.
func (c *Client) ListTasks(ctx context.Context, q TaskQuery) (*dto.ListResponse[dto.TaskDTO], error) {
	query := pageQuery(q.Page, q.PageSize)
	if q.UserID != 0 {
		query.Set("user_id", strconv.FormatUint(q.UserID, 10))
	}
	if q.Status != "" {
		query.Set("status", q.Status)
	}
	if q.Date != "" {
		query.Set("date", q.Date)
	}

	var resp dto.ListResponse[dto.TaskDTO]
	if err := c.do(ctx, http.MethodGet, "/tasks", query, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// NewTask is the body of a task creation.
type NewTask struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	IsImportant bool       `json:"is_important"`
	Repeat      bool       `json:"repeat"`
	Hours       float64    `json:"hours"`
	UserID      uint64     `json:"user_id,omitempty"`
}

// CreateTask creates a task.
func (c *Client) CreateTask(ctx context.Context, task NewTask) (*dto.TaskDTO, error) {
	var resp dto.DataResponse[dto.TaskDTO]
	if err := c.do(ctx, http.MethodPost, "/tasks", nil, data(task), &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// UpdateTask sends a partial update; a nil "deadline" clears the deadline.
func (c *Client) UpdateTask(ctx context.Context, id uint64, fields map[string]any) (*dto.TaskDTO, error) {
	if progress, ok := fields["progress"].(int); ok {
		if err := ValidateProgress(progress); err != nil {
			return nil, err
		}
	}

	var resp dto.DataResponse[dto.TaskDTO]
	if err := c.do(ctx, http.MethodPut, idPath("/tasks/%d", id), nil, data(fields), &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id uint64) error {
	return c.do(ctx, http.MethodDelete, idPath("/tasks/%d", id), nil, nil, nil)
}

// StartTask moves a task to In progress.
func (c *Client) StartTask(ctx context.Context, id uint64) (*dto.TaskDTO, error) {
	var resp dto.DataResponse[dto.TaskDTO]
	if err := c.do(ctx, http.MethodPost, idPath("/tasks/%d/start", id), nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// UpdateProgress sets a task's progress. Values outside 0-100 are rejected
// before any request is sent.
func (c *Client) UpdateProgress(ctx context.Context, id uint64, progress int) (*dto.TaskDTO, error) {
	if err := ValidateProgress(progress); err != nil {
		return nil, err
	}

	var resp dto.DataResponse[dto.TaskDTO]
	err := c.do(ctx, http.MethodPut, idPath("/tasks/%d/progress", id), nil, map[string]int{"progress": progress}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// CompleteTask marks a task Done.
func (c *Client) CompleteTask(ctx context.Context, id uint64) (*dto.TaskDTO, error) {
	var resp dto.DataResponse[dto.TaskDTO]
	if err := c.do(ctx, http.MethodPost, idPath("/tasks/%d/complete", id), nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// SuggestTasks asks the server for task drafts found in text.
func (c *Client) SuggestTasks(ctx context.Context, text string) ([]dto.TaskDraft, error) {
	var resp dto.DataResponse[[]dto.TaskDraft]
	if err := c.do(ctx, http.MethodPost, "/tasks/suggest", nil, map[string]string{"text": text}, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Goals lists one period's goals, optionally only those created on date.
func (c *Client) Goals(ctx context.Context, userID uint64, period, date string) ([]models.Goal, error) {
	query := url.Values{}
	if date != "" {
		query.Set("date", date)
	}

	var resp dto.DataResponse[[]models.Goal]
	if err := c.do(ctx, http.MethodGet, idPath("/users/%d/goals/%s", userID, url.PathEscape(period)), query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// NewGoal is the body of a goal creation.
type NewGoal struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Quantity    int    `json:"quantity"`
}

// AddGoal appends a goal and returns the refreshed list.
func (c *Client) AddGoal(ctx context.Context, userID uint64, period string, goal NewGoal) ([]models.Goal, error) {
	var resp dto.DataResponse[[]models.Goal]
	if err := c.do(ctx, http.MethodPost, idPath("/users/%d/goals/%s", userID, url.PathEscape(period)), nil, data(goal), &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// EditGoal merges fields into one goal and returns the refreshed list.
func (c *Client) EditGoal(ctx context.Context, userID uint64, period, goalID string, fields map[string]any) ([]models.Goal, error) {
	if progress, ok := fields["progress"].(int); ok {
		if err := ValidateProgress(progress); err != nil {
			return nil, err
		}
	}

	path := idPath("/users/%d/goals/%s/%s", userID, url.PathEscape(period), url.PathEscape(goalID))
	var resp dto.DataResponse[[]models.Goal]
	if err := c.do(ctx, http.MethodPut, path, nil, data(fields), &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// DeleteGoal removes one goal and returns the refreshed list.
func (c *Client) DeleteGoal(ctx context.Context, userID uint64, period, goalID string) ([]models.Goal, error) {
	path := idPath("/users/%d/goals/%s/%s", userID, url.PathEscape(period), url.PathEscape(goalID))
	var resp dto.DataResponse[[]models.Goal]
	if err := c.do(ctx, http.MethodDelete, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// ListPositions returns one page of positions.
func (c *Client) ListPositions(ctx context.Context, page, pageSize int) (*dto.ListResponse[dto.PositionDTO], error) {
	var resp dto.ListResponse[dto.PositionDTO]
	if err := c.do(ctx, http.MethodGet, "/postions", pageQuery(page, pageSize), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreatePosition creates a position.
func (c *Client) CreatePosition(ctx context.Context, name string, isAdmin bool) (*dto.PositionDTO, error) {
	var resp dto.DataResponse[dto.PositionDTO]
	body := data(map[string]any{"name": name, "is_admin": isAdmin})
	if err := c.do(ctx, http.MethodPost, "/postions", nil, body, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// UpdatePosition renames a position or changes its admin flag.
func (c *Client) UpdatePosition(ctx context.Context, id uint64, fields map[string]any) (*dto.PositionDTO, error) {
	var resp dto.DataResponse[dto.PositionDTO]
	if err := c.do(ctx, http.MethodPut, idPath("/postions/%d", id), nil, data(fields), &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// DeletePosition removes a position.
func (c *Client) DeletePosition(ctx context.Context, id uint64) error {
	return c.do(ctx, http.MethodDelete, idPath("/postions/%d", id), nil, nil, nil)
}

// Dashboard returns the administrator statistics.
func (c *Client) Dashboard(ctx context.Context) (*dto.DashboardStats, error) {
	var resp dto.DataResponse[dto.DashboardStats]
	if err := c.do(ctx, http.MethodGet, "/dashboard", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}
