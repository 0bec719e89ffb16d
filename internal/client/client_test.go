package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/okr-dashboard/internal/dto"
	"github.com/yukikurage/okr-dashboard/internal/models"
	"github.com/yukikurage/okr-dashboard/internal/server/servertest"
)

func newSession(t *testing.T, ts *servertest.Server) (*Session, *TokenStore) {
	t.Helper()

	tokens := NewTokenStore(t.TempDir())
	session, err := NewSession(New(ts.URL, 5*time.Second), tokens)
	require.NoError(t, err)
	return session, tokens
}

func TestLoginStoresToken(t *testing.T) {
	ts := servertest.New(t, nil)
	ts.CreateStaff(t, "alice")
	session, tokens := newSession(t, ts)
	ctx := context.Background()

	user, err := session.Login(ctx, "alice@example.com", servertest.StaffPassword)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	require.NotNil(t, user.Position)
	assert.Equal(t, "Staff", user.Position.Name)
	assert.Equal(t, RouteTask, LandingRoute(user))

	stored, err := tokens.Load()
	require.NoError(t, err)
	assert.NotEmpty(t, stored)
	assert.Equal(t, session.Client.Token(), stored)

	// a fresh process picks the token back up
	again, err := NewSession(New(ts.URL, 0), tokens)
	require.NoError(t, err)
	me, err := again.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, user.ID, me.ID)
}

func TestLoginInvalidCredentialsStoresNothing(t *testing.T) {
	ts := servertest.New(t, nil)
	ts.CreateStaff(t, "alice")
	session, tokens := newSession(t, ts)

	_, err := session.Login(context.Background(), "alice", "wrong-password")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "INVALID_CREDENTIALS", apiErr.Code)

	stored, err := tokens.Load()
	require.NoError(t, err)
	assert.Empty(t, stored)
	assert.False(t, session.LoggedIn())
}

func TestAdminLandsOnDashboard(t *testing.T) {
	ts := servertest.New(t, nil)
	session, _ := newSession(t, ts)

	user, err := session.Login(context.Background(), servertest.AdminUsername, servertest.AdminPassword)
	require.NoError(t, err)
	assert.True(t, IsAdmin(user))
	assert.Equal(t, RouteDashboard, LandingRoute(user))
}

func TestLogoutClearsToken(t *testing.T) {
	ts := servertest.New(t, nil)
	ts.CreateStaff(t, "alice")
	session, tokens := newSession(t, ts)
	ctx := context.Background()

	_, err := session.Login(ctx, "alice", servertest.StaffPassword)
	require.NoError(t, err)
	require.NoError(t, session.Logout(ctx))

	stored, err := tokens.Load()
	require.NoError(t, err)
	assert.Empty(t, stored)

	_, err = session.Current(ctx)
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestCurrentClearsRejectedToken(t *testing.T) {
	ts := servertest.New(t, nil)
	tokens := NewTokenStore(t.TempDir())
	require.NoError(t, tokens.Save("not-a-token"))

	session, err := NewSession(New(ts.URL, 0), tokens)
	require.NoError(t, err)

	_, err = session.Current(context.Background())
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	stored, err := tokens.Load()
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestTaskLifecycle(t *testing.T) {
	ts := servertest.New(t, nil)
	alice := ts.CreateStaff(t, "alice")
	session, _ := newSession(t, ts)
	ctx := context.Background()
	_, err := session.Login(ctx, "alice", servertest.StaffPassword)
	require.NoError(t, err)
	c := session.Client

	deadline := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	first, err := c.CreateTask(ctx, NewTask{Title: "Write report", Hours: 2, Deadline: &deadline})
	require.NoError(t, err)
	second, err := c.CreateTask(ctx, NewTask{Title: "Review", Hours: 1, IsImportant: true})
	require.NoError(t, err)
	assert.Equal(t, alice.ID, first.UserID)

	day, err := c.DayTasks(ctx, alice.ID, "")
	require.NoError(t, err)
	require.Len(t, day.Data, 2)
	assert.Equal(t, second.ID, day.Data[0].ID, "important tasks come first")
	assert.InDelta(t, 3.0, day.TotalHours, 0.001)

	started, err := c.StartTask(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusInProgress, started.Status)
	assert.NotNil(t, started.StartAt)

	updated, err := c.UpdateProgress(ctx, first.ID, 40)
	require.NoError(t, err)
	assert.Equal(t, 40, updated.Progress)

	done, err := c.CompleteTask(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusDone, done.Status)
	assert.Equal(t, 100, done.Progress)

	_, err = c.CompleteTask(ctx, first.ID)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.Status)

	edited, err := c.UpdateTask(ctx, second.ID, map[string]any{"title": "Review PR", "deadline": nil})
	require.NoError(t, err)
	assert.Equal(t, "Review PR", edited.Title)
	assert.Nil(t, edited.Deadline)

	require.NoError(t, c.DeleteTask(ctx, second.ID))
	list, err := c.ListTasks(ctx, TaskQuery{})
	require.NoError(t, err)
	require.Len(t, list.Data, 1)
	assert.Equal(t, first.ID, list.Data[0].ID)
	assert.Equal(t, int64(1), list.Meta.Pagination.Total)
}

func TestUpdateProgressValidatesLocally(t *testing.T) {
	var requests int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	c := New(ts.URL, time.Second)
	c.SetToken("token")

	for _, progress := range []int{-1, 101, 1000} {
		_, err := c.UpdateProgress(context.Background(), 1, progress)
		assert.ErrorIs(t, err, ErrProgressOutOfRange, "progress %d", progress)
	}
	_, err := c.UpdateTask(context.Background(), 1, map[string]any{"progress": 150})
	assert.ErrorIs(t, err, ErrProgressOutOfRange)
	_, err = c.EditGoal(context.Background(), 1, "week", "g1", map[string]any{"progress": -5})
	assert.ErrorIs(t, err, ErrProgressOutOfRange)

	assert.Zero(t, requests)
}

func TestGoals(t *testing.T) {
	ts := servertest.New(t, nil)
	alice := ts.CreateStaff(t, "alice")
	session, _ := newSession(t, ts)
	ctx := context.Background()
	_, err := session.Login(ctx, "alice", servertest.StaffPassword)
	require.NoError(t, err)
	c := session.Client

	goals, err := c.AddGoal(ctx, alice.ID, "week", NewGoal{Name: "Ship v1", Quantity: 3})
	require.NoError(t, err)
	require.Len(t, goals, 1)
	id := goals[0].ID

	goals, err = c.EditGoal(ctx, alice.ID, "week", id, map[string]any{"progress": 50})
	require.NoError(t, err)
	assert.Equal(t, 50, goals[0].Progress)
	assert.Equal(t, "Ship v1", goals[0].Name)

	today := time.Now().UTC().Format("2006-01-02")
	goals, err = c.Goals(ctx, alice.ID, "week", today)
	require.NoError(t, err)
	assert.Len(t, goals, 1)

	goals, err = c.DeleteGoal(ctx, alice.ID, "week", id)
	require.NoError(t, err)
	assert.Empty(t, goals)
}

func TestGuideToggle(t *testing.T) {
	ts := servertest.New(t, nil)
	alice := ts.CreateStaff(t, "alice")
	session, _ := newSession(t, ts)
	ctx := context.Background()
	_, err := session.Login(ctx, "alice", servertest.StaffPassword)
	require.NoError(t, err)

	user, err := session.Client.SetGuide(ctx, alice.ID, false)
	require.NoError(t, err)
	assert.False(t, user.IsInstruct)

	session.Invalidate()
	me, err := session.Current(ctx)
	require.NoError(t, err)
	assert.False(t, me.IsInstruct)
}

func TestAdminUserManagement(t *testing.T) {
	ts := servertest.New(t, nil)
	session, _ := newSession(t, ts)
	ctx := context.Background()
	_, err := session.Login(ctx, servertest.AdminUsername, servertest.AdminPassword)
	require.NoError(t, err)
	c := session.Client

	position, err := c.CreatePosition(ctx, "Intern", false)
	require.NoError(t, err)

	created, err := c.CreateUser(ctx, NewUser{Username: "carol", Email: "carol@example.com", PositionID: &position.ID})
	require.NoError(t, err)
	assert.Len(t, created.GeneratedPassword, 12)

	page, err := c.ListUsers(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Meta.Pagination.Total)

	updated, err := c.UpdateUser(ctx, created.Data.ID, map[string]any{"postion": nil, "name": "Carol"})
	require.NoError(t, err)
	assert.Nil(t, updated.PositionID)
	assert.Equal(t, "Carol", updated.Name)

	stats, err := c.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalUsers)

	require.NoError(t, c.DeleteUser(ctx, created.Data.ID))
	_, err = c.GetUser(ctx, created.Data.ID, false)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)

	require.NoError(t, c.DeletePosition(ctx, position.ID))
	positions, err := c.ListPositions(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, positions.Data, 3)
}

func TestAPIErrorWithoutBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	_, err := New(ts.URL, time.Second).Me(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "502 Bad Gateway", apiErr.Error())
}

func TestGuard(t *testing.T) {
	staff := &dto.UserDTO{ID: 2, Position: &dto.PositionDTO{Name: "Staff"}}
	admin := &dto.UserDTO{ID: 1, Position: &dto.PositionDTO{Name: "Manager", IsAdmin: true}}
	unassigned := &dto.UserDTO{ID: 3}

	tests := []struct {
		name  string
		route string
		user  *dto.UserDTO
		want  string
	}{
		{"anonymous task", RouteTask, nil, RouteLogin},
		{"anonymous dashboard", RouteDashboard, nil, RouteLogin},
		{"staff task", RouteTask, staff, RouteTask},
		{"staff settings", RouteSettings, staff, RouteSettings},
		{"staff dashboard", RouteDashboard, staff, RouteTask},
		{"staff users", RouteUsers, staff, RouteTask},
		{"staff positions", RoutePosition, staff, RouteTask},
		{"staff managed tasks", "/users/managent-task/7", staff, RouteTask},
		{"unassigned dashboard", RouteDashboard, unassigned, RouteTask},
		{"admin dashboard", RouteDashboard, admin, RouteDashboard},
		{"admin managed tasks", "/users/managent-task/7", admin, "/users/managent-task/7"},
		{"admin goal", RouteGoal, admin, RouteGoal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Guard(tt.route, tt.user))
		})
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseDate("2025-03-31")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), *got)

	_, err = ParseDate("31/03/2025")
	assert.ErrorIs(t, err, ErrInvalidDate)
}
