package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/okr-dashboard/internal/models"
	"github.com/yukikurage/okr-dashboard/internal/services"
)

func TestDashboardStats(t *testing.T) {
	f, router, db := newUserFixture(t)
	createTestUser(t, db, "drifter", nil)

	past := time.Now().Add(-48 * time.Hour).UTC()
	future := time.Now().Add(48 * time.Hour).UTC()
	createTestTask(t, db, models.Task{Title: "late", UserID: f.alice.ID, Deadline: &past})
	createTestTask(t, db, models.Task{Title: "on time", UserID: f.alice.ID, Deadline: &future, Status: models.TaskStatusInProgress})
	createTestTask(t, db, models.Task{Title: "no deadline", UserID: f.bob.ID, Status: models.TaskStatusDone})

	w := serveAs(router, f.admin, http.MethodGet, "/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	stats := decodeData[services.DashboardStats](t, w)
	assert.Equal(t, 4, stats.TotalUsers)
	assert.Equal(t, 3, stats.TotalTasks)
	assert.Len(t, stats.Positions, 2)

	assert.Equal(t, []services.Bucket{
		{Type: "Manager", Value: 1},
		{Type: "Staff", Value: 2},
		{Type: services.UnassignedPosition, Value: 1},
	}, stats.UsersByPosition)

	assert.Equal(t, []services.Bucket{
		{Type: "None", Value: 1},
		{Type: "In progress", Value: 1},
		{Type: "Pending", Value: 0},
		{Type: "Done", Value: 1},
	}, stats.TasksByStatus)

	assert.Equal(t, []services.Bucket{
		{Type: services.DeadlineOnTime, Value: 2},
		{Type: services.DeadlineLate, Value: 1},
	}, stats.Deadlines)
}

func TestDashboardStats_AdminOnly(t *testing.T) {
	f, router, _ := newUserFixture(t)

	w := serveAs(router, f.alice, http.MethodGet, "/dashboard", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
