package handlers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/okr-dashboard/internal/dto"
	"github.com/yukikurage/okr-dashboard/internal/models"
)

func TestGoals_AddEditDelete(t *testing.T) {
	f, router, _ := newUserFixture(t)
	base := fmt.Sprintf("/users/%d/goals", f.alice.ID)

	w := serveAs(router, f.alice, http.MethodPost, base+"/week", map[string]any{
		"data": map[string]any{"name": "Ship v2", "quantity": 3, "description": "three releases"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	goals := decodeData[[]models.Goal](t, w)
	require.Len(t, goals, 1)
	goal := goals[0]
	assert.NotEmpty(t, goal.ID)
	assert.Equal(t, "Ship v2", goal.Name)
	assert.Equal(t, 3, goal.Quantity)
	assert.Zero(t, goal.Progress)

	w = serveAs(router, f.alice, http.MethodPut, base+"/week/"+goal.ID, map[string]any{"progress": 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	goals = decodeData[[]models.Goal](t, w)
	require.Len(t, goals, 1)
	assert.Equal(t, 2, goals[0].Progress)
	assert.Equal(t, "Ship v2", goals[0].Name)

	w = serveAs(router, f.alice, http.MethodGet, base+"/week", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decodeData[[]models.Goal](t, w)[0].Progress)

	// other periods are untouched
	w = serveAs(router, f.alice, http.MethodGet, base+"/year", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeData[[]models.Goal](t, w))

	w = serveAs(router, f.alice, http.MethodDelete, base+"/week/"+goal.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeData[[]models.Goal](t, w))

	w = serveAs(router, f.alice, http.MethodDelete, base+"/week/"+goal.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGoals_Validation(t *testing.T) {
	f, router, _ := newUserFixture(t)
	base := fmt.Sprintf("/users/%d/goals", f.alice.ID)

	w := serveAs(router, f.alice, http.MethodPost, base+"/week", map[string]any{"name": "Read", "quantity": 4})
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeData[[]models.Goal](t, w)[0].ID

	tests := []struct {
		name   string
		method string
		url    string
		body   any
		status int
	}{
		{"unknown period", http.MethodGet, base + "/decade", nil, http.StatusBadRequest},
		{"missing name", http.MethodPost, base + "/week", map[string]any{"quantity": 1}, http.StatusBadRequest},
		{"negative quantity", http.MethodPost, base + "/week", map[string]any{"name": "x", "quantity": -1}, http.StatusBadRequest},
		{"progress above range", http.MethodPut, base + "/week/" + id, map[string]any{"progress": 101}, http.StatusBadRequest},
		{"blank name", http.MethodPut, base + "/week/" + id, map[string]any{"name": " "}, http.StatusBadRequest},
		{"unknown goal", http.MethodPut, base + "/week/nope", map[string]any{"progress": 1}, http.StatusNotFound},
		{"bad date", http.MethodGet, base + "/week?date=03/02/2001", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serveAs(router, f.alice, tt.method, tt.url, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestGoals_DateFilter(t *testing.T) {
	f, router, _ := newUserFixture(t)
	base := fmt.Sprintf("/users/%d/goals/daily", f.alice.ID)

	w := serveAs(router, f.alice, http.MethodPost, base, map[string]any{"name": "Walk", "quantity": 1})
	require.Equal(t, http.StatusCreated, w.Code)

	today := time.Now().UTC().Format("2006-01-02")
	w = serveAs(router, f.alice, http.MethodGet, base+"?date="+today, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeData[[]models.Goal](t, w), 1)

	w = serveAs(router, f.alice, http.MethodGet, base+"?date=2001-02-03", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeData[[]models.Goal](t, w))
}

func TestGoals_ReplaceAll(t *testing.T) {
	f, router, _ := newUserFixture(t)
	base := fmt.Sprintf("/users/%d/goals", f.alice.ID)

	w := serveAs(router, f.alice, http.MethodPost, base+"/month", map[string]any{"name": "Keep me", "quantity": 1})
	require.Equal(t, http.StatusCreated, w.Code)

	w = serveAs(router, f.alice, http.MethodPut, base, map[string]any{
		"data": map[string]any{
			"quarter": []map[string]any{{"name": "Grow revenue", "quantity": 10, "progress": 4}},
			"daily":   []map[string]any{},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	goals := decodeData[dto.GoalsDTO](t, w)
	require.Len(t, goals.Quarter, 1)
	assert.NotEmpty(t, goals.Quarter[0].ID)
	assert.Equal(t, 4, goals.Quarter[0].Progress)
	assert.False(t, goals.Quarter[0].CreatedAt.IsZero())
	assert.Empty(t, goals.Daily)
	require.Len(t, goals.Month, 1)
	assert.Equal(t, "Keep me", goals.Month[0].Name)

	// stored in the quarter column, exposed on the user record
	w = serveAs(router, f.alice, http.MethodGet, fmt.Sprintf("/users/%d", f.alice.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeData[dto.UserDTO](t, w).GoalPrecious, 1)
}

func TestGoals_ReplaceAllRejectsUnknownPeriod(t *testing.T) {
	f, router, _ := newUserFixture(t)
	base := fmt.Sprintf("/users/%d/goals", f.alice.ID)

	w := serveAs(router, f.alice, http.MethodPut, base, map[string]any{
		"week":   []map[string]any{{"name": "valid"}},
		"decade": []map[string]any{{"name": "invalid"}},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = serveAs(router, f.alice, http.MethodGet, base+"/week", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeData[[]models.Goal](t, w))
}

func TestGoals_OtherUserForbidden(t *testing.T) {
	f, router, _ := newUserFixture(t)

	w := serveAs(router, f.alice, http.MethodGet, fmt.Sprintf("/users/%d/goals/week", f.bob.ID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = serveAs(router, f.admin, http.MethodPost, fmt.Sprintf("/users/%d/goals/week", f.bob.ID), map[string]any{"name": "Assigned"})
	assert.Equal(t, http.StatusCreated, w.Code)
}
