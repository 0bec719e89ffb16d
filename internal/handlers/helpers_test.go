package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/okr-dashboard/internal/constants"
	"github.com/yukikurage/okr-dashboard/internal/database"
	"github.com/yukikurage/okr-dashboard/internal/middleware"
	"github.com/yukikurage/okr-dashboard/internal/models"
	"github.com/yukikurage/okr-dashboard/internal/repository"
	"github.com/yukikurage/okr-dashboard/internal/services"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testPassword = "supersecret"

// openTestDB opens an in-memory SQLite database with the full schema and
// installs it as the default database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.MigrateDatabase(db))
	database.SetDB(db)

	t.Cleanup(func() {
		sqlDB.Close()
	})

	gin.SetMode(gin.TestMode)
	return db
}

func createTestPosition(t *testing.T, db *gorm.DB, name string, isAdmin bool) *models.Position {
	t.Helper()

	position := &models.Position{Name: name, IsAdmin: isAdmin}
	require.NoError(t, db.Create(position).Error)
	return position
}

// createTestUser stores a user whose password is testPassword
func createTestUser(t *testing.T, db *gorm.DB, username string, position *models.Position) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		Name:         username,
		PasswordHash: string(hash),
	}
	if position != nil {
		user.PositionID = &position.ID
	}
	require.NoError(t, db.Create(user).Error)

	user.Position = position
	return user
}

func createTestTask(t *testing.T, db *gorm.DB, task models.Task) *models.Task {
	t.Helper()

	if task.Status == "" {
		task.Status = models.TaskStatusNone
	}
	require.NoError(t, db.Create(&task).Error)
	return &task
}

// newAuthContext builds a gin context as if RequireAuth had run for user
func newAuthContext(method, url string, body any, user *models.User) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = newJSONRequest(method, url, body)

	if user != nil {
		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUser, user)
	}

	return c, w
}

func newJSONRequest(method, url string, body any) *http.Request {
	if body == nil {
		return httptest.NewRequest(method, url, nil)
	}

	var raw []byte
	switch b := body.(type) {
	case string:
		raw = []byte(b)
	case []byte:
		raw = b
	default:
		raw, _ = json.Marshal(b)
	}

	req := httptest.NewRequest(method, url, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// performRequest sends a request through router with an optional bearer token
func performRequest(router http.Handler, method, url, token string, body any) *httptest.ResponseRecorder {
	req := newJSONRequest(method, url, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// decodeData unmarshals the "data" member of a response body
func decodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var envelope struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope), w.Body.String())
	return envelope.Data
}

func decodeErrorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body.Code
}

const testUserHeader = "X-Test-User"

// asHeaderUser stands in for RequireAuth: it loads the user named by the
// X-Test-User header, with their position
func asHeaderUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(testUserHeader)
		if raw == "" {
			c.Next()
			return
		}

		var user models.User
		if err := db.Preload("Position").First(&user, raw).Error; err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUser, &user)
		c.Next()
	}
}

// setupResourceRouter mounts the user, goal, position and dashboard routes
// behind asHeaderUser
func setupResourceRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	positionRepo := repository.NewPositionRepository(db)

	userHandler := NewUserHandler(
		services.NewUserService(userRepo, positionRepo),
		services.NewTaskService(taskRepo, userRepo, nil, time.UTC),
	)
	goalHandler := NewGoalHandler(services.NewGoalService(userRepo, time.UTC))
	positionHandler := NewPositionHandler(services.NewPositionService(positionRepo))
	dashboardHandler := NewDashboardHandler(services.NewDashboardService(userRepo, taskRepo, positionRepo))

	r := gin.New()
	r.Use(asHeaderUser(db))

	users := r.Group("/users")
	users.GET("", middleware.RequireAdmin(), userHandler.ListUsers)
	users.POST("", middleware.RequireAdmin(), userHandler.CreateUser)

	user := users.Group("/:id", middleware.RequireSelfOrAdmin())
	user.GET("", userHandler.GetUser)
	user.PUT("", userHandler.UpdateUser)
	user.DELETE("", middleware.RequireAdmin(), userHandler.DeleteUser)
	user.GET("/tasks", userHandler.ListUserTasks)
	user.PUT("/guide", userHandler.SetGuide)
	user.PUT("/goals", goalHandler.ReplaceGoals)
	user.GET("/goals/:period", goalHandler.ListGoals)
	user.POST("/goals/:period", goalHandler.AddGoal)
	user.PUT("/goals/:period/:goalId", goalHandler.EditGoal)
	user.DELETE("/goals/:period/:goalId", goalHandler.DeleteGoal)

	positions := r.Group("/postions")
	positions.GET("", positionHandler.ListPositions)
	positions.GET("/:id", positionHandler.GetPosition)
	positions.POST("", middleware.RequireAdmin(), positionHandler.CreatePosition)
	positions.PUT("/:id", middleware.RequireAdmin(), positionHandler.UpdatePosition)
	positions.DELETE("/:id", middleware.RequireAdmin(), positionHandler.DeletePosition)

	r.GET("/dashboard", middleware.RequireAdmin(), dashboardHandler.GetStats)

	return r
}

// serveAs sends a request to router authenticated as user; nil sends it
// anonymously
func serveAs(router http.Handler, user *models.User, method, url string, body any) *httptest.ResponseRecorder {
	req := newJSONRequest(method, url, body)
	if user != nil {
		req.Header.Set(testUserHeader, strconv.FormatUint(user.ID, 10))
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

