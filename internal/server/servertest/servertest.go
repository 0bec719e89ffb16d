// Package servertest starts a fully wired dashboard API on an in-memory
// SQLite database for client-side tests.
package servertest

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/okr-dashboard/internal/config"
	"github.com/yukikurage/okr-dashboard/internal/database"
	"github.com/yukikurage/okr-dashboard/internal/logging"
	"github.com/yukikurage/okr-dashboard/internal/models"
	"github.com/yukikurage/okr-dashboard/internal/server"
	"github.com/yukikurage/okr-dashboard/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	AdminUsername = "root"
	AdminPassword = "rootpassword"
	StaffPassword = "staffpassword"
)

// Server is a running API with direct access to its services for seeding.
type Server struct {
	*httptest.Server
	Services *server.Services
	Staff    *models.Position
	Manager  *models.Position
}

// New starts a server with an administrator (root/rootpassword) plus an
// admin "Manager" and a non-admin "Staff" position. suggester may be nil.
func New(t *testing.T, suggester services.TaskSuggester) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.MigrateDatabase(db))
	database.SetDB(db)

	cfg := &config.Config{
		JWTSecret:     "servertest-secret",
		JWTTTL:        time.Hour,
		SessionSecret: "servertest-session",
		Timezone:      "UTC",
		GinMode:       gin.TestMode,
	}
	svc := server.NewServices(db, cfg, suggester)
	_, err = svc.Users.EnsureAdmin(AdminUsername, "", AdminPassword)
	require.NoError(t, err)

	manager, err := svc.Positions.Create("Manager", true)
	require.NoError(t, err)
	staff, err := svc.Positions.Create("Staff", false)
	require.NoError(t, err)

	router := server.NewRouter(svc, cookie.NewStore([]byte("servertest")), logging.NopLogger())
	ts := httptest.NewServer(router)
	t.Cleanup(func() {
		ts.Close()
		sqlDB.Close()
	})

	return &Server{Server: ts, Services: svc, Staff: staff, Manager: manager}
}

// CreateStaff adds a confirmed non-admin user with StaffPassword.
func (s *Server) CreateStaff(t *testing.T, username string) *models.User {
	t.Helper()

	user, _, err := s.Services.Users.Create(services.CreateUserInput{
		Username:   username,
		Email:      username + "@example.com",
		Password:   StaffPassword,
		Name:       username,
		PositionID: &s.Staff.ID,
	})
	require.NoError(t, err)
	return user
}
