package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yukikurage/okr-dashboard/internal/config"
	"github.com/yukikurage/okr-dashboard/internal/constants"
	"github.com/yukikurage/okr-dashboard/internal/handlers"
	"github.com/yukikurage/okr-dashboard/internal/logging"
	"github.com/yukikurage/okr-dashboard/internal/metrics"
	"github.com/yukikurage/okr-dashboard/internal/middleware"
	"github.com/yukikurage/okr-dashboard/internal/repository"
	"github.com/yukikurage/okr-dashboard/internal/services"
	"gorm.io/gorm"
)

// Services bundles the business services behind the HTTP surface.
type Services struct {
	Auth      *services.AuthService
	Users     *services.UserService
	Positions *services.PositionService
	Tasks     *services.TaskService
	Goals     *services.GoalService
	Dashboard *services.DashboardService
}

// NewServices wires repositories and services on top of db. suggester may
// be nil when no AI backend is configured.
func NewServices(db *gorm.DB, cfg *config.Config, suggester services.TaskSuggester) *Services {
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	positionRepo := repository.NewPositionRepository(db)

	loc := cfg.Location()
	tokens := services.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)

	return &Services{
		Auth:      services.NewAuthService(userRepo, tokens),
		Users:     services.NewUserService(userRepo, positionRepo),
		Positions: services.NewPositionService(positionRepo),
		Tasks:     services.NewTaskService(taskRepo, userRepo, suggester, loc),
		Goals:     services.NewGoalService(userRepo, loc),
		Dashboard: services.NewDashboardService(userRepo, taskRepo, positionRepo),
	}
}

// NewSessionStore returns a Redis-backed store when REDIS_HOST is set and a
// signed cookie store otherwise.
func NewSessionStore(cfg *config.Config) (sessions.Store, error) {
	var store sessions.Store
	if cfg.RedisHost != "" {
		redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
		rs, err := redisStore.NewStore(
			10,        // Redis pool size
			"tcp",     // network type
			redisAddr, // Redis address from config
			"",        // username (empty for default user)
			"",        // password (empty = no password)
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			return nil, err
		}
		store = rs
	} else {
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	}

	// Configure session options based on environment
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.JWTTTL / time.Second),
		HttpOnly: true,
		Secure:   cfg.GinMode == gin.ReleaseMode,
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}

// NewRouter registers every route of the API.
func NewRouter(svc *Services, store sessions.Store, logger *logging.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logging.GinMiddleware(logger))
	r.Use(metrics.Middleware())
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	authHandler := handlers.NewAuthHandler(svc.Auth)
	userHandler := handlers.NewUserHandler(svc.Users, svc.Tasks)
	goalHandler := handlers.NewGoalHandler(svc.Goals)
	positionHandler := handlers.NewPositionHandler(svc.Positions)
	taskHandler := handlers.NewTaskHandler(svc.Tasks)
	dashboardHandler := handlers.NewDashboardHandler(svc.Dashboard)

	requireAuth := middleware.RequireAuth(svc.Auth)
	requireAdmin := middleware.RequireAdmin()

	r.GET("/health", handlers.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/local", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
		auth.POST("/change-password", requireAuth, authHandler.ChangePassword)
	}

	// User routes
	users := r.Group("/users")
	users.Use(requireAuth)
	{
		users.GET("/me", authHandler.GetCurrentUser)
		users.GET("", requireAdmin, userHandler.ListUsers)
		users.POST("", requireAdmin, userHandler.CreateUser)

		user := users.Group("/:id")
		user.Use(middleware.RequireSelfOrAdmin())
		{
			user.GET("", userHandler.GetUser)
			user.PUT("", userHandler.UpdateUser)
			user.DELETE("", requireAdmin, userHandler.DeleteUser)
			user.GET("/tasks", userHandler.ListUserTasks)
			user.PUT("/guide", userHandler.SetGuide)

			user.PUT("/goals", goalHandler.ReplaceGoals)
			user.GET("/goals/:period", goalHandler.ListGoals)
			user.POST("/goals/:period", goalHandler.AddGoal)
			user.PUT("/goals/:period/:goalId", goalHandler.EditGoal)
			user.DELETE("/goals/:period/:goalId", goalHandler.DeleteGoal)
		}
	}

	// Task routes
	tasks := r.Group("/tasks")
	tasks.Use(requireAuth)
	{
		tasks.GET("", taskHandler.ListTasks)
		tasks.POST("", taskHandler.CreateTask)
		tasks.POST("/suggest", taskHandler.SuggestTasks)
		tasks.GET("/:id", middleware.RequireTaskAccess(), taskHandler.GetTask)
		tasks.PUT("/:id", middleware.RequireTaskAccess(), taskHandler.UpdateTask)
		tasks.DELETE("/:id", middleware.RequireTaskAccess(), taskHandler.DeleteTask)
		tasks.POST("/:id/start", middleware.RequireTaskAccess(), taskHandler.StartTask)
		tasks.PUT("/:id/progress", middleware.RequireTaskAccess(), taskHandler.UpdateProgress)
		tasks.POST("/:id/complete", middleware.RequireTaskAccess(), taskHandler.CompleteTask)
	}

	// Position routes; the path keeps the content API's spelling
	positions := r.Group("/postions")
	positions.Use(requireAuth)
	{
		positions.GET("", positionHandler.ListPositions)
		positions.GET("/:id", positionHandler.GetPosition)
		positions.POST("", requireAdmin, positionHandler.CreatePosition)
		positions.PUT("/:id", requireAdmin, positionHandler.UpdatePosition)
		positions.DELETE("/:id", requireAdmin, positionHandler.DeletePosition)
	}

	r.GET("/dashboard", requireAuth, requireAdmin, dashboardHandler.GetStats)

	return r
}
