package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yukikurage/task-tracker-api/internal/auth"
	"github.com/yukikurage/task-tracker-api/internal/config"
	"github.com/yukikurage/task-tracker-api/internal/handlers"
	"github.com/yukikurage/task-tracker-api/internal/middleware"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"github.com/yukikurage/task-tracker-api/internal/services"
	"github.com/yukikurage/task-tracker-api/internal/token"
)

// Setup wires services, handlers and middleware into a gin engine.
func Setup(cfg *config.Config, db *gorm.DB) *gin.Engine {
	store := repository.NewStore(db)
	tokens := token.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	authHandler := handlers.NewAuthHandler(services.NewAuthService(store, tokens))
	userHandler := handlers.NewUserHandler(services.NewUserService(store))
	taskHandler := handlers.NewTaskHandler(
		services.NewTaskService(store, auth.TaskPolicy{StrictOwnership: cfg.Tasks.StrictOwnership}),
		services.NewDashboardService(store, cfg.Tasks.DashboardRecentLimit),
	)

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		gin.Recovery(),
		middleware.CORS(cfg.Server.AllowedOrigins),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	requireAuth := middleware.RequireAuth(tokens, store.Users())

	api := r.Group("/api")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.GET("/me", requireAuth, authHandler.GetCurrentUser)
		}

		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			taskID := middleware.RequireIDParam("task")

			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/dashboard", taskHandler.GetDashboard)
			tasks.GET("/:id", taskID, taskHandler.GetTask)
			tasks.PUT("/:id", taskID, taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskID, taskHandler.DeleteTask)
			tasks.POST("/:id/comments", taskID, taskHandler.AddComment)
		}

		users := api.Group("/users")
		users.Use(requireAuth)
		{
			userID := middleware.RequireIDParam("user")

			users.GET("", userHandler.ListUsers)
			users.POST("", middleware.RequireAdmin(), userHandler.CreateUser)
			users.GET("/stats", middleware.RequireAdmin(), userHandler.GetStats)
			users.GET("/:id", userID, userHandler.GetUser)
			users.PUT("/:id", userID, middleware.RequireSelfOrAdmin(), userHandler.UpdateUser)
			users.PUT("/:id/password", userID, middleware.RequireSelfOrAdmin(), userHandler.ResetPassword)
			users.DELETE("/:id", userID, middleware.RequireAdmin(), userHandler.DeleteUser)
		}
	}

	return r
}
