package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/uniterm/terminarz-backend/internal/config"
	"github.com/uniterm/terminarz-backend/internal/handler"
	"github.com/uniterm/terminarz-backend/internal/middleware"
	"github.com/uniterm/terminarz-backend/internal/model"
	"github.com/uniterm/terminarz-backend/internal/response"
	"github.com/uniterm/terminarz-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth    *handler.AuthHandler
	Term    *handler.TermHandler
	Session *handler.SessionHandler
	Catalog *handler.CatalogHandler
	WS      *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── 1. Auth Group (Public) ────────────────────────────────────────
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/login", handlers.Auth.Login)

		// Authenticated profile routes
		auth.POST("/logout", middleware.RequireAuth(authService), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireAuth(authService), handlers.Auth.Me)
	}

	// ─── 2. Scheduling Group (JWT) ─────────────────────────────────────
	api := router.Group("/api/v1")
	api.Use(middleware.RequireAuth(authService))
	{
		// Terms
		api.GET("/terms", handlers.Term.GetAll)
		api.GET("/terms/search", handlers.Term.Search)
		api.GET("/terms/:id", handlers.Term.GetByID)
		api.GET("/terms/:id/history", handlers.Term.GetHistory)
		api.POST("/terms", handlers.Term.Create)
		api.PUT("/terms/:id", handlers.Term.Update)
		api.PATCH("/terms/:id/status", handlers.Term.UpdateStatus)
		api.DELETE("/terms/:id",
			middleware.RequireRole(model.RoleLecturer, model.RoleDean),
			handlers.Term.Delete,
		)

		// Day view
		api.GET("/schedule/:date", handlers.Term.GetDaySchedule)

		// Reference data
		api.GET("/sessions", handlers.Session.GetAll)
		api.GET("/sessions/:id", handlers.Session.GetByID)
		api.GET("/courses", handlers.Catalog.GetCourses)
		api.GET("/courses/:id/terms", handlers.Term.GetByCourse)
		api.GET("/rooms", handlers.Catalog.GetRooms)
		api.GET("/groups", handlers.Catalog.GetGroups)
	}

	// ─── 3. WebSocket Group (WS Auth) ──────────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireWSAuth(authService))
	{
		ws.GET("/schedule/stream", handlers.WS.ScheduleStream)
	}

	// ─── 4. Admin Group (JWT + Dean Role) ──────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(
		middleware.RequireAuth(authService),
		middleware.RequireRole(model.RoleDean),
	)
	{
		adminAPI.POST("/sessions", handlers.Session.Create)
		adminAPI.PUT("/sessions/:id", handlers.Session.Update)
		adminAPI.POST("/courses", handlers.Catalog.CreateCourse)
		adminAPI.POST("/rooms", handlers.Catalog.CreateRoom)
		adminAPI.POST("/groups", handlers.Catalog.CreateGroup)
	}

	return router
}
