package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/pedagolab/parcours-backend/internal/config"
	"github.com/pedagolab/parcours-backend/internal/handler"
	"github.com/pedagolab/parcours-backend/internal/middleware"
	"github.com/pedagolab/parcours-backend/internal/response"
	"github.com/pedagolab/parcours-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth    *handler.AuthHandler
	Catalog *handler.CatalogHandler
	Attempt *handler.AttemptHandler
	Clock   *handler.ClockHandler
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
		auth.GET("/me", middleware.RequireLearnerJWT(authService), handlers.Auth.Me)
	}

	// ─── 2. Learner Group (JWT) ────────────────────────────────────────
	learnerAPI := router.Group("/api/v1/learner")
	learnerAPI.Use(middleware.RequireLearnerJWT(authService))
	{
		learnerAPI.GET("/catalog", handlers.Catalog.List)
		learnerAPI.GET("/catalog/:assessment_id", handlers.Catalog.Get)

		learnerAPI.POST("/assessments/:assessment_id/attempts", handlers.Attempt.Start)
		learnerAPI.GET("/attempts", handlers.Attempt.History)
		learnerAPI.GET("/attempts/:attempt_id", handlers.Attempt.State)
		learnerAPI.DELETE("/attempts/:attempt_id", handlers.Attempt.Abandon)
		learnerAPI.PUT("/attempts/:attempt_id/steps/:step/answers/:key", handlers.Attempt.Answer)
		learnerAPI.POST("/attempts/:attempt_id/steps/:step/verify", handlers.Attempt.Verify)
		learnerAPI.POST("/attempts/:attempt_id/steps/:step/reset", handlers.Attempt.Reset)
		learnerAPI.POST("/attempts/:attempt_id/navigate", handlers.Attempt.Navigate)
		learnerAPI.POST("/attempts/:attempt_id/finalize", handlers.Attempt.Finalize)
	}

	// ─── 3. WebSocket Group (Learner WS Auth) ──────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireLearnerWSAuth(authService))
	{
		ws.GET("/learner/attempts/:attempt_id/clock", handlers.Clock.Stream)
	}

	return router
}
