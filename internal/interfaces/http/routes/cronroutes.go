package routes

import (
	"github.com/gin-gonic/gin"

	"vonix/internal/interfaces/http/handlers"
	"vonix/internal/interfaces/http/middleware"
)

// CronRouteConfig holds dependencies for cron maintenance routes.
type CronRouteConfig struct {
	CronHandler *handlers.CronHandler
	CronSecret  string
}

// SetupCronRoutes configures the secret-protected maintenance routes.
func SetupCronRoutes(engine *gin.Engine, cfg *CronRouteConfig) {
	cron := engine.Group("/cron")
	cron.Use(middleware.CronSecret(cfg.CronSecret))
	{
		// Registered for both verbs; many external cron pingers can only
		// issue GET requests.
		cron.GET("/expire-ranks", cfg.CronHandler.ExpireRanks)
		cron.POST("/expire-ranks", cfg.CronHandler.ExpireRanks)
	}
}
