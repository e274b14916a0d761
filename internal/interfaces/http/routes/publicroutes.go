package routes

import (
	"github.com/gin-gonic/gin"

	"vonix/internal/interfaces/http/handlers"
)

// PublicRouteConfig holds dependencies for the unauthenticated read routes.
type PublicRouteConfig struct {
	RankHandler     *handlers.RankHandler
	DonationHandler *handlers.DonationHandler
	HealthHandler   *handlers.HealthHandler
}

// SetupPublicRoutes configures the public catalog and feed routes.
func SetupPublicRoutes(engine *gin.Engine, cfg *PublicRouteConfig) {
	engine.GET("/health", cfg.HealthHandler.Health)
	engine.GET("/ranks", cfg.RankHandler.ListRanks)

	donations := engine.Group("/donations")
	{
		donations.GET("/recent", cfg.DonationHandler.ListRecent)
	}
}
