package routes

import (
	"github.com/gin-gonic/gin"

	"vonix/internal/interfaces/http/handlers"
	"vonix/internal/interfaces/http/middleware"
)

// WebhookRouteConfig holds dependencies for webhook routes.
type WebhookRouteConfig struct {
	WebhookHandler *handlers.WebhookHandler
	RateLimiter    *middleware.RateLimiter // Optional
}

// SetupWebhookRoutes configures the provider webhook routes.
func SetupWebhookRoutes(engine *gin.Engine, cfg *WebhookRouteConfig) {
	webhooks := engine.Group("/webhooks")
	if cfg.RateLimiter != nil {
		webhooks.Use(cfg.RateLimiter.Limit())
	}
	{
		webhooks.POST("/:provider", cfg.WebhookHandler.HandleWebhook)
	}
}
