package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"vonix/internal/shared/utils"
)

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health handles GET /health. Reports degraded (503) when the database is
// unreachable so load balancers stop routing webhooks here.
func (h *HealthHandler) Health(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "database unreachable")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "ok", gin.H{"status": "healthy"})
}
