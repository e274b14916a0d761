package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	rankUsecases "vonix/internal/application/rank/usecases"
	"vonix/internal/shared/logger"
	"vonix/internal/shared/utils"
)

// CronHandler exposes maintenance operations for external cron services.
// The routes are guarded by the cron-secret middleware.
type CronHandler struct {
	expireRanksUC *rankUsecases.ExpireRanksUseCase
	logger        logger.Interface
}

func NewCronHandler(
	expireRanksUC *rankUsecases.ExpireRanksUseCase,
	logger logger.Interface,
) *CronHandler {
	return &CronHandler{
		expireRanksUC: expireRanksUC,
		logger:        logger,
	}
}

type ExpireRanksResponse struct {
	Success bool     `json:"success"`
	Removed int      `json:"removed"`
	Users   []string `json:"users"`
}

// ExpireRanks handles GET|POST /cron/expire-ranks. Safe to call
// repeatedly; a run with nothing to do reports removed=0. The response is
// the flat shape external cron monitors parse, not the API envelope.
func (h *CronHandler) ExpireRanks(c *gin.Context) {
	result, err := h.expireRanksUC.Execute(c.Request.Context())
	if err != nil {
		h.logger.Errorw("rank expiry sweep failed", "error", err)
		utils.ErrorResponse(c, http.StatusInternalServerError, "failed to expire ranks")
		return
	}

	c.JSON(http.StatusOK, ExpireRanksResponse{
		Success: true,
		Removed: result.Removed,
		Users:   result.Usernames,
	})
}
