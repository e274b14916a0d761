package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	rankUsecases "vonix/internal/application/rank/usecases"
	"vonix/internal/shared/logger"
	"vonix/internal/shared/utils"
)

type RankHandler struct {
	listRanksUC *rankUsecases.ListRanksUseCase
	logger      logger.Interface
}

func NewRankHandler(
	listRanksUC *rankUsecases.ListRanksUseCase,
	logger logger.Interface,
) *RankHandler {
	return &RankHandler{
		listRanksUC: listRanksUC,
		logger:      logger,
	}
}

// ListRanks handles GET /ranks, the public rank catalog.
func (h *RankHandler) ListRanks(c *gin.Context) {
	ranks, err := h.listRanksUC.Execute(c.Request.Context())
	if err != nil {
		h.logger.Errorw("failed to list ranks", "error", err)
		utils.ErrorResponse(c, http.StatusInternalServerError, "failed to list ranks")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "ranks retrieved", ranks)
}
