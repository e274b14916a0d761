package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	donationUsecases "vonix/internal/application/donation/usecases"
	"vonix/internal/shared/logger"
	"vonix/internal/shared/utils"
)

type DonationHandler struct {
	listRecentUC *donationUsecases.ListRecentDonationsUseCase
	logger       logger.Interface
}

func NewDonationHandler(
	listRecentUC *donationUsecases.ListRecentDonationsUseCase,
	logger logger.Interface,
) *DonationHandler {
	return &DonationHandler{
		listRecentUC: listRecentUC,
		logger:       logger,
	}
}

// ListRecent handles GET /donations/recent, the public donation feed.
func (h *DonationHandler) ListRecent(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "invalid limit parameter")
			return
		}
		limit = parsed
	}

	donations, err := h.listRecentUC.Execute(c.Request.Context(), limit)
	if err != nil {
		h.logger.Errorw("failed to list recent donations", "error", err)
		utils.ErrorResponse(c, http.StatusInternalServerError, "failed to list donations")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "donations retrieved", donations)
}
