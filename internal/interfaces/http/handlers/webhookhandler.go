package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vonix/internal/application/payment/gateway"
	paymentUsecases "vonix/internal/application/payment/usecases"
	"vonix/internal/shared/logger"
	"vonix/internal/shared/utils"
)

// WebhookHandler receives raw provider webhooks and hands them to the
// processing usecase. Providers retry on non-2xx, so only genuinely
// retryable failures return an error status.
type WebhookHandler struct {
	processWebhookUC *paymentUsecases.ProcessWebhookUseCase
	signatureHeaders map[string]string
	logger           logger.Interface
}

func NewWebhookHandler(
	processWebhookUC *paymentUsecases.ProcessWebhookUseCase,
	adapters []gateway.Adapter,
	logger logger.Interface,
) *WebhookHandler {
	headers := make(map[string]string, len(adapters))
	for _, a := range adapters {
		headers[a.Provider().String()] = a.SignatureHeader()
	}
	return &WebhookHandler{
		processWebhookUC: processWebhookUC,
		signatureHeaders: headers,
		logger:           logger,
	}
}

// HandleWebhook processes POST /webhooks/:provider. The body is passed
// through unparsed; signature verification needs the exact bytes the
// provider signed.
func (h *WebhookHandler) HandleWebhook(c *gin.Context) {
	provider := c.Param("provider")

	rawBody, err := c.GetRawData()
	if err != nil {
		h.logger.Warnw("failed to read webhook body", "provider", provider, "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "failed to read request body")
		return
	}

	signature := ""
	if headerName := h.signatureHeaders[provider]; headerName != "" {
		signature = c.GetHeader(headerName)
	}

	cmd := paymentUsecases.WebhookCommand{
		Provider:        provider,
		RawBody:         rawBody,
		SignatureHeader: signature,
		RequestURL:      requestURL(c),
	}

	if err := h.processWebhookUC.Execute(c.Request.Context(), cmd); err != nil {
		h.logger.Warnw("webhook processing failed",
			"provider", provider,
			"error", err,
		)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "webhook processed", gin.H{"received": true})
}

// requestURL reconstructs the externally visible URL of the request, used
// by providers that sign the notification URL.
func requestURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if forwarded := c.GetHeader("X-Forwarded-Proto"); forwarded != "" {
		scheme = forwarded
	}
	return scheme + "://" + c.Request.Host + c.Request.RequestURI
}
