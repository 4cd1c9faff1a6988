package payments

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mentora/checkout/internal/gateway"
	"github.com/mentora/checkout/internal/middleware"
	"github.com/mentora/checkout/pkg/response"
)

// maxWebhookBody bounds the webhook body read into memory.
const maxWebhookBody = 1 << 20

// Handler handles checkout HTTP endpoints.
type Handler struct {
	service     PaymentService
	webhooks    WebhookHandler
	credentials ActiveCredentials
	logger      *zap.Logger
}

// NewHandler creates a payments handler.
func NewHandler(service PaymentService, webhooks WebhookHandler, credentials ActiveCredentials, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, webhooks: webhooks, credentials: credentials, logger: logger}
}

// Create handles POST /payments/create.
func (h *Handler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "missing user context")
		return
	}
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "requisição inválida")
		return
	}
	req.ClientIP = c.ClientIP()

	cred, err := h.credentials.Active(c.Request.Context())
	if err != nil {
		h.logger.Error("load active credentials", zap.Error(err))
		response.Internal(c, msgUnexpected)
		return
	}
	paymentID, err := h.service.CreatePayment(c.Request.Context(), cred, req, userID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, gin.H{"payment_id": paymentID})
}

// Get handles GET /payments/:id. Only the buyer may read the payment.
func (h *Handler) Get(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "missing user context")
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "id de pagamento inválido")
		return
	}
	p, err := h.service.GetPayment(c.Request.Context(), id, userID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, p)
}

// Webhook handles POST /payments/:id/status, where :id is the gateway id. The sender always
// gets a bare 200 so it stops retrying; the outcome is only recorded on our side.
func (h *Handler) Webhook(c *gin.Context) {
	gatewayID := c.Param("id")
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		h.logger.Warn("read webhook body", zap.String("gateway", gatewayID), zap.Error(err))
	}
	h.webhooks.HandleWebhook(c.Request.Context(), gatewayID, gateway.Webhook{
		Header: c.Request.Header.Clone(),
		Body:   body,
	})
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func writeError(c *gin.Context, err error) {
	e := asError(err)
	response.Error(c, e.Kind.HTTPStatus(), e.Message)
}
