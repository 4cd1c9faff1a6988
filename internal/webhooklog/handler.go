package webhooklog

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mentora/checkout/internal/models"
	"github.com/mentora/checkout/pkg/response"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// FailureLister lists deliveries that need an operator.
type FailureLister interface {
	ListFailures(ctx context.Context, limit int) ([]*models.WebhookEvent, error)
}

// Handler handles webhook log HTTP endpoints.
type Handler struct {
	repo   FailureLister
	logger *zap.Logger
}

// NewHandler creates a webhook log handler.
func NewHandler(repo FailureLister, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logger: logger}
}

// ListFailures handles GET /admin/webhooks/failures?limit=n. Mount behind RequireRole(admin).
func (h *Handler) ListFailures(c *gin.Context) {
	limit := defaultLimit
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			response.BadRequest(c, "invalid limit")
			return
		}
		limit = min(n, maxLimit)
	}
	events, err := h.repo.ListFailures(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("list webhook failures", zap.Error(err))
		response.Internal(c, "failed to load webhook events")
		return
	}
	response.OK(c, events)
}
