package entitlements

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mentora/checkout/internal/middleware"
	"github.com/mentora/checkout/internal/models"
	"github.com/mentora/checkout/pkg/response"
)

// Lister lists a user's entitlements.
type Lister interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.UserProduct, error)
}

// Handler serves the buyer's library.
type Handler struct {
	repo   Lister
	logger *zap.Logger
}

// NewHandler creates an entitlements handler.
func NewHandler(repo Lister, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logger: logger}
}

// Mine handles GET /me/products.
func (h *Handler) Mine(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}
	list, err := h.repo.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("list entitlements", zap.String("user_id", userID.String()), zap.Error(err))
		response.Internal(c, "failed to load products")
		return
	}
	response.OK(c, list)
}
