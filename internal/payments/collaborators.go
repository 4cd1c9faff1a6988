package payments

//go:generate mockgen -source=collaborators.go -destination=mocks/mock_collaborators.go -package=mocks

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mentora/checkout/internal/gateway"
	"github.com/mentora/checkout/internal/models"
	"github.com/mentora/checkout/pkg/queue"
)

// AdapterFactory builds the gateway adapter selected by a credential record.
type AdapterFactory interface {
	Adapter(cred *models.Credentials) (gateway.Adapter, error)
}

// CredentialLookup finds the active credentials of one gateway, nil when it is not the active one.
type CredentialLookup interface {
	GetByGateway(ctx context.Context, gatewayID string) (*models.Credentials, error)
}

// ActiveCredentials returns the single active credential record, nil when checkout is not configured.
type ActiveCredentials interface {
	Active(ctx context.Context) (*models.Credentials, error)
}

// Notifier enqueues a message for the messaging service.
type Notifier interface {
	Enqueue(ctx context.Context, template, recipient string, payload map[string]any, delay time.Duration) error
}

// GroupProvisioner adds a mentorship buyer to the mentorship's messaging group.
type GroupProvisioner interface {
	HandleOrder(ctx context.Context, purchase models.Purchase) error
}

// StatusPublisher pushes status changes to connected buyers.
type StatusPublisher interface {
	PublishPaymentStatus(ctx context.Context, paymentID int64, status string) error
}

// EventRecorder stores one row per webhook delivery.
type EventRecorder interface {
	Record(ctx context.Context, ev *models.WebhookEvent) error
}

// WebhookArchiver queues a raw webhook body for archival.
type WebhookArchiver interface {
	EnqueueWebhookArchive(ctx context.Context, payload queue.WebhookArchivePayload) error
}

// PaymentService is the checkout API used by the HTTP handler.
type PaymentService interface {
	CreatePayment(ctx context.Context, cred *models.Credentials, req CreatePaymentRequest, userID uuid.UUID) (int64, error)
	GetPayment(ctx context.Context, paymentID int64, userID uuid.UUID) (*models.Payment, error)
}

// WebhookHandler reconciles gateway deliveries.
type WebhookHandler interface {
	HandleWebhook(ctx context.Context, gatewayID string, w gateway.Webhook) *models.WebhookEvent
}
