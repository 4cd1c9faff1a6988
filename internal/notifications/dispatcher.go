// Package notifications hands messages to the messaging service through the job queue.
// Delivery itself (email, WhatsApp) happens outside this service.
package notifications

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mentora/checkout/pkg/queue"
)

// Templates known to the messaging service.
const (
	TemplatePaymentReminder = "payment_reminder"
	TemplatePaymentReceived = "payment_received"
)

var (
	ErrMissingTemplate  = errors.New("notification template required")
	ErrMissingRecipient = errors.New("notification recipient required")
)

// Enqueuer is the part of the job queue the dispatcher needs.
type Enqueuer interface {
	EnqueueNotification(ctx context.Context, payload queue.NotificationPayload, delay time.Duration) error
}

// Dispatcher enqueues notifications. It never blocks on delivery.
type Dispatcher struct {
	queue  Enqueuer
	logger *zap.Logger
}

// NewDispatcher creates a notification dispatcher.
func NewDispatcher(q Enqueuer, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{queue: q, logger: logger}
}

// Enqueue schedules template for recipient after delay (zero sends right away).
func (d *Dispatcher) Enqueue(ctx context.Context, template, recipient string, payload map[string]any, delay time.Duration) error {
	if strings.TrimSpace(template) == "" {
		return ErrMissingTemplate
	}
	if strings.TrimSpace(recipient) == "" {
		return ErrMissingRecipient
	}
	if delay < 0 {
		delay = 0
	}
	err := d.queue.EnqueueNotification(ctx, queue.NotificationPayload{
		Template:  template,
		Recipient: recipient,
		Data:      payload,
	}, delay)
	if err != nil {
		d.logger.Error("enqueue notification", zap.String("template", template), zap.Error(err))
		return err
	}
	return nil
}
