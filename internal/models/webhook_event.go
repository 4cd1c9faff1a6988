package models

import "time"

// WebhookOutcome for a single delivery.
const (
	WebhookOutcomeApplied   = "applied"
	WebhookOutcomeIgnored   = "ignored"
	WebhookOutcomeDiscarded = "discarded"
	WebhookOutcomeFailed    = "failed"
)

// WebhookEvent records one gateway delivery and how it was handled.
type WebhookEvent struct {
	ID           int64     `json:"id"`
	GatewayID    string    `json:"gateway_id"`
	Event        string    `json:"event,omitempty"`
	Reference    string    `json:"reference,omitempty"`
	Status       string    `json:"status,omitempty"`
	Outcome      string    `json:"outcome"`
	ErrorMessage string    `json:"error_message,omitempty"`
	PaymentID    *int64    `json:"payment_id,omitempty"`
	ArchiveKey   string    `json:"archive_key,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
