// Package webhooklog stores one row per gateway webhook delivery for operator follow-up.
package webhooklog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mentora/checkout/internal/models"
)

// ErrEventNotFound is returned when no event matches an id.
var ErrEventNotFound = errors.New("webhook event not found")

// Repository handles webhook_events persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a webhook log repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Record inserts ev and sets its ID and CreatedAt.
func (r *Repository) Record(ctx context.Context, ev *models.WebhookEvent) error {
	const q = `INSERT INTO webhook_events (gateway_id, event, reference, status, outcome, error_message, payment_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`
	return r.pool.QueryRow(ctx, q, ev.GatewayID, ev.Event, ev.Reference, ev.Status, ev.Outcome, ev.ErrorMessage, ev.PaymentID).
		Scan(&ev.ID, &ev.CreatedAt)
}

// SetArchiveKey stores where the raw body of an event was archived.
func (r *Repository) SetArchiveKey(ctx context.Context, id int64, key string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE webhook_events SET archive_key = $2 WHERE id = $1`, id, key)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEventNotFound
	}
	return nil
}

// ListFailures returns failed and discarded deliveries, newest first.
func (r *Repository) ListFailures(ctx context.Context, limit int) ([]*models.WebhookEvent, error) {
	const q = `SELECT id, gateway_id, event, reference, status, outcome, error_message, payment_id, archive_key, created_at
		FROM webhook_events
		WHERE outcome IN ('failed', 'discarded')
		ORDER BY created_at DESC
		LIMIT $1`
	rows, err := r.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []*models.WebhookEvent{}
	for rows.Next() {
		var ev models.WebhookEvent
		if err := rows.Scan(&ev.ID, &ev.GatewayID, &ev.Event, &ev.Reference, &ev.Status, &ev.Outcome, &ev.ErrorMessage, &ev.PaymentID, &ev.ArchiveKey, &ev.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, &ev)
	}
	return list, rows.Err()
}
