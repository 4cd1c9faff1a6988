package payments

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/mentora/checkout/internal/models"
	"github.com/mentora/checkout/pkg/database"
)

// ErrPaymentNotFound is returned when no payment matches.
var ErrPaymentNotFound = errors.New("payment not found")

const paymentColumns = `id, status, customer_id, order_id, credential_id, gateway_id, gateway_reference, payment_type,
	pix_code, pix_qrcode, pix_expires_at, invoice_digitable_line, invoice_barcode, invoice_url, invoice_due_date,
	created_at, updated_at`

// Repository handles payments persistence.
type Repository struct {
	db database.Querier
}

// NewRepository creates a payments repository on a pool or a transaction.
func NewRepository(db database.Querier) *Repository {
	return &Repository{db: db}
}

// Create inserts p and sets ID, Status and timestamps.
func (r *Repository) Create(ctx context.Context, p *models.Payment) error {
	const q = `INSERT INTO payments (status, customer_id, order_id, credential_id, gateway_id, gateway_reference, payment_type,
			pix_code, pix_qrcode, pix_expires_at, invoice_digitable_line, invoice_barcode, invoice_url, invoice_due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at, updated_at`
	if p.Status == "" {
		p.Status = models.PaymentStatusPending
	}
	return r.db.QueryRow(ctx, q, p.Status, p.CustomerID, p.OrderID, p.CredentialID, p.GatewayID, p.GatewayReference, p.PaymentType,
		p.PixCode, p.PixQRCode, p.PixExpiresAt, p.InvoiceLine, p.InvoiceBarcode, p.InvoiceURL, p.InvoiceDueDate).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// GetByID returns a payment by ID.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Payment, error) {
	return scanPayment(r.db.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id))
}

// LockByReference returns the payment for a gateway reference and holds a row lock on it
// until the surrounding transaction ends. Concurrent webhooks for one payment queue here.
func (r *Repository) LockByReference(ctx context.Context, gatewayID, reference string) (*models.Payment, error) {
	return scanPayment(r.db.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments
		WHERE gateway_id = $1 AND gateway_reference = $2
		FOR UPDATE`, gatewayID, reference))
}

// UpdateStatus sets the payment status.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status string) error {
	tag, err := r.db.Exec(ctx, `UPDATE payments SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

func scanPayment(row pgx.Row) (*models.Payment, error) {
	var p models.Payment
	err := row.Scan(&p.ID, &p.Status, &p.CustomerID, &p.OrderID, &p.CredentialID, &p.GatewayID, &p.GatewayReference, &p.PaymentType,
		&p.PixCode, &p.PixQRCode, &p.PixExpiresAt, &p.InvoiceLine, &p.InvoiceBarcode, &p.InvoiceURL, &p.InvoiceDueDate,
		&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
