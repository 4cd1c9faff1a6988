package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus values. PENDENTE is initial; PAGO and RECUSADO are terminal.
const (
	PaymentStatusPending = "PENDENTE"
	PaymentStatusPaid    = "PAGO"
	PaymentStatusRefused = "RECUSADO"
)

// Payment is the canonical local record of a gateway charge.
type Payment struct {
	ID               int64      `json:"id"`
	Status           string     `json:"status"`
	CustomerID       int64      `json:"customer_id"`
	OrderID          int64      `json:"order_id"`
	CredentialID     *int64     `json:"-"`
	GatewayID        string     `json:"gateway_id"`
	GatewayReference string     `json:"gateway_reference"`
	PaymentType      string     `json:"payment_type"`
	PixCode          string     `json:"pix_code,omitempty"`
	PixQRCode        string     `json:"pix_qrcode,omitempty"`
	PixExpiresAt     *time.Time `json:"pix_expires_at,omitempty"`
	InvoiceLine      string     `json:"invoice_digitable_line,omitempty"`
	InvoiceBarcode   string     `json:"invoice_barcode,omitempty"`
	InvoiceURL       string     `json:"invoice_url,omitempty"`
	InvoiceDueDate   *time.Time `json:"invoice_due_date,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Terminal reports whether the payment left PENDENTE.
func (p *Payment) Terminal() bool {
	return p.Status == PaymentStatusPaid || p.Status == PaymentStatusRefused
}

// Purchase bundles a payment with the order and buyer it belongs to.
type Purchase struct {
	Payment  *Payment  `json:"payment"`
	Order    *Order    `json:"order"`
	Customer *Customer `json:"customer"`
}

// UserID returns the buyer's platform user id.
func (p *Purchase) UserID() uuid.UUID {
	return p.Customer.UserID
}
