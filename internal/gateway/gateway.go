// Package gateway normalises external payment gateways behind one Adapter interface.
package gateway

//go:generate mockgen -source=gateway.go -destination=mocks/mock_gateway.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mentora/checkout/internal/models"
)

// Status is the canonical gateway status. Adapters map their own vocabulary onto it.
type Status int

const (
	// StatusIgnored means the gateway reported something that must not move the payment.
	StatusIgnored Status = iota
	StatusPending
	StatusPaid
	StatusRefused
	// StatusUnresolved means the payload only identified the payment; call QueryStatus.
	StatusUnresolved
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusPaid:
		return "paid"
	case StatusRefused:
		return "refused"
	case StatusUnresolved:
		return "unresolved"
	}
	return "ignored"
}

// ChargeRequest is everything an adapter needs to create a charge.
type ChargeRequest struct {
	OrderID         int64
	Amount          int64 // minor units
	Method          string
	Installments    int
	Description     string
	Customer        *models.Customer
	Card            *models.Card
	NotificationURL string
}

// PixInfo is what the buyer needs to pay by pix.
type PixInfo struct {
	Code      string // copia e cola
	QRCode    string // base64 image or URL
	ExpiresAt *time.Time
}

// InvoiceInfo is what the buyer needs to pay a boleto.
type InvoiceInfo struct {
	DigitableLine string
	Barcode       string
	URL           string
	DueDate       *time.Time
}

// ChargeResult is the normalised outcome of a successful charge call.
type ChargeResult struct {
	Status    Status
	Method    string
	Reference string
	Pix       *PixInfo
	Invoice   *InvoiceInfo
}

// Webhook is a raw delivery as received over HTTP.
type Webhook struct {
	Header http.Header
	Body   []byte
}

// Notification is a parsed webhook or status lookup.
type Notification struct {
	Event     string
	Reference string
	Status    Status
	// Reversal marks refunds and chargebacks, the only way out of a paid state.
	Reversal bool
}

// Adapter is implemented once per gateway.
type Adapter interface {
	ID() string
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
	QueryStatus(ctx context.Context, reference string) (*Notification, error)
	ParseWebhook(w Webhook) (*Notification, error)
}

// ErrorKind classifies adapter failures.
type ErrorKind int

const (
	// KindInvalid is bad input caught before calling the gateway.
	KindInvalid ErrorKind = iota + 1
	// KindRejected is a 4xx or an explicit decline from the gateway.
	KindRejected
	// KindUnavailable is a transport failure, timeout or 5xx.
	KindUnavailable
)

// Error is returned by adapters for every failure the caller should branch on.
type Error struct {
	Kind    ErrorKind
	Gateway string
	Reason  string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Reason != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Gateway, e.Reason, e.Err)
	case e.Reason != "":
		return fmt.Sprintf("%s: %s", e.Gateway, e.Reason)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Gateway, e.Err)
	}
	return e.Gateway + ": gateway error"
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the ErrorKind carried by err, or 0 when err is not a gateway error.
func KindOf(err error) ErrorKind {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.Kind
	}
	return 0
}

// ErrMalformedWebhook is returned by ParseWebhook when the body cannot be read.
var ErrMalformedWebhook = errors.New("malformed webhook payload")

func invalid(gateway, reason string) *Error {
	return &Error{Kind: KindInvalid, Gateway: gateway, Reason: reason}
}

func rejected(gateway, reason string) *Error {
	return &Error{Kind: KindRejected, Gateway: gateway, Reason: reason}
}

func unavailable(gateway string, err error) *Error {
	return &Error{Kind: KindUnavailable, Gateway: gateway, Err: err}
}

// verdict is one row of an adapter's private status table.
type verdict struct {
	status   Status
	reversal bool
}

func lookup(table map[string]verdict, key string) verdict {
	if v, ok := table[key]; ok {
		return v
	}
	return verdict{status: StatusIgnored}
}
