package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/mperror"
	"github.com/mercadopago/sdk-go/pkg/payment"

	"github.com/mentora/checkout/internal/document"
	"github.com/mentora/checkout/internal/models"
)

// Mercado Pago payment statuses.
var mercadoPagoStatuses = map[string]verdict{
	"pending":      {status: StatusPending},
	"in_process":   {status: StatusPending},
	"authorized":   {status: StatusPending},
	"in_mediation": {status: StatusPending},
	"approved":     {status: StatusPaid},
	"rejected":     {status: StatusRefused},
	"cancelled":    {status: StatusRefused},
	"refunded":     {status: StatusRefused, reversal: true},
	"charged_back": {status: StatusRefused, reversal: true},
}

var mercadoPagoMethods = map[string]string{
	models.MethodPix:     "pix",
	models.MethodInvoice: "bolbradesco",
}

// mercadoPagoPayments is the part of the SDK payment client the adapter uses.
type mercadoPagoPayments interface {
	Create(ctx context.Context, request payment.Request) (*payment.Response, error)
	Get(ctx context.Context, id int) (*payment.Response, error)
}

// MercadoPago registers the Mercado Pago adapter, backed by the official SDK.
// Notifications only carry the payment id, so ParseWebhook returns StatusUnresolved.
func MercadoPago(opts Options) Definition {
	return Definition{
		ID:      IDMercadoPago,
		Options: opts,
		New: func(cred *models.Credentials, opts Options) (Adapter, error) {
			if cred.AuthToken == "" {
				return nil, errors.New("mercadopago: missing access token")
			}
			if opts.Sandbox && !strings.HasPrefix(cred.AuthToken, "TEST-") {
				return nil, errors.New("mercadopago: sandbox requires a TEST- access token")
			}
			cfg, err := config.New(cred.AuthToken)
			if err != nil {
				return nil, fmt.Errorf("mercadopago: sdk config: %w", err)
			}
			return &mercadoPago{client: payment.NewClient(cfg), timeout: opts.timeout()}, nil
		},
	}
}

type mercadoPago struct {
	client  mercadoPagoPayments
	timeout time.Duration
}

func (m *mercadoPago) ID() string { return IDMercadoPago }

func (m *mercadoPago) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	if err := req.Validate(IDMercadoPago); err != nil {
		return nil, err
	}
	c := req.Customer
	mpReq := payment.Request{
		TransactionAmount: reais(req.Amount),
		Description:       req.Description,
		ExternalReference: strconv.FormatInt(req.OrderID, 10),
		NotificationURL:   req.NotificationURL,
		Installments:      1,
		Payer: &payment.PayerRequest{
			Email:     c.Email,
			FirstName: c.FirstName,
			LastName:  c.LastName,
			Identification: &payment.IdentificationRequest{
				Type:   strings.ToUpper(c.DocumentType),
				Number: document.Digits(c.DocumentNumber),
			},
		},
	}
	if req.Method == models.MethodCreditCard {
		if req.Card.Token == "" || req.Card.Brand == "" {
			return nil, invalid(IDMercadoPago, "cartão deve ser tokenizado para este gateway")
		}
		mpReq.Token = req.Card.Token
		mpReq.PaymentMethodID = req.Card.Brand
		mpReq.Installments = installments(req.Installments)
	} else {
		mpReq.PaymentMethodID = mercadoPagoMethods[req.Method]
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	resp, err := m.client.Create(ctx, mpReq)
	if err != nil {
		return nil, m.classify(ctx, err)
	}

	v := lookup(mercadoPagoStatuses, resp.Status)
	if v.status == StatusRefused {
		return nil, rejected(IDMercadoPago, "pagamento recusado: "+resp.StatusDetail)
	}
	result := &ChargeResult{Method: req.Method, Reference: strconv.Itoa(resp.ID), Status: StatusPending}
	if v.status == StatusPaid {
		result.Status = StatusPaid
	}
	td := resp.PointOfInteraction.TransactionData
	switch req.Method {
	case models.MethodPix:
		result.Pix = &PixInfo{Code: td.QRCode, QRCode: td.QRCodeBase64}
	case models.MethodInvoice:
		link := resp.TransactionDetails.ExternalResourceURL
		if link == "" {
			link = td.TicketURL
		}
		result.Invoice = &InvoiceInfo{URL: link}
	}
	return result, nil
}

func (m *mercadoPago) QueryStatus(ctx context.Context, reference string) (*Notification, error) {
	id, err := strconv.Atoi(reference)
	if err != nil {
		return nil, invalid(IDMercadoPago, "referência inválida: "+reference)
	}
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	resp, err := m.client.Get(ctx, id)
	if err != nil {
		return nil, m.classify(ctx, err)
	}
	v := lookup(mercadoPagoStatuses, resp.Status)
	return &Notification{Event: resp.Status, Reference: reference, Status: v.status, Reversal: v.reversal}, nil
}

func (m *mercadoPago) ParseWebhook(w Webhook) (*Notification, error) {
	var body struct {
		Type   string `json:"type"`
		Action string `json:"action"`
		Data   struct {
			ID json.Number `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body, &body); err != nil {
		return nil, fmt.Errorf("mercadopago: %w: %v", ErrMalformedWebhook, err)
	}
	if body.Type != "payment" {
		return &Notification{Event: body.Type, Status: StatusIgnored}, nil
	}
	if body.Data.ID == "" {
		return nil, fmt.Errorf("mercadopago: %w: missing payment id", ErrMalformedWebhook)
	}
	return &Notification{Event: body.Action, Reference: body.Data.ID.String(), Status: StatusUnresolved}, nil
}

// classify splits SDK errors into transport failures and gateway declines.
func (m *mercadoPago) classify(ctx context.Context, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || ctx.Err() != nil || errors.As(err, &netErr) {
		return unavailable(IDMercadoPago, err)
	}
	var respErr *mperror.ResponseError
	if errors.As(err, &respErr) {
		if respErr.StatusCode >= http.StatusInternalServerError {
			return unavailable(IDMercadoPago, fmt.Errorf("http %d", respErr.StatusCode))
		}
		return rejected(IDMercadoPago, mercadoPagoReason(respErr.Message))
	}
	return unavailable(IDMercadoPago, err)
}

// mercadoPagoReason extracts the human-readable part of an error body.
func mercadoPagoReason(body string) string {
	var e struct {
		Message string `json:"message"`
		Cause   []struct {
			Description string `json:"description"`
		} `json:"cause"`
	}
	if err := json.Unmarshal([]byte(body), &e); err != nil {
		return "pagamento recusado pelo gateway"
	}
	for _, c := range e.Cause {
		if c.Description != "" {
			return c.Description
		}
	}
	if e.Message != "" {
		return e.Message
	}
	return "pagamento recusado pelo gateway"
}
