// Package payments creates gateway charges and reconciles their status.
package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mentora/checkout/internal/catalog"
	"github.com/mentora/checkout/internal/customers"
	"github.com/mentora/checkout/internal/document"
	"github.com/mentora/checkout/internal/gateway"
	"github.com/mentora/checkout/internal/models"
	"github.com/mentora/checkout/internal/notifications"
)

// ServiceConfig tunes the checkout flow.
type ServiceConfig struct {
	// ReminderDelay postpones the pix/invoice reminder.
	ReminderDelay time.Duration
	// WebhookURL builds the callback URL sent to the gateway, may return "".
	WebhookURL func(gatewayID string) string
}

// Service orchestrates purchases.
type Service struct {
	store    Store
	gateways AdapterFactory
	notifier Notifier
	cfg      ServiceConfig
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates the checkout service.
func NewService(store Store, gateways AdapterFactory, notifier Notifier, cfg ServiceConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, gateways: gateways, notifier: notifier, cfg: cfg, logger: logger, now: time.Now}
}

// CreatePayment charges the buyer through the gateway selected by cred and records the purchase.
// On success exactly one customer, order and payment exist; on failure none do. Access is granted
// later, when the gateway confirms the payment.
func (s *Service) CreatePayment(ctx context.Context, cred *models.Credentials, req CreatePaymentRequest, userID uuid.UUID) (int64, error) {
	if cred == nil || cred.Expired(s.now()) {
		return 0, newError(KindConfigurationMissing, msgNotConfigured, nil)
	}
	adapter, err := s.gateways.Adapter(cred)
	if err != nil {
		s.logger.Error("build gateway adapter", zap.String("gateway", cred.GatewayID), zap.Error(err))
		return 0, newError(KindConfigurationMissing, msgNotConfigured, err)
	}
	if err := validateProduct(&req); err != nil {
		return 0, err
	}

	repos := s.store.Repos()
	owned, err := repos.Entitlements.Owns(ctx, userID, req.ProductType, req.ProductID)
	if err != nil {
		return 0, s.fail("check ownership", unexpected(err))
	}
	if owned {
		return 0, newError(KindAlreadyOwned, msgAlreadyOwned, nil)
	}

	if req.PaymentType != models.MethodCreditCard {
		req.Card = nil
	}
	if err := validateRequest(&req); err != nil {
		return 0, err
	}

	price, err := repos.Catalog.Price(ctx, req.ProductType, req.ProductID)
	if errors.Is(err, catalog.ErrProductNotFound) {
		return 0, newError(KindProductNotFound, msgProductNotFound, err)
	}
	if err != nil {
		return 0, s.fail("resolve price", unexpected(err))
	}
	// orders.price must be positive; free products are not sold through the checkout.
	if price <= 0 {
		return 0, newError(KindValidation, msgProductNotForSale, nil)
	}

	customer := buildCustomer(req, userID)
	order := &models.Order{
		ProductType:  req.ProductType,
		ProductID:    req.ProductID,
		Price:        price,
		PaymentType:  req.PaymentType,
		Installments: installments(req),
	}
	var payment *models.Payment

	err = s.store.WithTx(ctx, func(r Repos) error {
		if err := r.Entitlements.Lock(ctx, userID, req.ProductType, req.ProductID); err != nil {
			return unexpected(err)
		}
		owned, err := r.Entitlements.Owns(ctx, userID, req.ProductType, req.ProductID)
		if err != nil {
			return unexpected(err)
		}
		if owned {
			return newError(KindAlreadyOwned, msgAlreadyOwned, nil)
		}
		if err := r.Customers.Create(ctx, customer); err != nil {
			return unexpected(fmt.Errorf("create customer: %w", err))
		}
		order.CustomerID = customer.ID
		if err := r.Orders.Create(ctx, order); err != nil {
			return unexpected(fmt.Errorf("create order: %w", err))
		}

		res, err := adapter.Charge(ctx, gateway.ChargeRequest{
			OrderID:         order.ID,
			Amount:          order.Total(),
			Method:          order.PaymentType,
			Installments:    order.Installments,
			Description:     fmt.Sprintf("Pedido #%d", order.ID),
			Customer:        customer,
			Card:            req.Card.toModel(),
			NotificationURL: s.webhookURL(cred.GatewayID),
		})
		if err != nil {
			return chargeError(err)
		}
		if res.Status == gateway.StatusRefused {
			return newError(KindGatewayRejected, msgGatewayRefused, nil)
		}

		payment = buildPayment(cred, customer, order, res)
		if err := r.Payments.Create(ctx, payment); err != nil {
			return unexpected(fmt.Errorf("create payment: %w", err))
		}
		if payment.PaymentType == models.MethodPix || payment.PaymentType == models.MethodInvoice {
			err := s.notifier.Enqueue(ctx, notifications.TemplatePaymentReminder, customer.Email, reminderPayload(customer, payment), s.cfg.ReminderDelay)
			if err != nil {
				return unexpected(fmt.Errorf("enqueue reminder: %w", err))
			}
		}
		return nil
	})
	if err != nil {
		return 0, s.fail("create payment", asError(err), zap.String("user_id", userID.String()), zap.String("gateway", cred.GatewayID))
	}

	s.logger.Info("payment created",
		zap.Int64("payment_id", payment.ID),
		zap.Int64("order_id", order.ID),
		zap.String("gateway", payment.GatewayID),
		zap.String("reference", payment.GatewayReference),
		zap.String("method", payment.PaymentType),
	)
	return payment.ID, nil
}

// GetPayment returns a payment owned by userID.
func (s *Service) GetPayment(ctx context.Context, paymentID int64, userID uuid.UUID) (*models.Payment, error) {
	repos := s.store.Repos()
	p, err := repos.Payments.GetByID(ctx, paymentID)
	if errors.Is(err, ErrPaymentNotFound) {
		return nil, newError(KindPaymentNotFound, msgPaymentNotFound, err)
	}
	if err != nil {
		return nil, s.fail("get payment", unexpected(err))
	}
	c, err := repos.Customers.GetByID(ctx, p.CustomerID)
	if err != nil && !errors.Is(err, customers.ErrNotFound) {
		return nil, s.fail("get payment customer", unexpected(err))
	}
	if c == nil || c.UserID != userID {
		return nil, newError(KindForbidden, msgForbidden, nil)
	}
	return p, nil
}

func (s *Service) webhookURL(gatewayID string) string {
	if s.cfg.WebhookURL == nil {
		return ""
	}
	return s.cfg.WebhookURL(gatewayID)
}

// fail logs e at a level matching its kind and returns it.
func (s *Service) fail(op string, e *Error, fields ...zap.Field) *Error {
	fields = append(fields, zap.String("kind", e.Kind.String()), zap.Error(e.Err))
	switch e.Kind {
	case KindUnexpected, KindGatewayUnavailable, KindConfigurationMissing:
		s.logger.Error(op, fields...)
	default:
		s.logger.Info(op, fields...)
	}
	return e
}

func chargeError(err error) *Error {
	var gwErr *gateway.Error
	if !errors.As(err, &gwErr) {
		return unexpected(err)
	}
	switch gwErr.Kind {
	case gateway.KindInvalid:
		return newError(KindValidation, gwErr.Reason, err)
	case gateway.KindRejected:
		msg := gwErr.Reason
		if msg == "" {
			msg = msgGatewayRefused
		}
		return newError(KindGatewayRejected, msg, err)
	case gateway.KindUnavailable:
		return newError(KindGatewayUnavailable, msgGatewayUnavailable, err)
	}
	return unexpected(err)
}

func buildCustomer(req CreatePaymentRequest, userID uuid.UUID) *models.Customer {
	in := req.Customer
	doc := document.Digits(in.Document)
	return &models.Customer{
		UserID:         userID,
		FirstName:      strings.TrimSpace(in.FirstName),
		LastName:       strings.TrimSpace(in.LastName),
		Email:          strings.TrimSpace(in.Email),
		Phone:          document.Digits(in.Phone),
		DocumentType:   document.Type(doc),
		DocumentNumber: doc,
		Address:        in.Address,
		ClientIP:       req.ClientIP,
	}
}

func installments(req CreatePaymentRequest) int {
	if req.PaymentType != models.MethodCreditCard || req.Installments < 1 {
		return 1
	}
	return req.Installments
}

// buildPayment records the charge as PENDENTE whatever the gateway answered; only a
// webhook moves it on, so access is granted in exactly one place.
func buildPayment(cred *models.Credentials, c *models.Customer, o *models.Order, res *gateway.ChargeResult) *models.Payment {
	p := &models.Payment{
		Status:           models.PaymentStatusPending,
		CustomerID:       c.ID,
		OrderID:          o.ID,
		GatewayID:        cred.GatewayID,
		GatewayReference: res.Reference,
		PaymentType:      o.PaymentType,
	}
	if cred.ID != 0 {
		id := cred.ID
		p.CredentialID = &id
	}
	if res.Pix != nil {
		p.PixCode = res.Pix.Code
		p.PixQRCode = res.Pix.QRCode
		p.PixExpiresAt = res.Pix.ExpiresAt
	}
	if res.Invoice != nil {
		p.InvoiceLine = res.Invoice.DigitableLine
		p.InvoiceBarcode = res.Invoice.Barcode
		p.InvoiceURL = res.Invoice.URL
		p.InvoiceDueDate = res.Invoice.DueDate
	}
	return p
}

func reminderPayload(c *models.Customer, p *models.Payment) map[string]any {
	data := map[string]any{
		"payment_id":   p.ID,
		"name":         c.FirstName,
		"payment_type": p.PaymentType,
	}
	switch p.PaymentType {
	case models.MethodPix:
		data["pix_code"] = p.PixCode
	case models.MethodInvoice:
		data["invoice_url"] = p.InvoiceURL
		data["invoice_digitable_line"] = p.InvoiceLine
	}
	return data
}
