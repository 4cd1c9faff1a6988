package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mentora/checkout/internal/entitlements"
	"github.com/mentora/checkout/internal/gateway"
	"github.com/mentora/checkout/internal/models"
	"github.com/mentora/checkout/internal/notifications"
	"github.com/mentora/checkout/pkg/queue"
)

// GatewayRegistry resolves gateway definitions and adapters.
type GatewayRegistry interface {
	AdapterFactory
	Definition(id string) (gateway.Definition, bool)
}

// ReconcilerDeps are the optional collaborators of the reconciler. Nil fields are skipped.
type ReconcilerDeps struct {
	Provisioner GroupProvisioner
	Notifier    Notifier
	Publisher   StatusPublisher
	Events      EventRecorder
	Archiver    WebhookArchiver
}

// Reconciler applies gateway webhooks to local payments.
type Reconciler struct {
	store       Store
	credentials CredentialLookup
	gateways    GatewayRegistry
	deps        ReconcilerDeps
	logger      *zap.Logger
	now         func() time.Time
}

// NewReconciler creates a webhook reconciler.
func NewReconciler(store Store, credentials CredentialLookup, gateways GatewayRegistry, deps ReconcilerDeps, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{store: store, credentials: credentials, gateways: gateways, deps: deps, logger: logger, now: time.Now}
}

// errNoPayment marks a delivery for a reference this service never created.
var errNoPayment = errors.New("no payment for gateway reference")

// transition is what one delivery changed.
type transition struct {
	purchase models.Purchase
	from     string
	to       string
}

// HandleWebhook verifies, parses and applies one delivery. It never returns an error: the sender
// always gets 200 and the outcome is recorded in the returned event.
func (r *Reconciler) HandleWebhook(ctx context.Context, gatewayID string, w gateway.Webhook) *models.WebhookEvent {
	receivedAt := r.now()
	ev := &models.WebhookEvent{GatewayID: gatewayID}
	defer r.finish(ctx, ev, w.Body, receivedAt)

	def, ok := r.gateways.Definition(gatewayID)
	if !ok {
		discard(ev, "unknown gateway")
		return ev
	}
	cred, err := r.credentials.GetByGateway(ctx, gatewayID)
	if err != nil {
		failed(ev, fmt.Errorf("load credentials: %w", err))
		return ev
	}
	if cred == nil {
		discard(ev, "gateway is not the active one")
		return ev
	}
	if !def.VerifyToken(w.Header, cred.WebhookTokenHash) {
		discard(ev, "invalid webhook token")
		return ev
	}
	adapter, err := r.gateways.Adapter(cred)
	if err != nil {
		failed(ev, fmt.Errorf("build adapter: %w", err))
		return ev
	}

	n, err := adapter.ParseWebhook(w)
	if err != nil {
		discard(ev, err.Error())
		return ev
	}
	ev.Event = n.Event
	ev.Reference = n.Reference
	if n.Status == gateway.StatusUnresolved {
		resolved, err := adapter.QueryStatus(ctx, n.Reference)
		if err != nil {
			failed(ev, fmt.Errorf("query status: %w", err))
			return ev
		}
		n.Status = resolved.Status
		n.Reversal = resolved.Reversal
	}
	ev.Status = n.Status.String()
	if n.Status == gateway.StatusIgnored {
		ev.Outcome = models.WebhookOutcomeIgnored
		return ev
	}

	t, err := r.apply(ctx, gatewayID, n)
	switch {
	case errors.Is(err, errNoPayment):
		discard(ev, err.Error())
		return ev
	case err != nil:
		failed(ev, err)
		return ev
	}
	if t == nil {
		ev.Outcome = models.WebhookOutcomeIgnored
		return ev
	}
	id := t.purchase.Payment.ID
	ev.PaymentID = &id
	ev.Outcome = models.WebhookOutcomeApplied
	r.afterCommit(ctx, t)
	return ev
}

// apply runs the status transition under a row lock. It returns nil when the delivery
// does not move the payment, which makes redeliveries no-ops.
func (r *Reconciler) apply(ctx context.Context, gatewayID string, n *gateway.Notification) (*transition, error) {
	var t *transition
	err := r.store.WithTx(ctx, func(repos Repos) error {
		t = nil
		p, err := repos.Payments.LockByReference(ctx, gatewayID, n.Reference)
		if errors.Is(err, ErrPaymentNotFound) {
			return errNoPayment
		}
		if err != nil {
			return fmt.Errorf("lock payment: %w", err)
		}
		next, ok := nextStatus(p.Status, n)
		if !ok {
			return nil
		}
		order, err := repos.Orders.GetByID(ctx, p.OrderID)
		if err != nil {
			return fmt.Errorf("load order: %w", err)
		}
		customer, err := repos.Customers.GetByID(ctx, order.CustomerID)
		if err != nil {
			return fmt.Errorf("load customer: %w", err)
		}
		if err := repos.Payments.UpdateStatus(ctx, p.ID, next); err != nil {
			return fmt.Errorf("update status: %w", err)
		}
		from := p.Status
		p.Status = next
		purchase := models.Purchase{Payment: p, Order: order, Customer: customer}

		switch {
		case next == models.PaymentStatusPaid:
			if err := r.grant(ctx, repos, purchase); err != nil {
				return err
			}
		case from == models.PaymentStatusPaid && next == models.PaymentStatusRefused:
			if err := r.revoke(ctx, repos, purchase); err != nil {
				return err
			}
		}
		t = &transition{purchase: purchase, from: from, to: next}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *Reconciler) grant(ctx context.Context, repos Repos, p models.Purchase) error {
	o := p.Order
	_, err := repos.Entitlements.Grant(ctx, p.UserID(), o.ProductType, o.ProductID, p.Payment.ID)
	switch {
	case errors.Is(err, entitlements.ErrDuplicateEntitlement):
		r.logger.Info("entitlement already granted",
			zap.Int64("payment_id", p.Payment.ID),
			zap.String("product_type", o.ProductType),
			zap.Int64("product_id", o.ProductID),
		)
	case err != nil:
		return fmt.Errorf("grant entitlement: %w", err)
	default:
		if err := repos.Catalog.AdjustStudents(ctx, o.ProductType, o.ProductID, 1); err != nil {
			return fmt.Errorf("increment students: %w", err)
		}
	}
	if o.ProductType == models.ProductMentorship && r.deps.Provisioner != nil {
		if err := r.deps.Provisioner.HandleOrder(ctx, p); err != nil {
			return fmt.Errorf("provision group: %w", err)
		}
	}
	return nil
}

func (r *Reconciler) revoke(ctx context.Context, repos Repos, p models.Purchase) error {
	o := p.Order
	revoked, err := repos.Entitlements.Revoke(ctx, p.UserID(), o.ProductType, o.ProductID, p.Payment.ID)
	if err != nil {
		return fmt.Errorf("revoke entitlement: %w", err)
	}
	if !revoked {
		r.logger.Info("no entitlement backed by refunded payment",
			zap.Int64("payment_id", p.Payment.ID),
			zap.String("product_type", o.ProductType),
			zap.Int64("product_id", o.ProductID),
		)
		return nil
	}
	if err := repos.Catalog.AdjustStudents(ctx, o.ProductType, o.ProductID, -1); err != nil {
		return fmt.Errorf("decrement students: %w", err)
	}
	return nil
}

// afterCommit runs side effects that must not roll back the transition.
func (r *Reconciler) afterCommit(ctx context.Context, t *transition) {
	p := t.purchase
	r.logger.Info("payment status changed",
		zap.Int64("payment_id", p.Payment.ID),
		zap.String("from", t.from),
		zap.String("to", t.to),
	)
	if t.to == models.PaymentStatusPaid && r.deps.Notifier != nil {
		payload := map[string]any{
			"payment_id":   p.Payment.ID,
			"name":         p.Customer.FirstName,
			"product_type": p.Order.ProductType,
			"product_id":   p.Order.ProductID,
		}
		if err := r.deps.Notifier.Enqueue(ctx, notifications.TemplatePaymentReceived, p.Customer.Email, payload, 0); err != nil {
			r.logger.Error("enqueue payment received", zap.Int64("payment_id", p.Payment.ID), zap.Error(err))
		}
	}
	if r.deps.Publisher != nil {
		if err := r.deps.Publisher.PublishPaymentStatus(ctx, p.Payment.ID, t.to); err != nil {
			r.logger.Warn("publish payment status", zap.Int64("payment_id", p.Payment.ID), zap.Error(err))
		}
	}
}

// finish records the delivery and queues its body for archival.
func (r *Reconciler) finish(ctx context.Context, ev *models.WebhookEvent, body []byte, receivedAt time.Time) {
	fields := []zap.Field{
		zap.String("gateway", ev.GatewayID),
		zap.String("event", ev.Event),
		zap.String("reference", ev.Reference),
		zap.String("outcome", ev.Outcome),
	}
	switch ev.Outcome {
	case models.WebhookOutcomeFailed:
		r.logger.Error("webhook failed", append(fields, zap.String("error", ev.ErrorMessage))...)
	case models.WebhookOutcomeDiscarded:
		r.logger.Warn("webhook discarded", append(fields, zap.String("reason", ev.ErrorMessage))...)
	default:
		r.logger.Info("webhook handled", fields...)
	}

	if r.deps.Events == nil {
		return
	}
	if err := r.deps.Events.Record(ctx, ev); err != nil {
		r.logger.Error("record webhook event", zap.Error(err))
		return
	}
	if r.deps.Archiver == nil || len(body) == 0 {
		return
	}
	err := r.deps.Archiver.EnqueueWebhookArchive(ctx, queue.WebhookArchivePayload{
		EventID:    ev.ID,
		GatewayID:  ev.GatewayID,
		Body:       body,
		ReceivedAt: receivedAt,
	})
	if err != nil {
		r.logger.Warn("enqueue webhook archive", zap.Int64("event_id", ev.ID), zap.Error(err))
	}
}

// nextStatus returns the status a notification moves a payment to. Paid and refused are
// terminal, except that a reversal takes a paid payment to refused.
func nextStatus(current string, n *gateway.Notification) (string, bool) {
	switch current {
	case models.PaymentStatusPending:
		switch n.Status {
		case gateway.StatusPaid:
			return models.PaymentStatusPaid, true
		case gateway.StatusRefused:
			return models.PaymentStatusRefused, true
		}
	case models.PaymentStatusPaid:
		if n.Status == gateway.StatusRefused && n.Reversal {
			return models.PaymentStatusRefused, true
		}
	}
	return "", false
}

func discard(ev *models.WebhookEvent, reason string) {
	ev.Outcome = models.WebhookOutcomeDiscarded
	ev.ErrorMessage = reason
}

func failed(ev *models.WebhookEvent, err error) {
	ev.Outcome = models.WebhookOutcomeFailed
	ev.ErrorMessage = err.Error()
}
