package payments_test

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/mock/gomock"

	"github.com/mentora/checkout/internal/gateway"
	gwmocks "github.com/mentora/checkout/internal/gateway/mocks"
	"github.com/mentora/checkout/internal/models"
	"github.com/mentora/checkout/internal/notifications"
	"github.com/mentora/checkout/internal/payments"
	"github.com/mentora/checkout/internal/payments/mocks"
)

const (
	courseID    = int64(10)
	coursePrice = int64(5000)
)

type serviceFixture struct {
	svc      *payments.Service
	store    *memStore
	adapter  *gwmocks.MockAdapter
	notifier *mocks.MockNotifier
	cred     *models.Credentials
	userID   uuid.UUID
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	adapter := gwmocks.NewMockAdapter(ctrl)
	factory := mocks.NewMockAdapterFactory(ctrl)
	factory.EXPECT().Adapter(gomock.Any()).Return(adapter, nil).AnyTimes()
	notifier := mocks.NewMockNotifier(ctrl)

	store := newMemStore()
	store.setPrice(models.ProductCourse, courseID, coursePrice)

	svc := payments.NewService(store, factory, notifier, payments.ServiceConfig{
		ReminderDelay: time.Hour,
		WebhookURL:    func(id string) string { return "https://api.example.com/payments/" + id + "/status" },
	}, nil)
	return &serviceFixture{
		svc:      svc,
		store:    store,
		adapter:  adapter,
		notifier: notifier,
		cred:     &models.Credentials{ID: 1, GatewayID: gateway.IDAsaas, APIKey: "key"},
		userID:   uuid.New(),
	}
}

func pixRequest() payments.CreatePaymentRequest {
	return payments.CreatePaymentRequest{
		ProductType: models.ProductCourse,
		ProductID:   courseID,
		PaymentType: models.MethodPix,
		Customer: payments.CustomerInput{
			FirstName: "Ana",
			LastName:  "Souza",
			Email:     "ana@example.com",
			Phone:     "(11) 98888-7777",
			Document:  "529.982.247-25",
			Address:   models.Address{ZipCode: "01310-100", Street: "Av. Paulista", Number: "1000", District: "Bela Vista", City: "São Paulo", State: "SP"},
		},
	}
}

func cardRequest() payments.CreatePaymentRequest {
	req := pixRequest()
	req.PaymentType = models.MethodCreditCard
	req.Installments = 3
	req.Card = &payments.CardInput{
		Number:         "4111 1111 1111 1111",
		CVV:            "123",
		ExpMonth:       "12",
		ExpYear:        "2030",
		HolderName:     "ANA SOUZA",
		HolderDocument: "529.982.247-25",
	}
	return req
}

func assertNoRows(t *testing.T, s *memStore) {
	t.Helper()
	if c, o, p := s.counts(); c != 0 || o != 0 || p != 0 {
		t.Fatalf("expected no rows, got customers=%d orders=%d payments=%d", c, o, p)
	}
}

func TestService_CreatePayment_Pix(t *testing.T) {
	f := newServiceFixture(t)
	expires := time.Now().Add(30 * time.Minute)

	f.adapter.EXPECT().Charge(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, req gateway.ChargeRequest) (*gateway.ChargeResult, error) {
		if req.Amount != coursePrice || req.Method != models.MethodPix || req.Installments != 1 {
			t.Fatalf("unexpected charge request %+v", req)
		}
		if req.NotificationURL != "https://api.example.com/payments/asaas/status" {
			t.Fatalf("unexpected notification url %q", req.NotificationURL)
		}
		if req.Customer.DocumentNumber != "52998224725" || req.Customer.DocumentType != models.DocumentCPF {
			t.Fatalf("document not normalised: %+v", req.Customer)
		}
		return &gateway.ChargeResult{
			Status:    gateway.StatusPending,
			Method:    models.MethodPix,
			Reference: "pay_123",
			Pix:       &gateway.PixInfo{Code: "00020126", QRCode: "iVBOR", ExpiresAt: &expires},
		}, nil
	})
	f.notifier.EXPECT().
		Enqueue(gomock.Any(), notifications.TemplatePaymentReminder, "ana@example.com", gomock.Any(), time.Hour).
		Return(nil)

	id, err := f.svc.CreatePayment(context.Background(), f.cred, pixRequest(), f.userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c, o, p := f.store.counts(); c != 1 || o != 1 || p != 1 {
		t.Fatalf("expected one triple, got customers=%d orders=%d payments=%d", c, o, p)
	}
	p := f.store.payment(id)
	if p.Status != models.PaymentStatusPending || p.PaymentType != models.MethodPix || p.PixCode != "00020126" {
		t.Fatalf("unexpected payment %+v", p)
	}
	if p.GatewayID != gateway.IDAsaas || p.GatewayReference != "pay_123" || p.CredentialID == nil || *p.CredentialID != 1 {
		t.Fatalf("unexpected gateway fields %+v", p)
	}
	if f.store.entitlementCount() != 0 {
		t.Fatal("entitlement must not be granted at creation")
	}
}

func TestService_CreatePayment_CardPaidStaysPending(t *testing.T) {
	f := newServiceFixture(t)
	f.adapter.EXPECT().Charge(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, req gateway.ChargeRequest) (*gateway.ChargeResult, error) {
		if req.Card == nil || req.Card.HolderDocument != "52998224725" || req.Installments != 3 {
			t.Fatalf("unexpected card request %+v", req.Card)
		}
		return &gateway.ChargeResult{Status: gateway.StatusPaid, Method: models.MethodCreditCard, Reference: "ord_9"}, nil
	})

	id, err := f.svc.CreatePayment(context.Background(), f.cred, cardRequest(), f.userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p := f.store.payment(id); p.Status != models.PaymentStatusPending {
		t.Fatalf("expected PENDENTE until the webhook arrives, got %s", p.Status)
	}
	if f.store.entitlementCount() != 0 {
		t.Fatal("entitlement must not be granted at creation")
	}
}

func TestService_CreatePayment_Failures(t *testing.T) {
	tests := []struct {
		name    string
		cred    func(f *serviceFixture) *models.Credentials
		req     func() payments.CreatePaymentRequest
		setup   func(f *serviceFixture)
		kind    payments.Kind
		message string
	}{
		{
			name:    "not configured",
			cred:    func(*serviceFixture) *models.Credentials { return nil },
			req:     pixRequest,
			kind:    payments.KindConfigurationMissing,
			message: "checkout not configured",
		},
		{
			name: "expired credentials",
			cred: func(f *serviceFixture) *models.Credentials {
				past := time.Now().Add(-time.Hour)
				c := *f.cred
				c.ExpiresAt = &past
				return &c
			},
			req:  pixRequest,
			kind: payments.KindConfigurationMissing,
		},
		{
			name: "invalid product type",
			req: func() payments.CreatePaymentRequest {
				r := pixRequest()
				r.ProductType = "ebook"
				return r
			},
			kind: payments.KindValidation,
		},
		{
			name: "invalid buyer document",
			req: func() payments.CreatePaymentRequest {
				r := pixRequest()
				r.Customer.Document = "111.111.111-11"
				return r
			},
			kind:    payments.KindValidation,
			message: "CPF/CNPJ inválido",
		},
		{
			name: "invalid card holder document",
			req: func() payments.CreatePaymentRequest {
				r := cardRequest()
				r.Card.HolderDocument = "123"
				return r
			},
			kind:    payments.KindValidation,
			message: "CPF/CNPJ do titular do cartão inválido",
		},
		{
			name: "card missing",
			req: func() payments.CreatePaymentRequest {
				r := cardRequest()
				r.Card = nil
				return r
			},
			kind: payments.KindValidation,
		},
		{
			name:  "already owned",
			req:   pixRequest,
			setup: func(f *serviceFixture) { f.store.grantDirect(f.userID, models.ProductCourse, courseID) },
			kind:  payments.KindAlreadyOwned,
		},
		{
			name: "owned check runs before document check",
			req: func() payments.CreatePaymentRequest {
				r := pixRequest()
				r.Customer.Document = "000"
				return r
			},
			setup: func(f *serviceFixture) { f.store.grantDirect(f.userID, models.ProductCourse, courseID) },
			kind:  payments.KindAlreadyOwned,
		},
		{
			name: "unknown product",
			req: func() payments.CreatePaymentRequest {
				r := pixRequest()
				r.ProductID = 999
				return r
			},
			kind: payments.KindProductNotFound,
		},
		{
			name:    "zero price",
			req:     pixRequest,
			setup:   func(f *serviceFixture) { f.store.setPrice(models.ProductCourse, courseID, 0) },
			kind:    payments.KindValidation,
			message: "produto indisponível para venda",
		},
		{
			name: "gateway timeout",
			req:  pixRequest,
			setup: func(f *serviceFixture) {
				f.adapter.EXPECT().Charge(gomock.Any(), gomock.Any()).
					Return(nil, &gateway.Error{Kind: gateway.KindUnavailable, Gateway: gateway.IDAsaas, Err: context.DeadlineExceeded})
			},
			kind: payments.KindGatewayUnavailable,
		},
		{
			name: "gateway connection refused",
			req:  pixRequest,
			setup: func(f *serviceFixture) {
				f.adapter.EXPECT().Charge(gomock.Any(), gomock.Any()).
					Return(nil, &gateway.Error{Kind: gateway.KindUnavailable, Gateway: gateway.IDAsaas, Err: &net.OpError{Op: "dial"}})
			},
			kind: payments.KindGatewayUnavailable,
		},
		{
			name: "gateway rejects with reason",
			req:  cardRequest,
			setup: func(f *serviceFixture) {
				f.adapter.EXPECT().Charge(gomock.Any(), gomock.Any()).
					Return(nil, &gateway.Error{Kind: gateway.KindRejected, Gateway: gateway.IDAsaas, Reason: "Cartão sem saldo"})
			},
			kind:    payments.KindGatewayRejected,
			message: "Cartão sem saldo",
		},
		{
			name: "gateway refuses synchronously",
			req:  cardRequest,
			setup: func(f *serviceFixture) {
				f.adapter.EXPECT().Charge(gomock.Any(), gomock.Any()).
					Return(&gateway.ChargeResult{Status: gateway.StatusRefused, Reference: "ord_1"}, nil)
			},
			kind: payments.KindGatewayRejected,
		},
		{
			name: "reminder enqueue fails",
			req:  pixRequest,
			setup: func(f *serviceFixture) {
				f.adapter.EXPECT().Charge(gomock.Any(), gomock.Any()).
					Return(&gateway.ChargeResult{Status: gateway.StatusPending, Method: models.MethodPix, Reference: "pay_1"}, nil)
				f.notifier.EXPECT().Enqueue(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("redis down"))
			},
			kind: payments.KindUnexpected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newServiceFixture(t)
			cred := f.cred
			if tt.cred != nil {
				cred = tt.cred(f)
			}
			if tt.setup != nil {
				tt.setup(f)
			}

			_, err := f.svc.CreatePayment(context.Background(), cred, tt.req(), f.userID)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := payments.KindOf(err); got != tt.kind {
				t.Fatalf("expected kind %v, got %v (%v)", tt.kind, got, err)
			}
			var pErr *payments.Error
			if !errors.As(err, &pErr) {
				t.Fatalf("expected *payments.Error, got %T", err)
			}
			if tt.message != "" && pErr.Message != tt.message {
				t.Fatalf("expected message %q, got %q", tt.message, pErr.Message)
			}
			assertNoRows(t, f.store)
		})
	}
}

func TestService_GetPayment(t *testing.T) {
	f := newServiceFixture(t)
	p := f.store.seedPurchase(f.userID, models.ProductCourse, courseID, gateway.IDAsaas, "pay_1")

	got, err := f.svc.GetPayment(context.Background(), p.ID, f.userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != p.ID || got.Status != models.PaymentStatusPending {
		t.Fatalf("unexpected payment %+v", got)
	}

	if _, err := f.svc.GetPayment(context.Background(), p.ID, uuid.New()); payments.KindOf(err) != payments.KindForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := f.svc.GetPayment(context.Background(), 9999, f.userID); payments.KindOf(err) != payments.KindPaymentNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
