package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mentora/checkout/internal/models"
)

func newAppmaxTest(t *testing.T, handler http.HandlerFunc, timeout time.Duration) Adapter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	a, err := Appmax(Options{BaseURL: srv.URL, Timeout: timeout}).New(&models.Credentials{GatewayID: IDAppmax, AuthToken: "tok"}, Options{BaseURL: srv.URL, Timeout: timeout})
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}
	return a
}

func writeAppmax(w http.ResponseWriter, status int, success bool, text string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": success, "text": text, "data": data})
}

func appmaxHappyPath(t *testing.T, payment func(w http.ResponseWriter, r *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if r.Method == http.MethodPost && body["access-token"] != "tok" {
			t.Errorf("missing access token on %s", r.URL.Path)
		}
		switch r.URL.Path {
		case "/customer":
			writeAppmax(w, http.StatusOK, true, "", map[string]any{"id": 10})
		case "/order":
			if body["customer_id"] != float64(10) {
				t.Errorf("order must reference customer 10, got %v", body["customer_id"])
			}
			if body["total"] != float64(50) {
				t.Errorf("expected total 50.00, got %v", body["total"])
			}
			writeAppmax(w, http.StatusOK, true, "", map[string]any{"id": 777})
		default:
			payment(w, r)
		}
	}
}

func TestAppmax_ChargePix(t *testing.T) {
	a := newAppmaxTest(t, appmaxHappyPath(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/payment/pix" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		writeAppmax(w, http.StatusOK, true, "", map[string]any{
			"pix_qrcode":          "base64img",
			"pix_emv":             "00020126...",
			"pix_expiration_date": "2030-01-01 10:00:00",
		})
	}), time.Second)

	res, err := a.Charge(context.Background(), testCharge(models.MethodPix))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Reference != "777" || res.Status != StatusPending || res.Method != models.MethodPix {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Pix == nil || res.Pix.Code != "00020126..." || res.Pix.QRCode != "base64img" || res.Pix.ExpiresAt == nil {
		t.Fatalf("unexpected pix info %+v", res.Pix)
	}
}

func TestAppmax_ChargeInvoice(t *testing.T) {
	a := newAppmaxTest(t, appmaxHappyPath(t, func(w http.ResponseWriter, r *http.Request) {
		writeAppmax(w, http.StatusOK, true, "", map[string]any{
			"pdf":            "https://appmax/boleto.pdf",
			"digitable_line": "23793.38128 60000.000003 00000.000400 1 84340000005000",
			"due_date":       "2030-01-05",
		})
	}), time.Second)

	res, err := a.Charge(context.Background(), testCharge(models.MethodInvoice))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Invoice == nil || res.Invoice.URL != "https://appmax/boleto.pdf" || res.Invoice.DueDate == nil {
		t.Fatalf("unexpected invoice %+v", res.Invoice)
	}
	if res.Invoice.Barcode != "23793381286000000000300000000400184340000005000" {
		t.Fatalf("unexpected barcode %q", res.Invoice.Barcode)
	}
}

func TestAppmax_CardDeclined(t *testing.T) {
	a := newAppmaxTest(t, appmaxHappyPath(t, func(w http.ResponseWriter, r *http.Request) {
		writeAppmax(w, http.StatusOK, false, "Cartão sem saldo", nil)
	}), time.Second)

	_, err := a.Charge(context.Background(), testCharge(models.MethodCreditCard))
	var gwErr *Error
	if !errors.As(err, &gwErr) || gwErr.Kind != KindRejected || gwErr.Reason != "Cartão sem saldo" {
		t.Fatalf("expected rejected with gateway reason, got %v", err)
	}
}

func TestAppmax_ClientErrorIsRejected(t *testing.T) {
	a := newAppmaxTest(t, func(w http.ResponseWriter, r *http.Request) {
		writeAppmax(w, http.StatusBadRequest, false, "E-mail inválido", nil)
	}, time.Second)

	_, err := a.Charge(context.Background(), testCharge(models.MethodPix))
	var gwErr *Error
	if !errors.As(err, &gwErr) || gwErr.Kind != KindRejected || gwErr.Reason != "E-mail inválido" {
		t.Fatalf("expected rejected, got %v", err)
	}
}

func TestAppmax_ServerErrorIsUnavailable(t *testing.T) {
	a := newAppmaxTest(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}, time.Second)

	_, err := a.Charge(context.Background(), testCharge(models.MethodPix))
	if KindOf(err) != KindUnavailable {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

func TestAppmax_TimeoutIsUnavailable(t *testing.T) {
	a := newAppmaxTest(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}, 50*time.Millisecond)

	_, err := a.Charge(context.Background(), testCharge(models.MethodPix))
	if KindOf(err) != KindUnavailable {
		t.Fatalf("expected unavailable on timeout, got %v", err)
	}
}

func TestAppmax_InvalidInputSkipsNetwork(t *testing.T) {
	a := newAppmaxTest(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("gateway must not be called, got %s", r.URL.Path)
	}, time.Second)

	req := testCharge(models.MethodPix)
	req.Amount = 0
	if _, err := a.Charge(context.Background(), req); KindOf(err) != KindInvalid {
		t.Fatalf("expected invalid, got %v", err)
	}
}

func TestAppmax_QueryStatus(t *testing.T) {
	a := newAppmaxTest(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/order/777" || r.URL.Query().Get("access-token") != "tok" {
			t.Errorf("unexpected request %s", r.URL.String())
		}
		writeAppmax(w, http.StatusOK, true, "", map[string]any{"status": "estornado"})
	}, time.Second)

	n, err := a.QueryStatus(context.Background(), "777")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Status != StatusRefused || !n.Reversal {
		t.Fatalf("expected refused reversal, got %+v", n)
	}
}

func TestAppmax_ParseWebhook(t *testing.T) {
	a := newAppmaxTest(t, func(w http.ResponseWriter, r *http.Request) {}, time.Second)

	tests := []struct {
		name     string
		body     string
		status   Status
		reversal bool
		wantErr  bool
	}{
		{name: "paid", body: `{"event":"OrderPaid","data":{"id":777}}`, status: StatusPaid},
		{name: "paid by pix string id", body: `{"event":"OrderPaidByPix","data":{"id":"777"}}`, status: StatusPaid},
		{name: "not authorized", body: `{"event":"PaymentNotAuthorized","data":{"id":777}}`, status: StatusRefused},
		{name: "refund", body: `{"event":"OrderRefund","data":{"id":777}}`, status: StatusRefused, reversal: true},
		{name: "unknown event", body: `{"event":"CustomerCreated","data":{"id":777}}`, status: StatusIgnored},
		{name: "malformed", body: `{"event":`, wantErr: true},
		{name: "missing id", body: `{"event":"OrderPaid","data":{}}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := a.ParseWebhook(Webhook{Body: []byte(tt.body)})
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedWebhook) {
					t.Fatalf("expected ErrMalformedWebhook, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if n.Reference != "777" || n.Status != tt.status || n.Reversal != tt.reversal {
				t.Fatalf("unexpected notification %+v", n)
			}
		})
	}
}
