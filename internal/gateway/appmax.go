package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mentora/checkout/internal/document"
	"github.com/mentora/checkout/internal/models"
)

// Appmax order events. Appmax identifies the payment by its order id.
var appmaxEvents = map[string]verdict{
	"OrderApproved":        {status: StatusPaid},
	"OrderPaid":            {status: StatusPaid},
	"OrderPaidByPix":       {status: StatusPaid},
	"OrderPaidByBillet":    {status: StatusPaid},
	"PaymentNotAuthorized": {status: StatusRefused},
	"OrderPixExpired":      {status: StatusRefused},
	"OrderBilletOverdue":   {status: StatusRefused},
	"OrderRefund":          {status: StatusRefused, reversal: true},
	"OrderChargeBack":      {status: StatusRefused, reversal: true},
	"ChargebackDispute":    {status: StatusRefused, reversal: true},
	"OrderAuthorized":      {status: StatusPending},
	"OrderPixCreated":      {status: StatusPending},
	"OrderBilletCreated":   {status: StatusPending},
	"PendingIntegration":   {status: StatusPending},
}

// Appmax order statuses, as returned by the order lookup.
var appmaxStatuses = map[string]verdict{
	"aprovado":                {status: StatusPaid},
	"autorizado":              {status: StatusPaid},
	"integrado":               {status: StatusPaid},
	"pendente":                {status: StatusPending},
	"pendente_integracao":     {status: StatusPending},
	"cancelado":               {status: StatusRefused},
	"recusado_por_risco":      {status: StatusRefused},
	"estornado":               {status: StatusRefused, reversal: true},
	"chargeback_em_tratativa": {status: StatusRefused, reversal: true},
}

// Appmax registers the Appmax adapter.
func Appmax(opts Options) Definition {
	return Definition{
		ID:          IDAppmax,
		TokenHeader: "X-Webhook-Token",
		Options:     opts,
		New: func(cred *models.Credentials, opts Options) (Adapter, error) {
			if cred.AuthToken == "" {
				return nil, errors.New("appmax: missing access token")
			}
			return &appmax{
				token:   cred.AuthToken,
				timeout: opts.timeout(),
				rest: &restClient{
					gateway: IDAppmax,
					baseURL: opts.BaseURL,
					http:    opts.client(),
					logger:  opts.logger(),
					reason:  appmaxReason,
				},
			}, nil
		},
	}
}

type appmax struct {
	token   string
	timeout time.Duration
	rest    *restClient
}

// appmaxEnvelope wraps every Appmax response.
type appmaxEnvelope struct {
	Success bool            `json:"success"`
	Text    string          `json:"text"`
	Data    json.RawMessage `json:"data"`
}

func appmaxReason(body []byte) string {
	var env appmaxEnvelope
	if json.Unmarshal(body, &env) != nil {
		return ""
	}
	return env.Text
}

func (a *appmax) ID() string { return IDAppmax }

func (a *appmax) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	if err := req.Validate(IDAppmax); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	customerID, err := a.createCustomer(ctx, req.Customer)
	if err != nil {
		return nil, err
	}
	orderID, err := a.createOrder(ctx, customerID, req)
	if err != nil {
		return nil, err
	}

	cart := map[string]any{"order_id": orderID}
	buyer := map[string]any{"customer_id": customerID}
	result := &ChargeResult{Method: req.Method, Reference: strconv.FormatInt(orderID, 10), Status: StatusPending}

	switch req.Method {
	case models.MethodCreditCard:
		var data struct {
			Status string `json:"status"`
		}
		err = a.post(ctx, "/payment/credit-card", map[string]any{
			"cart":     cart,
			"customer": buyer,
			"payment": map[string]any{
				"CreditCard": map[string]any{
					"number":          document.Digits(req.Card.Number),
					"cvv":             req.Card.CVV,
					"month":           req.Card.ExpMonth,
					"year":            req.Card.ExpYear,
					"document_number": document.Digits(req.Card.HolderDocument),
					"name":            req.Card.HolderName,
					"installments":    installments(req.Installments),
				},
			},
		}, &data)
		if err != nil {
			return nil, err
		}
		if v := lookup(appmaxStatuses, data.Status); v.status == StatusPaid {
			result.Status = StatusPaid
		}
	case models.MethodPix:
		var data struct {
			QRCode     string `json:"pix_qrcode"`
			EMV        string `json:"pix_emv"`
			Expiration string `json:"pix_expiration_date"`
		}
		err = a.post(ctx, "/payment/pix", map[string]any{
			"cart":     cart,
			"customer": buyer,
			"payment": map[string]any{
				"pix": map[string]any{"document_number": req.Customer.DocumentNumber},
			},
		}, &data)
		if err != nil {
			return nil, err
		}
		result.Pix = &PixInfo{Code: data.EMV, QRCode: data.QRCode, ExpiresAt: parseTime("2006-01-02 15:04:05", data.Expiration)}
	case models.MethodInvoice:
		var data struct {
			PDF           string `json:"pdf"`
			DigitableLine string `json:"digitable_line"`
			DueDate       string `json:"due_date"`
		}
		err = a.post(ctx, "/payment/boleto", map[string]any{
			"cart":     cart,
			"customer": buyer,
			"payment": map[string]any{
				"Boleto": map[string]any{"document_number": req.Customer.DocumentNumber},
			},
		}, &data)
		if err != nil {
			return nil, err
		}
		result.Invoice = &InvoiceInfo{
			DigitableLine: data.DigitableLine,
			Barcode:       document.Digits(data.DigitableLine),
			URL:           data.PDF,
			DueDate:       parseTime("2006-01-02", data.DueDate),
		}
	}
	return result, nil
}

func (a *appmax) createCustomer(ctx context.Context, c *models.Customer) (int64, error) {
	var data struct {
		ID int64 `json:"id"`
	}
	err := a.post(ctx, "/customer", map[string]any{
		"firstname":                 c.FirstName,
		"lastname":                  c.LastName,
		"email":                     c.Email,
		"telephone":                 document.Digits(c.Phone),
		"postcode":                  document.Digits(c.Address.ZipCode),
		"address_street":            c.Address.Street,
		"address_street_number":     c.Address.Number,
		"address_street_complement": c.Address.Complement,
		"address_street_district":   c.Address.District,
		"address_city":              c.Address.City,
		"address_state":             c.Address.State,
		"ip":                        c.ClientIP,
	}, &data)
	if err != nil {
		return 0, err
	}
	if data.ID == 0 {
		return 0, unavailable(IDAppmax, errors.New("customer id missing in response"))
	}
	return data.ID, nil
}

func (a *appmax) createOrder(ctx context.Context, customerID int64, req ChargeRequest) (int64, error) {
	var data struct {
		ID int64 `json:"id"`
	}
	err := a.post(ctx, "/order", map[string]any{
		"customer_id": customerID,
		"total":       reais(req.Amount),
		"products": []map[string]any{{
			"sku":   strconv.FormatInt(req.OrderID, 10),
			"name":  req.Description,
			"qty":   1,
			"price": reais(req.Amount),
		}},
	}, &data)
	if err != nil {
		return 0, err
	}
	if data.ID == 0 {
		return 0, unavailable(IDAppmax, errors.New("order id missing in response"))
	}
	return data.ID, nil
}

// post sends body with the access token and unwraps the Appmax envelope into out.
func (a *appmax) post(ctx context.Context, path string, body map[string]any, out any) error {
	body["access-token"] = a.token
	var env appmaxEnvelope
	if err := a.rest.do(ctx, http.MethodPost, path, body, &env); err != nil {
		return err
	}
	return a.unwrap(env, out)
}

func (a *appmax) unwrap(env appmaxEnvelope, out any) error {
	if !env.Success {
		reason := env.Text
		if reason == "" {
			reason = "pagamento não autorizado"
		}
		return rejected(IDAppmax, reason)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return unavailable(IDAppmax, fmt.Errorf("decode data: %w", err))
	}
	return nil
}

func (a *appmax) QueryStatus(ctx context.Context, reference string) (*Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	var env appmaxEnvelope
	path := "/order/" + url.PathEscape(reference) + "?access-token=" + url.QueryEscape(a.token)
	if err := a.rest.do(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	var data struct {
		Status string `json:"status"`
	}
	if err := a.unwrap(env, &data); err != nil {
		return nil, err
	}
	v := lookup(appmaxStatuses, strings.ToLower(data.Status))
	return &Notification{Event: data.Status, Reference: reference, Status: v.status, Reversal: v.reversal}, nil
}

func (a *appmax) ParseWebhook(w Webhook) (*Notification, error) {
	var body struct {
		Event string `json:"event"`
		Data  struct {
			ID json.Number `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body, &body); err != nil {
		return nil, fmt.Errorf("appmax: %w: %v", ErrMalformedWebhook, err)
	}
	if body.Event == "" || body.Data.ID == "" {
		return nil, fmt.Errorf("appmax: %w: missing event or order id", ErrMalformedWebhook)
	}
	v := lookup(appmaxEvents, body.Event)
	return &Notification{Event: body.Event, Reference: body.Data.ID.String(), Status: v.status, Reversal: v.reversal}, nil
}

func parseTime(layout, s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return nil
	}
	return &t
}
