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

// Asaas payment statuses. PENDING and OVERDUE keep the payment open.
var asaasStatuses = map[string]verdict{
	"PENDING":                      {status: StatusPending},
	"OVERDUE":                      {status: StatusPending},
	"AWAITING_RISK_ANALYSIS":       {status: StatusPending},
	"CONFIRMED":                    {status: StatusPaid},
	"RECEIVED":                     {status: StatusPaid},
	"RECEIVED_IN_CASH":             {status: StatusPaid},
	"REFUNDED":                     {status: StatusRefused, reversal: true},
	"CHARGEBACK_REQUESTED":         {status: StatusRefused, reversal: true},
	"CHARGEBACK_DISPUTE":           {status: StatusRefused, reversal: true},
	"AWAITING_CHARGEBACK_REVERSAL": {status: StatusRefused, reversal: true},
}

// Asaas events that close a payment regardless of the status field.
var asaasEvents = map[string]verdict{
	"PAYMENT_DELETED":                     {status: StatusRefused},
	"PAYMENT_REPROVED_BY_RISK_ANALYSIS":   {status: StatusRefused},
	"PAYMENT_CREDIT_CARD_CAPTURE_REFUSED": {status: StatusRefused},
}

var asaasBillingTypes = map[string]string{
	models.MethodCreditCard: "CREDIT_CARD",
	models.MethodInvoice:    "BOLETO",
	models.MethodPix:        "PIX",
}

const asaasDueDays = 3

// Asaas registers the Asaas adapter.
func Asaas(opts Options) Definition {
	return Definition{
		ID:          IDAsaas,
		TokenHeader: "asaas-access-token",
		Options:     opts,
		New: func(cred *models.Credentials, opts Options) (Adapter, error) {
			if cred.APIKey == "" {
				return nil, errors.New("asaas: missing api key")
			}
			header := http.Header{}
			header.Set("access_token", cred.APIKey)
			if cred.AppName != "" {
				header.Set("User-Agent", cred.AppName)
			}
			return &asaas{
				timeout: opts.timeout(),
				now:     time.Now,
				rest: &restClient{
					gateway: IDAsaas,
					baseURL: opts.BaseURL,
					header:  header,
					http:    opts.client(),
					logger:  opts.logger(),
					reason:  asaasReason,
				},
			}, nil
		},
	}
}

type asaas struct {
	timeout time.Duration
	now     func() time.Time
	rest    *restClient
}

func asaasReason(body []byte) string {
	var res struct {
		Errors []struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"errors"`
	}
	if json.Unmarshal(body, &res) != nil || len(res.Errors) == 0 {
		return ""
	}
	msgs := make([]string, 0, len(res.Errors))
	for _, e := range res.Errors {
		msgs = append(msgs, e.Description)
	}
	return strings.Join(msgs, "; ")
}

type asaasPayment struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	InvoiceURL  string `json:"invoiceUrl"`
	BankSlipURL string `json:"bankSlipUrl"`
	DueDate     string `json:"dueDate"`
}

func (a *asaas) ID() string { return IDAsaas }

func (a *asaas) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	if err := req.Validate(IDAsaas); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	customerID, err := a.createCustomer(ctx, req)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"customer":          customerID,
		"billingType":       asaasBillingTypes[req.Method],
		"value":             reais(req.Amount),
		"dueDate":           a.now().AddDate(0, 0, asaasDueDays).Format("2006-01-02"),
		"description":       req.Description,
		"externalReference": strconv.FormatInt(req.OrderID, 10),
	}
	if req.Customer.ClientIP != "" {
		body["remoteIp"] = req.Customer.ClientIP
	}
	if req.Method == models.MethodCreditCard {
		if n := installments(req.Installments); n > 1 {
			body["installmentCount"] = n
			body["totalValue"] = reais(req.Amount)
		}
		c := req.Card
		body["creditCard"] = map[string]any{
			"holderName":  c.HolderName,
			"number":      document.Digits(c.Number),
			"expiryMonth": c.ExpMonth,
			"expiryYear":  c.ExpYear,
			"ccv":         c.CVV,
		}
		body["creditCardHolderInfo"] = map[string]any{
			"name":          c.HolderName,
			"email":         req.Customer.Email,
			"cpfCnpj":       document.Digits(c.HolderDocument),
			"postalCode":    document.Digits(req.Customer.Address.ZipCode),
			"addressNumber": req.Customer.Address.Number,
			"phone":         document.Digits(req.Customer.Phone),
		}
	}

	var p asaasPayment
	if err := a.rest.do(ctx, http.MethodPost, "/payments", body, &p); err != nil {
		return nil, err
	}
	if p.ID == "" {
		return nil, unavailable(IDAsaas, errors.New("payment id missing in response"))
	}

	result := &ChargeResult{Method: req.Method, Reference: p.ID, Status: StatusPending}
	switch req.Method {
	case models.MethodCreditCard:
		if v := lookup(asaasStatuses, p.Status); v.status == StatusPaid {
			result.Status = StatusPaid
		}
	case models.MethodPix:
		var qr struct {
			EncodedImage   string `json:"encodedImage"`
			Payload        string `json:"payload"`
			ExpirationDate string `json:"expirationDate"`
		}
		if err := a.rest.do(ctx, http.MethodGet, "/payments/"+url.PathEscape(p.ID)+"/pixQrCode", nil, &qr); err != nil {
			return nil, err
		}
		result.Pix = &PixInfo{Code: qr.Payload, QRCode: qr.EncodedImage, ExpiresAt: parseTime("2006-01-02 15:04:05", qr.ExpirationDate)}
	case models.MethodInvoice:
		var field struct {
			IdentificationField string `json:"identificationField"`
			BarCode             string `json:"barCode"`
		}
		if err := a.rest.do(ctx, http.MethodGet, "/payments/"+url.PathEscape(p.ID)+"/identificationField", nil, &field); err != nil {
			return nil, err
		}
		link := p.BankSlipURL
		if link == "" {
			link = p.InvoiceURL
		}
		result.Invoice = &InvoiceInfo{
			DigitableLine: field.IdentificationField,
			Barcode:       field.BarCode,
			URL:           link,
			DueDate:       parseTime("2006-01-02", p.DueDate),
		}
	}
	return result, nil
}

func (a *asaas) createCustomer(ctx context.Context, req ChargeRequest) (string, error) {
	c := req.Customer
	var res struct {
		ID string `json:"id"`
	}
	err := a.rest.do(ctx, http.MethodPost, "/customers", map[string]any{
		"name":                 c.FullName(),
		"email":                c.Email,
		"cpfCnpj":              document.Digits(c.DocumentNumber),
		"mobilePhone":          document.Digits(c.Phone),
		"postalCode":           document.Digits(c.Address.ZipCode),
		"address":              c.Address.Street,
		"addressNumber":        c.Address.Number,
		"complement":           c.Address.Complement,
		"province":             c.Address.District,
		"externalReference":    c.UserID.String(),
		"notificationDisabled": true,
	}, &res)
	if err != nil {
		return "", err
	}
	if res.ID == "" {
		return "", unavailable(IDAsaas, errors.New("customer id missing in response"))
	}
	return res.ID, nil
}

func (a *asaas) QueryStatus(ctx context.Context, reference string) (*Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	var p asaasPayment
	if err := a.rest.do(ctx, http.MethodGet, "/payments/"+url.PathEscape(reference), nil, &p); err != nil {
		return nil, err
	}
	v := lookup(asaasStatuses, p.Status)
	return &Notification{Event: p.Status, Reference: reference, Status: v.status, Reversal: v.reversal}, nil
}

func (a *asaas) ParseWebhook(w Webhook) (*Notification, error) {
	var body struct {
		Event   string `json:"event"`
		Payment struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"payment"`
	}
	if err := json.Unmarshal(w.Body, &body); err != nil {
		return nil, fmt.Errorf("asaas: %w: %v", ErrMalformedWebhook, err)
	}
	if body.Payment.ID == "" {
		return nil, fmt.Errorf("asaas: %w: missing payment id", ErrMalformedWebhook)
	}
	v, ok := asaasEvents[body.Event]
	if !ok {
		v = lookup(asaasStatuses, body.Payment.Status)
	}
	return &Notification{Event: body.Event, Reference: body.Payment.ID, Status: v.status, Reversal: v.reversal}, nil
}
