package gateway

import (
	"strings"

	"github.com/mentora/checkout/internal/document"
	"github.com/mentora/checkout/internal/models"
)

// Validate checks the input constraints shared by every adapter.
func (r ChargeRequest) Validate(gateway string) error {
	if r.Amount <= 0 {
		return invalid(gateway, "valor do pedido deve ser maior que zero")
	}
	if !models.ValidMethod(r.Method) {
		return invalid(gateway, "forma de pagamento inválida")
	}
	if r.Customer == nil {
		return invalid(gateway, "dados do comprador obrigatórios")
	}
	if !document.Valid(r.Customer.DocumentType, r.Customer.DocumentNumber) {
		return invalid(gateway, "documento do comprador inválido")
	}
	if r.Method != models.MethodCreditCard {
		return nil
	}
	c := r.Card
	if c == nil {
		return invalid(gateway, "dados do cartão obrigatórios")
	}
	if blank(c.Number) || blank(c.CVV) || blank(c.ExpMonth) || blank(c.ExpYear) || blank(c.HolderDocument) {
		return invalid(gateway, "dados do cartão incompletos")
	}
	if !document.ValidAny(c.HolderDocument) {
		return invalid(gateway, "documento do titular do cartão inválido")
	}
	return nil
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func installments(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// reais converts minor units to the decimal amount most gateways expect.
func reais(cents int64) float64 {
	return float64(cents) / 100
}
