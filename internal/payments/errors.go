package payments

import (
	"errors"
	"net/http"
)

// Kind classifies checkout failures. Handlers map it to an HTTP status.
type Kind int

const (
	KindUnexpected Kind = iota
	KindValidation
	KindAlreadyOwned
	KindProductNotFound
	KindConfigurationMissing
	KindGatewayRejected
	KindGatewayUnavailable
	KindPaymentNotFound
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAlreadyOwned:
		return "already_owned"
	case KindProductNotFound:
		return "product_not_found"
	case KindConfigurationMissing:
		return "configuration_missing"
	case KindGatewayRejected:
		return "gateway_rejected"
	case KindGatewayUnavailable:
		return "gateway_unavailable"
	case KindPaymentNotFound:
		return "payment_not_found"
	case KindForbidden:
		return "forbidden"
	}
	return "unexpected"
}

// HTTPStatus returns the response status for k.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation, KindGatewayRejected:
		return http.StatusBadRequest
	case KindAlreadyOwned, KindForbidden:
		return http.StatusForbidden
	case KindProductNotFound, KindPaymentNotFound:
		return http.StatusNotFound
	case KindConfigurationMissing:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// User-facing messages.
const (
	msgAlreadyOwned       = "você já possui este produto"
	msgProductNotFound    = "produto não encontrado"
	msgProductNotForSale  = "produto indisponível para venda"
	msgNotConfigured      = "checkout not configured"
	msgGatewayUnavailable = "não foi possível processar o pagamento, tente novamente mais tarde"
	msgGatewayRefused     = "pagamento recusado pela operadora"
	msgUnexpected         = "erro inesperado ao processar o pagamento"
	msgPaymentNotFound    = "pagamento não encontrado"
	msgForbidden          = "pagamento pertence a outro usuário"
)

// Error is returned by the service for every failure. Message is safe to show to the buyer;
// Err carries the cause for logs only.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

func unexpected(err error) *Error {
	return newError(KindUnexpected, msgUnexpected, err)
}

// asError returns err as *Error, wrapping unknown errors as unexpected.
func asError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return unexpected(err)
}

// KindOf returns the Kind carried by err, KindUnexpected for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}
