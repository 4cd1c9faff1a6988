package payments

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mentora/checkout/internal/document"
	"github.com/mentora/checkout/internal/models"
)

// CreatePaymentRequest is the body of POST /payments/create.
type CreatePaymentRequest struct {
	ProductType  string        `json:"product_type" validate:"required,oneof=course extra mentorship"`
	ProductID    int64         `json:"product_id" validate:"required,gt=0"`
	PaymentType  string        `json:"payment_type" validate:"required,oneof=credit_card invoice pix"`
	Installments int           `json:"installments" validate:"omitempty,min=1,max=12"`
	Customer     CustomerInput `json:"customer"`
	Card         *CardInput    `json:"card,omitempty" validate:"required_if=PaymentType credit_card"`
	// ClientIP is filled by the handler.
	ClientIP string `json:"-"`
}

// CustomerInput is the buyer data sent with a purchase.
type CustomerInput struct {
	FirstName string         `json:"first_name" validate:"required"`
	LastName  string         `json:"last_name" validate:"required"`
	Email     string         `json:"email" validate:"required,email"`
	Phone     string         `json:"phone" validate:"required"`
	Document  string         `json:"document" validate:"required,document"`
	Address   models.Address `json:"address"`
}

// CardInput is the credit card data sent with a purchase. It is never stored.
type CardInput struct {
	Number         string `json:"number" validate:"required"`
	CVV            string `json:"cvv" validate:"required"`
	ExpMonth       string `json:"exp_month" validate:"required"`
	ExpYear        string `json:"exp_year" validate:"required"`
	HolderName     string `json:"holder_name" validate:"required"`
	HolderDocument string `json:"holder_document" validate:"required,document"`
	Brand          string `json:"brand,omitempty"`
	Token          string `json:"token,omitempty"`
}

func (c *CardInput) toModel() *models.Card {
	if c == nil {
		return nil
	}
	return &models.Card{
		Number:         c.Number,
		CVV:            c.CVV,
		ExpMonth:       c.ExpMonth,
		ExpYear:        c.ExpYear,
		HolderName:     c.HolderName,
		HolderDocument: document.Digits(c.HolderDocument),
		Brand:          c.Brand,
		Token:          c.Token,
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("document", func(fl validator.FieldLevel) bool {
		return document.ValidAny(fl.Field().String())
	})
	return v
}

func validateProduct(req *CreatePaymentRequest) error {
	if err := validate.StructPartial(req, "ProductType", "ProductID"); err != nil {
		return newError(KindValidation, validationMessage(err), err)
	}
	return nil
}

func validateRequest(req *CreatePaymentRequest) error {
	if err := validate.Struct(req); err != nil {
		return newError(KindValidation, validationMessage(err), err)
	}
	return nil
}

// validationMessage turns the first validator failure into a pt-BR message.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "dados inválidos"
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "document":
		if strings.HasPrefix(fe.Namespace(), "CreatePaymentRequest.card") {
			return "CPF/CNPJ do titular do cartão inválido"
		}
		return "CPF/CNPJ inválido"
	case "email":
		return "e-mail inválido"
	case "required", "required_if":
		return fmt.Sprintf("campo obrigatório: %s", fe.Field())
	}
	return fmt.Sprintf("valor inválido: %s", fe.Field())
}
