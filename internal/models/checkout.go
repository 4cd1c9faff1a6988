package models

import (
	"time"

	"github.com/google/uuid"
)

// Product types a user can buy.
const (
	ProductCourse     = "course"
	ProductExtra      = "extra"
	ProductMentorship = "mentorship"
)

// Payment methods.
const (
	MethodCreditCard = "credit_card"
	MethodInvoice    = "invoice"
	MethodPix        = "pix"
)

// Document types for Brazilian tax ids.
const (
	DocumentCPF  = "cpf"
	DocumentCNPJ = "cnpj"
)

// ValidProductType reports whether t is a purchasable product type.
func ValidProductType(t string) bool {
	switch t {
	case ProductCourse, ProductExtra, ProductMentorship:
		return true
	}
	return false
}

// ValidMethod reports whether m is a supported payment method.
func ValidMethod(m string) bool {
	switch m {
	case MethodCreditCard, MethodInvoice, MethodPix:
		return true
	}
	return false
}

// Address is the buyer's postal address.
type Address struct {
	ZipCode    string `json:"zip_code"`
	Street     string `json:"street"`
	Number     string `json:"number"`
	Complement string `json:"complement,omitempty"`
	District   string `json:"district"`
	City       string `json:"city"`
	State      string `json:"state"`
}

// Customer is an immutable snapshot of the buyer taken for one purchase attempt.
type Customer struct {
	ID             int64     `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	DocumentType   string    `json:"document_type"`
	DocumentNumber string    `json:"document_number"`
	Address        Address   `json:"address"`
	ClientIP       string    `json:"client_ip,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// FullName returns first and last name joined.
func (c *Customer) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// Order is the immutable purchase line. Price is in minor units (centavos).
type Order struct {
	ID           int64     `json:"id"`
	CustomerID   int64     `json:"customer_id"`
	ProductType  string    `json:"product_type"`
	ProductID    int64     `json:"product_id"`
	Price        int64     `json:"price"`
	Discount     int64     `json:"discount"`
	Shipping     int64     `json:"shipping"`
	PaymentType  string    `json:"payment_type"`
	Installments int       `json:"installments"`
	CreatedAt    time.Time `json:"created_at"`
}

// Total is the amount charged in minor units.
func (o *Order) Total() int64 {
	return o.Price - o.Discount + o.Shipping
}

// Card holds credit card data. It is never persisted.
type Card struct {
	Number         string `json:"number"`
	CVV            string `json:"cvv"`
	ExpMonth       string `json:"exp_month"`
	ExpYear        string `json:"exp_year"`
	HolderName     string `json:"holder_name"`
	HolderDocument string `json:"holder_document"`
	// Brand and Token come from a gateway's client-side tokenizer when it requires one.
	Brand string `json:"brand,omitempty"`
	Token string `json:"token,omitempty"`
}
