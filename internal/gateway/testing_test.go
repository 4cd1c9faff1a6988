package gateway

import (
	"github.com/google/uuid"

	"github.com/mentora/checkout/internal/models"
)

func testCustomer() *models.Customer {
	return &models.Customer{
		UserID:         uuid.MustParse("7f1b7c1e-1111-4d5e-9a77-000000000001"),
		FirstName:      "Ana",
		LastName:       "Souza",
		Email:          "ana@example.com",
		Phone:          "(11) 98888-7777",
		DocumentType:   models.DocumentCPF,
		DocumentNumber: "52998224725",
		Address: models.Address{
			ZipCode:  "01310-100",
			Street:   "Av. Paulista",
			Number:   "1000",
			District: "Bela Vista",
			City:     "São Paulo",
			State:    "SP",
		},
		ClientIP: "203.0.113.7",
	}
}

func testCard() *models.Card {
	return &models.Card{
		Number:         "4111 1111 1111 1111",
		CVV:            "123",
		ExpMonth:       "12",
		ExpYear:        "2030",
		HolderName:     "ANA SOUZA",
		HolderDocument: "529.982.247-25",
	}
}

func testCharge(method string) ChargeRequest {
	req := ChargeRequest{
		OrderID:     42,
		Amount:      5000,
		Method:      method,
		Description: "Curso de Go",
		Customer:    testCustomer(),
	}
	if method == models.MethodCreditCard {
		req.Card = testCard()
	}
	return req
}
