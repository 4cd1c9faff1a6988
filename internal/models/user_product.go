package models

import (
	"time"

	"github.com/google/uuid"
)

// UserProduct grants a user access to one product. Exactly one of CourseID, GroupID, ExtraID is set.
type UserProduct struct {
	ID                int64     `json:"id"`
	UserID            uuid.UUID `json:"user_id"`
	ProductType       string    `json:"product_type"`
	ProductID         int64     `json:"product_id"`
	PaymentID         *int64    `json:"payment_id,omitempty"`
	LastViewedClassID *int64    `json:"last_viewed_class_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}
