package orders

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/mentora/checkout/internal/models"
	"github.com/mentora/checkout/pkg/database"
)

// ErrNotFound is returned when no order matches.
var ErrNotFound = errors.New("order not found")

// Repository handles orders persistence. Orders are immutable once created.
type Repository struct {
	db database.Querier
}

// NewRepository creates an orders repository on a pool or a transaction.
func NewRepository(db database.Querier) *Repository {
	return &Repository{db: db}
}

// Create inserts o and sets its ID and CreatedAt.
func (r *Repository) Create(ctx context.Context, o *models.Order) error {
	const q = `INSERT INTO orders (customer_id, product_type, product_id, price, discount, shipping, payment_type, installments)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`
	return r.db.QueryRow(ctx, q, o.CustomerID, o.ProductType, o.ProductID, o.Price, o.Discount, o.Shipping,
		o.PaymentType, o.Installments).Scan(&o.ID, &o.CreatedAt)
}

// GetByID returns an order by ID.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	const q = `SELECT id, customer_id, product_type, product_id, price, discount, shipping, payment_type, installments, created_at
		FROM orders WHERE id = $1`
	var o models.Order
	err := r.db.QueryRow(ctx, q, id).Scan(&o.ID, &o.CustomerID, &o.ProductType, &o.ProductID, &o.Price, &o.Discount,
		&o.Shipping, &o.PaymentType, &o.Installments, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}
