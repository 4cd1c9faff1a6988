package customers

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/mentora/checkout/internal/models"
	"github.com/mentora/checkout/pkg/database"
)

// ErrNotFound is returned when no customer matches.
var ErrNotFound = errors.New("customer not found")

// Repository handles customers persistence. Rows are buyer snapshots and never updated.
type Repository struct {
	db database.Querier
}

// NewRepository creates a customers repository on a pool or a transaction.
func NewRepository(db database.Querier) *Repository {
	return &Repository{db: db}
}

// Create inserts c and sets its ID and CreatedAt.
func (r *Repository) Create(ctx context.Context, c *models.Customer) error {
	const q = `INSERT INTO customers (user_id, first_name, last_name, email, phone, document_type, document_number,
			zip_code, street, number, complement, district, city, state, client_ip)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at`
	a := c.Address
	return r.db.QueryRow(ctx, q, c.UserID, c.FirstName, c.LastName, c.Email, c.Phone, c.DocumentType, c.DocumentNumber,
		a.ZipCode, a.Street, a.Number, a.Complement, a.District, a.City, a.State, c.ClientIP).Scan(&c.ID, &c.CreatedAt)
}

// GetByID returns a customer by ID.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	const q = `SELECT id, user_id, first_name, last_name, email, phone, document_type, document_number,
			zip_code, street, number, complement, district, city, state, client_ip, created_at
		FROM customers WHERE id = $1`
	var c models.Customer
	a := &c.Address
	err := r.db.QueryRow(ctx, q, id).Scan(&c.ID, &c.UserID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.DocumentType, &c.DocumentNumber,
		&a.ZipCode, &a.Street, &a.Number, &a.Complement, &a.District, &a.City, &a.State, &c.ClientIP, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
