package payments

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mentora/checkout/internal/catalog"
	"github.com/mentora/checkout/internal/customers"
	"github.com/mentora/checkout/internal/entitlements"
	"github.com/mentora/checkout/internal/models"
	"github.com/mentora/checkout/internal/orders"
	"github.com/mentora/checkout/pkg/database"
)

// CustomerRepository creates and reads buyer snapshots.
type CustomerRepository interface {
	Create(ctx context.Context, c *models.Customer) error
	GetByID(ctx context.Context, id int64) (*models.Customer, error)
}

// OrderRepository creates and reads order lines.
type OrderRepository interface {
	Create(ctx context.Context, o *models.Order) error
	GetByID(ctx context.Context, id int64) (*models.Order, error)
}

// PaymentRepository persists payments and their status transitions.
type PaymentRepository interface {
	Create(ctx context.Context, p *models.Payment) error
	GetByID(ctx context.Context, id int64) (*models.Payment, error)
	LockByReference(ctx context.Context, gatewayID, reference string) (*models.Payment, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}

// CatalogRepository resolves prices and maintains student counters.
type CatalogRepository interface {
	Price(ctx context.Context, productType string, productID int64) (int64, error)
	AdjustStudents(ctx context.Context, productType string, productID int64, delta int) error
}

// EntitlementRepository grants and revokes product access.
type EntitlementRepository interface {
	Grant(ctx context.Context, userID uuid.UUID, productType string, productID, paymentID int64) (*models.UserProduct, error)
	Revoke(ctx context.Context, userID uuid.UUID, productType string, productID, paymentID int64) (bool, error)
	Owns(ctx context.Context, userID uuid.UUID, productType string, productID int64) (bool, error)
	Lock(ctx context.Context, userID uuid.UUID, productType string, productID int64) error
}

// Repos bundles the repositories that take part in a checkout transaction.
type Repos struct {
	Customers    CustomerRepository
	Orders       OrderRepository
	Payments     PaymentRepository
	Catalog      CatalogRepository
	Entitlements EntitlementRepository
}

// Store hands out repositories bound to the pool or to a transaction.
type Store interface {
	Repos() Repos
	WithTx(ctx context.Context, fn func(Repos) error) error
}

type pgStore struct {
	pool *pgxpool.Pool
}

// NewStore creates a PostgreSQL-backed store.
func NewStore(pool *pgxpool.Pool) Store {
	return &pgStore{pool: pool}
}

func bind(db database.Querier) Repos {
	return Repos{
		Customers:    customers.NewRepository(db),
		Orders:       orders.NewRepository(db),
		Payments:     NewRepository(db),
		Catalog:      catalog.NewRepository(db),
		Entitlements: entitlements.NewRepository(db),
	}
}

func (s *pgStore) Repos() Repos {
	return bind(s.pool)
}

// WithTx runs fn with tx-scoped repositories. Any error rolls everything back.
func (s *pgStore) WithTx(ctx context.Context, fn func(Repos) error) error {
	return database.InTx(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(bind(tx))
	})
}
