// Package catalog reads prices and student counters of purchasable products.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mentora/checkout/internal/models"
	"github.com/mentora/checkout/pkg/database"
)

var (
	// ErrProductNotFound is returned when the product row does not exist.
	ErrProductNotFound = errors.New("product not found")
	// ErrUnknownProductType is returned for types outside course, extra and mentorship.
	ErrUnknownProductType = errors.New("unknown product type")
)

var tables = map[string]string{
	models.ProductCourse:     "courses",
	models.ProductExtra:      "extras",
	models.ProductMentorship: "mentorship_groups",
}

func table(productType string) (string, error) {
	t, ok := tables[productType]
	if !ok {
		return "", fmt.Errorf("%q: %w", productType, ErrUnknownProductType)
	}
	return t, nil
}

// Repository resolves catalog data for checkout.
type Repository struct {
	db database.Querier
}

// NewRepository creates a catalog repository on a pool or a transaction.
func NewRepository(db database.Querier) *Repository {
	return &Repository{db: db}
}

// Price returns the amount to charge in minor units: the promotional price when set, else the base price.
func (r *Repository) Price(ctx context.Context, productType string, productID int64) (int64, error) {
	t, err := table(productType)
	if err != nil {
		return 0, err
	}
	var price int64
	err = r.db.QueryRow(ctx, `SELECT COALESCE(promotional_price, price) FROM `+t+` WHERE id = $1`, productID).Scan(&price)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrProductNotFound
	}
	return price, err
}

// AdjustStudents adds delta to the product's student counter, never going below zero.
func (r *Repository) AdjustStudents(ctx context.Context, productType string, productID int64, delta int) error {
	t, err := table(productType)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, `UPDATE `+t+` SET students = GREATEST(0, students + $2) WHERE id = $1`, productID, delta)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

// ExternalGroupID returns the messaging group bound to a mentorship, "" when none is set.
func (r *Repository) ExternalGroupID(ctx context.Context, groupID int64) (string, error) {
	var ext *string
	err := r.db.QueryRow(ctx, `SELECT external_group_id FROM mentorship_groups WHERE id = $1`, groupID).Scan(&ext)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrProductNotFound
	}
	if err != nil || ext == nil {
		return "", err
	}
	return *ext, nil
}
