// Package entitlements stores which user may access which product.
package entitlements

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mentora/checkout/internal/models"
	"github.com/mentora/checkout/pkg/database"
)

var (
	// ErrDuplicateEntitlement is returned by Grant when the user already owns the product.
	ErrDuplicateEntitlement = errors.New("entitlement already granted")
	// ErrUnknownProductType is returned for types outside course, extra and mentorship.
	ErrUnknownProductType = errors.New("unknown product type")
)

// Column holding the product reference for each product type.
var productColumns = map[string]string{
	models.ProductCourse:     "course_id",
	models.ProductMentorship: "group_id",
	models.ProductExtra:      "extra_id",
}

// Column returns the user_products column for productType.
func Column(productType string) (string, error) {
	c, ok := productColumns[productType]
	if !ok {
		return "", fmt.Errorf("%q: %w", productType, ErrUnknownProductType)
	}
	return c, nil
}

// Repository handles user_products persistence.
type Repository struct {
	db database.Querier
}

// NewRepository creates an entitlements repository on a pool or a transaction.
func NewRepository(db database.Querier) *Repository {
	return &Repository{db: db}
}

// Grant records that userID owns the product. The unique (user, type, product) constraint
// decides races; the loser gets ErrDuplicateEntitlement and the transaction stays usable.
func (r *Repository) Grant(ctx context.Context, userID uuid.UUID, productType string, productID, paymentID int64) (*models.UserProduct, error) {
	col, err := Column(productType)
	if err != nil {
		return nil, err
	}
	q := `INSERT INTO user_products (user_id, product_type, ` + col + `, payment_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, product_type, product_id) DO NOTHING
		RETURNING id, created_at`
	up := &models.UserProduct{UserID: userID, ProductType: productType, ProductID: productID, PaymentID: &paymentID}
	err = r.db.QueryRow(ctx, q, userID, productType, productID, paymentID).Scan(&up.ID, &up.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDuplicateEntitlement
	}
	if err != nil {
		return nil, err
	}
	return up, nil
}

// Revoke deletes the entitlement granted by paymentID. An entitlement backed by another
// payment is left alone. Reports whether a row was deleted.
func (r *Repository) Revoke(ctx context.Context, userID uuid.UUID, productType string, productID, paymentID int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM user_products WHERE user_id = $1 AND product_type = $2 AND product_id = $3 AND payment_id = $4`,
		userID, productType, productID, paymentID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Owns reports whether userID has access to the product.
func (r *Repository) Owns(ctx context.Context, userID uuid.UUID, productType string, productID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM user_products WHERE user_id = $1 AND product_type = $2 AND product_id = $3)`,
		userID, productType, productID).Scan(&exists)
	return exists, err
}

// Lock serialises purchases of one product by one user until the surrounding transaction ends.
func (r *Repository) Lock(ctx context.Context, userID uuid.UUID, productType string, productID int64) error {
	_, err := r.db.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, fmt.Sprintf("%s:%s:%d", userID, productType, productID))
	return err
}

// ListByUser returns the user's entitlements, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.UserProduct, error) {
	rows, err := r.db.Query(ctx, `SELECT id, user_id, product_type, product_id, payment_id, last_viewed_class_id, created_at
		FROM user_products WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []*models.UserProduct{}
	for rows.Next() {
		var up models.UserProduct
		if err := rows.Scan(&up.ID, &up.UserID, &up.ProductType, &up.ProductID, &up.PaymentID, &up.LastViewedClassID, &up.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, &up)
	}
	return list, rows.Err()
}
