package credentials

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mentora/checkout/internal/models"
	"github.com/mentora/checkout/pkg/database"
)

const columns = `id, gateway_id, app_name, auth_token, client_id, client_secret, expires_at, api_key, webhook_token_hash, created_at`

// Repository handles credentials_checkout persistence. The table holds at most one row.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a credentials repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Active returns the active credentials, or nil when checkout is not configured.
func (r *Repository) Active(ctx context.Context) (*models.Credentials, error) {
	return scan(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM credentials_checkout LIMIT 1`))
}

// GetByGateway returns the active credentials if they belong to gatewayID, otherwise nil.
func (r *Repository) GetByGateway(ctx context.Context, gatewayID string) (*models.Credentials, error) {
	return scan(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM credentials_checkout WHERE gateway_id = $1`, gatewayID))
}

// Replace swaps the active credentials for cred in one transaction.
func (r *Repository) Replace(ctx context.Context, cred *models.Credentials) error {
	return database.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM credentials_checkout`); err != nil {
			return err
		}
		const q = `INSERT INTO credentials_checkout (gateway_id, app_name, auth_token, client_id, client_secret, expires_at, api_key, webhook_token_hash)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id, created_at`
		return tx.QueryRow(ctx, q, cred.GatewayID, cred.AppName, cred.AuthToken, cred.ClientID, cred.ClientSecret,
			cred.ExpiresAt, cred.APIKey, cred.WebhookTokenHash).Scan(&cred.ID, &cred.CreatedAt)
	})
}

func scan(row pgx.Row) (*models.Credentials, error) {
	var c models.Credentials
	err := row.Scan(&c.ID, &c.GatewayID, &c.AppName, &c.AuthToken, &c.ClientID, &c.ClientSecret,
		&c.ExpiresAt, &c.APIKey, &c.WebhookTokenHash, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
