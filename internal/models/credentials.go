package models

import "time"

// Credentials is the single active gateway configuration (credentials_checkout).
type Credentials struct {
	ID               int64      `json:"id"`
	GatewayID        string     `json:"gateway_id"`
	AppName          string     `json:"app_name"`
	AuthToken        string     `json:"-"`
	ClientID         string     `json:"client_id,omitempty"`
	ClientSecret     string     `json:"-"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
	APIKey           string     `json:"-"`
	WebhookTokenHash string     `json:"-"`
	CreatedAt        time.Time  `json:"created_at"`
}

// Expired reports whether the credentials carry an expiry in the past.
func (c *Credentials) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && now.After(*c.ExpiresAt)
}
