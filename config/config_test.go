package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GATEWAY_TIMEOUT_SEC", "")
	t.Setenv("PUBLIC_BASE_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Checkout.GatewayTimeout != 30*time.Second {
		t.Fatalf("expected 30s gateway timeout, got %v", cfg.Checkout.GatewayTimeout)
	}
	if got := cfg.Checkout.WebhookURL("asaas"); got != "" {
		t.Fatalf("expected empty webhook url without base, got %q", got)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GATEWAY_TIMEOUT_SEC", "5")
	t.Setenv("PAYMENT_REMINDER_DELAY_MIN", "15")
	t.Setenv("PUBLIC_BASE_URL", "https://api.example.com/")
	t.Setenv("MERCADOPAGO_SANDBOX", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Checkout.GatewayTimeout != 5*time.Second {
		t.Fatalf("expected 5s, got %v", cfg.Checkout.GatewayTimeout)
	}
	if cfg.Checkout.ReminderDelay != 15*time.Minute {
		t.Fatalf("expected 15m, got %v", cfg.Checkout.ReminderDelay)
	}
	if !cfg.Gateways.MercadoPagoSandbox {
		t.Fatal("expected sandbox flag")
	}
	if got := cfg.Checkout.WebhookURL("asaas"); got != "https://api.example.com/payments/asaas/status" {
		t.Fatalf("unexpected webhook url %q", got)
	}
}

func TestLoad_RejectsNonPositiveTimeout(t *testing.T) {
	t.Setenv("GATEWAY_TIMEOUT_SEC", "0")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for zero timeout")
	}
}

func TestDSN(t *testing.T) {
	c := DatabaseConfig{User: "u", Password: "p", Host: "h", Port: "1", DBName: "d", SSLMode: "disable"}
	if got := c.DSN(); got != "postgres://u:p@h:1/d?sslmode=disable" {
		t.Fatalf("unexpected dsn %q", got)
	}
	c.URL = "postgres://x"
	if got := c.DSN(); got != "postgres://x" {
		t.Fatalf("expected url passthrough, got %q", got)
	}
}
