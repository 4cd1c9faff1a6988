package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	AWS      AWSConfig
	Checkout CheckoutConfig
	Gateways GatewaysConfig
	Groups   GroupsConfig
	Worker   WorkerConfig
}

// CheckoutConfig holds purchase flow settings.
type CheckoutConfig struct {
	GatewayTimeout time.Duration // bound for every outbound gateway call
	ReminderDelay  time.Duration // delay of the pix/invoice reminder notification
	PublicBaseURL  string        // base used to build webhook callback URLs sent to gateways
}

// GatewaysConfig holds per-gateway endpoints. Secrets live in credentials_checkout, not here.
type GatewaysConfig struct {
	AppmaxBaseURL      string
	AsaasBaseURL       string
	MercadoPagoSandbox bool
}

// GroupsConfig points at the external messaging-group service used for mentorships.
type GroupsConfig struct {
	BaseURL string // empty disables provisioning
	Token   string
}

// WorkerConfig holds background worker settings.
type WorkerConfig struct {
	PromoteInterval time.Duration // how often delayed notifications are checked
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string
	ReadTimeout        int
	WriteTimeout       int
	CORSAllowedOrigins string // comma-separated, or "*" for all
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL      string // if set, used as-is
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// JWTConfig holds JWT signing and validation settings.
type JWTConfig struct {
	Secret      string
	ExpireHours int
}

// AWSConfig holds AWS credentials and the webhook archive bucket.
type AWSConfig struct {
	Region               string
	AccessKeyID          string
	SecretAccessKey      string
	WebhookArchiveBucket string
}

// DSN returns the PostgreSQL connection string.
// If DatabaseConfig.URL is set (DATABASE_URL env), it is used as-is; otherwise built from components.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

// WebhookURL returns the callback URL a gateway should notify for payment status changes.
func (c CheckoutConfig) WebhookURL(gatewayID string) string {
	if c.PublicBaseURL == "" {
		return ""
	}
	return strings.TrimRight(c.PublicBaseURL, "/") + "/payments/" + gatewayID + "/status"
}

// Load reads configuration from environment, with optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			ReadTimeout:        getEnvInt("READ_TIMEOUT_SEC", 30),
			WriteTimeout:       getEnvInt("WRITE_TIMEOUT_SEC", 45),
			CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "checkout"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 10),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:      getEnv("JWT_SECRET", "change-me-in-production"),
			ExpireHours: getEnvInt("JWT_EXPIRE_HOURS", 24),
		},
		AWS: AWSConfig{
			Region:               getEnv("AWS_REGION", ""),
			AccessKeyID:          getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey:      getEnv("AWS_SECRET_ACCESS_KEY", ""),
			WebhookArchiveBucket: getEnv("AWS_S3_WEBHOOK_ARCHIVE_BUCKET", "checkout-webhook-archive"),
		},
		Checkout: CheckoutConfig{
			GatewayTimeout: time.Duration(getEnvInt("GATEWAY_TIMEOUT_SEC", 30)) * time.Second,
			ReminderDelay:  time.Duration(getEnvInt("PAYMENT_REMINDER_DELAY_MIN", 60)) * time.Minute,
			PublicBaseURL:  getEnv("PUBLIC_BASE_URL", ""),
		},
		Gateways: GatewaysConfig{
			AppmaxBaseURL:      getEnv("APPMAX_BASE_URL", "https://admin.appmax.com.br/api/v3"),
			AsaasBaseURL:       getEnv("ASAAS_BASE_URL", "https://api.asaas.com/v3"),
			MercadoPagoSandbox: getEnvBool("MERCADOPAGO_SANDBOX", false),
		},
		Groups: GroupsConfig{
			BaseURL: getEnv("GROUPS_BASE_URL", ""),
			Token:   getEnv("GROUPS_TOKEN", ""),
		},
		Worker: WorkerConfig{
			PromoteInterval: time.Duration(getEnvInt("WORKER_PROMOTE_INTERVAL_SEC", 5)) * time.Second,
		},
	}
	if cfg.Checkout.GatewayTimeout <= 0 {
		return nil, fmt.Errorf("GATEWAY_TIMEOUT_SEC must be positive")
	}
	return cfg, nil
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
