package main

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/mentora/checkout/internal/credentials"
	"github.com/mentora/checkout/internal/gateway"
	"github.com/mentora/checkout/internal/models"
	"github.com/mentora/checkout/pkg/utils"
)

var knownGateways = []string{gateway.IDAppmax, gateway.IDAsaas, gateway.IDMercadoPago}

type credentialFlags struct {
	gateway      string
	appName      string
	authToken    string
	clientID     string
	clientSecret string
	apiKey       string
	webhookToken string
	expiresAt    string
}

func credentialsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credentials",
		Short: "Manage the active gateway credentials",
	}
	cmd.AddCommand(credentialsSetCmd(), credentialsShowCmd())
	return cmd
}

func credentialsSetCmd() *cobra.Command {
	var f credentialFlags
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Replace the active gateway credentials",
		Long: `Replace the active gateway credentials in one transaction.

Examples:
  checkoutctl credentials set --gateway asaas --api-key $ASAAS_KEY --webhook-token s3cret
  checkoutctl credentials set --gateway mercadopago --auth-token TEST-123`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cred, err := buildCredentials(f)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			_, pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()
			if err := credentials.NewRepository(pool).Replace(ctx, cred); err != nil {
				return fmt.Errorf("replace credentials: %w", err)
			}
			printCredentials(cmd.OutOrStdout(), cred)
			return nil
		},
	}
	cmd.Flags().StringVar(&f.gateway, "gateway", "", "gateway id (appmax, asaas, mercadopago)")
	cmd.Flags().StringVar(&f.appName, "app-name", "", "application name shown by the gateway")
	cmd.Flags().StringVar(&f.authToken, "auth-token", "", "access token (appmax, mercadopago)")
	cmd.Flags().StringVar(&f.clientID, "client-id", "", "OAuth client id")
	cmd.Flags().StringVar(&f.clientSecret, "client-secret", "", "OAuth client secret")
	cmd.Flags().StringVar(&f.apiKey, "api-key", "", "API key (asaas)")
	cmd.Flags().StringVar(&f.webhookToken, "webhook-token", "", "shared secret gateways send with webhooks; stored hashed")
	cmd.Flags().StringVar(&f.expiresAt, "expires-at", "", "expiry in RFC3339")
	_ = cmd.MarkFlagRequired("gateway")
	return cmd
}

func credentialsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the active gateway credentials with secrets masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()
			cred, err := credentials.NewRepository(pool).Active(ctx)
			if err != nil {
				return err
			}
			if cred == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "checkout not configured")
				return nil
			}
			printCredentials(cmd.OutOrStdout(), cred)
			return nil
		},
	}
}

func buildCredentials(f credentialFlags) (*models.Credentials, error) {
	if !slices.Contains(knownGateways, f.gateway) {
		return nil, fmt.Errorf("unknown gateway %q", f.gateway)
	}
	cred := &models.Credentials{
		GatewayID:    f.gateway,
		AppName:      f.appName,
		AuthToken:    f.authToken,
		ClientID:     f.clientID,
		ClientSecret: f.clientSecret,
		APIKey:       f.apiKey,
	}
	switch f.gateway {
	case gateway.IDAsaas:
		if cred.APIKey == "" {
			return nil, errors.New("asaas requires --api-key")
		}
	default:
		if cred.AuthToken == "" {
			return nil, fmt.Errorf("%s requires --auth-token", f.gateway)
		}
	}
	if f.expiresAt != "" {
		t, err := time.Parse(time.RFC3339, f.expiresAt)
		if err != nil {
			return nil, fmt.Errorf("invalid --expires-at: %w", err)
		}
		cred.ExpiresAt = &t
	}
	if f.webhookToken != "" {
		hash, err := utils.HashSecret(f.webhookToken)
		if err != nil {
			return nil, fmt.Errorf("hash webhook token: %w", err)
		}
		cred.WebhookTokenHash = hash
	}
	return cred, nil
}

func printCredentials(w io.Writer, c *models.Credentials) {
	fmt.Fprintf(w, "Gateway:       %s\n", c.GatewayID)
	fmt.Fprintf(w, "App:           %s\n", valueOrDash(c.AppName))
	fmt.Fprintf(w, "Auth token:    %s\n", secret(c.AuthToken))
	fmt.Fprintf(w, "API key:       %s\n", secret(c.APIKey))
	fmt.Fprintf(w, "Client id:     %s\n", valueOrDash(c.ClientID))
	fmt.Fprintf(w, "Webhook token: %s\n", configured(c.WebhookTokenHash))
	if c.ExpiresAt != nil {
		fmt.Fprintf(w, "Expires:       %s\n", c.ExpiresAt.Format(time.RFC3339))
	}
}

func secret(s string) string {
	if s == "" {
		return "-"
	}
	return utils.Mask(s)
}

func configured(s string) string {
	if s == "" {
		return "not set"
	}
	return "set"
}

func valueOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
