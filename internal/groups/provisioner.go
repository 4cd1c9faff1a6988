// Package groups adds mentorship buyers to the mentorship's messaging group.
package groups

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mentora/checkout/internal/models"
)

// ErrProvisionFailed is returned when the group service refuses the member.
var ErrProvisionFailed = errors.New("group provisioning failed")

// GroupLookup resolves the external messaging group of a mentorship.
type GroupLookup interface {
	ExternalGroupID(ctx context.Context, groupID int64) (string, error)
}

// Config points at the group service. An empty BaseURL disables provisioning.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Provisioner calls the group service over HTTP.
type Provisioner struct {
	cfg    Config
	groups GroupLookup
	http   *http.Client
	logger *zap.Logger
}

// NewProvisioner creates a group provisioner.
func NewProvisioner(cfg Config, groups GroupLookup, client *http.Client, logger *zap.Logger) *Provisioner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Provisioner{cfg: cfg, groups: groups, http: client, logger: logger}
}

type memberRequest struct {
	UserID    string `json:"user_id"`
	PaymentID int64  `json:"payment_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// HandleOrder adds the buyer of a paid mentorship to its group.
// Mentorships without an external group are skipped.
func (p *Provisioner) HandleOrder(ctx context.Context, purchase models.Purchase) error {
	if p.cfg.BaseURL == "" || purchase.Order == nil || purchase.Order.ProductType != models.ProductMentorship {
		return nil
	}
	external, err := p.groups.ExternalGroupID(ctx, purchase.Order.ProductID)
	if err != nil {
		return fmt.Errorf("lookup group: %w", err)
	}
	if external == "" {
		p.logger.Info("mentorship has no messaging group", zap.Int64("group_id", purchase.Order.ProductID))
		return nil
	}

	c := purchase.Customer
	body, err := json.Marshal(memberRequest{
		UserID:    c.UserID.String(),
		PaymentID: purchase.Payment.ID,
		Name:      strings.TrimSpace(c.FirstName + " " + c.LastName),
		Email:     c.Email,
		Phone:     c.Phone,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()
	endpoint := strings.TrimRight(p.cfg.BaseURL, "/") + "/groups/" + url.PathEscape(external) + "/members"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+p.cfg.Token)
	}

	resp, err := p.http.Do(req)
	if err != nil {
		return fmt.Errorf("add member: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	// 409: already a member, e.g. a replayed webhook after a rollback.
	if resp.StatusCode >= http.StatusBadRequest && resp.StatusCode != http.StatusConflict {
		return fmt.Errorf("%w: http %d", ErrProvisionFailed, resp.StatusCode)
	}
	p.logger.Info("mentorship member added",
		zap.String("external_group_id", external),
		zap.Int64("payment_id", purchase.Payment.ID),
	)
	return nil
}
