package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

const maxResponseBytes = 1 << 20

// restClient is the JSON-over-HTTP plumbing shared by the hand-written adapters.
type restClient struct {
	gateway string
	baseURL string
	header  http.Header
	http    *http.Client
	logger  *zap.Logger
	// reason extracts the gateway's human-readable message from an error body.
	reason func(body []byte) string
}

func (c *restClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", c.gateway, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.baseURL, "/")+path, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", c.gateway, err)
	}
	for k, v := range c.header {
		req.Header[k] = v
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("gateway request failed", zap.String("gateway", c.gateway), zap.String("path", path), zap.Error(err))
		return unavailable(c.gateway, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return unavailable(c.gateway, fmt.Errorf("read response: %w", err))
	}

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		c.logger.Warn("gateway server error", zap.String("gateway", c.gateway), zap.String("path", path), zap.Int("status", resp.StatusCode))
		return unavailable(c.gateway, fmt.Errorf("http %d", resp.StatusCode))
	case resp.StatusCode >= http.StatusBadRequest:
		reason := ""
		if c.reason != nil {
			reason = c.reason(raw)
		}
		if reason == "" {
			reason = http.StatusText(resp.StatusCode)
		}
		c.logger.Info("gateway rejected request", zap.String("gateway", c.gateway), zap.String("path", path), zap.Int("status", resp.StatusCode), zap.String("reason", reason))
		return rejected(c.gateway, reason)
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return unavailable(c.gateway, fmt.Errorf("decode response: %w", err))
	}
	return nil
}
