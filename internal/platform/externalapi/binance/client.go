package binance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/adshao/go-binance/v2/common"
	"github.com/adshao/go-binance/v2/futures"
	"github.com/shopspring/decimal"
)

// ErrMissingCredentials is returned by signed operations when no API keys are configured.
var ErrMissingCredentials = errors.New("binance api credentials are not configured")

// Client wraps the go-binance futures client and converts exchange payloads
// into domain types. It is safe for concurrent use.
type Client struct {
	cfg     Config
	futures *futures.Client
}

// NewClient creates a Client. When httpClient is nil the library default is kept.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	fc := futures.NewClient(cfg.APIKey, cfg.SecretKey)
	if cfg.BaseURL != "" {
		fc.BaseURL = cfg.BaseURL
	}
	if httpClient != nil {
		fc.HTTPClient = httpClient
	}
	return &Client{cfg: cfg, futures: fc}
}

// HasCredentials reports whether signed operations can be issued.
func (c *Client) HasCredentials() bool {
	return c.cfg.HasCredentials()
}

// SyncServerTime adjusts the request timestamp offset to the exchange clock.
// Failures are logged and otherwise ignored; requests fall back to the local clock.
func (c *Client) SyncServerTime(ctx context.Context) {
	offset, err := c.futures.NewSetServerTimeService().Do(ctx)
	if err != nil {
		slog.Warn("binance server time sync failed", "error", err)
		return
	}
	slog.Info("binance server time synced", "offset_ms", offset)
}

// Ready returns ErrMissingCredentials when signed operations cannot be issued.
func (c *Client) Ready() error {
	return c.requireCredentials()
}

func (c *Client) requireCredentials() error {
	if !c.cfg.HasCredentials() {
		return ErrMissingCredentials
	}
	return nil
}

// wrap attaches the operation name and keeps the exchange message readable.
func wrap(op string, err error) error {
	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("binance %s: %s (code %d): %w", op, apiErr.Message, apiErr.Code, err)
	}
	return fmt.Errorf("binance %s: %w", op, err)
}

// dec parses an exchange decimal string. Empty or malformed values become zero.
func dec(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// str renders a decimal for the exchange, or "" when it is zero (unset).
func str(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}
