// Package binance provides a gateway to the Binance USDⓈ-M futures API.
package binance

import "time"

// DefaultBaseURL is the production futures REST endpoint.
const DefaultBaseURL = "https://fapi.binance.com"

// Config holds configuration for the Binance futures client.
type Config struct {
	APIKey    string        // API key; required for signed endpoints
	SecretKey string        // HMAC secret; required for signed endpoints
	BaseURL   string        // Base URL override (e.g., testnet or a test server)
	Timeout   time.Duration // HTTP request timeout
	SyncTime  bool          // Synchronise the request timestamp offset with the server at startup
}

// HasCredentials reports whether both signing keys are set.
func (c Config) HasCredentials() bool {
	return c.APIKey != "" && c.SecretKey != ""
}
