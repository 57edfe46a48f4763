// Package http holds the outbound HTTP client shared by the exchange and model adapters.
package http

import (
	"net"
	"net/http"
	"time"
)

// idleConnsPerHost covers concurrent timeframe fetches against a single exchange host.
const idleConnsPerHost = 16

// NewHTTPClient creates the client for exchange and model API calls.
// timeout bounds the whole request; zero means no limit, so callers always pass one.
//
// Each upstream is mostly a single host, so more idle connections per host are kept
// than the default of 2. Proxies follow the environment (HTTPS_PROXY and friends).
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        64,
		MaxIdleConnsPerHost: idleConnsPerHost,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
