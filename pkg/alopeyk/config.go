package alopeyk

import (
	"maps"
	"time"
)

// TokenPlaceholder is the value shipped in sample configuration. It never authenticates.
const TokenPlaceholder = "PUT-YOUR-ACCESS-TOKEN-HERE"

// DefaultGateway is used by PaymentRoute when no gateway is given.
const DefaultGateway = "saman"

// Fixed transport policy applied to every request.
const (
	RequestTimeout = 30 * time.Second
	MaxRedirects   = 10
)

// Config holds the endpoints and credential of one AloPeyk environment.
type Config struct {
	// APIURL is the REST root; endpoints are appended verbatim.
	APIURL string
	// URL is the site root used for invoice links. No trailing slash.
	URL string
	// TrackingURL is the public tracking page.
	TrackingURL string
	// Token is the default access token. Client.SetToken overrides it.
	Token string
	// PaymentRoutes maps a gateway identifier to its route under APIURL.
	PaymentRoutes map[string]string
	// UseMock swaps the HTTP transport for MockTransport.
	UseMock bool
}

func defaultPaymentRoutes() map[string]string {
	return map[string]string{
		"saman":    "payments/saman/bank",
		"zarinpal": "payments/zarinpal/bank",
	}
}

// ProductionConfig returns the configuration of the live API.
func ProductionConfig() Config {
	return Config{
		APIURL:        "https://api.alopeyk.com/api/v2/",
		URL:           "https://api.alopeyk.com",
		TrackingURL:   "https://tracking.alopeyk.com/",
		Token:         TokenPlaceholder,
		PaymentRoutes: defaultPaymentRoutes(),
	}
}

// SandboxConfig returns the configuration of the sandbox API.
func SandboxConfig() Config {
	return Config{
		APIURL:        "https://sandbox-api.alopeyk.com/api/v2/",
		URL:           "https://sandbox-api.alopeyk.com",
		TrackingURL:   "https://sandbox-tracking.alopeyk.com/",
		Token:         TokenPlaceholder,
		PaymentRoutes: defaultPaymentRoutes(),
	}
}

// clone returns a copy that does not share the route table with c.
func (c Config) clone() Config {
	out := c
	out.PaymentRoutes = maps.Clone(c.PaymentRoutes)
	return out
}
