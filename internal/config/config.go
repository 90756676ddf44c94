package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/tournevent/alopeyk/pkg/alopeyk"
	"go.opentelemetry.io/otel/attribute"
)

// Environment names accepted by ALOPEYK_ENV.
const (
	EnvProduction = "production"
	EnvSandbox    = "sandbox"
)

// Config holds all configuration for the service.
type Config struct {
	// Server
	Port     int    `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// AloPeyk. Empty values keep the preset selected by Environment.
	Environment   string            `envconfig:"ALOPEYK_ENV" default:"production"`
	APIURL        string            `envconfig:"ALOPEYK_API_URL"`
	URL           string            `envconfig:"ALOPEYK_URL"`
	TrackingURL   string            `envconfig:"ALOPEYK_TRACKING_URL"`
	Token         string            `envconfig:"ALOPEYK_TOKEN"`
	PaymentRoutes map[string]string `envconfig:"ALOPEYK_PAYMENT_ROUTES"`
	UseMock       bool              `envconfig:"ALOPEYK_USE_MOCK" default:"false"`

	// Telemetry
	OTELEnabled  bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OTELEndpoint string `envconfig:"OTEL_ENDPOINT" default:"http://localhost:4318"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"alopeyk"`
	Version      string `envconfig:"SERVICE_VERSION" default:"0.0.1"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if cfg.Environment != EnvProduction && cfg.Environment != EnvSandbox {
		return nil, fmt.Errorf("loading config: ALOPEYK_ENV must be %q or %q, got %q",
			EnvProduction, EnvSandbox, cfg.Environment)
	}
	return &cfg, nil
}

// AloPeyk returns the client configuration: the preset for the selected
// environment with every non-empty override applied.
func (c *Config) AloPeyk() alopeyk.Config {
	out := alopeyk.ProductionConfig()
	if c.Environment == EnvSandbox {
		out = alopeyk.SandboxConfig()
	}

	if c.APIURL != "" {
		out.APIURL = c.APIURL
	}
	if c.URL != "" {
		out.URL = c.URL
	}
	if c.TrackingURL != "" {
		out.TrackingURL = c.TrackingURL
	}
	if c.Token != "" {
		out.Token = c.Token
	}
	if len(c.PaymentRoutes) > 0 {
		out.PaymentRoutes = c.PaymentRoutes
	}
	out.UseMock = c.UseMock
	return out
}

// Attributes returns OpenTelemetry attributes for this configuration.
func (c *Config) Attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("service.name", c.ServiceName),
		attribute.String("service.version", c.Version),
		attribute.String("alopeyk.environment", c.Environment),
		attribute.Bool("alopeyk.mock", c.UseMock),
	}
}
