// Package alopeyk is a client for the AloPeyk delivery API.
//
// Every network operation runs the same pipeline: the credential is
// resolved, transport options are built, one synchronous round trip is made
// and the body is decoded as JSON. Failures are returned as *Error values
// whose Kind tells the caller what went wrong; nothing is retried.
package alopeyk

import (
	"context"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/tournevent/alopeyk/pkg/alopeyk"

// Operation names one API capability.
type Operation string

const (
	OpAuthenticate          Operation = "authenticate"
	OpGetAddress            Operation = "getAddress"
	OpGetLocationSuggestion Operation = "getLocationSuggestion"
	OpGetPrice              Operation = "getPrice"
	OpCreateOrder           Operation = "createOrder"
	OpGetOrderDetail        Operation = "getOrderDetail"
	OpCancelOrder           Operation = "cancelOrder"
	OpGetUserProfile        Operation = "getUserProfile"
	OpValidateCoupon        Operation = "validateCoupon"
)

// Recorder observes completed network operations. outcome is "success" or
// the Kind of the returned error.
type Recorder interface {
	RecordCall(op string, outcome string, duration time.Duration)
}

// Client is the AloPeyk API client. It is safe for concurrent use.
type Client struct {
	config      Config
	credentials *Credentials
	transport   Transport
	logger      *otelzap.Logger
	tracer      trace.Tracer
	recorder    Recorder
}

// New creates a new AloPeyk client.
// If cfg.UseMock is true, it uses a MockTransport instead of the network.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	var transport Transport
	if cfg.UseMock {
		transport = NewMockTransport()
	} else {
		transport = NewHTTPTransport()
	}
	return NewWithTransport(cfg, transport, logger, tracer)
}

// NewWithTransport creates a new client with a custom transport.
// This is useful for injecting mock transports in tests.
func NewWithTransport(cfg Config, transport Transport, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	if logger == nil {
		logger = otelzap.New(zap.NewNop())
	}
	if tracer == nil {
		tracer = otel.Tracer(instrumentationName)
	}
	return &Client{
		config:      cfg.clone(),
		credentials: NewCredentials(cfg.Token),
		transport:   transport,
		logger:      logger,
		tracer:      tracer,
	}
}

// WithRecorder attaches a metrics recorder to the client.
func (c *Client) WithRecorder(r Recorder) *Client {
	c.recorder = r
	return c
}

// SetToken overrides the configured access token for this client.
func (c *Client) SetToken(token string) {
	c.credentials.Set(token)
}

// Token returns the access token that the next request would use.
func (c *Client) Token() (string, bool) {
	return c.credentials.Resolve()
}

// call runs one operation through build, invoke and normalize.
func (c *Client) call(ctx context.Context, op Operation, spec RequestSpec) (*Result, error) {
	ctx, span := c.tracer.Start(ctx, "alopeyk."+string(op), trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	start := time.Now()

	result, err := c.roundTrip(ctx, spec)
	duration := time.Since(start)

	outcome := "success"
	if err != nil {
		outcome = string(KindOf(err))
		if e, ok := err.(*Error); ok && e.Op == "" {
			tagged := *e
			tagged.Op = op
			err = &tagged
		}
		span.SetStatus(codes.Error, outcome)
	}
	span.SetAttributes(
		attribute.String("alopeyk.operation", string(op)),
		attribute.String("http.request.method", spec.Method),
		attribute.String("alopeyk.outcome", outcome),
	)

	c.logger.Ctx(ctx).Debug("AloPeyk request finished",
		zap.String("operation", string(op)),
		zap.String("method", spec.Method),
		zap.String("endpoint", spec.Endpoint),
		zap.String("outcome", outcome),
		zap.Duration("duration", duration),
	)
	if c.recorder != nil {
		c.recorder.RecordCall(string(op), outcome, duration)
	}
	return result, err
}

func (c *Client) roundTrip(ctx context.Context, spec RequestSpec) (*Result, error) {
	opts, err := c.prepare(spec)
	if err != nil {
		return nil, err
	}
	return normalize(c.transport.Do(ctx, opts))
}
