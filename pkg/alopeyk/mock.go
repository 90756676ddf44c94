package alopeyk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// MockTransport is an in-memory Transport for tests and offline use.
type MockTransport struct {
	SimulateErrors bool
	// SimulateLatency delays every call; a cancelled context cuts it short.
	SimulateLatency time.Duration
	// NoTLS makes SupportsTLS report false.
	NoTLS bool

	OnDo func(ctx context.Context, opts *TransportOptions) ([]byte, error)

	mu    sync.Mutex
	calls []TransportOptions
}

// NewMockTransport creates a new mock transport with default behavior.
func NewMockTransport() *MockTransport {
	return &MockTransport{}
}

// SupportsTLS reports whether the mock pretends to have TLS.
func (m *MockTransport) SupportsTLS() bool {
	return !m.NoTLS
}

// Do records the call and returns a canned response.
func (m *MockTransport) Do(ctx context.Context, opts *TransportOptions) ([]byte, error) {
	m.mu.Lock()
	m.calls = append(m.calls, *opts)
	m.mu.Unlock()

	if m.SimulateLatency > 0 {
		timer := time.NewTimer(m.SimulateLatency)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, NewError(KindTransport, ctx.Err().Error()).WithCause(ctx.Err())
		}
	}

	if m.SimulateErrors {
		return nil, NewError(KindTransport, "simulated transport error").WithStatusCode(http.StatusServiceUnavailable)
	}

	if m.OnDo != nil {
		return m.OnDo(ctx, opts)
	}

	return json.Marshal(map[string]any{
		"status":  "success",
		"message": "mock",
		"object":  mockObject(opts),
	})
}

// Calls returns the options of every call made so far.
func (m *MockTransport) Calls() []TransportOptions {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]TransportOptions, len(m.calls))
	copy(out, m.calls)
	return out
}

func mockObject(opts *TransportOptions) map[string]any {
	path := opts.URL
	if u, err := url.Parse(opts.URL); err == nil {
		path = u.Path
	}

	switch {
	case strings.HasSuffix(path, "orders/price/calc"):
		return map[string]any{
			"price":          42000,
			"credit":         true,
			"distance":       3840,
			"duration":       960,
			"transport_type": "motorbike",
		}
	case strings.HasSuffix(path, "/cancel"):
		return map[string]any{"id": 1, "status": "cancelled"}
	case strings.Contains(path, "orders/"):
		return map[string]any{"id": 1, "status": "accepted", "order_token": "mock-token"}
	case strings.HasSuffix(path, "orders"):
		return map[string]any{"id": 1, "status": "new", "order_token": "mock-token", "price": 42000}
	case strings.HasSuffix(path, "locations"):
		return map[string]any{"address": "Valiasr St", "city": "tehran"}
	case strings.HasSuffix(path, "show-profile"):
		return map[string]any{"id": 1, "firstname": "Mock", "lastname": "User", "credit": 100000}
	case strings.HasSuffix(path, "coupons"):
		return map[string]any{"valid": true}
	default:
		return map[string]any{"user": map[string]any{"id": 1}}
	}
}

var _ Transport = (*MockTransport)(nil)
