package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/tournevent/alopeyk/internal/telemetry"
	"github.com/tournevent/alopeyk/pkg/alopeyk"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// API is the subset of *alopeyk.Client the gateway serves.
type API interface {
	Authenticate(ctx context.Context) (*alopeyk.Result, error)
	GetAddress(ctx context.Context, lat, lng float64) (*alopeyk.Result, error)
	GetLocationSuggestion(ctx context.Context, name string) (*alopeyk.Result, error)
	GetPrice(ctx context.Context, order alopeyk.Payloader) (*alopeyk.Result, error)
	CreateOrder(ctx context.Context, order alopeyk.Payloader) (*alopeyk.Result, error)
	GetOrderDetail(ctx context.Context, orderID string) (*alopeyk.Result, error)
	CancelOrder(ctx context.Context, orderID, comment string) (*alopeyk.Result, error)
	GetUserProfile(ctx context.Context) (*alopeyk.Result, error)
	ValidateCoupon(ctx context.Context, code string) (*alopeyk.Result, error)
	PaymentGateways() []string
	PaymentRoute(userID, amount int64, gateway string) (string, error)
	TrackingURL(orderToken string) string
	PrintInvoiceURL(orderID, orderToken string) string
}

var _ API = (*alopeyk.Client)(nil)

// Server is the HTTP gateway in front of the AloPeyk client.
type Server struct {
	port    int
	api     API
	logger  *otelzap.Logger
	metrics *telemetry.Metrics
}

// Config holds server configuration.
type Config struct {
	Port int
}

// New creates a new server instance.
func New(cfg Config, api API, logger *otelzap.Logger, metrics *telemetry.Metrics) *Server {
	if logger == nil {
		logger = otelzap.New(zap.NewNop())
	}
	if metrics == nil {
		metrics = telemetry.NewMetrics()
	}
	return &Server{
		port:    cfg.Port,
		api:     api,
		logger:  logger,
		metrics: metrics,
	}
}

// Handler returns the gateway routes wrapped in request instrumentation.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.Handler())

	mux.HandleFunc("GET /v1/authenticate", s.handleAuthenticate)
	mux.HandleFunc("GET /v1/locations/reverse", s.handleReverseGeocode)
	mux.HandleFunc("GET /v1/locations/suggest", s.handleSuggest)
	mux.HandleFunc("POST /v1/orders/price", s.handlePrice)
	mux.HandleFunc("POST /v1/orders", s.handleCreateOrder)
	mux.HandleFunc("GET /v1/orders/{id}", s.handleOrderDetail)
	mux.HandleFunc("POST /v1/orders/{id}/cancel", s.handleCancelOrder)
	mux.HandleFunc("GET /v1/orders/{id}/invoice", s.handleInvoice)
	mux.HandleFunc("GET /v1/profile", s.handleProfile)
	mux.HandleFunc("POST /v1/coupons", s.handleCoupon)
	mux.HandleFunc("GET /v1/payments/gateways", s.handleGateways)
	mux.HandleFunc("GET /v1/payments/route", s.handlePaymentRoute)
	mux.HandleFunc("GET /v1/tracking/{token}", s.handleTracking)

	return s.instrument(mux)
}

// Run starts the HTTP server and blocks until context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	// Upstream calls may take the full client timeout.
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: alopeyk.RequestTimeout + 5*time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("Starting server", zap.Int("port", s.port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument tags every request with an id and records its metrics.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		duration := time.Since(start)
		s.metrics.RecordHTTP(route, rec.status, duration)
		s.logger.Ctx(r.Context()).Info("Request handled",
			zap.String("request_id", requestID),
			zap.String("route", route),
			zap.Int("status", rec.status),
			zap.Duration("duration", duration),
		)
	})
}
