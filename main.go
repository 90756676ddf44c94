package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tournevent/alopeyk/internal/server"
	"github.com/tournevent/alopeyk/internal/telemetry"
	"go.uber.org/zap"
)

var version = "0.0.1"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	token   string
	sandbox bool
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:          "alopeyk",
		Short:        "AloPeyk delivery API client and HTTP gateway",
		Version:      version,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.token, "token", "", "access token, overrides ALOPEYK_TOKEN")
	cmd.PersistentFlags().BoolVar(&opts.sandbox, "sandbox", false, "use the sandbox environment")

	cmd.AddCommand(
		newServeCmd(opts),
		newAuthCmd(opts),
		newAddressCmd(opts),
		newSuggestCmd(opts),
		newPriceCmd(opts),
		newOrderCmd(opts),
		newProfileCmd(opts),
		newCouponCmd(opts),
		newGatewaysCmd(opts),
		newPaymentRouteCmd(opts),
		newTrackingURLCmd(opts),
		newInvoiceURLCmd(opts),
	)
	return cmd
}

func newServeCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP gateway",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
}

func runServe(cmd *cobra.Command, opts *globalOptions) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger, err := telemetry.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	tracer, tracerShutdown, err := initTracer(ctx, cfg)
	if err != nil {
		logger.Warn("Failed to initialize tracer", zap.Error(err))
	} else {
		defer tracerShutdown(context.Background())
	}

	metrics := telemetry.NewMetrics()
	client := initClient(cfg, opts, logger, tracer).WithRecorder(metrics)
	if _, ok := client.Token(); !ok {
		logger.Warn("No access token configured, API calls will fail with an auth error")
	}

	logger.Info("Starting AloPeyk gateway",
		zap.Int("port", cfg.Port),
		zap.String("version", cfg.Version),
		zap.String("environment", cfg.Environment),
		zap.Bool("mock", cfg.UseMock),
	)

	srv := server.New(server.Config{Port: cfg.Port}, client, logger, metrics)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
