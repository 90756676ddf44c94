package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/tournevent/alopeyk/internal/telemetry"
	"github.com/tournevent/alopeyk/pkg/alopeyk"
)

type clientFunc func(ctx context.Context, client *alopeyk.Client) (any, error)

// runWithClient builds a client from the environment, runs fn and prints
// its result as indented JSON on stdout.
func runWithClient(cmd *cobra.Command, opts *globalOptions, fn clientFunc) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger, err := telemetry.NewCLILogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	client := initClient(cfg, opts, logger, nil)
	out, err := fn(cmd.Context(), client)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), out)
}

func printJSON(w io.Writer, v any) error {
	var raw []byte
	if r, ok := v.(*alopeyk.Result); ok {
		raw = r.Raw
	} else {
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		raw = b
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}

func urlOutput(u string) map[string]string {
	return map[string]string{"url": u}
}

// readOrder decodes an order from path, or from stdin when path is "-".
func readOrder(cmd *cobra.Command, path string) (*alopeyk.Order, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening order file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var order alopeyk.Order
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&order); err != nil {
		return nil, fmt.Errorf("decoding order: %w", err)
	}
	return &order, nil
}

func newAuthCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Check the access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithClient(cmd, opts, func(ctx context.Context, c *alopeyk.Client) (any, error) {
				return c.Authenticate(ctx)
			})
		},
	}
}

func newAddressCmd(opts *globalOptions) *cobra.Command {
	var lat, lng float64
	cmd := &cobra.Command{
		Use:   "address",
		Short: "Reverse-geocode a coordinate pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithClient(cmd, opts, func(ctx context.Context, c *alopeyk.Client) (any, error) {
				return c.GetAddress(ctx, lat, lng)
			})
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude")
	cmd.Flags().Float64Var(&lng, "lng", 0, "longitude")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lng")
	return cmd
}

func newSuggestCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <text>",
		Short: "Suggest locations matching a name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithClient(cmd, opts, func(ctx context.Context, c *alopeyk.Client) (any, error) {
				return c.GetLocationSuggestion(ctx, args[0])
			})
		},
	}
}

func newPriceCmd(opts *globalOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Quote an order without placing it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := readOrder(cmd, file)
			if err != nil {
				return err
			}
			return runWithClient(cmd, opts, func(ctx context.Context, c *alopeyk.Client) (any, error) {
				return c.GetPrice(ctx, order)
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "order JSON file, - for stdin")
	return cmd
}

func newOrderCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Create, inspect and cancel orders",
	}

	var file string
	create := &cobra.Command{
		Use:   "create",
		Short: "Place an order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := readOrder(cmd, file)
			if err != nil {
				return err
			}
			return runWithClient(cmd, opts, func(ctx context.Context, c *alopeyk.Client) (any, error) {
				return c.CreateOrder(ctx, order)
			})
		},
	}
	create.Flags().StringVarP(&file, "file", "f", "-", "order JSON file, - for stdin")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithClient(cmd, opts, func(ctx context.Context, c *alopeyk.Client) (any, error) {
				return c.GetOrderDetail(ctx, args[0])
			})
		},
	}

	var comment string
	cancel := &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithClient(cmd, opts, func(ctx context.Context, c *alopeyk.Client) (any, error) {
				return c.CancelOrder(ctx, args[0], comment)
			})
		},
	}
	cancel.Flags().StringVar(&comment, "comment", "", "cancellation reason")

	cmd.AddCommand(create, get, cancel)
	return cmd
}

func newProfileCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the account profile and credit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithClient(cmd, opts, func(ctx context.Context, c *alopeyk.Client) (any, error) {
				return c.GetUserProfile(ctx)
			})
		},
	}
}

func newCouponCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "coupon <code>",
		Short: "Validate a discount coupon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithClient(cmd, opts, func(ctx context.Context, c *alopeyk.Client) (any, error) {
				return c.ValidateCoupon(ctx, args[0])
			})
		},
	}
}

func newGatewaysCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "gateways",
		Short: "List the configured payment gateways",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithClient(cmd, opts, func(_ context.Context, c *alopeyk.Client) (any, error) {
				return map[string][]string{"gateways": c.PaymentGateways()}, nil
			})
		},
	}
}

func newPaymentRouteCmd(opts *globalOptions) *cobra.Command {
	var (
		userID  int64
		amount  int64
		gateway string
	)
	cmd := &cobra.Command{
		Use:   "payment-route",
		Short: "Build a credit top-up link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithClient(cmd, opts, func(_ context.Context, c *alopeyk.Client) (any, error) {
				route, err := c.PaymentRoute(userID, amount, gateway)
				if err != nil {
					return nil, err
				}
				return urlOutput(route), nil
			})
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 0, "user id")
	cmd.Flags().Int64Var(&amount, "amount", 0, "amount in rials")
	cmd.Flags().StringVar(&gateway, "gateway", "", "payment gateway, defaults to "+alopeyk.DefaultGateway)
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newTrackingURLCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tracking-url <token>",
		Short: "Print the public tracking link of an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithClient(cmd, opts, func(_ context.Context, c *alopeyk.Client) (any, error) {
				return urlOutput(c.TrackingURL(args[0])), nil
			})
		},
	}
}

func newInvoiceURLCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "invoice-url <order-id> <token>",
		Short: "Print the invoice link of an order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("order id must be an integer: %q", args[0])
			}
			return runWithClient(cmd, opts, func(_ context.Context, c *alopeyk.Client) (any, error) {
				return urlOutput(c.PrintInvoiceURL(args[0], args[1])), nil
			})
		},
	}
}
