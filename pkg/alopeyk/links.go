package alopeyk

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// PaymentGateways returns the configured gateway identifiers, sorted.
func (c *Client) PaymentGateways() []string {
	return slices.Sorted(maps.Keys(c.config.PaymentRoutes))
}

// PaymentRoute builds the credit top-up link for a user. An empty gateway
// selects DefaultGateway; a gateway missing from Config.PaymentRoutes returns
// an ErrValidation error.
func (c *Client) PaymentRoute(userID, amount int64, gateway string) (string, error) {
	if gateway == "" {
		gateway = DefaultGateway
	}
	route, ok := c.config.PaymentRoutes[gateway]
	if !ok {
		return "", NewError(KindValidation, fmt.Sprintf("unknown payment gateway %q, expected one of %s",
			gateway, strings.Join(c.PaymentGateways(), ", ")))
	}
	return fmt.Sprintf("%s%s?user_id=%d&amount=%d", c.config.APIURL, route, userID, amount), nil
}

// TrackingURL returns the public tracking page of an order.
func (c *Client) TrackingURL(orderToken string) string {
	return c.config.TrackingURL + "#/" + orderToken
}

// PrintInvoiceURL returns the printable invoice of an order.
func (c *Client) PrintInvoiceURL(orderID, orderToken string) string {
	return fmt.Sprintf("%s/order/%s/print?token=%s", c.config.URL, orderID, orderToken)
}
