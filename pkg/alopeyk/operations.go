package alopeyk

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

const orderDetailColumns = "*,addresses,screenshot,progress,courier,customer,last_position_minimal,eta_minimal"

// Authenticate checks the access token against the API root.
func (c *Client) Authenticate(ctx context.Context) (*Result, error) {
	return c.call(ctx, OpAuthenticate, getRequest(""))
}

// GetAddress reverse-geocodes a coordinate pair.
func (c *Client) GetAddress(ctx context.Context, lat, lng float64) (*Result, error) {
	if err := ValidateLatitude(lat); err != nil {
		return nil, validationError(OpGetAddress, "latitude is not correct").WithCause(err)
	}
	if err := ValidateLongitude(lng); err != nil {
		return nil, validationError(OpGetAddress, "longitude is not correct").WithCause(err)
	}

	endpoint := "locations?latlng=" + formatCoordinate(lat) + "," + formatCoordinate(lng)
	return c.call(ctx, OpGetAddress, getRequest(endpoint))
}

// GetLocationSuggestion searches places matching a free-text name.
func (c *Client) GetLocationSuggestion(ctx context.Context, name string) (*Result, error) {
	name = Sanitize(name)
	if name == "" {
		return nil, validationError(OpGetLocationSuggestion, "location name can not be empty")
	}
	return c.call(ctx, OpGetLocationSuggestion, getRequest("locations?input="+url.QueryEscape(name)))
}

// GetPrice quotes an order without placing it.
func (c *Client) GetPrice(ctx context.Context, order Payloader) (*Result, error) {
	return c.postPayload(ctx, OpGetPrice, "orders/price/calc", order)
}

// CreateOrder places an order.
func (c *Client) CreateOrder(ctx context.Context, order Payloader) (*Result, error) {
	return c.postPayload(ctx, OpCreateOrder, "orders", order)
}

func (c *Client) postPayload(ctx context.Context, op Operation, endpoint string, order Payloader) (*Result, error) {
	if order == nil {
		return nil, validationError(op, "order is required")
	}
	body, err := order.Payload(op)
	if err != nil {
		return nil, validationError(op, "order can not be serialized").WithCause(err)
	}
	return c.call(ctx, op, postRequest(endpoint, body))
}

// GetOrderDetail fetches an order with its addresses, courier and progress.
func (c *Client) GetOrderDetail(ctx context.Context, orderID string) (*Result, error) {
	id, err := ValidateOrderID(orderID)
	if err != nil {
		return nil, validationError(OpGetOrderDetail, "order id must be integer").WithCause(err)
	}
	endpoint := fmt.Sprintf("orders/%d?columns=%s", id, orderDetailColumns)
	return c.call(ctx, OpGetOrderDetail, getRequest(endpoint))
}

// CancelOrder cancels an order, attaching comment as the reason.
func (c *Client) CancelOrder(ctx context.Context, orderID, comment string) (*Result, error) {
	id, err := ValidateOrderID(orderID)
	if err != nil {
		return nil, validationError(OpCancelOrder, "order id must be integer").WithCause(err)
	}
	endpoint := fmt.Sprintf("orders/%d/cancel?comment=%s", id, url.QueryEscape(comment))
	return c.call(ctx, OpCancelOrder, getRequest(endpoint))
}

// GetUserProfile fetches the account profile including its credit.
func (c *Client) GetUserProfile(ctx context.Context) (*Result, error) {
	return c.call(ctx, OpGetUserProfile, getRequest("show-profile?columns=*,credit"))
}

// ValidateCoupon checks a discount coupon. The code itself is the whole
// request body.
func (c *Client) ValidateCoupon(ctx context.Context, code string) (*Result, error) {
	return c.call(ctx, OpValidateCoupon, postRequest("coupons", code))
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
