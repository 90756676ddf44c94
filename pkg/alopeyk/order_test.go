package alopeyk_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/alopeyk/pkg/alopeyk"
)

func TestOrder_PricePayload(t *testing.T) {
	order := testOrder()
	order.DiscountCoupon = "SPRING"

	payload, err := order.Payload(alopeyk.OpGetPrice)

	require.NoError(t, err)
	assert.Equal(t, "motorbike", payload["transport_type"])
	assert.Equal(t, false, payload["has_return"])
	assert.Equal(t, false, payload["cashed"])
	assert.NotContains(t, payload, "discount_coupon")

	addresses := payload["addresses"].([]map[string]any)
	require.Len(t, addresses, 2)
	assert.Equal(t, map[string]any{"type": "origin", "lat": 35.755460, "lng": 51.416874}, addresses[0])
	assert.Equal(t, "destination", addresses[1]["type"])
}

func TestOrder_CreatePayload(t *testing.T) {
	scheduled := time.Date(2026, 10, 20, 14, 30, 0, 0, time.UTC)
	order := testOrder()
	order.Cashed = true
	order.ScheduledAt = &scheduled
	order.DiscountCoupon = "SPRING"
	order.ExtraParams = map[string]any{"reference": "INV-9"}

	payload, err := order.Payload(alopeyk.OpCreateOrder)

	require.NoError(t, err)
	assert.Equal(t, true, payload["cashed"])
	assert.Equal(t, "2026-10-20 14:30:00", payload["scheduled_at"])
	assert.Equal(t, "SPRING", payload["discount_coupon"])
	assert.Equal(t, map[string]any{"reference": "INV-9"}, payload["extra_params"])

	addresses := payload["addresses"].([]map[string]any)
	assert.Equal(t, "tehran", addresses[0]["city"])
	assert.Equal(t, "Origin", addresses[0]["description"])
	assert.Equal(t, "09370000000", addresses[1]["person_phone"])
}

func TestOrder_AddDestination(t *testing.T) {
	order := testOrder().AddDestination(alopeyk.Address{Latitude: 35.7, Longitude: 51.3})

	payload, err := order.Payload(alopeyk.OpGetPrice)

	require.NoError(t, err)
	assert.Len(t, payload["addresses"], 3)
}

func TestOrder_ImpliedAddressTypes(t *testing.T) {
	order := &alopeyk.Order{
		TransportType: alopeyk.TransportCargo,
		Origin:        &alopeyk.Address{Latitude: 35.7, Longitude: 51.4},
		Destinations: []alopeyk.Address{
			{Latitude: 35.8, Longitude: 51.5},
			{Type: alopeyk.AddressReturn, Latitude: 35.7, Longitude: 51.4},
		},
	}

	payload, err := order.Payload(alopeyk.OpGetPrice)

	require.NoError(t, err)
	addresses := payload["addresses"].([]map[string]any)
	assert.Equal(t, "origin", addresses[0]["type"])
	assert.Equal(t, "destination", addresses[1]["type"])
	assert.Equal(t, "return", addresses[2]["type"])
}

func TestOrder_Invalid(t *testing.T) {
	valid := func() *alopeyk.Order { return testOrder() }

	tests := []struct {
		name   string
		mutate func(o *alopeyk.Order)
	}{
		{"missing transport type", func(o *alopeyk.Order) { o.TransportType = "" }},
		{"unknown transport type", func(o *alopeyk.Order) { o.TransportType = "rocket" }},
		{"missing origin", func(o *alopeyk.Order) { o.Origin = nil }},
		{"no destinations", func(o *alopeyk.Order) { o.Destinations = nil }},
		{"origin out of range", func(o *alopeyk.Order) { o.Origin.Latitude = 120 }},
		{"destination out of range", func(o *alopeyk.Order) { o.Destinations[0].Longitude = -200 }},
		{"unknown address type", func(o *alopeyk.Order) { o.Destinations[0].Type = "pickup" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := valid()
			tt.mutate(order)

			_, err := order.Payload(alopeyk.OpCreateOrder)
			assert.Error(t, err)
		})
	}
}

func TestOrder_UnsupportedOperation(t *testing.T) {
	_, err := testOrder().Payload(alopeyk.OpCancelOrder)
	assert.Error(t, err)

	var nilOrder *alopeyk.Order
	_, err = nilOrder.Payload(alopeyk.OpGetPrice)
	assert.Error(t, err)
}
