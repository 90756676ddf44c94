package alopeyk

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Payloader serializes a domain object into the POST body of an operation.
type Payloader interface {
	Payload(op Operation) (map[string]any, error)
}

// TransportType is the vehicle class of an order.
type TransportType string

const (
	TransportMotorbike TransportType = "motorbike"
	TransportMotorTaxi TransportType = "motor_taxi"
	TransportCargo     TransportType = "cargo"
	TransportCargoS    TransportType = "cargo_s"
	TransportCar       TransportType = "car"
)

// AddressType is the role of an address within an order.
type AddressType string

const (
	AddressOrigin      AddressType = "origin"
	AddressDestination AddressType = "destination"
	AddressReturn      AddressType = "return"
)

// Address is one stop of an order.
type Address struct {
	Type           AddressType `json:"type"`
	City           string      `json:"city,omitempty"`
	Latitude       float64     `json:"lat"`
	Longitude      float64     `json:"lng"`
	Description    string      `json:"description,omitempty"`
	Unit           string      `json:"unit,omitempty"`
	Number         string      `json:"number,omitempty"`
	PersonFullname string      `json:"person_fullname,omitempty"`
	PersonPhone    string      `json:"person_phone,omitempty"`
}

// Validate checks the address type and coordinates.
func (a Address) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Type, validation.In(AddressOrigin, AddressDestination, AddressReturn)),
		validation.Field(&a.Latitude, latitudeRules...),
		validation.Field(&a.Longitude, longitudeRules...),
	)
}

// payload serializes the address; an empty type takes the role implied by
// its position in the order.
func (a Address) payload(op Operation, role AddressType) map[string]any {
	if a.Type != "" {
		role = a.Type
	}
	m := map[string]any{
		"type": string(role),
		"lat":  a.Latitude,
		"lng":  a.Longitude,
	}
	if op != OpCreateOrder {
		return m
	}
	m["city"] = a.City
	m["description"] = a.Description
	m["unit"] = a.Unit
	m["number"] = a.Number
	m["person_fullname"] = a.PersonFullname
	m["person_phone"] = a.PersonPhone
	return m
}

// Order is a delivery request: one origin and one or more destinations.
type Order struct {
	TransportType  TransportType  `json:"transport_type"`
	Origin         *Address       `json:"origin"`
	Destinations   []Address      `json:"destinations"`
	HasReturn      bool           `json:"has_return"`
	Cashed         bool           `json:"cashed"`
	ScheduledAt    *time.Time     `json:"scheduled_at,omitempty"`
	DiscountCoupon string         `json:"discount_coupon,omitempty"`
	ExtraParams    map[string]any `json:"extra_params,omitempty"`
}

// NewOrder creates an order with a single destination.
func NewOrder(transport TransportType, origin, destination Address) *Order {
	origin.Type = AddressOrigin
	destination.Type = AddressDestination
	return &Order{
		TransportType: transport,
		Origin:        &origin,
		Destinations:  []Address{destination},
	}
}

// AddDestination appends a stop to the order.
func (o *Order) AddDestination(a Address) *Order {
	a.Type = AddressDestination
	o.Destinations = append(o.Destinations, a)
	return o
}

// Validate checks that the order can be priced or placed.
func (o *Order) Validate() error {
	return validation.ValidateStruct(o,
		validation.Field(&o.TransportType, validation.Required,
			validation.In(TransportMotorbike, TransportMotorTaxi, TransportCargo, TransportCargoS, TransportCar)),
		validation.Field(&o.Origin, validation.Required),
		validation.Field(&o.Destinations, validation.Required),
	)
}

// Payload serializes the order for getPrice or createOrder. Price requests
// carry only what the tariff depends on.
func (o *Order) Payload(op Operation) (map[string]any, error) {
	if o == nil {
		return nil, fmt.Errorf("order is nil")
	}
	if op != OpGetPrice && op != OpCreateOrder {
		return nil, fmt.Errorf("order has no payload for operation %q", op)
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}

	addresses := make([]map[string]any, 0, len(o.Destinations)+1)
	addresses = append(addresses, o.Origin.payload(op, AddressOrigin))
	for _, d := range o.Destinations {
		addresses = append(addresses, d.payload(op, AddressDestination))
	}

	m := map[string]any{
		"transport_type": string(o.TransportType),
		"addresses":      addresses,
		"has_return":     o.HasReturn,
		"cashed":         o.Cashed,
	}
	if op == OpCreateOrder {
		if o.ScheduledAt != nil {
			m["scheduled_at"] = o.ScheduledAt.Format("2006-01-02 15:04:05")
		}
		if o.DiscountCoupon != "" {
			m["discount_coupon"] = o.DiscountCoupon
		}
		if len(o.ExtraParams) > 0 {
			m["extra_params"] = o.ExtraParams
		}
	}
	return m, nil
}
