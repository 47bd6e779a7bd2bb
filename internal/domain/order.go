package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Status enumerates order progression. Orders start Pending; no transitions
// are performed by the engine.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusShipped   Status = "Shipped"
	StatusDelivered Status = "Delivered"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusShipped, StatusDelivered:
		return true
	default:
		return false
	}
}

// Order is an immutable record of a completed checkout.
type Order struct {
	ID     string     `json:"id"`
	Date   time.Time  `json:"date"`
	Total  float64    `json:"total"`
	Status Status     `json:"status"`
	Items  []CartItem `json:"items"`
}

// Clone returns a deep copy of the order.
func (o Order) Clone() Order {
	o.Items = CloneCart(o.Items)
	return o
}

// CloneOrders deep-copies an order slice. A nil input yields an empty slice.
func CloneOrders(in []Order) []Order {
	out := make([]Order, len(in))
	for i, o := range in {
		out[i] = o.Clone()
	}
	return out
}

// Shipping fees applied at checkout.
const (
	FreeShippingThreshold = 200.0
	FlatShippingFee       = 25.0
)

// Shipping returns the shipping fee for a cart subtotal: free above the
// threshold, flat otherwise.
func Shipping(subtotal float64) float64 {
	if subtotal > FreeShippingThreshold {
		return 0
	}
	return FlatShippingFee
}

// CheckoutTotal is subtotal plus shipping, rounded to the cent.
func CheckoutTotal(subtotal float64) float64 {
	return decimal.NewFromFloat(subtotal).
		Add(decimal.NewFromFloat(Shipping(subtotal))).
		Round(2).
		InexactFloat64()
}

var (
	ErrAddressRequired = errors.New("address is required")
	ErrCityRequired    = errors.New("city is required")
)

// ShippingDetails is the checkout form. The engine treats it as opaque.
type ShippingDetails struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
}

// Validate applies the checkout form's own checks.
func (d ShippingDetails) Validate() error {
	if d.Address == "" {
		return ErrAddressRequired
	}
	if d.City == "" {
		return ErrCityRequired
	}
	return nil
}
