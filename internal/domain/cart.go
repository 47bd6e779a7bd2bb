package domain

import "github.com/shopspring/decimal"

// CartItem is a product snapshot plus the quantity in the cart.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// Clone returns a deep copy of the item.
func (i CartItem) Clone() CartItem {
	i.Product = i.Product.Clone()
	return i
}

// LineTotal is price × quantity rounded to the cent.
func (i CartItem) LineTotal() float64 {
	return lineTotal(i).Round(2).InexactFloat64()
}

func lineTotal(i CartItem) decimal.Decimal {
	return decimal.NewFromFloat(i.Price).Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Subtotal sums price × quantity over the cart using decimal arithmetic and
// rounds the result to the cent.
func Subtotal(cart []CartItem) float64 {
	sum := decimal.Zero
	for _, item := range cart {
		sum = sum.Add(lineTotal(item))
	}
	return sum.Round(2).InexactFloat64()
}

// ItemCount is the total number of units in the cart.
func ItemCount(cart []CartItem) int {
	n := 0
	for _, item := range cart {
		n += item.Quantity
	}
	return n
}

// FindItem returns the index of the cart item for productID, or -1.
func FindItem(cart []CartItem, productID string) int {
	for i, item := range cart {
		if item.ID == productID {
			return i
		}
	}
	return -1
}

// CloneCart deep-copies a cart. A nil input yields an empty slice.
func CloneCart(in []CartItem) []CartItem {
	out := make([]CartItem, len(in))
	for i, item := range in {
		out[i] = item.Clone()
	}
	return out
}
