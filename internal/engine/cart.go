package engine

import (
	"slices"

	"github.com/roach88/primecart/internal/domain"
)

// CartChange is the result of AddToCart: the item as it now stands and the
// cart panel transition that accompanied it.
type CartChange struct {
	Item     domain.CartItem
	Inserted bool
	// Opened is true when this call moved the cart panel from closed to open.
	Opened bool
}

// AddToCart increments the quantity of p if it is already in the cart,
// otherwise inserts a snapshot of p with quantity 1. Opens the cart panel.
//
// The cart holds its own copy of p: deleting p from the catalog later does
// not touch the cart, and adding a stale p does not touch the catalog.
func (e *Engine) AddToCart(p domain.Product) CartChange {
	e.lockMutation()

	var change CartChange
	if i := domain.FindItem(e.cart, p.ID); i >= 0 {
		e.cart[i].Quantity++
		change.Item = e.cart[i].Clone()
	} else {
		item := domain.CartItem{Product: p.Clone(), Quantity: 1}
		e.cart = append(e.cart, item)
		change.Item = item.Clone()
		change.Inserted = true
	}

	change.Opened = !e.cartOpen
	e.cartOpen = true
	e.save(KeyCart, e.cart)

	e.logger.Debug("added to cart", "product_id", p.ID, "quantity", change.Item.Quantity)
	e.commit(Change{Op: "addToCart", Collections: []string{CollectionCart, CollectionCartOpen}, CartOpen: true})
	return change
}

// RemoveFromCart removes the item for productID. Returns false, and changes
// nothing, if there is no such item.
func (e *Engine) RemoveFromCart(productID string) bool {
	e.lockMutation()

	i := domain.FindItem(e.cart, productID)
	if i < 0 {
		e.mu.Unlock()
		return false
	}
	e.cart = slices.Delete(e.cart, i, i+1)
	e.save(KeyCart, e.cart)

	e.commit(Change{Op: "removeFromCart", Collections: []string{CollectionCart}, CartOpen: e.cartOpen})
	return true
}

// UpdateQuantity sets the quantity of the item for productID. Quantities
// below 1 are rejected: the call is a no-op and returns false. Decrementing
// to zero therefore never removes an item; use RemoveFromCart.
func (e *Engine) UpdateQuantity(productID string, quantity int) bool {
	e.lockMutation()

	i := domain.FindItem(e.cart, productID)
	if quantity < 1 || i < 0 {
		e.mu.Unlock()
		return false
	}
	e.cart[i].Quantity = quantity
	e.save(KeyCart, e.cart)

	e.commit(Change{Op: "updateQuantity", Collections: []string{CollectionCart}, CartOpen: e.cartOpen})
	return true
}

// ClearCart empties the cart.
func (e *Engine) ClearCart() {
	e.lockMutation()
	e.clearCartLocked()
	e.commit(Change{Op: "clearCart", Collections: []string{CollectionCart}, CartOpen: e.cartOpen})
}

func (e *Engine) clearCartLocked() {
	e.cart = []domain.CartItem{}
	e.save(KeyCart, e.cart)
}

// SetCartOpen sets the cart panel flag. The flag is UI state and is not
// persisted.
func (e *Engine) SetCartOpen(open bool) {
	e.lockMutation()
	e.cartOpen = open
	e.commit(Change{Op: "setCartOpen", Collections: []string{CollectionCartOpen}, CartOpen: open})
}
