package engine

import (
	"slices"

	"github.com/roach88/primecart/internal/domain"
)

// PlaceOrder records the current cart as a new Pending order at the head of
// the order history and clears the cart.
//
// details is opaque to the engine. An empty cart still produces an order with
// no items and a zero total, unless strict validation is enabled, in which case
// ErrEmptyCart is returned and nothing changes.
func (e *Engine) PlaceOrder(details domain.ShippingDetails) (domain.Order, error) {
	e.lockMutation()

	if e.strict && len(e.cart) == 0 {
		e.mu.Unlock()
		return domain.Order{}, ErrEmptyCart
	}

	order := domain.Order{
		ID:     e.ids.NewID(),
		Date:   stamp(e.now()),
		Total:  domain.Subtotal(e.cart),
		Status: domain.StatusPending,
		Items:  domain.CloneCart(e.cart),
	}

	e.orders = slices.Insert(e.orders, 0, order)
	e.save(KeyOrders, e.orders)
	e.clearCartLocked()

	e.logger.Info("order placed",
		"order_id", order.ID,
		"items", len(order.Items),
		"total", order.Total,
		"city", details.City,
	)
	e.commit(Change{Op: "placeOrder", Collections: []string{CollectionOrders, CollectionCart}, CartOpen: e.cartOpen})
	return order.Clone(), nil
}
