package engine

import "github.com/roach88/primecart/internal/domain"

// Collection names reported in Change.
const (
	CollectionProducts = "products"
	CollectionCart     = "cart"
	CollectionOrders   = "orders"
	CollectionUser     = "user"
	CollectionCartOpen = "cart_open"
)

// Change describes one state transition.
type Change struct {
	Op          string
	Collections []string
	CartOpen    bool
}

// State is a point-in-time copy of everything the engine owns.
type State struct {
	Products []domain.Product  `json:"products"`
	Cart     []domain.CartItem `json:"cart"`
	Orders   []domain.Order    `json:"orders"`
	User     *domain.User      `json:"user"`
	CartOpen bool              `json:"cartOpen"`
}

// Snapshot returns a consistent copy of all collections.
func (e *Engine) Snapshot() State {
	e.lock()
	defer e.mu.Unlock()
	return State{
		Products: domain.CloneProducts(e.products),
		Cart:     domain.CloneCart(e.cart),
		Orders:   domain.CloneOrders(e.orders),
		User:     e.userCopy(),
		CartOpen: e.cartOpen,
	}
}

// Products returns a copy of the catalog, newest first.
func (e *Engine) Products() []domain.Product {
	e.lock()
	defer e.mu.Unlock()
	return domain.CloneProducts(e.products)
}

// Product looks up a catalog entry by id.
func (e *Engine) Product(id string) (domain.Product, bool) {
	e.lock()
	defer e.mu.Unlock()
	for _, p := range e.products {
		if p.ID == id {
			return p.Clone(), true
		}
	}
	return domain.Product{}, false
}

// Cart returns a copy of the cart in insertion order.
func (e *Engine) Cart() []domain.CartItem {
	e.lock()
	defer e.mu.Unlock()
	return domain.CloneCart(e.cart)
}

// Orders returns a copy of the order history, most recent first.
func (e *Engine) Orders() []domain.Order {
	e.lock()
	defer e.mu.Unlock()
	return domain.CloneOrders(e.orders)
}

// User returns the session user, or false when logged out.
func (e *Engine) User() (domain.User, bool) {
	e.lock()
	defer e.mu.Unlock()
	if e.user == nil {
		return domain.User{}, false
	}
	return *e.user, true
}

// CartOpen reports the cart panel flag.
func (e *Engine) CartOpen() bool {
	e.lock()
	defer e.mu.Unlock()
	return e.cartOpen
}

// Subtotal is recomputed from the current cart on every call.
func (e *Engine) Subtotal() float64 {
	e.lock()
	defer e.mu.Unlock()
	return domain.Subtotal(e.cart)
}

// ItemCount is recomputed from the current cart on every call.
func (e *Engine) ItemCount() int {
	e.lock()
	defer e.mu.Unlock()
	return domain.ItemCount(e.cart)
}

func (e *Engine) userCopy() *domain.User {
	if e.user == nil {
		return nil
	}
	u := *e.user
	return &u
}
