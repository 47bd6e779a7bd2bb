// Package engine implements the storefront state engine.
//
// The engine is the single authority over the catalog, the cart, the order
// history and the session user. Consumers hold a *Engine, read deep-copied
// snapshots through its accessors and route every mutation through its
// operations.
//
// ARCHITECTURE:
//
// Synchronous transitions:
// Every operation runs to completion under one mutex before the next one
// starts, so concurrent consumers observe the same atomic transitions a
// single-threaded caller would.
//
// Trailing persistence:
// A successful mutation serializes a full snapshot of the collection it
// changed and hands it to the persister, a single-writer goroutine draining a
// FIFO queue into the key-value store. Operations never wait for the write and
// a failed write never rolls back memory. Flush waits for every write
// scheduled so far.
//
// Startup:
// New loads all four collections before returning. Missing or malformed
// records fall back to defaults (empty catalog, empty cart, empty history,
// demo customer session).
//
// Record keys:
//
//	prime_products  []domain.Product
//	prime_cart      []domain.CartItem
//	prime_orders    []domain.Order
//	prime_user      domain.User or null
package engine
