// Package harness runs storefront scenarios against a real engine.
//
// A scenario is a YAML file listing engine operations and the state they
// should leave behind. Each run uses a fresh store, a deterministic clock and
// sequential ids, so the final state can be compared byte-for-byte with a
// golden file.
//
// # Scenario Format
//
//	name: checkout_two_items
//	description: "Two products, one order"
//	strict: false            # optional, enables strict validation
//	setup:
//	  - action: addProduct
//	    args: { ref: boot, name: Boot, price: 200, image: boot.jpg }
//	steps:
//	  - action: addToCart
//	    args: { product: boot }
//	  - action: updateQuantity
//	    args: { product: boot, quantity: 0 }
//	    expect: { changed: false }
//	  - restart: true         # rebuild the engine from the same store
//	assertions:
//	  - type: cart_quantity
//	    product: boot
//	    quantity: 1
//
// Products may be referenced by id or by the ref given when they were added.
// A product removed from the catalog can still be referenced: the harness
// keeps every product it has seen, the way a stale page would.
//
// # Assertion Types
//
//   - cart_size: number of distinct cart items
//   - cart_quantity: quantity of one product in the cart
//   - subtotal: cart subtotal
//   - order_count: number of orders
//   - order_total: total of the order at index (0 is the newest)
//   - catalog_size: number of catalog products
//   - user_role: session role, or "none" when logged out
//   - cart_open: cart panel flag
//   - trace_count: number of steps that ran an action
//
// # Golden Files
//
// RunWithGolden snapshots the trace and final state under
// testdata/golden/<name>.golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
