package engine

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/roach88/primecart/internal/domain"
	"github.com/roach88/primecart/internal/store"
)

// Persisted record keys, one per collection.
const (
	KeyProducts = "prime_products"
	KeyCart     = "prime_cart"
	KeyOrders   = "prime_orders"
	KeyUser     = "prime_user"
)

// DraftValidator checks an admin product draft. Used under strict validation.
type DraftValidator func(domain.ProductDraft) error

// Engine owns the storefront state.
//
// Thread-safety model:
//   - every operation and accessor is safe from any goroutine
//   - operations are serialized; each runs to completion before the next
//   - accessors return deep copies that callers may modify freely
//
// INVARIANTS:
//   - at most one cart item per product id, each with quantity >= 1
//   - orders are never mutated after creation; newest first
//   - zero or one session user
type Engine struct {
	mu    sync.Mutex
	ready bool

	closed   bool
	products []domain.Product
	cart     []domain.CartItem
	orders   []domain.Order
	user     *domain.User
	cartOpen bool

	persist  *persister
	now      TimeSource
	ids      IDGenerator
	logger   *slog.Logger
	strict   bool
	validate DraftValidator
	subs     []func(Change)
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the wall-clock source used to date orders.
func WithClock(now TimeSource) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithIDGenerator sets the generator for product and order ids.
//
// Default: UUIDv7Generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(e *Engine) {
		e.ids = g
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithStrictValidation makes the engine reject inputs it otherwise accepts:
// PlaceOrder on an empty cart, and product drafts failing validate. A nil
// validate falls back to requiring a name and a positive price.
func WithStrictValidation(validate DraftValidator) Option {
	return func(e *Engine) {
		e.strict = true
		e.validate = validate
	}
}

// New loads persisted state from kv and returns a ready engine.
//
// Loading is synchronous: when New returns, every collection holds either its
// persisted value or its default. Unreadable records are logged and replaced
// by defaults; New itself never fails.
func New(ctx context.Context, kv store.KV, opts ...Option) *Engine {
	if kv == nil {
		panic("engine: nil store")
	}

	e := &Engine{
		now:    time.Now,
		ids:    UUIDv7Generator{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.strict && e.validate == nil {
		e.validate = requireNameAndPrice
	}

	e.products = loadRecord(ctx, kv, e.logger, KeyProducts, []domain.Product{})
	e.cart = loadRecord(ctx, kv, e.logger, KeyCart, []domain.CartItem{})
	e.orders = loadRecord(ctx, kv, e.logger, KeyOrders, []domain.Order{})
	demo := domain.DemoCustomer
	e.user = loadRecord(ctx, kv, e.logger, KeyUser, &demo)

	// A persisted "null" collection decodes to nil; keep slices non-nil so
	// they serialize as [].
	if e.products == nil {
		e.products = []domain.Product{}
	}
	if e.cart == nil {
		e.cart = []domain.CartItem{}
	}
	if e.orders == nil {
		e.orders = []domain.Order{}
	}
	e.cart = repairCart(e.logger, e.cart)
	e.orders = repairOrders(e.logger, e.orders)

	e.persist = newPersister(kv, e.logger)
	e.ready = true

	e.logger.Info("engine ready",
		"products", len(e.products),
		"cart_items", len(e.cart),
		"orders", len(e.orders),
		"logged_in", e.user != nil,
	)
	return e
}

// loadRecord decodes the record under key, falling back on miss, medium
// failure or malformed JSON.
func loadRecord[T any](ctx context.Context, kv store.KV, logger *slog.Logger, key string, fallback T) T {
	raw, err := kv.Load(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		logger.Debug("no persisted record, using default", "key", key)
		return fallback
	}
	if err != nil {
		logger.Warn("load failed, using default", "key", key, "error", err)
		return fallback
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		logger.Warn("malformed record, using default", "key", key, "error", err)
		return fallback
	}
	return v
}

// repairCart drops loaded items that break the cart invariants: quantities
// below 1 and repeated product ids (the first item for an id is kept).
func repairCart(logger *slog.Logger, cart []domain.CartItem) []domain.CartItem {
	seen := make(map[string]bool, len(cart))
	out := cart[:0]
	for _, item := range cart {
		switch {
		case item.Quantity < 1:
			logger.Warn("dropping cart item with invalid quantity", "product_id", item.ID, "quantity", item.Quantity)
		case seen[item.ID]:
			logger.Warn("dropping duplicate cart item", "product_id", item.ID)
		default:
			seen[item.ID] = true
			out = append(out, item)
		}
	}
	return out
}

// repairOrders drops loaded orders with an unknown status or a negative
// total.
func repairOrders(logger *slog.Logger, orders []domain.Order) []domain.Order {
	out := orders[:0]
	for _, o := range orders {
		if !o.Status.Valid() || o.Total < 0 {
			logger.Warn("dropping invalid order", "order_id", o.ID, "status", o.Status, "total", o.Total)
			continue
		}
		out = append(out, o)
	}
	return out
}

func requireNameAndPrice(d domain.ProductDraft) error {
	var errs domain.ValidationErrors
	if d.Name == "" {
		errs = append(errs, &domain.ValidationError{Field: "name", Message: "is required"})
	}
	if d.Price <= 0 {
		errs = append(errs, &domain.ValidationError{Field: "price", Message: "must be greater than zero"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// lock acquires the engine for a read or mutation, failing fast on an engine
// that was not built by New.
func (e *Engine) lock() {
	e.mu.Lock()
	if !e.ready {
		e.mu.Unlock()
		panic(ErrNotInitialized)
	}
}

// lockMutation is lock plus the closed check.
func (e *Engine) lockMutation() {
	e.lock()
	if e.closed {
		e.mu.Unlock()
		panic(ErrClosed)
	}
}

// save serializes v and schedules it under key. Called with e.mu held so the
// snapshot matches the state that produced it.
func (e *Engine) save(key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		e.logger.Error("snapshot encode failed", "key", key, "error", err)
		return
	}
	e.persist.schedule(key, raw)
}

// commit releases the lock and notifies subscribers of the change.
func (e *Engine) commit(c Change) {
	subs := slices.Clone(e.subs)
	e.mu.Unlock()
	for _, fn := range subs {
		fn(c)
	}
}

// Flush blocks until every write scheduled so far has been attempted.
func (e *Engine) Flush(ctx context.Context) error {
	e.lock()
	p := e.persist
	e.mu.Unlock()
	return p.flush(ctx)
}

// Close flushes pending writes and stops the persister. Mutations after
// Close panic with ErrClosed; accessors keep working.
func (e *Engine) Close(ctx context.Context) error {
	e.lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	p := e.persist
	e.mu.Unlock()
	return p.stop(ctx)
}

// PersistStats reports how many snapshot writes succeeded and failed.
func (e *Engine) PersistStats() (written, failed int64) {
	e.lock()
	p := e.persist
	e.mu.Unlock()
	return p.written.Load(), p.failed.Load()
}

// Subscribe registers fn to be called after every state transition.
// fn runs on the mutating goroutine after the engine lock is released.
func (e *Engine) Subscribe(fn func(Change)) {
	e.lock()
	defer e.mu.Unlock()
	e.subs = append(e.subs, fn)
}
