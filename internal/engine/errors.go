package engine

import (
	"errors"

	"github.com/roach88/primecart/internal/domain"
)

// Contract violations. The engine panics with these rather than returning
// them: they indicate a programming error in the caller, not bad input.
var (
	// ErrNotInitialized is raised when an Engine not built by New is used.
	ErrNotInitialized = errors.New("engine: used before initialization (construct with engine.New)")

	// ErrClosed is raised when a mutation is attempted after Close.
	ErrClosed = errors.New("engine: mutation after Close")
)

// ErrEmptyCart is returned by PlaceOrder under strict validation when the
// cart has no items.
var ErrEmptyCart = &domain.ValidationError{Field: "cart", Message: "cart is empty"}

// IsContractViolation reports whether a recovered panic value is one of the
// engine's contract violations.
func IsContractViolation(v any) bool {
	err, ok := v.(error)
	if !ok {
		return false
	}
	return errors.Is(err, ErrNotInitialized) || errors.Is(err, ErrClosed)
}
