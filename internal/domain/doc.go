// Package domain defines the storefront entities owned by the engine and the
// pure derivations computed over them.
//
// Derived values (subtotals, item counts, shipping) are always recomputed
// from the current cart and are never stored alongside it.
package domain
