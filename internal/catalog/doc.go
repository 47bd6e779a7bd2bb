// Package catalog holds the shop-side helpers that work over a product list
// without owning it: search and sort, admin draft validation, and catalog
// seed files.
//
// Nothing here mutates engine state. Callers pass in a snapshot from
// engine.Products and get a new slice back.
package catalog
