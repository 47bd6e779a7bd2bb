// Package store provides the durable key-value medium behind the storefront
// engine.
//
// Each record is a named JSON blob (for example "prime_cart") that is
// overwritten as a whole on every save. Two implementations are provided:
//
//   - Store: SQLite-backed, durable across process restarts
//   - Memory: in-process map for tests and scenario runs
//
// # Contract
//
//   - Save overwrites the value under key
//   - Load returns ErrNotFound when the key has never been saved; any other
//     error means the medium itself failed
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
package store
