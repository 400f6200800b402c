// Package gosqlite is a thin object façade over the SQLite C API.
//
// A DB owns the native database handle and acts as a factory for prepared
// statements (Stmt) and result cursors (Query). Every native handle has
// exactly one owner responsible for releasing it; Move transfers that
// responsibility, and finalize/close calls are idempotent.
//
// Non-OK engine statuses are routed through a pluggable error handler that
// by default returns a typed *Error. Statement tracing goes through a
// separate log handler with a verbose switch.
//
// None of the types in this package are safe for concurrent use. Every call
// blocks until the engine responds; serialize access from multiple
// goroutines in the caller.
package gosqlite
