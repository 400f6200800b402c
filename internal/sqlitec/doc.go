// Package sqlitec provides a lightweight wrapper for the SQLite C library.
// It allows direct interaction with SQLite's low-level API.
//
// Unlike higher-level bindings, every call that talks to the engine returns
// the raw SQLite result code so callers can decide how a non-OK status is
// surfaced.
//
//   - https://www.sqlite.org/cintro.html
//   - https://www.sqlite.org/c3ref/intro.html
package sqlitec
