package gosqlite

import (
	"errors"
	"fmt"
)

// Precondition failures. These signal programming-contract violations on the
// caller's side and are returned directly, never routed through the error
// handler.
var (
	// ErrAlreadyOpen is returned by DB.Open when the connection already
	// holds a native handle.
	ErrAlreadyOpen = errors.New("previous db handle was not closed")

	// ErrNotOpen is returned when an operation requires an open connection.
	ErrNotOpen = errors.New("database not open")

	// ErrNullHandle is returned when a statement or cursor is used after it
	// was finalized or moved from.
	ErrNullHandle = errors.New("null statement handle")

	// ErrInvalidField is returned for an out-of-range column index or an
	// unknown column name.
	ErrInvalidField = errors.New("invalid field")

	// ErrInvalidScalar is returned by DB.ExecScalar when the query produced
	// no row or no columns.
	ErrInvalidScalar = errors.New("invalid scalar query")
)

// Error is an engine-reported failure: a non-OK result code together with
// the engine's message and a phrase describing which operation failed.
// It is what the default error handler returns.
type Error struct {
	Code    int
	Message string
	Context string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s[%d]: %s", CodeString(e.Code), e.Code, e.Message)
}

func invalidFieldIndex(index int) error {
	return fmt.Errorf("%w: index %d out of range", ErrInvalidField, index)
}

func invalidFieldName(name string) error {
	return fmt.Errorf("%w: no column named %q", ErrInvalidField, name)
}
