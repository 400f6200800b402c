package gosqlite

import (
	"runtime"

	"github.com/neosmart/gosqlite/internal/sqlitec"
)

// Stmt owns a compiled statement handle across repeated bind/execute/reset
// cycles. It must be finalized exactly once; Finalize is idempotent and a
// leaked Stmt is finalized by the garbage collector with any failure
// funneled to the log handler.
type Stmt struct {
	config config
	stmt   *sqlitec.Stmt
}

func newStmt(cfg config, raw *sqlitec.Stmt) *Stmt {
	stmt := &Stmt{config: cfg, stmt: raw}
	runtime.SetFinalizer(stmt, finalizeLeakedStmt)
	return stmt
}

func finalizeLeakedStmt(stmt *Stmt) {
	if !stmt.stmt.Valid() {
		return
	}
	if code := stmt.stmt.Finalize(); code != sqlitec.OK {
		stmt.config.log(LevelError, "error finalizing leaked statement: "+CodeString(code)+": "+stmt.config.conn.ErrMsg())
	}
}

// BindText binds a string at the given 1-based parameter index. The value is
// copied into engine-owned storage, so the bind stays valid however long
// execution is deferred.
func (stmt *Stmt) BindText(index int, value string) error {
	if !stmt.stmt.Valid() {
		return ErrNullHandle
	}
	return stmt.checkCode(stmt.stmt.BindText(index, value), "when binding string param")
}

// BindInt binds an int at the given 1-based parameter index.
func (stmt *Stmt) BindInt(index int, value int) error {
	if !stmt.stmt.Valid() {
		return ErrNullHandle
	}
	return stmt.checkCode(stmt.stmt.BindInt(index, value), "when binding int param")
}

// BindInt64 binds an int64 at the given 1-based parameter index.
func (stmt *Stmt) BindInt64(index int, value int64) error {
	if !stmt.stmt.Valid() {
		return ErrNullHandle
	}
	return stmt.checkCode(stmt.stmt.BindInt64(index, value), "when binding int64 param")
}

// BindFloat64 binds a float64 at the given 1-based parameter index.
func (stmt *Stmt) BindFloat64(index int, value float64) error {
	if !stmt.stmt.Valid() {
		return ErrNullHandle
	}
	return stmt.checkCode(stmt.stmt.BindFloat64(index, value), "when binding double param")
}

// BindBlob binds a byte slice at the given 1-based parameter index. The data
// is copied into engine-owned storage.
func (stmt *Stmt) BindBlob(index int, data []byte) error {
	if !stmt.stmt.Valid() {
		return ErrNullHandle
	}
	return stmt.checkCode(stmt.stmt.BindBlob(index, data), "when binding blob param")
}

// BindNull binds NULL at the given 1-based parameter index.
func (stmt *Stmt) BindNull(index int) error {
	if !stmt.stmt.Valid() {
		return ErrNullHandle
	}
	return stmt.checkCode(stmt.stmt.BindNull(index), "when binding NULL param")
}

// ExecDML steps the statement to completion, returns the number of rows
// changed, and resets the handle so the next bind/execute cycle can reuse
// it.
func (stmt *Stmt) ExecDML() (int, error) {
	if !stmt.config.conn.Valid() {
		return 0, ErrNotOpen
	}
	if !stmt.stmt.Valid() {
		return 0, ErrNullHandle
	}

	stmt.config.log(LevelVerbose, stmt.stmt.ExpandedSQL())

	if code := stmt.stmt.Step(); code == sqlitec.Done {
		rowsChanged := stmt.config.conn.Changes()
		if resetCode := stmt.stmt.Reset(); resetCode != sqlitec.OK {
			return rowsChanged, stmt.config.route(resetCode, "when getting number of rows changed")
		}
		return rowsChanged, nil
	}

	resetCode := stmt.stmt.Reset()
	return 0, stmt.config.route(resetCode, "when executing DML statement")
}

// ExecQuery steps the statement once and returns a cursor over the result:
// at end when no rows were produced, positioned on the first row otherwise.
//
// The cursor borrows the handle; ownership stays with the statement, which
// remains responsible for the eventual reset or finalize. On a step failure
// the handle is reset before the error is routed.
func (stmt *Stmt) ExecQuery() (*Query, error) {
	if !stmt.config.conn.Valid() {
		return nil, ErrNotOpen
	}
	if !stmt.stmt.Valid() {
		return nil, ErrNullHandle
	}

	stmt.config.log(LevelVerbose, stmt.stmt.ExpandedSQL())

	switch code := stmt.stmt.Step(); code {
	case sqlitec.Done:
		return newQuery(stmt.config, stmt.stmt, true, false), nil
	case sqlitec.Row:
		return newQuery(stmt.config, stmt.stmt, false, false), nil
	default:
		resetCode := stmt.stmt.Reset()
		return detachedQuery(), stmt.config.route(resetCode, "when evaluating query")
	}
}

// Reset re-arms a stepped statement for a new bind/execute cycle. Bound
// parameter slots keep their values.
func (stmt *Stmt) Reset() error {
	if !stmt.stmt.Valid() {
		return nil
	}
	return stmt.checkCode(stmt.stmt.Reset(), "when resetting statement")
}

// Finalize releases the compiled handle. It is idempotent; afterwards every
// operation on the statement fails with ErrNullHandle.
func (stmt *Stmt) Finalize() error {
	if !stmt.stmt.Valid() {
		return nil
	}
	return stmt.checkCode(stmt.stmt.Finalize(), "when finalizing statement")
}

// ReadOnly reports whether the compiled statement cannot modify the
// database.
func (stmt *Stmt) ReadOnly() (bool, error) {
	if !stmt.stmt.Valid() {
		return false, ErrNullHandle
	}
	return stmt.stmt.ReadOnly(), nil
}

// Move transfers ownership of the compiled handle to the returned statement
// and detaches the receiver. Any further operation on the receiver fails
// with ErrNullHandle. Exactly one of the two is ever responsible for the
// finalize.
func (stmt *Stmt) Move() *Stmt {
	moved := newStmt(stmt.config, stmt.stmt)
	stmt.stmt = nil
	return moved
}

func (stmt *Stmt) checkCode(code int, context string) error {
	if code != sqlitec.OK {
		return stmt.config.route(code, context)
	}
	return nil
}
