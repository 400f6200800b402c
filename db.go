package gosqlite

import (
	"runtime"
	"strconv"

	"github.com/neosmart/gosqlite/internal/sqlitec"
)

// DefaultBusyTimeoutMs is applied to every connection after a successful
// Open unless overridden with SetBusyTimeout.
const DefaultBusyTimeoutMs = 60_000

// DB owns a native database handle and produces prepared statements and
// result cursors against it. The zero value is not usable; create instances
// with New or Open.
type DB struct {
	config        config
	busyTimeoutMs int
}

// New returns a closed DB with the default policies installed. A leaked open
// DB is closed by the garbage collector with any failure funneled to the log
// handler, but callers should Close deterministically.
func New() *DB {
	db := &DB{busyTimeoutMs: DefaultBusyTimeoutMs}
	runtime.SetFinalizer(db, finalizeLeakedDB)
	return db
}

// Open creates a DB and opens path with the given flags in one step.
func Open(path string, flags int) (*DB, error) {
	db := New()
	if err := db.Open(path, flags); err != nil {
		return nil, err
	}
	return db, nil
}

func finalizeLeakedDB(db *DB) {
	if !db.config.conn.Valid() {
		return
	}
	if code := db.config.conn.Close(); code != sqlitec.OK {
		db.config.log(LevelError, "error closing leaked database: "+CodeString(code)+": "+db.config.conn.ErrMsg())
	}
}

// Open attaches a native handle for path, opened with the given SQLITE_OPEN_*
// flags (use DefaultOpenFlags for read-write-create). It fails with
// ErrAlreadyOpen while a handle exists.
//
// On an engine failure the handle is kept as the engine returned it, which
// may be non-nil; Close releases it. The stored busy timeout is applied
// whenever the engine leaves a usable handle behind.
func (db *DB) Open(path string, flags int) error {
	if db.config.conn.Valid() {
		return ErrAlreadyOpen
	}

	conn, code := sqlitec.OpenV2(path, flags)
	db.config.conn = conn
	if code != sqlitec.OK {
		if err := db.config.routeMessage(code, conn.ErrMsg(), "when opening "+path); err != nil {
			return err
		}
	}

	db.SetBusyTimeout(db.busyTimeoutMs)
	return nil
}

// Close releases the native handle. It is a no-op when already closed.
//
// Closing fails with SQLITE_BUSY while statements compiled against this
// connection remain unfinalized; the handle is left attached in that case so
// the caller can finalize them and retry.
func (db *DB) Close() error {
	if !db.config.conn.Valid() {
		return nil
	}
	if code := db.config.conn.Close(); code != sqlitec.OK {
		return db.config.route(code, "when closing connection")
	}
	return nil
}

// IsOpen reports whether the connection holds a native handle.
func (db *DB) IsOpen() bool {
	return db.config.conn.Valid()
}

// SetErrorHandler installs the error policy for this DB and for children
// created from now on. Existing statements and cursors keep the policy they
// were created with.
func (db *DB) SetErrorHandler(handler ErrorHandler) {
	db.config.errorHandler = handler
}

// SetLogHandler installs the log sink for this DB and for children created
// from now on.
func (db *DB) SetLogHandler(handler LogHandler) {
	db.config.logHandler = handler
}

// EnableVerboseLogging toggles statement tracing for this DB and for
// children created from now on.
func (db *DB) EnableVerboseLogging(enable bool) {
	db.config.verbose = enable
}

// SetBusyTimeout stores the busy timeout and applies it to the open handle.
// While closed, the value is remembered and applied on the next Open.
func (db *DB) SetBusyTimeout(ms int) {
	db.busyTimeoutMs = ms
	if db.config.conn.Valid() {
		db.config.conn.BusyTimeout(ms)
	}
}

// LastRowID returns the rowid of the most recent successful insert on this
// connection.
func (db *DB) LastRowID() int64 {
	return db.config.conn.LastInsertRowID()
}

// Interrupt causes the next in-flight engine operation on this connection to
// fail with SQLITE_INTERRUPT.
func (db *DB) Interrupt() {
	db.config.conn.Interrupt()
}

// ExecDML executes sql from start to finish and returns the number of rows
// changed. Use it for statements that produce no result rows.
func (db *DB) ExecDML(sql string) (int, error) {
	if !db.config.conn.Valid() {
		return 0, ErrNotOpen
	}

	db.config.log(LevelVerbose, sql)

	code, errMsg := db.config.conn.Exec(sql)
	if code != sqlitec.OK {
		return 0, db.config.routeMessage(code, errMsg, "when executing DML query")
	}
	return db.config.conn.Changes(), nil
}

// ExecQuery compiles and steps sql once, returning a cursor that owns the
// compiled handle: at end when the statement produced no rows, positioned on
// the first row otherwise. On any other status the handle is finalized
// before the error is routed.
func (db *DB) ExecQuery(sql string) (*Query, error) {
	stmt, err := db.compile(sql)
	if err != nil {
		return nil, err
	}
	if !stmt.Valid() {
		// The error handler recovered from a compile failure.
		return detachedQuery(), nil
	}

	switch code := stmt.Step(); code {
	case sqlitec.Done:
		return newQuery(db.config, stmt, true, true), nil
	case sqlitec.Row:
		return newQuery(db.config, stmt, false, true), nil
	default:
		stmt.Finalize()
		return detachedQuery(), db.config.route(code, "when evaluating query")
	}
}

// ExecScalar runs sql and returns the first column of the first row parsed
// as an integer. Queries that produce no row or no columns fail with
// ErrInvalidScalar.
//
// The text is coerced with C atoi semantics: leading whitespace and an
// optional sign are consumed, parsing stops at the first non-digit, and
// non-numeric text yields 0.
func (db *DB) ExecScalar(sql string) (int, error) {
	query, err := db.ExecQuery(sql)
	if err != nil {
		return 0, err
	}
	defer func() { _ = query.Finalize() }()

	eof, err := query.EOF()
	if err != nil {
		return 0, err
	}
	numFields, err := query.NumFields()
	if err != nil {
		return 0, err
	}
	if eof || numFields < 1 {
		return 0, ErrInvalidScalar
	}

	value, err := query.FieldValue(0)
	if err != nil {
		return 0, err
	}
	return atoi(value), nil
}

// TableExists reports whether a table with the given name exists in the main
// database. The name is escaped with the engine's own %Q quoting, never
// concatenated raw.
func (db *DB) TableExists(table string) (bool, error) {
	sql := sqlitec.FormatQuoted(
		"select count(*) from sqlite_master where type='table' and name=%Q", table,
	)
	count, err := db.ExecScalar(sql)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CompileStatement compiles sql into a prepared statement that owns the
// freshly compiled handle across repeated bind/execute/reset cycles.
func (db *DB) CompileStatement(sql string) (*Stmt, error) {
	stmt, err := db.compile(sql)
	if err != nil {
		return nil, err
	}
	return newStmt(db.config, stmt), nil
}

// PerformCheckpoint runs a write-ahead-log checkpoint on the named attached
// database ("" for main) using one of the Checkpoint* modes.
func (db *DB) PerformCheckpoint(dbName string, mode int) error {
	if !db.config.conn.Valid() {
		return ErrNotOpen
	}
	if code := db.config.conn.WalCheckpoint(dbName, mode); code != sqlitec.OK {
		return db.config.route(code, "when performing checkpoint")
	}
	return nil
}

// compile asks the engine to prepare sql. On an engine failure the error is
// routed; if the handler recovers, the returned statement may wrap a nil
// handle.
func (db *DB) compile(sql string) (*sqlitec.Stmt, error) {
	if !db.config.conn.Valid() {
		return nil, ErrNotOpen
	}

	db.config.log(LevelVerbose, sql)

	stmt, code := db.config.conn.Prepare(sql)
	if code != sqlitec.OK {
		return stmt, db.config.route(code, "when compiling statement")
	}
	return stmt, nil
}

// atoi mirrors C atoi: optional leading whitespace and sign, then digits up
// to the first non-digit. Malformed input parses as 0.
func atoi(s string) int {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\v' || s[i] == '\f' || s[i] == '\r') {
		i++
	}
	start := i
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	end := i
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}

	n, err := strconv.Atoi(s[start:end])
	if err != nil {
		return 0
	}
	return n
}
