package sqlitec

/*
#cgo pkg-config: sqlite3

#include <stdlib.h>
#include <sqlite3.h>

static int cust_sqlite3_bind_text(sqlite3_stmt *stmt, int idx, const char *value, int n) {
	return sqlite3_bind_text(stmt, idx, value, n, SQLITE_TRANSIENT);
}

static int cust_sqlite3_bind_blob(sqlite3_stmt *stmt, int idx, const void *value, int n) {
	return sqlite3_bind_blob(stmt, idx, value, n, SQLITE_TRANSIENT);
}

static char *cust_sqlite3_mprintf_q(const char *format, const char *value) {
	return sqlite3_mprintf(format, value);
}
*/
import "C"
import (
	"unsafe"
)

// Result codes returned by the SQLite engine.
//
// https://www.sqlite.org/rescode.html
const (
	OK         = C.SQLITE_OK
	Error      = C.SQLITE_ERROR
	Internal   = C.SQLITE_INTERNAL
	Perm       = C.SQLITE_PERM
	Abort      = C.SQLITE_ABORT
	Busy       = C.SQLITE_BUSY
	Locked     = C.SQLITE_LOCKED
	NoMem      = C.SQLITE_NOMEM
	ReadOnly   = C.SQLITE_READONLY
	Interrupt  = C.SQLITE_INTERRUPT
	IOErr      = C.SQLITE_IOERR
	Corrupt    = C.SQLITE_CORRUPT
	NotFound   = C.SQLITE_NOTFOUND
	Full       = C.SQLITE_FULL
	CantOpen   = C.SQLITE_CANTOPEN
	Protocol   = C.SQLITE_PROTOCOL
	Empty      = C.SQLITE_EMPTY
	Schema     = C.SQLITE_SCHEMA
	TooBig     = C.SQLITE_TOOBIG
	Constraint = C.SQLITE_CONSTRAINT
	Mismatch   = C.SQLITE_MISMATCH
	Misuse     = C.SQLITE_MISUSE
	NoLFS      = C.SQLITE_NOLFS
	Auth       = C.SQLITE_AUTH
	Format     = C.SQLITE_FORMAT
	Range      = C.SQLITE_RANGE
	Row        = C.SQLITE_ROW
	Done       = C.SQLITE_DONE
)

// Flags accepted by OpenV2.
//
// https://www.sqlite.org/c3ref/c_open_autoproxy.html
const (
	OpenReadOnly  = C.SQLITE_OPEN_READONLY
	OpenReadWrite = C.SQLITE_OPEN_READWRITE
	OpenCreate    = C.SQLITE_OPEN_CREATE
	OpenURI       = C.SQLITE_OPEN_URI
	OpenMemory    = C.SQLITE_OPEN_MEMORY
	OpenNoMutex   = C.SQLITE_OPEN_NOMUTEX
	OpenFullMutex = C.SQLITE_OPEN_FULLMUTEX
)

// Checkpoint modes accepted by WalCheckpoint.
//
// https://www.sqlite.org/c3ref/c_checkpoint_full.html
const (
	CheckpointPassive  = C.SQLITE_CHECKPOINT_PASSIVE
	CheckpointFull     = C.SQLITE_CHECKPOINT_FULL
	CheckpointRestart  = C.SQLITE_CHECKPOINT_RESTART
	CheckpointTruncate = C.SQLITE_CHECKPOINT_TRUNCATE
)

// Fundamental column datatypes.
//
// https://www.sqlite.org/c3ref/c_blob.html
const (
	TypeInteger = C.SQLITE_INTEGER
	TypeFloat   = C.SQLITE_FLOAT
	TypeText    = C.SQLITE_TEXT
	TypeBlob    = C.SQLITE_BLOB
	TypeNull    = C.SQLITE_NULL
)

// Conn represents a connection to a SQLite database.
//
// https://www.sqlite.org/c3ref/sqlite3.html
type Conn struct {
	cDB *C.sqlite3
}

// Stmt represents a prepared statement in SQLite.
//
// https://www.sqlite.org/c3ref/stmt.html
type Stmt struct {
	conn  *Conn
	cStmt *C.sqlite3_stmt
}

// OpenV2 opens a new SQLite database connection using the given path and
// SQLITE_OPEN_* flags.
//
// The returned Conn is never nil. On a non-OK code it may still wrap a live
// native handle; SQLite allocates one for error reporting on most failures
// and the caller is responsible for closing it.
//
// https://www.sqlite.org/c3ref/open.html
func OpenV2(filePath string, flags int) (*Conn, int) {
	cFilePath := C.CString(filePath)
	defer C.free(unsafe.Pointer(cFilePath))

	var db *C.sqlite3
	resCode := C.sqlite3_open_v2(cFilePath, &db, C.int(flags), nil)
	return &Conn{cDB: db}, int(resCode)
}

// LibVersion returns the version string of the linked SQLite library.
//
// https://www.sqlite.org/c3ref/libversion.html
func LibVersion() string {
	return C.GoString(C.sqlite3_libversion())
}

// Valid reports whether the connection wraps a live native handle.
func (conn *Conn) Valid() bool {
	return conn != nil && conn.cDB != nil
}

// ErrMsg returns the most recent engine error message for this connection.
//
// https://www.sqlite.org/c3ref/errcode.html
func (conn *Conn) ErrMsg() string {
	if !conn.Valid() {
		return "database connection is nil"
	}
	return C.GoString(C.sqlite3_errmsg(conn.cDB))
}

// Close closes the connection with sqlite3_close.
//
// The plain close variant is used on purpose: it fails with SQLITE_BUSY when
// prepared statements are still unfinalized, leaving the handle usable so the
// caller can finalize them and retry. The handle is nulled only on OK.
//
// https://www.sqlite.org/c3ref/close.html
func (conn *Conn) Close() int {
	if conn.cDB == nil {
		return OK
	}

	resCode := C.sqlite3_close(conn.cDB)
	if resCode == C.SQLITE_OK {
		conn.cDB = nil
	}
	return int(resCode)
}

// Exec executes the given SQL from start to finish without returning rows.
// On a non-OK code the engine's error message is returned alongside it.
//
// https://www.sqlite.org/c3ref/exec.html
func (conn *Conn) Exec(query string) (int, string) {
	cQuery := C.CString(query)
	defer C.free(unsafe.Pointer(cQuery))

	var cErrMsg *C.char
	resCode := C.sqlite3_exec(conn.cDB, cQuery, nil, nil, &cErrMsg)
	if resCode == C.SQLITE_OK {
		return OK, ""
	}

	errMsg := ""
	if cErrMsg != nil {
		errMsg = C.GoString(cErrMsg)
		C.sqlite3_free(unsafe.Pointer(cErrMsg))
	} else {
		errMsg = conn.ErrMsg()
	}
	return int(resCode), errMsg
}

// Prepare compiles the given SQL query into a prepared statement.
//
// The returned Stmt may wrap a nil native handle when the code is non-OK.
//
// https://www.sqlite.org/c3ref/prepare.html
func (conn *Conn) Prepare(query string) (*Stmt, int) {
	cQuery := C.CString(query)
	defer C.free(unsafe.Pointer(cQuery))

	var cStmt *C.sqlite3_stmt
	resCode := C.sqlite3_prepare_v3(conn.cDB, cQuery, C.int(-1), 0, &cStmt, nil)
	return &Stmt{conn: conn, cStmt: cStmt}, int(resCode)
}

// LastInsertRowID returns the row ID of the most recent successful INSERT
// into the database from the current connection.
//
// https://www.sqlite.org/c3ref/last_insert_rowid.html
func (conn *Conn) LastInsertRowID() int64 {
	return int64(C.sqlite3_last_insert_rowid(conn.cDB))
}

// Changes returns the number of rows modified, inserted, or deleted by the
// most recent successful INSERT, UPDATE, or DELETE statement from the
// current connection.
//
// https://www.sqlite.org/c3ref/changes.html
func (conn *Conn) Changes() int {
	return int(C.sqlite3_changes(conn.cDB))
}

// BusyTimeout sets the engine's built-in busy handler to retry for the given
// number of milliseconds before surfacing SQLITE_BUSY.
//
// https://www.sqlite.org/c3ref/busy_timeout.html
func (conn *Conn) BusyTimeout(ms int) int {
	return int(C.sqlite3_busy_timeout(conn.cDB, C.int(ms)))
}

// Interrupt causes the next in-flight engine operation on this connection to
// fail with SQLITE_INTERRUPT. Safe to call from another goroutine.
//
// https://www.sqlite.org/c3ref/interrupt.html
func (conn *Conn) Interrupt() {
	C.sqlite3_interrupt(conn.cDB)
}

// WalCheckpoint runs a write-ahead-log checkpoint on the named attached
// database ("" or "main" for the main database) using one of the
// Checkpoint* modes.
//
// https://www.sqlite.org/c3ref/wal_checkpoint_v2.html
func (conn *Conn) WalCheckpoint(dbName string, mode int) int {
	var cName *C.char
	if dbName != "" {
		cName = C.CString(dbName)
		defer C.free(unsafe.Pointer(cName))
	}
	return int(C.sqlite3_wal_checkpoint_v2(conn.cDB, cName, C.int(mode), nil, nil))
}

// FormatQuoted renders format with sqlite3_mprintf, substituting value for a
// single %Q verb. The engine's own quoting makes the result safe to embed in
// SQL text.
//
// https://www.sqlite.org/printf.html
func FormatQuoted(format string, value string) string {
	cFormat := C.CString(format)
	defer C.free(unsafe.Pointer(cFormat))
	cValue := C.CString(value)
	defer C.free(unsafe.Pointer(cValue))

	cResult := C.cust_sqlite3_mprintf_q(cFormat, cValue)
	defer C.sqlite3_free(unsafe.Pointer(cResult))
	return C.GoString(cResult)
}

// Valid reports whether the statement wraps a live native handle.
func (stmt *Stmt) Valid() bool {
	return stmt != nil && stmt.cStmt != nil
}

// Conn returns the connection this statement was compiled against.
func (stmt *Stmt) Conn() *Conn {
	return stmt.conn
}

// ReadOnly returns true if the given SQL query is read-only.
//
// https://www.sqlite.org/c3ref/stmt_readonly.html
func (stmt *Stmt) ReadOnly() bool {
	return C.sqlite3_stmt_readonly(stmt.cStmt) != 0
}

// ExpandedSQL returns the statement's SQL text with bound parameter values
// substituted in place of the placeholders.
//
// https://www.sqlite.org/c3ref/expanded_sql.html
func (stmt *Stmt) ExpandedSQL() string {
	cSQL := C.sqlite3_expanded_sql(stmt.cStmt)
	if cSQL == nil {
		return ""
	}
	defer C.sqlite3_free(unsafe.Pointer(cSQL))
	return C.GoString(cSQL)
}

// BindParameterCount returns the index of the largest parameter placeholder
// in the statement.
//
// https://www.sqlite.org/c3ref/bind_parameter_count.html
func (stmt *Stmt) BindParameterCount() int {
	return int(C.sqlite3_bind_parameter_count(stmt.cStmt))
}

// BindInt binds an int parameter at the given 1-based index.
//
// https://www.sqlite.org/c3ref/bind_blob.html
func (stmt *Stmt) BindInt(index int, value int) int {
	return int(C.sqlite3_bind_int(stmt.cStmt, C.int(index), C.int(value)))
}

// BindInt64 binds an int64 parameter at the given 1-based index.
//
// https://www.sqlite.org/c3ref/bind_blob.html
func (stmt *Stmt) BindInt64(index int, value int64) int {
	return int(C.sqlite3_bind_int64(stmt.cStmt, C.int(index), C.sqlite3_int64(value)))
}

// BindFloat64 binds a float64 parameter at the given 1-based index.
//
// https://www.sqlite.org/c3ref/bind_blob.html
func (stmt *Stmt) BindFloat64(index int, value float64) int {
	return int(C.sqlite3_bind_double(stmt.cStmt, C.int(index), C.double(value)))
}

// BindText binds a string parameter at the given 1-based index. The value is
// copied into engine-owned storage (SQLITE_TRANSIENT).
//
// https://www.sqlite.org/c3ref/bind_blob.html
func (stmt *Stmt) BindText(index int, value string) int {
	cStr := C.CString(value)
	defer C.free(unsafe.Pointer(cStr))

	return int(C.cust_sqlite3_bind_text(stmt.cStmt, C.int(index), cStr, C.int(-1)))
}

// BindBlob binds a byte slice parameter at the given 1-based index. The data
// is copied into engine-owned storage (SQLITE_TRANSIENT). An empty slice is
// bound as a zero-length blob.
//
// https://www.sqlite.org/c3ref/bind_blob.html
func (stmt *Stmt) BindBlob(index int, data []byte) int {
	if len(data) == 0 {
		return int(C.cust_sqlite3_bind_blob(stmt.cStmt, C.int(index), unsafe.Pointer(&placeholderByte), C.int(0)))
	}
	return int(C.cust_sqlite3_bind_blob(stmt.cStmt, C.int(index), unsafe.Pointer(&data[0]), C.int(len(data))))
}

// placeholderByte gives zero-length blob binds a valid pointer to copy from.
var placeholderByte byte

// BindNull binds a NULL value at the given 1-based index.
//
// https://www.sqlite.org/c3ref/bind_blob.html
func (stmt *Stmt) BindNull(index int) int {
	return int(C.sqlite3_bind_null(stmt.cStmt, C.int(index)))
}

// Step advances the statement, returning SQLITE_ROW when a row is ready,
// SQLITE_DONE when the statement has finished, or an error code.
//
// https://www.sqlite.org/c3ref/step.html
func (stmt *Stmt) Step() int {
	return int(C.sqlite3_step(stmt.cStmt))
}

// Reset re-arms a stepped statement for a new execution cycle. Bound
// parameter slots keep their values.
//
// https://www.sqlite.org/c3ref/reset.html
func (stmt *Stmt) Reset() int {
	return int(C.sqlite3_reset(stmt.cStmt))
}

// Finalize frees the resources associated with this statement and nulls the
// native handle. Finalizing an already finalized statement returns OK.
//
// https://www.sqlite.org/c3ref/finalize.html
func (stmt *Stmt) Finalize() int {
	if stmt.cStmt == nil {
		return OK
	}

	resCode := C.sqlite3_finalize(stmt.cStmt)
	stmt.cStmt = nil
	return int(resCode)
}

// ColumnCount returns the number of columns in the statement's result set.
//
// https://www.sqlite.org/c3ref/column_count.html
func (stmt *Stmt) ColumnCount() int {
	return int(C.sqlite3_column_count(stmt.cStmt))
}

// ColumnName returns the name of the column at the given index.
//
// https://www.sqlite.org/c3ref/column_name.html
func (stmt *Stmt) ColumnName(colIndex int) string {
	return C.GoString(C.sqlite3_column_name(stmt.cStmt, C.int(colIndex)))
}

// ColumnDeclType returns the declared type of the column at the given index,
// or "" when the column is not directly backed by a table column.
//
// https://www.sqlite.org/c3ref/column_decltype.html
func (stmt *Stmt) ColumnDeclType(colIndex int) string {
	return C.GoString(C.sqlite3_column_decltype(stmt.cStmt, C.int(colIndex)))
}

// ColumnType returns the fundamental datatype (Type* constant) of the value
// in the current row at the given index.
//
// https://www.sqlite.org/c3ref/column_blob.html
func (stmt *Stmt) ColumnType(colIndex int) int {
	return int(C.sqlite3_column_type(stmt.cStmt, C.int(colIndex)))
}

// ColumnInt returns the column value at the given index as int.
//
// https://www.sqlite.org/c3ref/column_blob.html
func (stmt *Stmt) ColumnInt(colIndex int) int {
	return int(C.sqlite3_column_int(stmt.cStmt, C.int(colIndex)))
}

// ColumnInt64 returns the column value at the given index as int64.
//
// https://www.sqlite.org/c3ref/column_blob.html
func (stmt *Stmt) ColumnInt64(colIndex int) int64 {
	return int64(C.sqlite3_column_int64(stmt.cStmt, C.int(colIndex)))
}

// ColumnFloat64 returns the column value at the given index as float64.
//
// https://www.sqlite.org/c3ref/column_blob.html
func (stmt *Stmt) ColumnFloat64(colIndex int) float64 {
	return float64(C.sqlite3_column_double(stmt.cStmt, C.int(colIndex)))
}

// ColumnText returns the column value at the given index as a string.
//
// https://www.sqlite.org/c3ref/column_blob.html
func (stmt *Stmt) ColumnText(colIndex int) string {
	text := (*C.char)(unsafe.Pointer(C.sqlite3_column_text(stmt.cStmt, C.int(colIndex))))
	if text == nil {
		return ""
	}
	length := C.sqlite3_column_bytes(stmt.cStmt, C.int(colIndex))
	return C.GoStringN(text, length)
}

// ColumnBlob returns the column value at the given index as a byte slice.
//
// https://www.sqlite.org/c3ref/column_blob.html
func (stmt *Stmt) ColumnBlob(colIndex int) []byte {
	size := C.sqlite3_column_bytes(stmt.cStmt, C.int(colIndex))
	if size <= 0 {
		return nil
	}
	dataPtr := C.sqlite3_column_blob(stmt.cStmt, C.int(colIndex))
	if dataPtr == nil {
		return nil
	}
	return C.GoBytes(dataPtr, size)
}
