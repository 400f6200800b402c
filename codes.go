package gosqlite

import "github.com/neosmart/gosqlite/internal/sqlitec"

// SQLite result codes, as reported to error handlers and carried by *Error.
//
// https://www.sqlite.org/rescode.html
const (
	CodeOK         = sqlitec.OK
	CodeError      = sqlitec.Error
	CodeInternal   = sqlitec.Internal
	CodePerm       = sqlitec.Perm
	CodeAbort      = sqlitec.Abort
	CodeBusy       = sqlitec.Busy
	CodeLocked     = sqlitec.Locked
	CodeNoMem      = sqlitec.NoMem
	CodeReadOnly   = sqlitec.ReadOnly
	CodeInterrupt  = sqlitec.Interrupt
	CodeIOErr      = sqlitec.IOErr
	CodeCorrupt    = sqlitec.Corrupt
	CodeNotFound   = sqlitec.NotFound
	CodeFull       = sqlitec.Full
	CodeCantOpen   = sqlitec.CantOpen
	CodeProtocol   = sqlitec.Protocol
	CodeEmpty      = sqlitec.Empty
	CodeSchema     = sqlitec.Schema
	CodeTooBig     = sqlitec.TooBig
	CodeConstraint = sqlitec.Constraint
	CodeMismatch   = sqlitec.Mismatch
	CodeMisuse     = sqlitec.Misuse
	CodeNoLFS      = sqlitec.NoLFS
	CodeAuth       = sqlitec.Auth
	CodeFormat     = sqlitec.Format
	CodeRange      = sqlitec.Range
	CodeRow        = sqlitec.Row
	CodeDone       = sqlitec.Done
)

// Flags accepted by Open. DefaultOpenFlags matches the engine's classic
// open-or-create behavior.
const (
	OpenReadOnly  = sqlitec.OpenReadOnly
	OpenReadWrite = sqlitec.OpenReadWrite
	OpenCreate    = sqlitec.OpenCreate
	OpenURI       = sqlitec.OpenURI
	OpenMemory    = sqlitec.OpenMemory

	DefaultOpenFlags = OpenReadWrite | OpenCreate
)

// Checkpoint modes accepted by DB.PerformCheckpoint.
const (
	CheckpointPassive  = sqlitec.CheckpointPassive
	CheckpointFull     = sqlitec.CheckpointFull
	CheckpointRestart  = sqlitec.CheckpointRestart
	CheckpointTruncate = sqlitec.CheckpointTruncate
)

// Fundamental column datatypes returned by Query.FieldDataType.
const (
	TypeInteger = sqlitec.TypeInteger
	TypeFloat   = sqlitec.TypeFloat
	TypeText    = sqlitec.TypeText
	TypeBlob    = sqlitec.TypeBlob
	TypeNull    = sqlitec.TypeNull
)

// CodeString returns the symbolic SQLite name for a result code, or
// "UNKNOWN_ERROR" for codes this layer does not know about.
func CodeString(code int) string {
	switch code {
	case CodeOK:
		return "SQLITE_OK"
	case CodeError:
		return "SQLITE_ERROR"
	case CodeInternal:
		return "SQLITE_INTERNAL"
	case CodePerm:
		return "SQLITE_PERM"
	case CodeAbort:
		return "SQLITE_ABORT"
	case CodeBusy:
		return "SQLITE_BUSY"
	case CodeLocked:
		return "SQLITE_LOCKED"
	case CodeNoMem:
		return "SQLITE_NOMEM"
	case CodeReadOnly:
		return "SQLITE_READONLY"
	case CodeInterrupt:
		return "SQLITE_INTERRUPT"
	case CodeIOErr:
		return "SQLITE_IOERR"
	case CodeCorrupt:
		return "SQLITE_CORRUPT"
	case CodeNotFound:
		return "SQLITE_NOTFOUND"
	case CodeFull:
		return "SQLITE_FULL"
	case CodeCantOpen:
		return "SQLITE_CANTOPEN"
	case CodeProtocol:
		return "SQLITE_PROTOCOL"
	case CodeEmpty:
		return "SQLITE_EMPTY"
	case CodeSchema:
		return "SQLITE_SCHEMA"
	case CodeTooBig:
		return "SQLITE_TOOBIG"
	case CodeConstraint:
		return "SQLITE_CONSTRAINT"
	case CodeMismatch:
		return "SQLITE_MISMATCH"
	case CodeMisuse:
		return "SQLITE_MISUSE"
	case CodeNoLFS:
		return "SQLITE_NOLFS"
	case CodeAuth:
		return "SQLITE_AUTH"
	case CodeFormat:
		return "SQLITE_FORMAT"
	case CodeRange:
		return "SQLITE_RANGE"
	case CodeRow:
		return "SQLITE_ROW"
	case CodeDone:
		return "SQLITE_DONE"
	default:
		return "UNKNOWN_ERROR"
	}
}

// SQLiteVersion returns the version string of the linked SQLite library.
func SQLiteVersion() string {
	return sqlitec.LibVersion()
}

// FormatQuoted substitutes value into format using the engine's own
// sqlite3_mprintf, so %Q and %q produce correctly escaped SQL literals.
func FormatQuoted(format string, value string) string {
	return sqlitec.FormatQuoted(format, value)
}
