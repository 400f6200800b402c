package gosqlite

import (
	"runtime"

	"github.com/neosmart/gosqlite/internal/sqlitec"
)

// Query is a cursor over a result set, positioned either on a row or at end
// of data. The column count is cached at construction.
//
// A Query produced by DB.ExecQuery owns the underlying compiled handle and
// finalizes it; one produced by Stmt.ExecQuery borrows the statement's
// handle and must not. Ownership is exclusive and only transferable with
// Move.
type Query struct {
	config  config
	stmt    *sqlitec.Stmt
	eof     bool
	numCols int
	owned   bool
}

func newQuery(cfg config, raw *sqlitec.Stmt, eof bool, owned bool) *Query {
	query := &Query{
		config:  cfg,
		stmt:    raw,
		eof:     eof,
		numCols: raw.ColumnCount(),
		owned:   owned,
	}
	runtime.SetFinalizer(query, finalizeLeakedQuery)
	return query
}

// detachedQuery returns a cursor with no handle, as produced after a routed
// failure when the error handler recovered. Every accessor on it fails with
// ErrNullHandle.
func detachedQuery() *Query {
	return &Query{eof: true}
}

func finalizeLeakedQuery(query *Query) {
	if !query.owned || !query.stmt.Valid() {
		return
	}
	if code := query.stmt.Finalize(); code != sqlitec.OK {
		query.config.log(LevelError, "error finalizing leaked query: "+CodeString(code)+": "+query.config.conn.ErrMsg())
	}
}

// NumFields returns the number of columns in the result set.
func (query *Query) NumFields() (int, error) {
	if !query.stmt.Valid() {
		return 0, ErrNullHandle
	}
	return query.numCols, nil
}

// FieldIndex resolves a column name to its index with a case-sensitive
// linear scan. Unknown names fail with ErrInvalidField.
func (query *Query) FieldIndex(name string) (int, error) {
	if !query.stmt.Valid() {
		return 0, ErrNullHandle
	}
	for field := 0; field < query.numCols; field++ {
		if query.stmt.ColumnName(field) == name {
			return field, nil
		}
	}
	return 0, invalidFieldName(name)
}

// FieldName returns the name of the column at the given index.
func (query *Query) FieldName(field int) (string, error) {
	if err := query.checkField(field); err != nil {
		return "", err
	}
	return query.stmt.ColumnName(field), nil
}

// FieldDeclType returns the declared type of the column at the given index,
// or "" for columns not directly backed by a table column.
func (query *Query) FieldDeclType(field int) (string, error) {
	if err := query.checkField(field); err != nil {
		return "", err
	}
	return query.stmt.ColumnDeclType(field), nil
}

// FieldDataType returns the fundamental datatype (Type* constant) of the
// value at the given index in the current row.
func (query *Query) FieldDataType(field int) (int, error) {
	if err := query.checkField(field); err != nil {
		return 0, err
	}
	return query.stmt.ColumnType(field), nil
}

// FieldValue returns the text representation of the value at the given
// index in the current row.
func (query *Query) FieldValue(field int) (string, error) {
	if err := query.checkField(field); err != nil {
		return "", err
	}
	return query.stmt.ColumnText(field), nil
}

// FieldValueByName is FieldValue keyed by column name.
func (query *Query) FieldValueByName(name string) (string, error) {
	field, err := query.FieldIndex(name)
	if err != nil {
		return "", err
	}
	return query.FieldValue(field)
}

// GetIntField returns the value at the given index as an int, or nullValue
// when the column holds NULL.
func (query *Query) GetIntField(field int, nullValue int) (int, error) {
	dataType, err := query.FieldDataType(field)
	if err != nil {
		return 0, err
	}
	if dataType == TypeNull {
		return nullValue, nil
	}
	return query.stmt.ColumnInt(field), nil
}

// GetIntFieldByName is GetIntField keyed by column name.
func (query *Query) GetIntFieldByName(name string, nullValue int) (int, error) {
	field, err := query.FieldIndex(name)
	if err != nil {
		return 0, err
	}
	return query.GetIntField(field, nullValue)
}

// GetInt64Field returns the value at the given index as an int64, or
// nullValue when the column holds NULL.
func (query *Query) GetInt64Field(field int, nullValue int64) (int64, error) {
	dataType, err := query.FieldDataType(field)
	if err != nil {
		return 0, err
	}
	if dataType == TypeNull {
		return nullValue, nil
	}
	return query.stmt.ColumnInt64(field), nil
}

// GetInt64FieldByName is GetInt64Field keyed by column name.
func (query *Query) GetInt64FieldByName(name string, nullValue int64) (int64, error) {
	field, err := query.FieldIndex(name)
	if err != nil {
		return 0, err
	}
	return query.GetInt64Field(field, nullValue)
}

// GetFloatField returns the value at the given index as a float64, or
// nullValue when the column holds NULL.
func (query *Query) GetFloatField(field int, nullValue float64) (float64, error) {
	dataType, err := query.FieldDataType(field)
	if err != nil {
		return 0, err
	}
	if dataType == TypeNull {
		return nullValue, nil
	}
	return query.stmt.ColumnFloat64(field), nil
}

// GetFloatFieldByName is GetFloatField keyed by column name.
func (query *Query) GetFloatFieldByName(name string, nullValue float64) (float64, error) {
	field, err := query.FieldIndex(name)
	if err != nil {
		return 0, err
	}
	return query.GetFloatField(field, nullValue)
}

// GetStringField returns the value at the given index as a string, or
// nullValue when the column holds NULL.
func (query *Query) GetStringField(field int, nullValue string) (string, error) {
	dataType, err := query.FieldDataType(field)
	if err != nil {
		return "", err
	}
	if dataType == TypeNull {
		return nullValue, nil
	}
	return query.stmt.ColumnText(field), nil
}

// GetStringFieldByName is GetStringField keyed by column name.
func (query *Query) GetStringFieldByName(name string, nullValue string) (string, error) {
	field, err := query.FieldIndex(name)
	if err != nil {
		return "", err
	}
	return query.GetStringField(field, nullValue)
}

// GetBlobField returns the value at the given index as a byte slice, nil
// when the column holds NULL.
func (query *Query) GetBlobField(field int) ([]byte, error) {
	if err := query.checkField(field); err != nil {
		return nil, err
	}
	return query.stmt.ColumnBlob(field), nil
}

// GetBlobFieldByName is GetBlobField keyed by column name.
func (query *Query) GetBlobFieldByName(name string) ([]byte, error) {
	field, err := query.FieldIndex(name)
	if err != nil {
		return nil, err
	}
	return query.GetBlobField(field)
}

// FieldIsNull reports whether the value at the given index in the current
// row is NULL.
func (query *Query) FieldIsNull(field int) (bool, error) {
	dataType, err := query.FieldDataType(field)
	if err != nil {
		return false, err
	}
	return dataType == TypeNull, nil
}

// FieldIsNullByName is FieldIsNull keyed by column name.
func (query *Query) FieldIsNullByName(name string) (bool, error) {
	field, err := query.FieldIndex(name)
	if err != nil {
		return false, err
	}
	return query.FieldIsNull(field)
}

// EOF reports whether the cursor has stepped past the last row.
func (query *Query) EOF() (bool, error) {
	if !query.stmt.Valid() {
		return false, ErrNullHandle
	}
	return query.eof, nil
}

// NextRow steps the cursor. Completion sets end of data; a ready row leaves
// the cursor positioned on it. On any other status an owned handle is
// finalized before the error is routed, so a failed cursor never leaks.
func (query *Query) NextRow() error {
	if !query.stmt.Valid() {
		return ErrNullHandle
	}
	// Stepping a completed statement would auto-reset and re-run it, so a
	// cursor at end of data stays parked there.
	if query.eof {
		return nil
	}

	switch code := query.stmt.Step(); code {
	case sqlitec.Done:
		query.eof = true
		return nil
	case sqlitec.Row:
		return nil
	default:
		if query.owned {
			query.stmt.Finalize()
		}
		return query.config.route(code, "when getting next row")
	}
}

// Finalize releases the handle if this cursor owns it. It is idempotent;
// borrowed handles are left for the owning statement to release.
func (query *Query) Finalize() error {
	if !query.owned || !query.stmt.Valid() {
		return nil
	}
	if code := query.stmt.Finalize(); code != sqlitec.OK {
		return query.config.route(code, "during finalize")
	}
	return nil
}

// Move transfers the handle (and its ownership flag) to the returned cursor
// and detaches the receiver. Any further access on the receiver fails with
// ErrNullHandle; two live cursors never share a handle.
func (query *Query) Move() *Query {
	moved := &Query{
		config:  query.config,
		stmt:    query.stmt,
		eof:     query.eof,
		numCols: query.numCols,
		owned:   query.owned,
	}
	runtime.SetFinalizer(moved, finalizeLeakedQuery)
	query.stmt = nil
	return moved
}

func (query *Query) checkField(field int) error {
	if !query.stmt.Valid() {
		return ErrNullHandle
	}
	if field < 0 || field > query.numCols-1 {
		return invalidFieldIndex(field)
	}
	return nil
}
