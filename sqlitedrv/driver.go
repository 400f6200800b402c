// Package sqlitedrv provides a database/sql/driver implementation on top of
// the gosqlite façade.
//
// This package exists to take advantage of the connection pooling provided
// by database/sql. Each driver connection wraps its own gosqlite.DB, so the
// façade's single-threaded contract is upheld by the pool handing a
// connection to one goroutine at a time.
package sqlitedrv

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"io"
	"time"

	"github.com/neosmart/gosqlite"
)

var (
	_ driver.Driver    = (*Driver)(nil)
	_ driver.Connector = (*Connector)(nil)
	_ driver.Conn      = (*Conn)(nil)
	_ driver.Stmt      = (*Stmt)(nil)
	_ driver.Rows      = (*Rows)(nil)
	_ driver.Tx        = (*Tx)(nil)
)

func init() {
	sql.Register("gosqlite", &Driver{})
}

// Driver implements the database/sql/driver interface
type Driver struct{}

// Open creates a new connection to the SQLite database
func (drv *Driver) Open(dsn string) (driver.Conn, error) {
	connector := NewConnector(dsn)
	return connector.Connect(context.Background())
}

type connectorOption func(*Connector)

// WithPostConnectQueries sets a slice of queries to be executed after a
// connection is established
func WithPostConnectQueries(queries []string) connectorOption {
	return func(connector *Connector) {
		connector.postConnectQueries = queries
	}
}

// WithOpenFlags overrides the SQLITE_OPEN_* flags used for new connections
func WithOpenFlags(flags int) connectorOption {
	return func(connector *Connector) {
		connector.openFlags = flags
	}
}

// Connector implements the database/sql/driver.Connector interface
type Connector struct {
	dsn                string
	openFlags          int
	postConnectQueries []string
}

// NewConnector creates a new connector to the SQLite database
func NewConnector(dsn string, options ...connectorOption) driver.Connector {
	connector := &Connector{
		dsn:       dsn,
		openFlags: gosqlite.DefaultOpenFlags,
	}

	for _, option := range options {
		option(connector)
	}

	return connector
}

// Connect creates a new connection to the SQLite database
func (connector *Connector) Connect(_ context.Context) (driver.Conn, error) {
	db, err := gosqlite.Open(connector.dsn, connector.openFlags)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection: %w", err)
	}

	for _, query := range connector.postConnectQueries {
		if _, err := db.ExecDML(query); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf(`failed to execute "%s" post-connect query: %w`, query, err)
		}
	}

	return &Conn{db: db}, nil
}

// Driver returns the driver
func (connector *Connector) Driver() driver.Driver {
	return &Driver{}
}

// Conn implements the database/sql/driver.Conn interface
type Conn struct {
	db *gosqlite.DB
}

// RawDB returns the underlying gosqlite database handle
func (conn *Conn) RawDB() *gosqlite.DB {
	return conn.db
}

// Close closes the connection to the SQLite database
func (conn *Conn) Close() error {
	if err := conn.db.Close(); err != nil {
		return fmt.Errorf("failed to close connection: %w", err)
	}
	return nil
}

// Prepare compiles the query into a reusable prepared statement
func (conn *Conn) Prepare(query string) (driver.Stmt, error) {
	stmt, err := conn.db.CompileStatement(query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}
	return &Stmt{db: conn.db, stmt: stmt}, nil
}

// Exec runs argument-less statements without a prepared statement. This
// covers statements such as PRAGMA that report rows even when executed for
// their side effects.
func (conn *Conn) Exec(query string, args []driver.Value) (driver.Result, error) {
	if len(args) > 0 {
		return nil, driver.ErrSkip
	}
	rows, err := conn.db.ExecDML(query)
	if err != nil {
		return nil, err
	}
	return &execResult{lastInsertID: conn.db.LastRowID(), rowsAffected: int64(rows)}, nil
}

// Begin starts a deferred transaction
func (conn *Conn) Begin() (driver.Tx, error) {
	if _, err := conn.db.ExecDML("BEGIN"); err != nil {
		return nil, err
	}
	return &Tx{db: conn.db}, nil
}

// Tx implements the database/sql/driver.Tx interface
type Tx struct {
	db *gosqlite.DB
}

func (tx *Tx) Commit() error {
	_, err := tx.db.ExecDML("COMMIT")
	return err
}

func (tx *Tx) Rollback() error {
	_, err := tx.db.ExecDML("ROLLBACK")
	return err
}

// Stmt implements the database/sql/driver.Stmt interface
type Stmt struct {
	db   *gosqlite.DB
	stmt *gosqlite.Stmt
}

// Close finalizes the prepared statement
func (stmt *Stmt) Close() error {
	return stmt.stmt.Finalize()
}

// NumInput reports the parameter count as unknown, leaving argument
// validation to the engine's bind calls.
func (stmt *Stmt) NumInput() int {
	return -1
}

// Exec runs the statement as DML and resets it for reuse
func (stmt *Stmt) Exec(args []driver.Value) (driver.Result, error) {
	if err := stmt.bindAll(args); err != nil {
		return nil, err
	}

	rowsAffected, err := stmt.stmt.ExecDML()
	if err != nil {
		return nil, err
	}

	return &execResult{
		lastInsertID: stmt.db.LastRowID(),
		rowsAffected: int64(rowsAffected),
	}, nil
}

// Query runs the statement and returns a cursor over its rows
func (stmt *Stmt) Query(args []driver.Value) (driver.Rows, error) {
	if err := stmt.bindAll(args); err != nil {
		return nil, err
	}

	query, err := stmt.stmt.ExecQuery()
	if err != nil {
		return nil, err
	}

	return &Rows{stmt: stmt.stmt, query: query}, nil
}

func (stmt *Stmt) bindAll(args []driver.Value) error {
	for idx, arg := range args {
		if err := stmt.bind(idx+1, arg); err != nil {
			return fmt.Errorf("failed to bind arg %d: %w", idx+1, err)
		}
	}
	return nil
}

func (stmt *Stmt) bind(index int, arg driver.Value) error {
	switch value := arg.(type) {
	case nil:
		return stmt.stmt.BindNull(index)
	case int64:
		return stmt.stmt.BindInt64(index, value)
	case float64:
		return stmt.stmt.BindFloat64(index, value)
	case bool:
		if value {
			return stmt.stmt.BindInt(index, 1)
		}
		return stmt.stmt.BindInt(index, 0)
	case string:
		return stmt.stmt.BindText(index, value)
	case []byte:
		return stmt.stmt.BindBlob(index, value)
	case time.Time:
		return stmt.stmt.BindText(index, value.Format(time.RFC3339Nano))
	default:
		return fmt.Errorf("unsupported bind type %T", arg)
	}
}

// execResult implements the database/sql/driver.Result interface
type execResult struct {
	lastInsertID int64
	rowsAffected int64
}

func (res *execResult) LastInsertId() (int64, error) {
	return res.lastInsertID, nil
}

func (res *execResult) RowsAffected() (int64, error) {
	return res.rowsAffected, nil
}

// Rows implements the database/sql/driver.Rows interface on top of a cursor
// that borrows the statement's handle. Closing the rows resets the
// statement instead of finalizing it, so the prepared statement stays
// reusable.
type Rows struct {
	stmt      *gosqlite.Stmt
	query     *gosqlite.Query
	delivered bool
}

// Columns returns the result column names
func (rows *Rows) Columns() []string {
	numFields, err := rows.query.NumFields()
	if err != nil {
		return nil
	}

	columns := make([]string, numFields)
	for idx := range columns {
		name, err := rows.query.FieldName(idx)
		if err != nil {
			return nil
		}
		columns[idx] = name
	}
	return columns
}

// Next scans the current row into dest and advances the cursor
func (rows *Rows) Next(dest []driver.Value) error {
	eof, err := rows.query.EOF()
	if err != nil {
		return err
	}

	// The cursor is already positioned on the first row when it exists, so
	// only advance once a row has been handed out.
	if rows.delivered && !eof {
		if err := rows.query.NextRow(); err != nil {
			return err
		}
		eof, err = rows.query.EOF()
		if err != nil {
			return err
		}
	}

	if eof {
		return io.EOF
	}

	for idx := range dest {
		value, err := rows.columnValue(idx)
		if err != nil {
			return err
		}
		dest[idx] = value
	}
	rows.delivered = true
	return nil
}

func (rows *Rows) columnValue(idx int) (driver.Value, error) {
	dataType, err := rows.query.FieldDataType(idx)
	if err != nil {
		return nil, err
	}

	switch dataType {
	case gosqlite.TypeInteger:
		return rows.query.GetInt64Field(idx, 0)
	case gosqlite.TypeFloat:
		return rows.query.GetFloatField(idx, 0)
	case gosqlite.TypeText:
		return rows.query.GetStringField(idx, "")
	case gosqlite.TypeBlob:
		return rows.query.GetBlobField(idx)
	default:
		return nil, nil
	}
}

// Close resets the owning statement so it can be executed again
func (rows *Rows) Close() error {
	return rows.stmt.Reset()
}
