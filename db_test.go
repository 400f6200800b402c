package gosqlite

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func openMemoryDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:", DefaultOpenFlags)
	assert.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestDB(t *testing.T) {
	t.Run("OpenClose", func(t *testing.T) {
		db := New()
		assert.False(t, db.IsOpen())

		assert.NoError(t, db.Open(":memory:", DefaultOpenFlags))
		assert.True(t, db.IsOpen())

		assert.NoError(t, db.Close())
		assert.False(t, db.IsOpen())
	})

	t.Run("CloseIsIdempotent", func(t *testing.T) {
		db := openMemoryDB(t)
		assert.NoError(t, db.Close())
		assert.NoError(t, db.Close())
	})

	t.Run("OpenTwiceFails", func(t *testing.T) {
		db := openMemoryDB(t)
		err := db.Open(":memory:", DefaultOpenFlags)
		assert.ErrorIs(t, err, ErrAlreadyOpen)
	})

	t.Run("ReopenAfterClose", func(t *testing.T) {
		db := openMemoryDB(t)
		assert.NoError(t, db.Close())
		assert.NoError(t, db.Open(":memory:", DefaultOpenFlags))
		assert.True(t, db.IsOpen())
	})

	t.Run("OpenMissingFileReadOnly", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing.db")

		db := New()
		err := db.Open(path, OpenReadOnly)
		assert.Error(t, err)

		var sqlErr *Error
		assert.ErrorAs(t, err, &sqlErr)
		assert.Equal(t, CodeCantOpen, sqlErr.Code)
		assert.Equal(t, "when opening "+path, sqlErr.Context)
		assert.Contains(t, err.Error(), "SQLITE_CANTOPEN")

		// The failed open still leaves a handle attached for error
		// reporting; Close releases it.
		assert.True(t, db.IsOpen())
		assert.NoError(t, db.Close())
	})

	t.Run("OperationsOnClosedDB", func(t *testing.T) {
		db := New()

		_, err := db.ExecDML("CREATE TABLE t (id INTEGER)")
		assert.ErrorIs(t, err, ErrNotOpen)

		_, err = db.ExecQuery("SELECT 1")
		assert.ErrorIs(t, err, ErrNotOpen)

		_, err = db.ExecScalar("SELECT 1")
		assert.ErrorIs(t, err, ErrNotOpen)

		_, err = db.CompileStatement("SELECT 1")
		assert.ErrorIs(t, err, ErrNotOpen)

		assert.ErrorIs(t, db.PerformCheckpoint("", CheckpointPassive), ErrNotOpen)
	})

	t.Run("ExecDML", func(t *testing.T) {
		db := openMemoryDB(t)

		rows, err := db.ExecDML("CREATE TABLE test (id INTEGER PRIMARY KEY, val TEXT)")
		assert.NoError(t, err)
		assert.Equal(t, 0, rows)

		rows, err = db.ExecDML("INSERT INTO test (val) VALUES ('a'), ('b'), ('c')")
		assert.NoError(t, err)
		assert.Equal(t, 3, rows)
		assert.Equal(t, int64(3), db.LastRowID())

		rows, err = db.ExecDML("UPDATE test SET val='x' WHERE id > 1")
		assert.NoError(t, err)
		assert.Equal(t, 2, rows)

		rows, err = db.ExecDML("DELETE FROM test WHERE id = 999")
		assert.NoError(t, err)
		assert.Equal(t, 0, rows)
	})

	t.Run("ExecDMLSyntaxError", func(t *testing.T) {
		db := openMemoryDB(t)

		_, err := db.ExecDML("NOT A STATEMENT")
		assert.Error(t, err)

		var sqlErr *Error
		assert.ErrorAs(t, err, &sqlErr)
		assert.Equal(t, CodeError, sqlErr.Code)
		assert.Equal(t, "when executing DML query", sqlErr.Context)
	})

	t.Run("ExecScalar", func(t *testing.T) {
		db := openMemoryDB(t)

		value, err := db.ExecScalar("SELECT 42")
		assert.NoError(t, err)
		assert.Equal(t, 42, value)

		// Text that does not parse as an integer coerces to 0.
		value, err = db.ExecScalar("SELECT 'some text'")
		assert.NoError(t, err)
		assert.Equal(t, 0, value)

		_, err = db.ExecScalar("SELECT 1 WHERE 1 = 0")
		assert.ErrorIs(t, err, ErrInvalidScalar)
	})

	t.Run("TableExists", func(t *testing.T) {
		db := openMemoryDB(t)

		exists, err := db.TableExists("emp")
		assert.NoError(t, err)
		assert.False(t, exists)

		_, err = db.ExecDML("CREATE TABLE emp (empno INTEGER, empname TEXT)")
		assert.NoError(t, err)

		exists, err = db.TableExists("emp")
		assert.NoError(t, err)
		assert.True(t, exists)

		// The name goes through %Q quoting, so a hostile name is inert.
		exists, err = db.TableExists("emp'; DROP TABLE emp; --")
		assert.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("CloseWithUnfinalizedStmtIsBusy", func(t *testing.T) {
		db := openMemoryDB(t)

		_, err := db.ExecDML("CREATE TABLE busy (id INTEGER PRIMARY KEY)")
		assert.NoError(t, err)

		stmt, err := db.CompileStatement("SELECT * FROM busy")
		assert.NoError(t, err)

		err = db.Close()
		assert.Error(t, err)
		var sqlErr *Error
		assert.ErrorAs(t, err, &sqlErr)
		assert.Equal(t, CodeBusy, sqlErr.Code)
		assert.Equal(t, "when closing connection", sqlErr.Context)
		assert.True(t, db.IsOpen())

		assert.NoError(t, stmt.Finalize())
		assert.NoError(t, db.Close())
	})

	t.Run("ErrorHandlerRecovery", func(t *testing.T) {
		db := openMemoryDB(t)

		var seenCode int
		var seenContext string
		db.SetErrorHandler(func(code int, message string, context string) error {
			seenCode = code
			seenContext = context
			return nil
		})

		rows, err := db.ExecDML("NOT A STATEMENT")
		assert.NoError(t, err)
		assert.Equal(t, 0, rows)
		assert.Equal(t, CodeError, seenCode)
		assert.Equal(t, "when executing DML query", seenContext)
	})

	t.Run("ErrorHandlerCustomError", func(t *testing.T) {
		db := openMemoryDB(t)

		sentinel := errors.New("boom")
		db.SetErrorHandler(func(code int, message string, context string) error {
			return sentinel
		})

		_, err := db.ExecDML("NOT A STATEMENT")
		assert.ErrorIs(t, err, sentinel)
	})

	t.Run("HandlerCapturedAtChildCreation", func(t *testing.T) {
		db := openMemoryDB(t)

		_, err := db.ExecDML("CREATE TABLE cap (val TEXT)")
		assert.NoError(t, err)

		stmt, err := db.CompileStatement("INSERT INTO cap VALUES (?)")
		assert.NoError(t, err)
		defer stmt.Finalize()

		var called bool
		db.SetErrorHandler(func(code int, message string, context string) error {
			called = true
			return nil
		})

		// The statement keeps the handler it was created with, so the
		// bind failure still surfaces as the default *Error.
		err = stmt.BindText(2, "nope")
		assert.Error(t, err)
		var sqlErr *Error
		assert.ErrorAs(t, err, &sqlErr)
		assert.Equal(t, CodeRange, sqlErr.Code)
		assert.False(t, called)

		// A child created after the swap uses the new handler.
		replaced, err := db.CompileStatement("INSERT INTO cap VALUES (?)")
		assert.NoError(t, err)
		defer replaced.Finalize()

		assert.NoError(t, replaced.BindText(2, "nope"))
		assert.True(t, called)
	})

	t.Run("BusyTimeoutRememberedWhileClosed", func(t *testing.T) {
		db := New()
		db.SetBusyTimeout(1234)

		assert.NoError(t, db.Open(":memory:", DefaultOpenFlags))
		defer db.Close()

		value, err := db.ExecScalar("PRAGMA busy_timeout")
		assert.NoError(t, err)
		assert.Equal(t, 1234, value)

		// Setting it on an open connection applies immediately.
		db.SetBusyTimeout(500)
		value, err = db.ExecScalar("PRAGMA busy_timeout")
		assert.NoError(t, err)
		assert.Equal(t, 500, value)
	})

	t.Run("InterruptAbortsRunningQuery", func(t *testing.T) {
		db := openMemoryDB(t)

		go func() {
			time.Sleep(100 * time.Millisecond)
			db.Interrupt()
		}()

		_, err := db.ExecScalar(`
			WITH RECURSIVE c(x) AS (SELECT 1 UNION ALL SELECT x+1 FROM c LIMIT 1000000000)
			SELECT count(*) FROM c`)
		assert.Error(t, err)

		var sqlErr *Error
		assert.ErrorAs(t, err, &sqlErr)
		assert.Equal(t, CodeInterrupt, sqlErr.Code)
	})

	t.Run("VerboseLogging", func(t *testing.T) {
		db := openMemoryDB(t)

		var messages []string
		db.SetLogHandler(func(level Level, message string) {
			if level == LevelVerbose {
				messages = append(messages, message)
			}
		})

		_, err := db.ExecDML("CREATE TABLE vl (id INTEGER)")
		assert.NoError(t, err)
		assert.Empty(t, messages)

		db.EnableVerboseLogging(true)
		_, err = db.ExecDML("INSERT INTO vl VALUES (1)")
		assert.NoError(t, err)
		assert.Equal(t, []string{"INSERT INTO vl VALUES (1)"}, messages)

		db.EnableVerboseLogging(false)
		_, err = db.ExecDML("INSERT INTO vl VALUES (2)")
		assert.NoError(t, err)
		assert.Len(t, messages, 1)
	})

	t.Run("PerformCheckpoint", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "wal.db")
		db, err := Open(path, DefaultOpenFlags)
		assert.NoError(t, err)
		defer db.Close()

		_, err = db.ExecDML("PRAGMA journal_mode = WAL")
		assert.NoError(t, err)
		_, err = db.ExecDML("CREATE TABLE cp (id INTEGER PRIMARY KEY)")
		assert.NoError(t, err)

		assert.NoError(t, db.PerformCheckpoint("main", CheckpointTruncate))
	})

	t.Run("PersistsAcrossConnections", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "persist.db")
		value := uuid.NewString()

		db, err := Open(path, DefaultOpenFlags)
		assert.NoError(t, err)
		_, err = db.ExecDML("CREATE TABLE p (val TEXT)")
		assert.NoError(t, err)
		_, err = db.ExecDML(FormatQuoted("INSERT INTO p VALUES (%Q)", value))
		assert.NoError(t, err)
		assert.NoError(t, db.Close())

		db, err = Open(path, OpenReadOnly)
		assert.NoError(t, err)
		defer db.Close()

		query, err := db.ExecQuery("SELECT val FROM p")
		assert.NoError(t, err)
		got, err := query.GetStringField(0, "")
		assert.NoError(t, err)
		assert.Equal(t, value, got)
		assert.NoError(t, query.Finalize())
	})

	t.Run("EndToEnd", func(t *testing.T) {
		db := openMemoryDB(t)

		_, err := db.ExecDML("CREATE TABLE t (ID INT, INFO TEXT)")
		assert.NoError(t, err)
		rows, err := db.ExecDML("INSERT INTO t VALUES (42, 'some text')")
		assert.NoError(t, err)
		assert.Equal(t, 1, rows)

		query, err := db.ExecQuery("SELECT * FROM t")
		assert.NoError(t, err)
		defer query.Finalize()

		id, err := query.GetIntFieldByName("ID", 0)
		assert.NoError(t, err)
		assert.Equal(t, 42, id)

		info, err := query.GetStringFieldByName("INFO", "")
		assert.NoError(t, err)
		assert.Equal(t, "some text", info)

		assert.NoError(t, query.NextRow())
		eof, err := query.EOF()
		assert.NoError(t, err)
		assert.True(t, eof)
	})

	t.Run("SQLiteVersion", func(t *testing.T) {
		assert.NotEmpty(t, SQLiteVersion())
	})
}

func TestCodeString(t *testing.T) {
	assert.Equal(t, "SQLITE_OK", CodeString(CodeOK))
	assert.Equal(t, "SQLITE_BUSY", CodeString(CodeBusy))
	assert.Equal(t, "SQLITE_DONE", CodeString(CodeDone))
	assert.Equal(t, "UNKNOWN_ERROR", CodeString(-1))
}

func TestAtoi(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"42", 42},
		{"-7", -7},
		{"+5", 5},
		{"  19", 19},
		{"\t\n12", 12},
		{"3.9", 3},
		{"64abc", 64},
		{"some text", 0},
		{"", 0},
		{"-", 0},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, atoi(c.in), "atoi(%q)", c.in)
	}
}
