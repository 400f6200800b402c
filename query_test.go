package gosqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func seedQueryTable(t *testing.T) *DB {
	t.Helper()
	db := openMemoryDB(t)

	_, err := db.ExecDML("CREATE TABLE emp (empno INTEGER, empname VARCHAR(20), salary REAL, photo BLOB)")
	assert.NoError(t, err)
	_, err = db.ExecDML("INSERT INTO emp VALUES (7, 'David Beckham', 9.95, x'010203')")
	assert.NoError(t, err)
	_, err = db.ExecDML("INSERT INTO emp VALUES (8, 'Mike Tyson', 4.5, NULL)")
	assert.NoError(t, err)
	_, err = db.ExecDML("INSERT INTO emp VALUES (9, NULL, NULL, NULL)")
	assert.NoError(t, err)

	return db
}

func TestQuery(t *testing.T) {
	t.Run("Iteration", func(t *testing.T) {
		db := seedQueryTable(t)

		query, err := db.ExecQuery("SELECT empno FROM emp ORDER BY empno")
		assert.NoError(t, err)
		defer query.Finalize()

		var got []int
		for {
			eof, err := query.EOF()
			assert.NoError(t, err)
			if eof {
				break
			}
			value, err := query.GetIntField(0, 0)
			assert.NoError(t, err)
			got = append(got, value)
			assert.NoError(t, query.NextRow())
		}
		assert.Equal(t, []int{7, 8, 9}, got)
	})

	t.Run("EmptyResultIsEOFImmediately", func(t *testing.T) {
		db := seedQueryTable(t)

		query, err := db.ExecQuery("SELECT * FROM emp WHERE empno = 999")
		assert.NoError(t, err)
		defer query.Finalize()

		eof, err := query.EOF()
		assert.NoError(t, err)
		assert.True(t, eof)
	})

	t.Run("NextRowAtEOFStaysParked", func(t *testing.T) {
		db := seedQueryTable(t)

		query, err := db.ExecQuery("SELECT empno FROM emp WHERE empno = 7")
		assert.NoError(t, err)
		defer query.Finalize()

		assert.NoError(t, query.NextRow())
		eof, err := query.EOF()
		assert.NoError(t, err)
		assert.True(t, eof)

		// Further steps stay at end of data instead of re-running the
		// query.
		assert.NoError(t, query.NextRow())
		assert.NoError(t, query.NextRow())
		eof, err = query.EOF()
		assert.NoError(t, err)
		assert.True(t, eof)
	})

	t.Run("FieldMetadata", func(t *testing.T) {
		db := seedQueryTable(t)

		query, err := db.ExecQuery("SELECT empno, empname, salary, photo FROM emp ORDER BY empno")
		assert.NoError(t, err)
		defer query.Finalize()

		numFields, err := query.NumFields()
		assert.NoError(t, err)
		assert.Equal(t, 4, numFields)

		name, err := query.FieldName(1)
		assert.NoError(t, err)
		assert.Equal(t, "empname", name)

		declType, err := query.FieldDeclType(1)
		assert.NoError(t, err)
		assert.Equal(t, "VARCHAR(20)", declType)

		dataType, err := query.FieldDataType(0)
		assert.NoError(t, err)
		assert.Equal(t, TypeInteger, dataType)

		dataType, err = query.FieldDataType(3)
		assert.NoError(t, err)
		assert.Equal(t, TypeBlob, dataType)
	})

	t.Run("FieldIndex", func(t *testing.T) {
		db := seedQueryTable(t)

		query, err := db.ExecQuery("SELECT empno, empname FROM emp")
		assert.NoError(t, err)
		defer query.Finalize()

		idx, err := query.FieldIndex("empname")
		assert.NoError(t, err)
		assert.Equal(t, 1, idx)

		_, err = query.FieldIndex("nope")
		assert.ErrorIs(t, err, ErrInvalidField)

		// The scan is case-sensitive.
		_, err = query.FieldIndex("EMPNAME")
		assert.ErrorIs(t, err, ErrInvalidField)
	})

	t.Run("FieldIndexOutOfRange", func(t *testing.T) {
		db := seedQueryTable(t)

		query, err := db.ExecQuery("SELECT empno FROM emp")
		assert.NoError(t, err)
		defer query.Finalize()

		_, err = query.FieldValue(-1)
		assert.ErrorIs(t, err, ErrInvalidField)

		_, err = query.FieldValue(1)
		assert.ErrorIs(t, err, ErrInvalidField)

		_, err = query.GetBlobField(5)
		assert.ErrorIs(t, err, ErrInvalidField)
	})

	t.Run("NullSubstitutes", func(t *testing.T) {
		db := seedQueryTable(t)

		query, err := db.ExecQuery("SELECT empno, empname, salary, photo FROM emp WHERE empno = 9")
		assert.NoError(t, err)
		defer query.Finalize()

		name, err := query.GetStringFieldByName("empname", "[NULL]")
		assert.NoError(t, err)
		assert.Equal(t, "[NULL]", name)

		salary, err := query.GetFloatFieldByName("salary", -1)
		assert.NoError(t, err)
		assert.Equal(t, float64(-1), salary)

		photo, err := query.GetBlobFieldByName("photo")
		assert.NoError(t, err)
		assert.Nil(t, photo)

		isNull, err := query.FieldIsNullByName("empname")
		assert.NoError(t, err)
		assert.True(t, isNull)

		isNull, err = query.FieldIsNull(0)
		assert.NoError(t, err)
		assert.False(t, isNull)
	})

	t.Run("ByNameAccessors", func(t *testing.T) {
		db := seedQueryTable(t)

		query, err := db.ExecQuery("SELECT empno, empname, salary, photo FROM emp WHERE empno = 7")
		assert.NoError(t, err)
		defer query.Finalize()

		empno, err := query.GetIntFieldByName("empno", 0)
		assert.NoError(t, err)
		assert.Equal(t, 7, empno)

		empno64, err := query.GetInt64FieldByName("empno", 0)
		assert.NoError(t, err)
		assert.Equal(t, int64(7), empno64)

		name, err := query.GetStringFieldByName("empname", "")
		assert.NoError(t, err)
		assert.Equal(t, "David Beckham", name)

		salary, err := query.GetFloatFieldByName("salary", 0)
		assert.NoError(t, err)
		assert.Equal(t, 9.95, salary)

		photo, err := query.GetBlobFieldByName("photo")
		assert.NoError(t, err)
		assert.Equal(t, []byte{1, 2, 3}, photo)

		value, err := query.FieldValueByName("empno")
		assert.NoError(t, err)
		assert.Equal(t, "7", value)
	})

	t.Run("FinalizeIsIdempotent", func(t *testing.T) {
		db := seedQueryTable(t)

		query, err := db.ExecQuery("SELECT * FROM emp")
		assert.NoError(t, err)
		assert.NoError(t, query.Finalize())
		assert.NoError(t, query.Finalize())

		_, err = query.NumFields()
		assert.ErrorIs(t, err, ErrNullHandle)
		_, err = query.EOF()
		assert.ErrorIs(t, err, ErrNullHandle)
		assert.ErrorIs(t, query.NextRow(), ErrNullHandle)
	})

	t.Run("BorrowedCursorDoesNotFinalize", func(t *testing.T) {
		db := seedQueryTable(t)

		stmt, err := db.CompileStatement("SELECT empno FROM emp ORDER BY empno")
		assert.NoError(t, err)
		defer stmt.Finalize()

		query, err := stmt.ExecQuery()
		assert.NoError(t, err)

		// Finalize on a borrowed cursor is a no-op; the statement still
		// owns a live handle.
		assert.NoError(t, query.Finalize())
		assert.NoError(t, stmt.Reset())

		query, err = stmt.ExecQuery()
		assert.NoError(t, err)
		value, err := query.GetIntField(0, 0)
		assert.NoError(t, err)
		assert.Equal(t, 7, value)
	})

	t.Run("Move", func(t *testing.T) {
		db := seedQueryTable(t)

		query, err := db.ExecQuery("SELECT empno FROM emp ORDER BY empno")
		assert.NoError(t, err)

		moved := query.Move()
		defer moved.Finalize()

		_, err = query.GetIntField(0, 0)
		assert.ErrorIs(t, err, ErrNullHandle)

		value, err := moved.GetIntField(0, 0)
		assert.NoError(t, err)
		assert.Equal(t, 7, value)
		assert.NoError(t, moved.NextRow())
		value, err = moved.GetIntField(0, 0)
		assert.NoError(t, err)
		assert.Equal(t, 8, value)
	})
}
