package shell

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/neosmart/gosqlite"
)

func cmdQuery(r *Repl, input string) {
	tw := newTableWriter()
	start := time.Now()

	stmt, err := r.db.CompileStatement(input)
	if err != nil {
		renderError(tw, err)
		return
	}
	defer func() { _ = stmt.Finalize() }()

	readOnly, err := stmt.ReadOnly()
	if err != nil {
		renderError(tw, err)
		return
	}

	if readOnly {
		runRead(r, tw, stmt)
	} else {
		runWrite(r, tw, stmt)
	}

	dimmedColor().Printf("Took %s\n", time.Since(start).Round(time.Microsecond))
	fmt.Println()
}

func runWrite(r *Repl, tw table.Writer, stmt *gosqlite.Stmt) {
	rows, err := stmt.ExecDML()
	if err != nil {
		renderError(tw, err)
		return
	}

	tw.AppendHeader(table.Row{"-", "Rows Affected", "Last Insert ID"})
	tw.AppendRow(table.Row{"OK", rows, r.db.LastRowID()})
	fmt.Println(tw.Render())
}

func runRead(r *Repl, tw table.Writer, stmt *gosqlite.Stmt) {
	query, err := stmt.ExecQuery()
	if err != nil {
		renderError(tw, err)
		return
	}

	numFields, err := query.NumFields()
	if err != nil {
		renderError(tw, err)
		return
	}

	if numFields == 0 {
		tw.AppendHeader(table.Row{"OK"})
		tw.AppendRow(table.Row{"OK"})
		fmt.Println(tw.Render())
		return
	}

	header := table.Row{}
	for idx := 0; idx < numFields; idx++ {
		name, err := query.FieldName(idx)
		if err != nil {
			renderError(tw, err)
			return
		}
		header = append(header, name)
	}
	tw.AppendHeader(header)

	for {
		eof, err := query.EOF()
		if err != nil {
			renderError(tw, err)
			return
		}
		if eof {
			break
		}

		row := table.Row{}
		for idx := 0; idx < numFields; idx++ {
			isNull, err := query.FieldIsNull(idx)
			if err != nil {
				renderError(tw, err)
				return
			}
			if isNull {
				row = append(row, "NULL")
				continue
			}

			value, err := query.FieldValue(idx)
			if err != nil {
				renderError(tw, err)
				return
			}
			row = append(row, value)
		}
		tw.AppendRow(row)

		if err := query.NextRow(); err != nil {
			renderError(tw, err)
			return
		}
	}

	fmt.Println(tw.Render())
}

func cmdCount(r *Repl, tableName string) {
	if tableName == "" {
		fmt.Println("Usage: .count [table_name]")
		return
	}
	cmdQuery(r, fmt.Sprintf("SELECT COUNT(*) AS count FROM %s", tableName))
}

func renderError(tw table.Writer, err error) {
	tw.AppendHeader(table.Row{"Error"})
	tw.AppendRow(table.Row{err.Error()})
	fmt.Println(tw.Render())
}
