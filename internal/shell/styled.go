package shell

import (
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// newTableWriter returns a table.Writer with the custom styles for the
// gosqlite shell.
func newTableWriter() table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.Style().Format.Header = text.FormatDefault
	tw.Style().Color.Header = text.Colors{text.FgCyan, text.Bold}
	tw.Style().Color.Footer = text.Colors{text.FgCyan, text.Bold}

	return tw
}

// dimmedColor returns a dimmed *color.Color to print secondary information.
func dimmedColor() *color.Color {
	return color.RGB(128, 128, 128)
}
