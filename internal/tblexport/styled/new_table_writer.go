package styled

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// PreviewColumnWidth is the widest a preview cell is drawn before its
// text wraps.
const PreviewColumnWidth = 40

// NewPreviewTable returns a table.Writer for the sample rows of an
// export with the given number of columns.
func NewPreviewTable(columns int) table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.Style().Format.Header = text.FormatDefault
	tw.Style().Color.Header = text.Colors{text.FgCyan, text.Bold}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := 1; i <= columns; i++ {
		configs = append(configs, table.ColumnConfig{
			Number:           i,
			WidthMax:         PreviewColumnWidth,
			WidthMaxEnforcer: text.WrapSoft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw
}
