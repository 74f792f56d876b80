package tblexport

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nsqlite/tblexport/internal/exporter"
	"github.com/nsqlite/tblexport/internal/tblexport/rowbar"
	"github.com/nsqlite/tblexport/internal/tblexport/styled"
	"github.com/nsqlite/tblexport/internal/util/numutil"
)

// console prints the human readable report of an export. It
// implements exporter.Observer.
type console struct {
	out io.Writer
	// progress receives the progress bar, nil disables it.
	progress io.Writer
	bar      *rowbar.Bar
}

func newConsole(out io.Writer, progress io.Writer) *console {
	return &console{out: out, progress: progress}
}

func (c *console) Connected(database string) {
	styled.Success(c.out, "Connected to database: %s", database)
}

func (c *console) Loaded(table string, columns []string, total int) {
	styled.Success(c.out, "Data loaded successfully from %s", table)
	styled.Info(c.out, "📊", "Shape: %s rows x %d columns", numutil.IntWithCommas(total), len(columns))
	styled.Info(c.out, "📋", "Columns: %s", strings.Join(columns, ", "))

	if c.progress != nil && total > 0 {
		c.bar = rowbar.NewBar(c.progress, "Writing rows", total)
	}
}

func (c *console) RowWritten(int) {
	if c.bar != nil {
		c.bar.Inc()
	}
}

// finishBar removes the progress bar, if any.
func (c *console) finishBar() {
	if c.bar != nil {
		c.bar.Finish()
		c.bar = nil
	}
}

// Done prints the summary of a successful export.
func (c *console) Done(result exporter.Result, output string) {
	styled.Success(c.out, "Data exported to CSV: %s", result.Path)
	styled.Info(c.out, "📁", "File size: %.2f MB", result.SizeMiB())

	if len(result.Preview) > 0 {
		fmt.Fprintf(c.out, "\n📋 Sample data (first %d rows):\n", len(result.Preview))
		fmt.Fprintln(c.out, renderPreview(result.Columns, result.Preview))
	}

	fmt.Fprintf(c.out, "\n🎉 Export completed! You can now import '%s' into Power BI\n", filepath.Base(output))
	styled.DimmedColor().Fprintf(
		c.out, "%s rows written in %s (export %s)\n",
		numutil.IntWithCommas(result.Rows), result.Duration.Round(time.Millisecond), result.ExportID,
	)
}

// Failed prints the failure line of an export.
func (c *console) Failed(err error) {
	styled.Failure(c.out, "Error: %s", err)
}

// renderPreview renders rows as a table with the columns as header.
func renderPreview(columns []string, rows [][]any) string {
	tw := styled.NewPreviewTable(len(columns))

	header := table.Row{}
	for _, col := range columns {
		header = append(header, col)
	}
	tw.AppendHeader(header)

	for _, values := range rows {
		row := table.Row{}
		for _, value := range values {
			if value == nil {
				row = append(row, "NULL")
				continue
			}
			row = append(row, exporter.FormatValue(value))
		}
		tw.AppendRow(row)
	}

	return tw.Render()
}
