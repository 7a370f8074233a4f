// Package render prints browse and compare results for the terminal.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/alexanderjulianmartinez/datasnap/internal/config"
	"github.com/alexanderjulianmartinez/datasnap/internal/drift"
	"github.com/alexanderjulianmartinez/datasnap/internal/snapshot/store"
	"github.com/alexanderjulianmartinez/datasnap/internal/source"
)

var (
	bold   = color.New(color.Bold).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

// NoChanges is printed when a comparison finds nothing.
const NoChanges = "No changes detected"

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func row(tw *tabwriter.Writer, cells ...string) {
	fmt.Fprintln(tw, strings.Join(cells, "\t"))
}

// JSON writes v indented.
func JSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func Databases(w io.Writer, dbs []config.DatabaseConfig) error {
	tw := newTable(w)
	row(tw, "NAME", "DBMS", "SCHEMA", "KEY OVERRIDES")
	for _, db := range dbs {
		row(tw, db.Name, db.DBMS, dash(db.Schema), strconv.Itoa(len(db.Tables)))
	}
	return tw.Flush()
}

func Tables(w io.Writer, res *source.InspectionResult) error {
	tw := newTable(w)
	row(tw, "TABLE", "COLUMNS", "ROWS", "PRIMARY KEY")
	for _, t := range res.Tables {
		row(tw, t.Name, strconv.Itoa(len(t.Columns)), humanize.Comma(t.RowCount), dash(strings.Join(t.PrimaryKey, ",")))
	}
	return tw.Flush()
}

func Columns(w io.Writer, cols []source.Column) error {
	tw := newTable(w)
	row(tw, "#", "NAME", "TYPE", "NULLABLE", "PK")
	for _, c := range cols {
		row(tw, strconv.Itoa(c.Position), c.Name, c.Type, yesNo(c.Nullable), yesNo(c.PrimaryKey))
	}
	return tw.Flush()
}

// RecordWriter prints records as they are read from a backend.
type RecordWriter struct {
	tw *tabwriter.Writer
	n  int
}

func NewRecordWriter(w io.Writer, cols []source.Column) *RecordWriter {
	rw := &RecordWriter{tw: newTable(w)}
	row(rw.tw, source.ColumnNames(cols)...)
	return rw
}

func (rw *RecordWriter) Write(r source.Record) error {
	cells := make([]string, len(r))
	for i, v := range r {
		cells[i] = v.String()
	}
	row(rw.tw, cells...)
	rw.n++
	return nil
}

// Close flushes the table and returns the number of records written.
func (rw *RecordWriter) Close() (int, error) {
	return rw.n, rw.tw.Flush()
}

// Snapshots prints the pick-list; the # column is what compare takes.
func Snapshots(w io.Writer, entries []store.Entry, now time.Time) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No snapshots found")
		return err
	}
	tw := newTable(w)
	row(tw, "#", "CAPTURED", "AGE", "SOURCE", "SIZE", "FILE")
	for i, e := range entries {
		row(tw,
			strconv.Itoa(i),
			e.CapturedAt.Local().Format("2006-01-02 15:04:05"),
			humanize.RelTime(e.CapturedAt, now, "ago", "from now"),
			e.Source,
			humanize.Bytes(uint64(e.Size)),
			e.Name,
		)
	}
	return tw.Flush()
}

// Compare prints the table-level outcome of a comparison. Changed tables are
// numbered in the order SelectTable expects.
func Compare(w io.Writer, res *drift.ChangeResult) error {
	if res.Empty() {
		_, err := fmt.Fprintln(w, NoChanges)
		return err
	}
	if len(res.Added) > 0 {
		fmt.Fprintf(w, "%s %s\n", bold("Added tables:"), green(strings.Join(res.Added, ", ")))
	}
	if len(res.Removed) > 0 {
		fmt.Fprintf(w, "%s %s\n", bold("Removed tables:"), red(strings.Join(res.Removed, ", ")))
	}
	names := res.ChangedTableNames()
	if len(names) == 0 {
		return nil
	}

	fmt.Fprintln(w, bold("Changed tables:"))
	tw := newTable(w)
	row(tw, "#", "TABLE", "COLUMNS", "CELLS", "ROWS +/-", "ALIGNED BY")
	for i, name := range names {
		m, err := res.Matrix(name)
		if err != nil {
			return err
		}
		var cols []string
		for _, c := range res.Changed[name] {
			cols = append(cols, c.Name)
		}
		row(tw,
			strconv.Itoa(i),
			name,
			strings.Join(cols, ","),
			strconv.Itoa(m.ChangedCells()),
			fmt.Sprintf("+%d/-%d", len(m.AddedRows), len(m.RemovedRows)),
			m.Alignment,
		)
	}
	return tw.Flush()
}

// ChangedColumns prints the numbered changed columns of a table followed by its
// structural changes.
func ChangedColumns(w io.Writer, m *drift.TableChanges, cols []drift.ChangedColumn) error {
	fmt.Fprintf(w, "%s %s\n", bold("Changed columns of"), m.Table)
	tw := newTable(w)
	row(tw, "#", "COLUMN", "CHANGES")
	for i, c := range cols {
		row(tw, strconv.Itoa(i), c.Name, strconv.Itoa(c.Changes))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, sc := range m.Schema {
		label := "[" + sc.Severity + "]"
		switch sc.Severity {
		case drift.SeverityBlock:
			label = red(label)
		case drift.SeverityWarn:
			label = yellow(label)
		}
		fmt.Fprintf(w, "%s %s: %s\n", label, sc.Column, sc.Message)
	}
	return nil
}

// ColumnSlice prints one column of a change matrix with unchanged cells shown as
// drift.Placeholder.
func ColumnSlice(w io.Writer, s *drift.ColumnSlice) error {
	tw := newTable(w)
	row(tw, "ROW", s.Column.Name)
	for _, e := range s.Entries {
		row(tw, e.Row.Key, e.Value)
	}
	return tw.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
