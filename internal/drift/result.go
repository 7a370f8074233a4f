package drift

import (
	"sort"

	"github.com/alexanderjulianmartinez/datasnap/internal/domain"
	"github.com/alexanderjulianmartinez/datasnap/internal/source"
)

// Placeholder is shown in place of an unchanged cell.
const Placeholder = ">>??<<"

type CellKind uint8

const (
	// Unchanged marks a cell whose value is the same in both captures. The zero Cell
	// is the "no change" sentinel; a value that became NULL is a Modified cell whose
	// New is source.Null, so the two never collide.
	Unchanged CellKind = iota
	Modified
	ColumnAdded
	ColumnRemoved
)

// NoChange is the sentinel stored for unchanged cells.
var NoChange = Cell{}

// Cell is one entry of a change matrix.
type Cell struct {
	Kind CellKind
	Old  source.Value
	New  source.Value
}

func (c Cell) IsNoChange() bool { return c.Kind == Unchanged }

// String describes the change as "old -> new". Unchanged cells render empty.
func (c Cell) String() string {
	switch c.Kind {
	case Modified:
		return c.Old.String() + " -> " + c.New.String()
	case ColumnAdded:
		return "(absent) -> " + c.New.String()
	case ColumnRemoved:
		return c.Old.String() + " -> (absent)"
	}
	return ""
}

// Display is String with the sentinel replaced by Placeholder.
func (c Cell) Display() string {
	if c.IsNoChange() {
		return Placeholder
	}
	return c.String()
}

// RowChanges is one aligned row of a change matrix; Cells is parallel to the
// matrix's Columns.
type RowChanges struct {
	ID    RowID
	Cells []Cell
}

// ChangedColumn identifies a column with at least one change. Index is the column's
// position in the table's change matrix.
type ChangedColumn struct {
	Name    string
	Index   int
	Changes int
}

// TableChanges is the change matrix of one table present in both snapshots.
type TableChanges struct {
	Table string
	// Columns is every column name present on either side: older order first, then
	// columns only the newer capture has.
	Columns     []string
	Rows        []RowChanges
	AddedRows   []RowID
	RemovedRows []RowID
	Schema      []ColumnChange
	Alignment   string
}

// ChangedColumns lists, in matrix order, the columns holding at least one
// non-sentinel cell or added to or removed from the table. Type, nullability and key
// changes stay in Schema only.
func (t *TableChanges) ChangedColumns() []ChangedColumn {
	counts := make([]int, len(t.Columns))
	for _, r := range t.Rows {
		for i, c := range r.Cells {
			if !c.IsNoChange() {
				counts[i]++
			}
		}
	}
	addedOrRemoved := make(map[string]bool, len(t.Schema))
	for _, sc := range t.Schema {
		if sc.Kind == ChangeColumnAdded || sc.Kind == ChangeColumnRemoved {
			addedOrRemoved[sc.Column] = true
		}
	}

	var out []ChangedColumn
	for i, name := range t.Columns {
		if counts[i] > 0 || addedOrRemoved[name] {
			out = append(out, ChangedColumn{Name: name, Index: i, Changes: counts[i]})
		}
	}
	return out
}

// Changed reports whether the table has a non-sentinel cell or an added or removed
// column.
func (t *TableChanges) Changed() bool {
	return len(t.ChangedColumns()) > 0
}

// ChangedCells counts the non-sentinel cells of the matrix.
func (t *TableChanges) ChangedCells() int {
	n := 0
	for _, c := range t.ChangedColumns() {
		n += c.Changes
	}
	return n
}

// ChangeResult is the outcome of comparing two snapshots. It is never persisted.
type ChangeResult struct {
	// Added and Removed are sorted table names present only in the newer or the
	// older snapshot respectively.
	Added   []string
	Removed []string
	// Changed maps each changed table to its changed columns.
	Changed map[string][]ChangedColumn
	// Tables holds the change matrix of every table present in both snapshots,
	// sorted by table name.
	Tables []TableChanges
}

// Empty reports whether the comparison found nothing at all to show.
func (r *ChangeResult) Empty() bool {
	return r == nil || (len(r.Added) == 0 && len(r.Removed) == 0 && len(r.Changed) == 0)
}

// ChangedTableNames returns the keys of Changed in sorted order.
func (r *ChangeResult) ChangedTableNames() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.Changed))
	for name := range r.Changed {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Matrix returns the change matrix of a table present in both snapshots.
func (r *ChangeResult) Matrix(table string) (*TableChanges, error) {
	if r != nil {
		for i := range r.Tables {
			if r.Tables[i].Table == table {
				return &r.Tables[i], nil
			}
		}
	}
	return nil, domain.ErrNotFound("table %q is not part of the comparison", table)
}

// ChangedColumns returns the changed-column metadata of a changed table.
func (r *ChangeResult) ChangedColumns(table string) ([]ChangedColumn, error) {
	if r != nil {
		if cols, ok := r.Changed[table]; ok {
			return cols, nil
		}
	}
	return nil, domain.ErrNotFound("table %q has no changes", table)
}

// ColumnSlice is the single-column view of a change matrix.
type ColumnSlice struct {
	Table   string
	Column  ChangedColumn
	Entries []SliceEntry
}

// SliceEntry is one row of a ColumnSlice. Value is the cell's Display form.
type SliceEntry struct {
	Row   RowID
	Cell  Cell
	Value string
}

// ColumnChanges returns the cells of one changed column of table. selector indexes
// the table's changed-column list, not the raw column list.
func (r *ChangeResult) ColumnChanges(table string, selector int) (*ColumnSlice, error) {
	cols, err := r.ChangedColumns(table)
	if err != nil {
		return nil, err
	}
	if selector < 0 || selector >= len(cols) {
		return nil, domain.ErrNotFound("column selection %d out of range for table %q (%d changed columns)",
			selector, table, len(cols))
	}
	m, err := r.Matrix(table)
	if err != nil {
		return nil, err
	}

	col := cols[selector]
	if col.Index >= len(m.Columns) || m.Columns[col.Index] != col.Name {
		return nil, domain.ErrNotFound("column %q no longer matches table %q", col.Name, table)
	}
	slice := &ColumnSlice{Table: table, Column: col, Entries: make([]SliceEntry, len(m.Rows))}
	for i, row := range m.Rows {
		cell := row.Cells[col.Index]
		slice.Entries[i] = SliceEntry{Row: row.ID, Cell: cell, Value: cell.Display()}
	}
	return slice, nil
}
