// Package drift compares two snapshots of the same database.
//
// All operations are read-only over their inputs. Tables present in only one
// snapshot are reported by name; tables present in both get a change matrix with one
// row per aligned row and one cell per column, where unchanged cells hold the
// NoChange sentinel.
package drift

import (
	"sort"

	"github.com/hashicorp/go-hclog"

	"github.com/alexanderjulianmartinez/datasnap/internal/snapshot"
	"github.com/alexanderjulianmartinez/datasnap/internal/source"
)

// Engine computes differences between snapshots. Its zero value is not usable; use
// NewEngine.
type Engine struct {
	aligners map[string]Aligner
	logger   hclog.Logger
}

type Option func(*Engine)

// WithAligner fixes the row alignment strategy of one table.
func WithAligner(table string, a Aligner) Option {
	return func(e *Engine) { e.aligners[table] = a }
}

// WithKeys aligns each listed table by the given key columns.
func WithKeys(keys map[string][]string) Option {
	return func(e *Engine) {
		for table, cols := range keys {
			if len(cols) > 0 {
				e.aligners[table] = NewKeyAligner(cols...)
			}
		}
	}
}

func WithLogger(l hclog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{aligners: map[string]Aligner{}, logger: hclog.NewNullLogger()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = NewEngine()

// RemovedTables returns the sorted names of tables in older but not in newer.
func RemovedTables(older, newer *snapshot.Snapshot) ([]string, error) {
	if err := validatePair(older, newer); err != nil {
		return nil, err
	}
	return difference(older, newer), nil
}

// AddedTables returns the sorted names of tables in newer but not in older.
func AddedTables(older, newer *snapshot.Snapshot) ([]string, error) {
	if err := validatePair(older, newer); err != nil {
		return nil, err
	}
	return difference(newer, older), nil
}

// Changed diffs every table present in both snapshots with the default engine.
func Changed(older, newer *snapshot.Snapshot) (map[string][]ChangedColumn, []TableChanges, error) {
	return defaultEngine.Changed(older, newer)
}

// Compare runs the full comparison with the default engine.
func Compare(older, newer *snapshot.Snapshot) (*ChangeResult, error) {
	return defaultEngine.Compare(older, newer)
}

// Compare returns the added, removed and changed tables between two snapshots.
func (e *Engine) Compare(older, newer *snapshot.Snapshot) (*ChangeResult, error) {
	changed, tables, err := e.Changed(older, newer)
	if err != nil {
		return nil, err
	}
	return &ChangeResult{
		Added:   difference(newer, older),
		Removed: difference(older, newer),
		Changed: changed,
		Tables:  tables,
	}, nil
}

// Changed builds the change matrix of every table present in both snapshots, sorted
// by name, and the changed-column metadata of those that changed.
func (e *Engine) Changed(older, newer *snapshot.Snapshot) (map[string][]ChangedColumn, []TableChanges, error) {
	if err := validatePair(older, newer); err != nil {
		return nil, nil, err
	}

	changed := map[string][]ChangedColumn{}
	var tables []TableChanges
	for _, name := range older.TableNames() {
		nt, ok := newer.Table(name)
		if !ok {
			continue
		}
		ot, _ := older.Table(name)
		tc := e.diffTable(ot, nt)
		if tc.Changed() {
			changed[name] = tc.ChangedColumns()
		}
		e.logger.Debug("table compared", "table", name, "alignment", tc.Alignment,
			"rows", len(tc.Rows), "added_rows", len(tc.AddedRows), "removed_rows", len(tc.RemovedRows),
			"changed", tc.Changed())
		tables = append(tables, tc)
	}
	return changed, tables, nil
}

func (e *Engine) alignerFor(older, newer snapshot.Table) Aligner {
	if a, ok := e.aligners[older.Name]; ok {
		return a
	}
	oldKey := source.PrimaryKey(older.Columns)
	if len(oldKey) > 0 && equalStrings(oldKey, source.PrimaryKey(newer.Columns)) {
		return NewKeyAligner(oldKey...)
	}
	return PositionalAligner{}
}

func (e *Engine) diffTable(older, newer snapshot.Table) TableChanges {
	align := e.alignerFor(older, newer).Align(older, newer)

	columns := source.ColumnNames(older.Columns)
	for _, c := range newer.Columns {
		if older.ColumnIndex(c.Name) < 0 {
			columns = append(columns, c.Name)
		}
	}
	oldIdx := make([]int, len(columns))
	newIdx := make([]int, len(columns))
	for i, name := range columns {
		oldIdx[i] = older.ColumnIndex(name)
		newIdx[i] = newer.ColumnIndex(name)
	}

	tc := TableChanges{
		Table:       older.Name,
		Columns:     columns,
		Rows:        make([]RowChanges, 0, len(align.Pairs)),
		AddedRows:   align.Added,
		RemovedRows: align.Removed,
		Schema:      ValidateColumns(older.Columns, newer.Columns),
		Alignment:   align.Strategy,
	}
	for _, id := range align.Pairs {
		oldRow := older.Records[id.Old]
		newRow := newer.Records[id.New]
		cells := make([]Cell, len(columns))
		for i := range columns {
			cells[i] = compareCell(oldRow, newRow, oldIdx[i], newIdx[i])
		}
		tc.Rows = append(tc.Rows, RowChanges{ID: id, Cells: cells})
	}
	return tc
}

func compareCell(oldRow, newRow source.Record, oi, ni int) Cell {
	switch {
	case oi >= 0 && ni >= 0:
		if oldRow[oi].Equal(newRow[ni]) {
			return NoChange
		}
		return Cell{Kind: Modified, Old: oldRow[oi], New: newRow[ni]}
	case oi < 0:
		return Cell{Kind: ColumnAdded, New: newRow[ni]}
	default:
		return Cell{Kind: ColumnRemoved, Old: oldRow[oi]}
	}
}

func validatePair(older, newer *snapshot.Snapshot) error {
	if err := older.Validate(); err != nil {
		return err
	}
	return newer.Validate()
}

// difference returns the sorted names of tables in a but not in b.
func difference(a, b *snapshot.Snapshot) []string {
	var out []string
	for _, name := range a.TableNames() {
		if !b.HasTable(name) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
