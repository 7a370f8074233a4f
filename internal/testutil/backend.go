// Package testutil provides an in-memory source.Backend for tests across the codebase.
package testutil

import (
	"context"
	"fmt"

	"github.com/alexanderjulianmartinez/datasnap/internal/source"
)

// FakeTable is one table served by FakeBackend.
type FakeTable struct {
	Name    string
	Columns []source.Column
	Rows    []source.Record
}

// FakeBackend implements source.Backend over fixed tables. The Err fields inject
// failures into the matching call.
type FakeBackend struct {
	ID     string
	Data   []FakeTable
	Closed bool
	Calls  []string

	TablesErr  error
	ColumnsErr map[string]error
	RecordsErr map[string]error
}

var _ source.Backend = (*FakeBackend)(nil)

// NewFakeBackend returns a backend named id serving tables in the given order.
func NewFakeBackend(id string, tables ...FakeTable) *FakeBackend {
	return &FakeBackend{ID: id, Data: tables}
}

func (f *FakeBackend) Name() string { return f.ID }

func (f *FakeBackend) Close() error {
	f.Closed = true
	return nil
}

func (f *FakeBackend) Tables(ctx context.Context) ([]string, error) {
	f.Calls = append(f.Calls, "tables")
	if f.TablesErr != nil {
		return nil, f.TablesErr
	}
	names := make([]string, len(f.Data))
	for i, t := range f.Data {
		names[i] = t.Name
	}
	return names, nil
}

func (f *FakeBackend) Columns(ctx context.Context, table string) ([]source.Column, error) {
	f.Calls = append(f.Calls, "columns:"+table)
	if err := f.ColumnsErr[table]; err != nil {
		return nil, err
	}
	t, err := f.table(table)
	if err != nil {
		return nil, err
	}
	return append([]source.Column(nil), t.Columns...), nil
}

func (f *FakeBackend) Records(ctx context.Context, table string, yield func(source.Record) error) error {
	f.Calls = append(f.Calls, "records:"+table)
	if err := f.RecordsErr[table]; err != nil {
		return err
	}
	t, err := f.table(table)
	if err != nil {
		return err
	}
	for _, r := range t.Rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := yield(append(source.Record(nil), r...)); err != nil {
			return err
		}
	}
	return nil
}

func (f *FakeBackend) table(name string) (*FakeTable, error) {
	for i := range f.Data {
		if f.Data[i].Name == name {
			return &f.Data[i], nil
		}
	}
	return nil, fmt.Errorf("no such table: %s", name)
}

// Cols builds columns named names with type "TEXT"; a name suffixed with "*" is a
// primary key column.
func Cols(names ...string) []source.Column {
	cols := make([]source.Column, len(names))
	for i, n := range names {
		c := source.Column{Name: n, Type: "TEXT", Nullable: true, Position: i + 1}
		if len(n) > 1 && n[len(n)-1] == '*' {
			c.Name = n[:len(n)-1]
			c.PrimaryKey = true
			c.Nullable = false
		}
		cols[i] = c
	}
	return cols
}

// Row converts plain Go values into a record: nil, int, int64, float64, bool,
// string and []byte are accepted.
func Row(vals ...interface{}) source.Record {
	rec := make(source.Record, len(vals))
	for i, v := range vals {
		switch x := v.(type) {
		case int:
			rec[i] = source.IntValue(int64(x))
		case source.Value:
			rec[i] = x
		default:
			rec[i] = source.Normalize(v, "")
		}
	}
	return rec
}
