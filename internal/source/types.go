package source

import "context"

// Column describes one column as reported by the backend.
type Column struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Nullable   bool   `json:"nullable"`
	PrimaryKey bool   `json:"primary_key,omitempty"`
	Position   int    `json:"position"`
}

// Record is one row, its values aligned with the table's column list.
type Record []Value

// Backend is the read-only capability set a snapshot is captured from.
type Backend interface {
	// Name identifies the source database; it is encoded into snapshot file names.
	Name() string
	Tables(ctx context.Context) ([]string, error)
	Columns(ctx context.Context, table string) ([]Column, error)
	// Records streams the rows of table in column order, calling yield once per row.
	// Iteration stops at the first error returned by yield.
	Records(ctx context.Context, table string, yield func(Record) error) error
	Close() error
}

// PrimaryKey returns the names of the columns flagged as primary key, in column order.
func PrimaryKey(cols []Column) []string {
	var key []string
	for _, c := range cols {
		if c.PrimaryKey {
			key = append(key, c.Name)
		}
	}
	return key
}

// ColumnNames returns the column names in order.
func ColumnNames(cols []Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}
