package source

import (
	"database/sql"
	"fmt"
	"strings"
)

// ScanRecords reads every row from rows, normalizes it and hands it to yield.
// The caller keeps ownership of rows and must close it.
func ScanRecords(rows *sql.Rows, yield func(Record) error) error {
	types, err := rows.ColumnTypes()
	if err != nil {
		return fmt.Errorf("column types: %w", err)
	}
	vals := make([]interface{}, len(types))
	ptrs := make([]interface{}, len(types))
	for i := range vals {
		ptrs[i] = &vals[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return fmt.Errorf("scan row: %w", err)
		}
		rec := make(Record, len(vals))
		for i, v := range vals {
			rec[i] = Normalize(v, types[i].DatabaseTypeName())
		}
		if err := yield(rec); err != nil {
			return err
		}
	}
	return rows.Err()
}

// SelectQuery builds a full-table select over cols from the already quoted relation
// from, ordered by the primary key when one is reported so that repeated captures
// return rows in the same order.
func SelectQuery(from string, cols []Column, quote func(string) string) string {
	names := make([]string, len(cols))
	for n, c := range cols {
		names[n] = quote(c.Name)
	}
	q := "SELECT " + strings.Join(names, ", ") + " FROM " + from
	if key := PrimaryKey(cols); len(key) > 0 {
		for n := range key {
			key[n] = quote(key[n])
		}
		q += " ORDER BY " + strings.Join(key, ", ")
	}
	return q
}
