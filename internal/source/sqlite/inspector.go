// Package sqlite reads snapshots out of SQLite database files.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/alexanderjulianmartinez/datasnap/internal/source"
)

// Inspector reads every user table of one SQLite database. It implements source.Backend.
type Inspector struct {
	name string
	db   *sql.DB
}

var _ source.Backend = (*Inspector)(nil)

// NewInspector opens the database at dsn (a file path or file: URI) and checks that it
// is readable.
func NewInspector(ctx context.Context, name, dsn string) (*Inspector, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite open failed: %w", err)
	}
	return &Inspector{name: name, db: db}, nil
}

// FromDB wraps an already open handle. The handle is closed by Close.
func FromDB(name string, db *sql.DB) *Inspector {
	return &Inspector{name: name, db: db}
}

func (i *Inspector) Name() string { return i.name }

func (i *Inspector) Close() error { return i.db.Close() }

func (i *Inspector) Tables(ctx context.Context) ([]string, error) {
	rows, err := i.db.QueryContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

func (i *Inspector) Columns(ctx context.Context, table string) ([]source.Column, error) {
	rows, err := i.db.QueryContext(ctx,
		`SELECT cid, name, type, "notnull", pk FROM pragma_table_info(?) ORDER BY cid`, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []source.Column
	for rows.Next() {
		var (
			cid, notNull, pk int
			name, typ        string
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &pk); err != nil {
			return nil, err
		}
		cols = append(cols, source.Column{
			Name:       name,
			Type:       typ,
			Nullable:   notNull == 0 && pk == 0,
			PrimaryKey: pk > 0,
			Position:   cid + 1,
		})
	}
	return cols, rows.Err()
}

func (i *Inspector) Records(ctx context.Context, table string, yield func(source.Record) error) error {
	cols, err := i.Columns(ctx, table)
	if err != nil {
		return err
	}
	if len(cols) == 0 {
		return fmt.Errorf("table %s does not exist", table)
	}

	rows, err := i.db.QueryContext(ctx, source.SelectQuery(quote(table), cols, quote))
	if err != nil {
		return err
	}
	defer rows.Close()
	return source.ScanRecords(rows, yield)
}

// RowCount implements source.RowCounter.
func (i *Inspector) RowCount(ctx context.Context, table string) (int64, error) {
	var count int64
	if err := i.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+quote(table)).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
