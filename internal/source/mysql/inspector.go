package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/alexanderjulianmartinez/datasnap/internal/source"
)

// Inspector reads one MySQL schema. It implements source.Backend.
type Inspector struct {
	name    string
	db      *sql.DB
	schema  string
	timeout time.Duration
}

var _ source.Backend = (*Inspector)(nil)

func NewInspector(ctx context.Context, name, dsn, schema string) (*Inspector, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("mysql ping failed: %w", err)
	}

	return &Inspector{
		name:    name,
		db:      db,
		schema:  schema,
		timeout: 5 * time.Second,
	}, nil
}

func (i *Inspector) Name() string { return i.name }

func (i *Inspector) Close() error { return i.db.Close() }

func (i *Inspector) Tables(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	rows, err := i.db.QueryContext(ctx, `
		SELECT TABLE_NAME
		FROM INFORMATION_SCHEMA.TABLES
		WHERE TABLE_SCHEMA = ? AND TABLE_TYPE = 'BASE TABLE'
		ORDER BY TABLE_NAME
	`, i.schema)
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
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	rows, err := i.db.QueryContext(ctx, `
		SELECT COLUMN_NAME, COLUMN_TYPE, IS_NULLABLE, COLUMN_KEY, ORDINAL_POSITION
		FROM INFORMATION_SCHEMA.COLUMNS
		WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?
		ORDER BY ORDINAL_POSITION
	`, i.schema, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []source.Column
	for rows.Next() {
		var name, dataType, nullable, key string
		var pos int
		if err := rows.Scan(&name, &dataType, &nullable, &key, &pos); err != nil {
			return nil, err
		}
		cols = append(cols, source.Column{
			Name:       name,
			Type:       dataType,
			Nullable:   nullable == "YES",
			PrimaryKey: key == "PRI",
			Position:   pos,
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
		return fmt.Errorf("table %s has no columns", table)
	}

	rows, err := i.db.QueryContext(ctx, source.SelectQuery(i.relation(table), cols, quote))
	if err != nil {
		return err
	}
	defer rows.Close()
	return source.ScanRecords(rows, yield)
}

// RowCount implements source.RowCounter.
func (i *Inspector) RowCount(ctx context.Context, table string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	var count int64
	err := i.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+i.relation(table)).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// relation qualifies table with the inspected schema so rows are read from the same
// database the columns were described from, whatever the DSN's default database is.
func (i *Inspector) relation(table string) string {
	return quote(i.schema) + "." + quote(table)
}

func quote(ident string) string {
	return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
}
