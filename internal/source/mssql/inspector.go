// Package mssql reads snapshots out of SQL Server databases.
package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/denisenkom/go-mssqldb"

	"github.com/alexanderjulianmartinez/datasnap/internal/source"
)

const columnsQuery = `
	SELECT c.COLUMN_NAME, c.DATA_TYPE, c.IS_NULLABLE, c.ORDINAL_POSITION,
		CASE WHEN k.COLUMN_NAME IS NULL THEN 0 ELSE 1 END
	FROM INFORMATION_SCHEMA.COLUMNS c
	LEFT JOIN (
		SELECT ku.TABLE_SCHEMA, ku.TABLE_NAME, ku.COLUMN_NAME
		FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS tc
		JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE ku
			ON tc.CONSTRAINT_NAME = ku.CONSTRAINT_NAME AND tc.TABLE_SCHEMA = ku.TABLE_SCHEMA
		WHERE tc.CONSTRAINT_TYPE = 'PRIMARY KEY'
	) k ON k.TABLE_SCHEMA = c.TABLE_SCHEMA AND k.TABLE_NAME = c.TABLE_NAME AND k.COLUMN_NAME = c.COLUMN_NAME
	WHERE c.TABLE_SCHEMA = @schema AND c.TABLE_NAME = @tableName
	ORDER BY c.ORDINAL_POSITION`

// Inspector reads one schema of a SQL Server database. It implements source.Backend.
type Inspector struct {
	name    string
	db      *sql.DB
	schema  string
	timeout time.Duration
}

var _ source.Backend = (*Inspector)(nil)

// NewInspector connects with a sqlserver:// URL or ADO-style connection string.
func NewInspector(ctx context.Context, name, connectionString, schema string) (*Inspector, error) {
	db, err := sql.Open("sqlserver", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if schema == "" {
		schema = "dbo"
	}
	return &Inspector{name: name, db: db, schema: schema, timeout: 10 * time.Second}, nil
}

func (i *Inspector) Name() string { return i.name }

func (i *Inspector) Close() error { return i.db.Close() }

func (i *Inspector) Tables(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	rows, err := i.db.QueryContext(ctx, `
		SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES
		WHERE TABLE_SCHEMA = @schema AND TABLE_TYPE = 'BASE TABLE'
		ORDER BY TABLE_NAME`, sql.Named("schema", i.schema))
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

	rows, err := i.db.QueryContext(ctx, columnsQuery,
		sql.Named("schema", i.schema), sql.Named("tableName", table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []source.Column
	for rows.Next() {
		var (
			name, dataType, nullable string
			pos, pk                  int
		)
		if err := rows.Scan(&name, &dataType, &nullable, &pos, &pk); err != nil {
			return nil, err
		}
		cols = append(cols, source.Column{
			Name:       name,
			Type:       dataType,
			Nullable:   nullable == "YES",
			PrimaryKey: pk == 1,
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
		return fmt.Errorf("table %s.%s has no columns", i.schema, table)
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
	if err := i.db.QueryRowContext(ctx, "SELECT COUNT_BIG(*) FROM "+i.relation(table)).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (i *Inspector) relation(table string) string {
	return quote(i.schema) + "." + quote(table)
}

func quote(ident string) string {
	return "[" + strings.ReplaceAll(ident, "]", "]]") + "]"
}
