package source

import "context"

// TableInfo summarizes one live table for browsing.
type TableInfo struct {
	Name       string
	Columns    []Column
	PrimaryKey []string
	RowCount   int64
}

type InspectionResult struct {
	Tables []TableInfo
}

// RowCounter is implemented by backends that can count rows without streaming them.
type RowCounter interface {
	RowCount(ctx context.Context, table string) (int64, error)
}

// Inspect lists every table of b with its columns and row count.
func Inspect(ctx context.Context, b Backend) (*InspectionResult, error) {
	tables, err := b.Tables(ctx)
	if err != nil {
		return nil, err
	}

	var results []TableInfo
	for _, tableName := range tables {
		cols, err := b.Columns(ctx, tableName)
		if err != nil {
			return nil, err
		}

		rowCount, err := countRows(ctx, b, tableName)
		if err != nil {
			return nil, err
		}

		results = append(results, TableInfo{
			Name:       tableName,
			Columns:    cols,
			PrimaryKey: PrimaryKey(cols),
			RowCount:   rowCount,
		})
	}

	return &InspectionResult{
		Tables: results,
	}, nil
}

func countRows(ctx context.Context, b Backend, table string) (int64, error) {
	if rc, ok := b.(RowCounter); ok {
		return rc.RowCount(ctx, table)
	}
	var n int64
	err := b.Records(ctx, table, func(Record) error {
		n++
		return nil
	})
	return n, err
}
