package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderjulianmartinez/datasnap/internal/source"
)

func newTestDB(t *testing.T) *Inspector {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shop.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)

	_, err = db.Exec(`
		CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT NOT NULL, score REAL);
		CREATE TABLE "odd ""name""" (payload BLOB, note TEXT);
		INSERT INTO users (id, name, score) VALUES (2, 'Bob', NULL), (1, 'Alice', 1.5);
		INSERT INTO "odd ""name""" VALUES (x'00ff', 'x');
	`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	insp, err := NewInspector(context.Background(), "shop", path)
	require.NoError(t, err)
	t.Cleanup(func() { insp.Close() })
	return insp
}

func TestTablesAndColumns(t *testing.T) {
	ctx := context.Background()
	insp := newTestDB(t)

	tables, err := insp.Tables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{`odd "name"`, "users"}, tables)

	cols, err := insp.Columns(ctx, "users")
	require.NoError(t, err)
	require.Len(t, cols, 3)
	assert.Equal(t, source.Column{Name: "id", Type: "INTEGER", PrimaryKey: true, Position: 1}, cols[0])
	assert.Equal(t, source.Column{Name: "name", Type: "TEXT", Position: 2}, cols[1])
	assert.True(t, cols[2].Nullable)
}

func TestRecordsOrderedByKey(t *testing.T) {
	insp := newTestDB(t)

	var got []source.Record
	err := insp.Records(context.Background(), "users", func(r source.Record) error {
		got = append(got, r)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, source.IntValue(1), got[0][0])
	assert.Equal(t, source.StringValue("Alice"), got[0][1])
	assert.Equal(t, source.FloatValue(1.5), got[0][2])
	assert.True(t, got[1][2].IsNull())
}

func TestRecordsBinary(t *testing.T) {
	insp := newTestDB(t)

	var got []source.Record
	err := insp.Records(context.Background(), `odd "name"`, func(r source.Record) error {
		got = append(got, r)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, source.KindBytes, got[0][0].Kind)
	assert.Equal(t, []byte{0x00, 0xff}, got[0][0].Bytes)
}

func TestRecordsUnknownTable(t *testing.T) {
	insp := newTestDB(t)
	err := insp.Records(context.Background(), "missing", func(source.Record) error { return nil })
	assert.Error(t, err)
}

func TestInspectCountsRows(t *testing.T) {
	res, err := source.Inspect(context.Background(), newTestDB(t))
	require.NoError(t, err)
	require.Len(t, res.Tables, 2)
	assert.Equal(t, "users", res.Tables[1].Name)
	assert.Equal(t, int64(2), res.Tables[1].RowCount)
	assert.Equal(t, []string{"id"}, res.Tables[1].PrimaryKey)
}
