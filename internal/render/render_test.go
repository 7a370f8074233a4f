package render

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderjulianmartinez/datasnap/internal/drift"
	"github.com/alexanderjulianmartinez/datasnap/internal/snapshot"
	"github.com/alexanderjulianmartinez/datasnap/internal/snapshot/store"
	"github.com/alexanderjulianmartinez/datasnap/internal/source"
	"github.com/alexanderjulianmartinez/datasnap/internal/testutil"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func compareUsers(t *testing.T, before, after []source.Record) *drift.ChangeResult {
	t.Helper()
	mk := func(recs []source.Record) *snapshot.Snapshot {
		s, err := snapshot.New(snapshot.Meta{Source: "shop", CapturedAt: time.Now()},
			[]snapshot.Table{{Name: "users", Columns: testutil.Cols("id*", "name"), Records: recs}})
		require.NoError(t, err)
		return s
	}
	res, err := drift.Compare(mk(before), mk(after))
	require.NoError(t, err)
	return res
}

func usersResult(t *testing.T) *drift.ChangeResult {
	return compareUsers(t,
		[]source.Record{testutil.Row(1, "Alice"), testutil.Row(2, "Bob")},
		[]source.Record{testutil.Row(1, "Alice"), testutil.Row(2, "Bobby"), testutil.Row(3, "Carol")})
}

func TestColumns(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Columns(&buf, []source.Column{
		{Name: "id", Type: "INTEGER", PrimaryKey: true, Position: 1},
		{Name: "name", Type: "TEXT", Nullable: true, Position: 2},
	}))

	assert.Equal(t, ""+
		"#  NAME  TYPE     NULLABLE  PK\n"+
		"1  id    INTEGER  no        yes\n"+
		"2  name  TEXT     yes       no\n", buf.String())
}

func TestRecordWriter(t *testing.T) {
	var buf bytes.Buffer
	rw := NewRecordWriter(&buf, testutil.Cols("id", "name"))
	require.NoError(t, rw.Write(testutil.Row(1, nil)))
	require.NoError(t, rw.Write(testutil.Row(2, "Bob")))
	n, err := rw.Close()
	require.NoError(t, err)

	assert.Equal(t, 2, n)
	assert.Equal(t, "id  name\n1   NULL\n2   Bob\n", buf.String())
}

func TestSnapshots(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Snapshots(&buf, nil, time.Now()))
	assert.Equal(t, "No snapshots found\n", buf.String())

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	buf.Reset()
	require.NoError(t, Snapshots(&buf, []store.Entry{
		{Name: "Snap__a.snap", Source: "shop", CapturedAt: at, Size: 2048},
	}, at.Add(2*time.Hour)))

	out := buf.String()
	assert.Contains(t, out, "2 hours ago")
	assert.Contains(t, out, "2.0 kB")
	assert.Contains(t, out, "Snap__a.snap")
}

func TestCompare(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Compare(&buf, usersResult(t)))

	out := buf.String()
	assert.Contains(t, out, "Changed tables:")
	assert.Regexp(t, `0\s+users\s+name\s+1\s+\+1/-0\s+key id`, out)
}

func TestCompareNoChanges(t *testing.T) {
	recs := []source.Record{testutil.Row(1, "Alice")}

	var buf bytes.Buffer
	require.NoError(t, Compare(&buf, compareUsers(t, recs, recs)))
	assert.Equal(t, NoChanges+"\n", buf.String())
}

func TestDrillDownOutput(t *testing.T) {
	res := usersResult(t)
	m, err := res.Matrix("users")
	require.NoError(t, err)
	cols, err := res.ChangedColumns("users")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, ChangedColumns(&buf, m, cols))
	assert.Contains(t, buf.String(), "Changed columns of users")
	assert.Regexp(t, `0\s+name\s+1`, buf.String())

	slice, err := res.ColumnChanges("users", 0)
	require.NoError(t, err)
	buf.Reset()
	require.NoError(t, ColumnSlice(&buf, slice))
	assert.Equal(t, ""+
		"ROW   name\n"+
		"id=1  >>??<<\n"+
		"id=2  Bob -> Bobby\n", buf.String())
}
