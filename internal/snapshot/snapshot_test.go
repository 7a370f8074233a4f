package snapshot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderjulianmartinez/datasnap/internal/domain"
	"github.com/alexanderjulianmartinez/datasnap/internal/source"
	"github.com/alexanderjulianmartinez/datasnap/internal/testutil"
)

func shopBackend() *testutil.FakeBackend {
	return testutil.NewFakeBackend("shop",
		testutil.FakeTable{
			Name:    "users",
			Columns: testutil.Cols("id*", "name"),
			Rows:    []source.Record{testutil.Row(1, "Alice"), testutil.Row(2, nil)},
		},
		testutil.FakeTable{Name: "empty", Columns: testutil.Cols("a")},
	)
}

func TestCapture(t *testing.T) {
	snap, err := Capture(context.Background(), shopBackend(), nil)
	require.NoError(t, err)

	assert.Equal(t, "shop", snap.Source())
	assert.NotEqual(t, uuid.Nil, snap.ID())
	assert.False(t, snap.CapturedAt().IsZero())
	assert.Equal(t, []string{"empty", "users"}, snap.TableNames())

	users, ok := snap.Table("users")
	require.True(t, ok)
	assert.Equal(t, []string{"id"}, source.PrimaryKey(users.Columns))
	require.Len(t, users.Records, 2)
	assert.True(t, users.Records[1][1].IsNull())
	assert.Equal(t, 1, users.ColumnIndex("name"))
	assert.Equal(t, -1, users.ColumnIndex("missing"))

	empty, ok := snap.Table("empty")
	require.True(t, ok)
	assert.Empty(t, empty.Records)
}

func TestCaptureIsAllOrNothing(t *testing.T) {
	boom := errors.New("connection reset")

	cases := map[string]func(b *testutil.FakeBackend){
		"tables":  func(b *testutil.FakeBackend) { b.TablesErr = boom },
		"columns": func(b *testutil.FakeBackend) { b.ColumnsErr = map[string]error{"users": boom} },
		"records": func(b *testutil.FakeBackend) { b.RecordsErr = map[string]error{"users": boom} },
	}
	for name, inject := range cases {
		t.Run(name, func(t *testing.T) {
			b := shopBackend()
			inject(b)

			snap, err := Capture(context.Background(), b, nil)
			assert.Nil(t, snap)
			var bu *domain.BackendUnavailableError
			require.ErrorAs(t, err, &bu)
			assert.ErrorIs(t, err, boom)
		})
	}
}

func TestCaptureRejectsRaggedRecords(t *testing.T) {
	b := testutil.NewFakeBackend("shop", testutil.FakeTable{
		Name:    "t",
		Columns: testutil.Cols("a", "b"),
		Rows:    []source.Record{testutil.Row(1)},
	})
	_, err := Capture(context.Background(), b, nil)
	var bu *domain.BackendUnavailableError
	assert.ErrorAs(t, err, &bu)
}

func TestNewRejectsDuplicates(t *testing.T) {
	_, err := New(Meta{Source: "x"}, []Table{{Name: "a"}, {Name: "a"}})
	var inv *domain.InvalidSnapshotError
	require.ErrorAs(t, err, &inv)
	assert.Contains(t, err.Error(), `duplicate table "a"`)

	_, err = New(Meta{Source: "x"}, []Table{{Name: "a", Columns: testutil.Cols("c", "c")}})
	assert.ErrorAs(t, err, &inv)
}

func TestValidate(t *testing.T) {
	var nilSnap *Snapshot
	var inv *domain.InvalidSnapshotError
	assert.ErrorAs(t, nilSnap.Validate(), &inv)

	s, err := New(Meta{Source: "x", CapturedAt: time.Now()}, []Table{{Name: "a", Columns: testutil.Cols("c")}})
	require.NoError(t, err)
	require.NoError(t, s.Validate())

	s.tables["b"] = Table{Name: "c"}
	assert.ErrorAs(t, s.Validate(), &inv)
}
