package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/alexanderjulianmartinez/datasnap/internal/domain"
	"github.com/alexanderjulianmartinez/datasnap/internal/source"
)

// Capture reads every table of b into a new snapshot. Any backend failure aborts the
// whole capture with a *domain.BackendUnavailableError; no partial snapshot is returned.
func Capture(ctx context.Context, b source.Backend, logger hclog.Logger) (*Snapshot, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	started := time.Now().UTC()
	logger.Info("capture started", "source", b.Name())

	names, err := b.Tables(ctx)
	if err != nil {
		return nil, domain.ErrBackendUnavailable(err, "list tables of %s", b.Name())
	}

	tables := make([]Table, 0, len(names))
	for _, name := range names {
		t, err := captureTable(ctx, b, name)
		if err != nil {
			return nil, err
		}
		logger.Debug("table captured", "table", name, "columns", len(t.Columns), "rows", len(t.Records))
		tables = append(tables, t)
	}

	snap, err := New(Meta{ID: uuid.New(), Source: b.Name(), CapturedAt: started}, tables)
	if err != nil {
		return nil, err
	}
	logger.Info("capture finished", "source", b.Name(), "tables", len(tables),
		"elapsed", time.Since(started).Round(time.Millisecond))
	return snap, nil
}

func captureTable(ctx context.Context, b source.Backend, name string) (Table, error) {
	cols, err := b.Columns(ctx, name)
	if err != nil {
		return Table{}, domain.ErrBackendUnavailable(err, "read columns of %s.%s", b.Name(), name)
	}

	t := Table{Name: name, Columns: cols}
	err = b.Records(ctx, name, func(r source.Record) error {
		if len(r) != len(cols) {
			return fmt.Errorf("record %d has %d values for %d columns", len(t.Records), len(r), len(cols))
		}
		t.Records = append(t.Records, r)
		return nil
	})
	if err != nil {
		return Table{}, domain.ErrBackendUnavailable(err, "read records of %s.%s", b.Name(), name)
	}
	return t, nil
}
