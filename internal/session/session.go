// Package session carries the state of one browse-and-compare flow from step to
// step: the snapshot pick-list, the latest comparison, and the table chosen from it.
package session

import (
	"github.com/hashicorp/go-hclog"

	"github.com/alexanderjulianmartinez/datasnap/internal/domain"
	"github.com/alexanderjulianmartinez/datasnap/internal/drift"
	"github.com/alexanderjulianmartinez/datasnap/internal/snapshot"
	"github.com/alexanderjulianmartinez/datasnap/internal/snapshot/store"
)

// EngineFunc returns the engine used to compare snapshots of one source.
type EngineFunc func(source string) *drift.Engine

type Session struct {
	store   *store.Store
	engines EngineFunc
	logger  hclog.Logger

	entries []store.Entry
	older   *snapshot.Snapshot
	newer   *snapshot.Snapshot
	result  *drift.ChangeResult
	table   string
}

// New returns a session over st. A nil engines compares every source with the
// default engine.
func New(st *store.Store, engines EngineFunc, logger hclog.Logger) *Session {
	if engines == nil {
		def := drift.NewEngine()
		engines = func(string) *drift.Engine { return def }
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Session{store: st, engines: engines, logger: logger}
}

// Snapshots refreshes and returns the pick-list used by Compare.
func (s *Session) Snapshots() ([]store.Entry, error) {
	entries, err := s.store.List()
	if err != nil {
		return nil, err
	}
	s.entries = entries
	return entries, nil
}

// Compare diffs the snapshots at pick-list positions older and newer. A new
// comparison replaces the previous result and clears the table selection.
func (s *Session) Compare(older, newer int) (*drift.ChangeResult, error) {
	if s.entries == nil {
		if _, err := s.Snapshots(); err != nil {
			return nil, err
		}
	}
	oe, err := s.entry(older)
	if err != nil {
		return nil, err
	}
	ne, err := s.entry(newer)
	if err != nil {
		return nil, err
	}

	o, err := s.store.Load(oe.Path)
	if err != nil {
		return nil, err
	}
	n, err := s.store.Load(ne.Path)
	if err != nil {
		return nil, err
	}
	res, err := s.engines(o.Source()).Compare(o, n)
	if err != nil {
		return nil, err
	}

	s.older, s.newer, s.result, s.table = o, n, res, ""
	s.logger.Debug("compared", "older", oe.Name, "newer", ne.Name,
		"added", len(res.Added), "removed", len(res.Removed), "changed", len(res.Changed))
	return res, nil
}

func (s *Session) entry(i int) (store.Entry, error) {
	if i < 0 || i >= len(s.entries) {
		return store.Entry{}, domain.ErrNotFound("snapshot %d does not exist (%d listed)", i, len(s.entries))
	}
	return s.entries[i], nil
}

// Result returns the latest comparison, or nil before the first Compare.
func (s *Session) Result() *drift.ChangeResult { return s.result }

// Pair returns the snapshots of the latest comparison.
func (s *Session) Pair() (older, newer *snapshot.Snapshot) { return s.older, s.newer }

// SelectTable picks the idx-th changed table, in name order, and returns its changed
// columns.
func (s *Session) SelectTable(idx int) (string, []drift.ChangedColumn, error) {
	if s.result == nil {
		return "", nil, domain.ErrNotFound("no comparison has been run")
	}
	names := s.result.ChangedTableNames()
	if idx < 0 || idx >= len(names) {
		return "", nil, domain.ErrNotFound("table selection %d out of range (%d changed tables)", idx, len(names))
	}
	cols, err := s.result.ChangedColumns(names[idx])
	if err != nil {
		return "", nil, err
	}
	s.table = names[idx]
	return s.table, cols, nil
}

// Table returns the selected table name, empty when none is selected.
func (s *Session) Table() string { return s.table }

// ColumnChanges returns the slice of the selected table's idx-th changed column.
func (s *Session) ColumnChanges(idx int) (*drift.ColumnSlice, error) {
	if s.table == "" {
		return nil, domain.ErrNotFound("no table has been selected")
	}
	return s.result.ColumnChanges(s.table, idx)
}
