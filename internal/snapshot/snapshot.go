// Package snapshot holds immutable point-in-time captures of a database's schema and data.
//
// A Snapshot is built once, either by Capture from a live source.Backend or by the
// store package from a persisted file, and is only ever read afterwards. Tables
// returned by accessors share memory with the snapshot and must not be modified.
package snapshot

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderjulianmartinez/datasnap/internal/domain"
	"github.com/alexanderjulianmartinez/datasnap/internal/source"
)

// Table is the captured schema and rows of one table.
type Table struct {
	Name    string
	Columns []source.Column
	Records []source.Record
}

// ColumnIndex returns the position of the named column, or -1.
func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Meta identifies a snapshot.
type Meta struct {
	ID         uuid.UUID
	Source     string
	CapturedAt time.Time
}

type Snapshot struct {
	meta   Meta
	tables map[string]Table
}

// New builds a snapshot from captured tables. Duplicate table names are rejected.
func New(meta Meta, tables []Table) (*Snapshot, error) {
	if meta.ID == uuid.Nil {
		meta.ID = uuid.New()
	}
	s := &Snapshot{meta: meta, tables: make(map[string]Table, len(tables))}
	for _, t := range tables {
		if _, dup := s.tables[t.Name]; dup {
			return nil, domain.ErrInvalidSnapshot("duplicate table %q", t.Name)
		}
		s.tables[t.Name] = t
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Snapshot) ID() uuid.UUID         { return s.meta.ID }
func (s *Snapshot) Source() string        { return s.meta.Source }
func (s *Snapshot) CapturedAt() time.Time { return s.meta.CapturedAt }
func (s *Snapshot) Meta() Meta            { return s.meta }

// TableNames returns the captured table names in sorted order.
func (s *Snapshot) TableNames() []string {
	names := make([]string, 0, len(s.tables))
	for name := range s.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Snapshot) Table(name string) (Table, bool) {
	t, ok := s.tables[name]
	return t, ok
}

func (s *Snapshot) HasTable(name string) bool {
	_, ok := s.tables[name]
	return ok
}

// Tables returns every table sorted by name.
func (s *Snapshot) Tables() []Table {
	out := make([]Table, 0, len(s.tables))
	for _, name := range s.TableNames() {
		out = append(out, s.tables[name])
	}
	return out
}

// Validate checks the structural invariants every snapshot must hold: each table is
// stored under its own name, column names are unique and non-empty within a table,
// and every record is as wide as the column list.
func (s *Snapshot) Validate() error {
	if s == nil || s.tables == nil {
		return domain.ErrInvalidSnapshot("snapshot is empty or uninitialized")
	}
	for key, t := range s.tables {
		if key != t.Name {
			return domain.ErrInvalidSnapshot("table %q stored under name %q", t.Name, key)
		}
		seen := make(map[string]struct{}, len(t.Columns))
		for _, c := range t.Columns {
			if c.Name == "" {
				return domain.ErrInvalidSnapshot("table %q has an unnamed column", t.Name)
			}
			if _, dup := seen[c.Name]; dup {
				return domain.ErrInvalidSnapshot("table %q has duplicate column %q", t.Name, c.Name)
			}
			seen[c.Name] = struct{}{}
		}
		for i, r := range t.Records {
			if len(r) != len(t.Columns) {
				return domain.ErrInvalidSnapshot("table %q record %d has %d values for %d columns",
					t.Name, i, len(r), len(t.Columns))
			}
		}
	}
	return nil
}
