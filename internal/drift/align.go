package drift

import (
	"strconv"
	"strings"

	"github.com/alexanderjulianmartinez/datasnap/internal/snapshot"
	"github.com/alexanderjulianmartinez/datasnap/internal/source"
)

// RowID identifies an aligned row. Old and New are the row positions in the older and
// newer capture, -1 where the row is absent on that side.
type RowID struct {
	Key string
	Old int
	New int
}

func (r RowID) String() string { return r.Key }

// Alignment pairs the rows of one table across two captures.
type Alignment struct {
	Strategy string
	Pairs    []RowID
	Added    []RowID
	Removed  []RowID
}

// Aligner decides which rows of two captures of the same table are the same row.
type Aligner interface {
	Align(older, newer snapshot.Table) Alignment
}

// PositionalAligner pairs rows by their position in the capture.
type PositionalAligner struct{}

func (PositionalAligner) Align(older, newer snapshot.Table) Alignment {
	a := Alignment{Strategy: "position"}
	n := len(older.Records)
	if len(newer.Records) < n {
		n = len(newer.Records)
	}
	for i := 0; i < n; i++ {
		a.Pairs = append(a.Pairs, RowID{Key: positionKey(i), Old: i, New: i})
	}
	for i := n; i < len(older.Records); i++ {
		a.Removed = append(a.Removed, RowID{Key: positionKey(i), Old: i, New: -1})
	}
	for i := n; i < len(newer.Records); i++ {
		a.Added = append(a.Added, RowID{Key: positionKey(i), Old: -1, New: i})
	}
	return a
}

func positionKey(i int) string { return "#" + strconv.Itoa(i) }

// KeyAligner pairs rows by the values of key columns. It falls back to positional
// alignment when a key column is missing on either side or a key value is null or
// duplicated, since such keys cannot identify a row.
type KeyAligner struct {
	Columns []string
}

func NewKeyAligner(columns ...string) KeyAligner {
	return KeyAligner{Columns: columns}
}

func (k KeyAligner) Align(older, newer snapshot.Table) Alignment {
	if len(k.Columns) == 0 {
		return PositionalAligner{}.Align(older, newer)
	}
	oldKeys, reason := k.index(older)
	if reason == "" {
		var newKeys map[string]int
		newKeys, reason = k.index(newer)
		if reason == "" {
			return k.pair(older, newer, oldKeys, newKeys)
		}
	}
	a := PositionalAligner{}.Align(older, newer)
	a.Strategy = "position (key " + strings.Join(k.Columns, ",") + " unusable: " + reason + ")"
	return a
}

func (k KeyAligner) pair(older, newer snapshot.Table, oldKeys, newKeys map[string]int) Alignment {
	a := Alignment{Strategy: "key " + strings.Join(k.Columns, ",")}
	oldPos := k.positions(older)
	for i, r := range older.Records {
		key := k.key(oldPos, r)
		if j, ok := newKeys[key]; ok {
			a.Pairs = append(a.Pairs, RowID{Key: k.label(oldPos, r), Old: i, New: j})
		} else {
			a.Removed = append(a.Removed, RowID{Key: k.label(oldPos, r), Old: i, New: -1})
		}
	}
	newPos := k.positions(newer)
	for j, r := range newer.Records {
		if _, ok := oldKeys[k.key(newPos, r)]; !ok {
			a.Added = append(a.Added, RowID{Key: k.label(newPos, r), Old: -1, New: j})
		}
	}
	return a
}

// index maps each row's key to its position. A non-empty reason means the key cannot
// identify rows in t.
func (k KeyAligner) index(t snapshot.Table) (map[string]int, string) {
	pos := k.positions(t)
	if pos == nil {
		return nil, "column missing"
	}
	idx := make(map[string]int, len(t.Records))
	for i, r := range t.Records {
		for _, p := range pos {
			if r[p].IsNull() {
				return nil, "null key"
			}
		}
		key := k.key(pos, r)
		if _, dup := idx[key]; dup {
			return nil, "duplicate key"
		}
		idx[key] = i
	}
	return idx, ""
}

func (k KeyAligner) positions(t snapshot.Table) []int {
	pos := make([]int, len(k.Columns))
	for i, c := range k.Columns {
		p := t.ColumnIndex(c)
		if p < 0 {
			return nil
		}
		pos[i] = p
	}
	return pos
}

func (k KeyAligner) key(pos []int, r source.Record) string {
	parts := make([]string, len(pos))
	for i, p := range pos {
		parts[i] = r[p].Key()
	}
	return strings.Join(parts, "\x00")
}

func (k KeyAligner) label(pos []int, r source.Record) string {
	parts := make([]string, len(pos))
	for i, p := range pos {
		parts[i] = k.Columns[i] + "=" + r[p].String()
	}
	return strings.Join(parts, ",")
}
