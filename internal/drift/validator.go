package drift

import (
	"strconv"

	"github.com/alexanderjulianmartinez/datasnap/internal/source"
)

// ColumnChange is one structural difference in a table's column list.
type ColumnChange struct {
	Kind     string
	Column   string
	From     string
	To       string
	Severity string
	Message  string
}

func newColumnChange(kind, column, from, to string) ColumnChange {
	return ColumnChange{
		Kind:     kind,
		Column:   column,
		From:     from,
		To:       to,
		Severity: SeverityForChange(kind),
		Message:  MessageForChange(kind, from, to),
	}
}

// ValidateColumns lists the structural changes from older to newer: removed columns
// in older order, then added columns in newer order, then per-column type, nullability
// and primary-key changes.
func ValidateColumns(older, newer []source.Column) []ColumnChange {
	newByName := make(map[string]source.Column, len(newer))
	for _, c := range newer {
		newByName[c.Name] = c
	}
	oldByName := make(map[string]source.Column, len(older))
	for _, c := range older {
		oldByName[c.Name] = c
	}

	var changes []ColumnChange
	for _, c := range older {
		if _, ok := newByName[c.Name]; !ok {
			changes = append(changes, newColumnChange(ChangeColumnRemoved, c.Name, c.Type, ""))
		}
	}
	for _, c := range newer {
		if _, ok := oldByName[c.Name]; !ok {
			changes = append(changes, newColumnChange(ChangeColumnAdded, c.Name, "", c.Type))
		}
	}
	for _, o := range older {
		n, ok := newByName[o.Name]
		if !ok {
			continue
		}
		if o.Type != n.Type {
			changes = append(changes, newColumnChange(ChangeTypeChanged, o.Name, o.Type, n.Type))
		}
		if o.Nullable && !n.Nullable {
			changes = append(changes, newColumnChange(ChangeNullableToNotNull, o.Name, "NULL", "NOT NULL"))
		}
		if o.PrimaryKey != n.PrimaryKey {
			changes = append(changes, newColumnChange(ChangePrimaryKeyChanged, o.Name,
				strconv.FormatBool(o.PrimaryKey), strconv.FormatBool(n.PrimaryKey)))
		}
	}
	return changes
}
