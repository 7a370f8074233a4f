package drift

// Centralized severity and message helpers for structural changes between snapshots.
// Rules:
// - BLOCK for irreversible changes
// - WARN for risky but reversible changes
// - INFO for safe changes

const (
	SeverityInfo  = "INFO"
	SeverityWarn  = "WARN"
	SeverityBlock = "BLOCK"
)

const (
	ChangeTableAdded        = "table_added"
	ChangeTableRemoved      = "table_removed"
	ChangeColumnAdded       = "column_added"
	ChangeColumnRemoved     = "column_removed"
	ChangeTypeChanged       = "type_changed"
	ChangeNullableToNotNull = "nullable_to_notnull"
	ChangePrimaryKeyChanged = "primary_key_changed"
)

func SeverityForChange(kind string) string {
	switch kind {
	case ChangeTableRemoved, ChangeColumnRemoved, ChangeNullableToNotNull:
		return SeverityBlock
	case ChangeTypeChanged, ChangePrimaryKeyChanged:
		return SeverityWarn
	case ChangeTableAdded, ChangeColumnAdded:
		return SeverityInfo
	default:
		return SeverityInfo
	}
}

// MessageForChange returns a concise message for the given change kind.
func MessageForChange(kind, from, to string) string {
	switch kind {
	case ChangeTableAdded:
		return "table added"
	case ChangeTableRemoved:
		return "table removed"
	case ChangeColumnAdded:
		return "added"
	case ChangeColumnRemoved:
		return "removed"
	case ChangeNullableToNotNull:
		return "nullable -> NOT NULL"
	case ChangeTypeChanged:
		return "type " + from + " -> " + to
	case ChangePrimaryKeyChanged:
		return "primary key " + from + " -> " + to
	default:
		return ""
	}
}
