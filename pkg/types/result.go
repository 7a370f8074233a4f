package types

import "time"

const (
	StatusOK      = "OK"
	StatusChanged = "CHANGED"
)

// CompareReport is the serializable summary of one snapshot comparison. Status is
// StatusOK, StatusChanged, or the worst structural severity (WARN, BLOCK).
type CompareReport struct {
	Source          string        `json:"source"`
	OlderID         string        `json:"older_id"`
	NewerID         string        `json:"newer_id"`
	OlderCapturedAt time.Time     `json:"older_captured_at"`
	NewerCapturedAt time.Time     `json:"newer_captured_at"`
	AddedTables     []string      `json:"added_tables"`
	RemovedTables   []string      `json:"removed_tables"`
	Tables          []TableReport `json:"tables"`
	Status          string        `json:"status"`
}

type TableReport struct {
	Table          string         `json:"table"`
	SchemaDrift    bool           `json:"schema_drift"`
	SchemaChanges  []SchemaChange `json:"schema_changes,omitempty"`
	ChangedColumns []string       `json:"changed_columns"`
	ChangedCells   int            `json:"changed_cells"`
	AddedRows      int            `json:"added_rows"`
	RemovedRows    int            `json:"removed_rows"`
	Alignment      string         `json:"alignment"`
	Status         string         `json:"status"`
}

type SchemaChange struct {
	Kind     string `json:"kind"`
	Column   string `json:"column"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}
