package drift

import (
	"testing"

	"github.com/alexanderjulianmartinez/datasnap/internal/source"
)

func TestColumnAdded(t *testing.T) {
	older := []source.Column{{Name: "a", Type: "int"}}
	newer := []source.Column{{Name: "a", Type: "int"}, {Name: "b", Type: "varchar", Nullable: true}}
	changes := ValidateColumns(older, newer)
	if len(changes) != 1 {
		t.Fatalf("expected 1 change, got %d: %v", len(changes), changes)
	}
	c := changes[0]
	if c.Kind != ChangeColumnAdded || c.Column != "b" || c.Severity != SeverityInfo {
		t.Fatalf("unexpected change %+v", c)
	}
}

func TestColumnRemoved(t *testing.T) {
	older := []source.Column{{Name: "a", Type: "int"}, {Name: "b", Type: "varchar", Nullable: true}}
	newer := []source.Column{{Name: "a", Type: "int"}}
	changes := ValidateColumns(older, newer)
	if len(changes) != 1 {
		t.Fatalf("expected 1 change, got %d: %v", len(changes), changes)
	}
	if changes[0].Severity != SeverityForChange(ChangeColumnRemoved) || changes[0].Column != "b" {
		t.Fatalf("expected column_removed for b, got %+v", changes[0])
	}
}

func TestTypeChanged(t *testing.T) {
	older := []source.Column{{Name: "a", Type: "int"}}
	newer := []source.Column{{Name: "a", Type: "varchar"}}
	changes := ValidateColumns(older, newer)
	if len(changes) != 1 {
		t.Fatalf("expected 1 change, got %d", len(changes))
	}
	c := changes[0]
	if c.Severity != SeverityWarn || c.From != "int" || c.To != "varchar" {
		t.Fatalf("unexpected change %+v", c)
	}
	if c.Message != "type int -> varchar" {
		t.Fatalf("unexpected message %q", c.Message)
	}
}

func TestNullableToNotNull(t *testing.T) {
	older := []source.Column{{Name: "a", Type: "int", Nullable: true}}
	newer := []source.Column{{Name: "a", Type: "int", Nullable: false}}
	changes := ValidateColumns(older, newer)
	if len(changes) != 1 {
		t.Fatalf("expected 1 change, got %d", len(changes))
	}
	if changes[0].Severity != SeverityBlock {
		t.Fatalf("expected severity %s, got %s", SeverityBlock, changes[0].Severity)
	}
}

func TestNotNullToNullableIsSilent(t *testing.T) {
	older := []source.Column{{Name: "a", Type: "int"}}
	newer := []source.Column{{Name: "a", Type: "int", Nullable: true}}
	if changes := ValidateColumns(older, newer); len(changes) != 0 {
		t.Fatalf("expected no change, got %v", changes)
	}
}

func TestPrimaryKeyChanged(t *testing.T) {
	older := []source.Column{{Name: "id", Type: "int", PrimaryKey: true}}
	newer := []source.Column{{Name: "id", Type: "int"}}
	changes := ValidateColumns(older, newer)
	if len(changes) != 1 || changes[0].Kind != ChangePrimaryKeyChanged {
		t.Fatalf("expected primary_key_changed, got %v", changes)
	}
	if changes[0].Severity != SeverityWarn {
		t.Fatalf("expected WARN, got %s", changes[0].Severity)
	}
}
