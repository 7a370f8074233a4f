package drift

import (
	"github.com/alexanderjulianmartinez/datasnap/internal/snapshot"
	"github.com/alexanderjulianmartinez/datasnap/pkg/types"
)

var severityRank = map[string]int{SeverityInfo: 1, SeverityWarn: 2, SeverityBlock: 3}

// Report summarizes res, the comparison of older against newer. Tables in
// res.Changed are listed, and so are tables whose only change is a type,
// nullability or key change.
func Report(older, newer *snapshot.Snapshot, res *ChangeResult) types.CompareReport {
	rep := types.CompareReport{
		Source:          newer.Source(),
		OlderID:         older.ID().String(),
		NewerID:         newer.ID().String(),
		OlderCapturedAt: older.CapturedAt(),
		NewerCapturedAt: newer.CapturedAt(),
		AddedTables:     res.Added,
		RemovedTables:   res.Removed,
		Status:          types.StatusOK,
	}

	worst := ""
	if len(res.Removed) > 0 {
		worst = SeverityForChange(ChangeTableRemoved)
	}
	for i := range res.Tables {
		m := &res.Tables[i]
		if _, ok := res.Changed[m.Table]; !ok && len(m.Schema) == 0 {
			continue
		}
		tr := tableReport(m)
		if severityRank[tr.Status] > severityRank[worst] {
			worst = tr.Status
		}
		rep.Tables = append(rep.Tables, tr)
	}

	switch {
	case severityRank[worst] >= severityRank[SeverityWarn]:
		rep.Status = worst
	case !res.Empty():
		rep.Status = types.StatusChanged
	}
	return rep
}

func tableReport(m *TableChanges) types.TableReport {
	tr := types.TableReport{
		Table:        m.Table,
		SchemaDrift:  len(m.Schema) > 0,
		ChangedCells: m.ChangedCells(),
		AddedRows:    len(m.AddedRows),
		RemovedRows:  len(m.RemovedRows),
		Alignment:    m.Alignment,
		Status:       types.StatusChanged,
	}
	for _, c := range m.ChangedColumns() {
		tr.ChangedColumns = append(tr.ChangedColumns, c.Name)
	}

	worst := ""
	for _, sc := range m.Schema {
		tr.SchemaChanges = append(tr.SchemaChanges, types.SchemaChange{
			Kind:     sc.Kind,
			Column:   sc.Column,
			Severity: sc.Severity,
			Message:  sc.Message,
		})
		if severityRank[sc.Severity] > severityRank[worst] {
			worst = sc.Severity
		}
	}
	if severityRank[worst] >= severityRank[SeverityWarn] {
		tr.Status = worst
	}
	return tr
}
