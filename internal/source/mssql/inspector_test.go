package mssql

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alexanderjulianmartinez/datasnap/internal/source"
)

func TestRelationQuoting(t *testing.T) {
	i := &Inspector{schema: "sales"}
	assert.Equal(t, "[sales].[order]]s]", i.relation("order]s"))
}

func TestSelectQuery(t *testing.T) {
	i := &Inspector{schema: "dbo"}
	cols := []source.Column{{Name: "OrderID", PrimaryKey: true}, {Name: "Total"}}
	assert.Equal(t,
		"SELECT [OrderID], [Total] FROM [dbo].[Orders] ORDER BY [OrderID]",
		source.SelectQuery(i.relation("Orders"), cols, quote))
}
