package mysql

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alexanderjulianmartinez/datasnap/internal/source"
)

func TestRelationIsSchemaQualified(t *testing.T) {
	i := &Inspector{schema: "audit"}
	assert.Equal(t, "`audit`.`users`", i.relation("users"))
	assert.Equal(t, "`au``dit`.`us``ers`", (&Inspector{schema: "au`dit"}).relation("us`ers"))
}

func TestSelectQueryOrdersByPrimaryKey(t *testing.T) {
	i := &Inspector{schema: "shop"}
	cols := []source.Column{{Name: "id", PrimaryKey: true}, {Name: "na`me"}}
	assert.Equal(t, "SELECT `id`, `na``me` FROM `shop`.`users` ORDER BY `id`",
		source.SelectQuery(i.relation("users"), cols, quote))
}

func TestSelectQueryWithoutKey(t *testing.T) {
	i := &Inspector{schema: "audit"}
	cols := []source.Column{{Name: "a"}, {Name: "b"}}
	assert.Equal(t, "SELECT `a`, `b` FROM `audit`.`log`", source.SelectQuery(i.relation("log"), cols, quote))
}
