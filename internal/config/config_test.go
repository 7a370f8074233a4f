package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "datasnap.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig_Valid(t *testing.T) {
	path := writeConfig(t, `
snapshots:
  dir: /var/lib/datasnap
databases:
  - name: shop
    dbms: mysql
    dsn: "root:pw@tcp(localhost:3306)/shop?parseTime=true"
    schema: shop
    tables:
      - name: users
        primaryKey: [id]
  - name: billing
    dbms: mssql
    dsn: "sqlserver://sa:pw@localhost:1433?database=billing"
  - name: local
    dbms: sqlite
    dsn: ./local.db
publish:
  kafka:
    brokers: [localhost:9092]
    topic: datasnap.compare
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/datasnap", cfg.Snapshots.Dir)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	require.Len(t, cfg.Databases, 3)

	billing, ok := cfg.Database("billing")
	require.True(t, ok)
	assert.Equal(t, "dbo", billing.Schema)

	shop, ok := cfg.Database("shop")
	require.True(t, ok)
	assert.Equal(t, map[string][]string{"users": {"id"}}, shop.KeyOverrides())

	_, ok = cfg.Database("nope")
	assert.False(t, ok)
	require.NotNil(t, cfg.Publish.Kafka)
	assert.Equal(t, "datasnap.compare", cfg.Publish.Kafka.Topic)
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "databases:\n  - {name: a, dbms: sqlite, dsn: a.db}\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSnapshotDir, cfg.Snapshots.Dir)
	assert.Nil(t, cfg.Publish.Kafka)
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := map[string]string{
		"no databases":   "databases: []\n",
		"bad dbms":       "databases:\n  - {name: a, dbms: oracle, dsn: x}\n",
		"missing dsn":    "databases:\n  - {name: a, dbms: sqlite}\n",
		"mysql schema":   "databases:\n  - {name: a, dbms: mysql, dsn: x}\n",
		"duplicate name": "databases:\n  - {name: a, dbms: sqlite, dsn: x}\n  - {name: a, dbms: sqlite, dsn: y}\n",
		"no key":         "databases:\n  - name: a\n    dbms: sqlite\n    dsn: x\n    tables: [{name: t}]\n",
		"kafka topic":    "databases:\n  - {name: a, dbms: sqlite, dsn: x}\npublish:\n  kafka:\n    brokers: [b:9092]\n",
		"log level":      "log: {level: loud}\ndatabases:\n  - {name: a, dbms: sqlite, dsn: x}\n",
		"not yaml":       "databases: [",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig("")
	assert.EqualError(t, err, "config path is required")

	_, err = LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "config file not found")
}
