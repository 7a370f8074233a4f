package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DBMSMySQL  = "mysql"
	DBMSSQLite = "sqlite"
	DBMSMSSQL  = "mssql"

	DefaultSnapshotDir = "snaps"
	DefaultLogLevel    = "info"
)

type Config struct {
	Snapshots SnapshotsConfig  `yaml:"snapshots"`
	Log       LogConfig        `yaml:"log"`
	Databases []DatabaseConfig `yaml:"databases"`
	Publish   PublishConfig    `yaml:"publish"`
}

type SnapshotsConfig struct {
	Dir string `yaml:"dir"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type DatabaseConfig struct {
	Name   string        `yaml:"name"`
	DBMS   string        `yaml:"dbms"`
	DSN    string        `yaml:"dsn"`
	Schema string        `yaml:"schema"`
	Tables []TableConfig `yaml:"tables"`
}

// TableConfig overrides how rows of one table are identified when diffing.
type TableConfig struct {
	Name       string   `yaml:"name"`
	PrimaryKey []string `yaml:"primaryKey"`
}

type PublishConfig struct {
	Kafka *KafkaConfig `yaml:"kafka"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is required")
	}

	_, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Database returns the configured database with the given name.
func (c *Config) Database(name string) (*DatabaseConfig, bool) {
	for i := range c.Databases {
		if c.Databases[i].Name == name {
			return &c.Databases[i], true
		}
	}
	return nil, false
}

// KeyOverrides maps table name to its configured primary key columns.
func (d *DatabaseConfig) KeyOverrides() map[string][]string {
	keys := make(map[string][]string, len(d.Tables))
	for _, t := range d.Tables {
		keys[t.Name] = t.PrimaryKey
	}
	return keys
}

func (c *Config) applyDefaults() {
	if c.Snapshots.Dir == "" {
		c.Snapshots.Dir = DefaultSnapshotDir
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	for i := range c.Databases {
		if c.Databases[i].DBMS == DBMSMSSQL && c.Databases[i].Schema == "" {
			c.Databases[i].Schema = "dbo"
		}
	}
}

func (c *Config) validate() error {
	if len(c.Databases) == 0 {
		return errors.New("at least one database is required")
	}
	seen := map[string]bool{}
	for _, db := range c.Databases {
		if db.Name == "" {
			return errors.New("database.name is required")
		}
		if seen[db.Name] {
			return fmt.Errorf("database %s is defined more than once", db.Name)
		}
		seen[db.Name] = true

		switch db.DBMS {
		case DBMSMySQL:
			if db.Schema == "" {
				return fmt.Errorf("database %s: schema is required for mysql", db.Name)
			}
		case DBMSSQLite, DBMSMSSQL:
		default:
			return fmt.Errorf("database %s: dbms must be one of mysql, sqlite, mssql (got %q)", db.Name, db.DBMS)
		}
		if db.DSN == "" {
			return fmt.Errorf("database %s: dsn is required", db.Name)
		}
		for _, table := range db.Tables {
			if table.Name == "" {
				return fmt.Errorf("database %s: table.name is required", db.Name)
			}
			if len(table.PrimaryKey) == 0 {
				return fmt.Errorf("table %s must define primaryKey", table.Name)
			}
		}
	}
	if k := c.Publish.Kafka; k != nil {
		if len(k.Brokers) == 0 {
			return errors.New("publish.kafka.brokers is required")
		}
		if k.Topic == "" {
			return errors.New("publish.kafka.topic is required")
		}
	}
	switch c.Log.Level {
	case "trace", "debug", "info", "warn", "error", "off":
	default:
		return fmt.Errorf("log.level %q is not one of trace, debug, info, warn, error, off", c.Log.Level)
	}
	return nil
}
