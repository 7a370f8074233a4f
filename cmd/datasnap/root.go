package main

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/alexanderjulianmartinez/datasnap/internal/config"
	"github.com/alexanderjulianmartinez/datasnap/internal/drift"
	"github.com/alexanderjulianmartinez/datasnap/internal/logging"
	"github.com/alexanderjulianmartinez/datasnap/internal/snapshot/store"
)

const (
	configEnv         = "DATASNAP_CONFIG"
	defaultConfigPath = "datasnap.yaml"
)

var (
	version = "dev"
	commit  = "none"
)

// app is the state shared by every command of one invocation.
type app struct {
	configPath string
	output     string

	cfg    *config.Config
	logger hclog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "datasnap",
		Short:         "Snapshot databases and compare snapshots",
		Long:          "datasnap captures whole-database snapshots to disk and reports the tables, columns and cells that changed between two of them.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to config file (default $"+configEnv+" or "+defaultConfigPath+")")
	root.PersistentFlags().StringVarP(&a.output, "output", "o", "table", "Output format (table, json)")

	root.AddCommand(
		newDatabasesCmd(a),
		newTablesCmd(a),
		newColumnsCmd(a),
		newRecordsCmd(a),
		newSnapCmd(a),
		newCompareCmd(a),
		newVersionCmd(a),
	)
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	if err := validateOutputFormat(a.output); err != nil {
		return err
	}
	path := a.configPath
	if path == "" {
		path = os.Getenv(configEnv)
	}
	if path == "" {
		path = defaultConfigPath
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logging.New(cfg.Log.Level, cmd.ErrOrStderr())
	return nil
}

func validateOutputFormat(output string) error {
	if output != "table" && output != "json" {
		return fmt.Errorf("unsupported output format %q: use 'table' or 'json'", output)
	}
	return nil
}

func (a *app) json() bool { return a.output == "json" }

func (a *app) database(name string) (config.DatabaseConfig, error) {
	db, ok := a.cfg.Database(name)
	if !ok {
		return config.DatabaseConfig{}, fmt.Errorf("database %q is not configured", name)
	}
	return *db, nil
}

func (a *app) store() *store.Store {
	return store.New(a.cfg.Snapshots.Dir, a.logger)
}

// engineFor aligns tables of a configured database by its key overrides.
func (a *app) engineFor(source string) *drift.Engine {
	opts := []drift.Option{drift.WithLogger(a.logger.Named("drift"))}
	if db, ok := a.cfg.Database(source); ok {
		opts = append(opts, drift.WithKeys(db.KeyOverrides()))
	}
	return drift.NewEngine(opts...)
}
