package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderjulianmartinez/datasnap/internal/render"
	"github.com/alexanderjulianmartinez/datasnap/internal/source"
	"github.com/alexanderjulianmartinez/datasnap/internal/source/connect"
)

func newDatabasesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "databases",
		Short: "List configured databases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.json() {
				type view struct {
					Name   string `json:"name"`
					DBMS   string `json:"dbms"`
					Schema string `json:"schema,omitempty"`
				}
				out := make([]view, 0, len(a.cfg.Databases))
				for _, db := range a.cfg.Databases {
					out = append(out, view{Name: db.Name, DBMS: db.DBMS, Schema: db.Schema})
				}
				return render.JSON(cmd.OutOrStdout(), out)
			}
			return render.Databases(cmd.OutOrStdout(), a.cfg.Databases)
		},
	}
}

// withBackend opens the named database for the duration of fn.
func (a *app) withBackend(ctx context.Context, name string, fn func(source.Backend) error) error {
	db, err := a.database(name)
	if err != nil {
		return err
	}
	b, err := connect.Open(ctx, db)
	if err != nil {
		return err
	}
	defer b.Close()
	return fn(b)
}

func newTablesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tables <database>",
		Short: "List the tables of a database with their row counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withBackend(cmd.Context(), args[0], func(b source.Backend) error {
				res, err := source.Inspect(cmd.Context(), b)
				if err != nil {
					return err
				}
				if a.json() {
					return render.JSON(cmd.OutOrStdout(), res.Tables)
				}
				return render.Tables(cmd.OutOrStdout(), res)
			})
		},
	}
}

func newColumnsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "columns <database> <table>",
		Short: "Describe the columns of a table",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withBackend(cmd.Context(), args[0], func(b source.Backend) error {
				cols, err := b.Columns(cmd.Context(), args[1])
				if err != nil {
					return err
				}
				if a.json() {
					return render.JSON(cmd.OutOrStdout(), cols)
				}
				return render.Columns(cmd.OutOrStdout(), cols)
			})
		},
	}
}

var errLimitReached = errors.New("limit reached")

func newRecordsCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "records <database> <table>",
		Short: "Print the records of a table",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return fmt.Errorf("--limit must not be negative")
			}
			return a.withBackend(cmd.Context(), args[0], func(b source.Backend) error {
				cols, err := b.Columns(cmd.Context(), args[1])
				if err != nil {
					return err
				}

				if a.json() {
					var recs []source.Record
					err := b.Records(cmd.Context(), args[1], func(r source.Record) error {
						if limit > 0 && len(recs) >= limit {
							return errLimitReached
						}
						recs = append(recs, r)
						return nil
					})
					if err != nil && !errors.Is(err, errLimitReached) {
						return err
					}
					return render.JSON(cmd.OutOrStdout(), map[string]interface{}{
						"columns": source.ColumnNames(cols),
						"records": recs,
					})
				}

				rw := render.NewRecordWriter(cmd.OutOrStdout(), cols)
				n := 0
				err = b.Records(cmd.Context(), args[1], func(r source.Record) error {
					if limit > 0 && n >= limit {
						return errLimitReached
					}
					n++
					return rw.Write(r)
				})
				if err != nil && !errors.Is(err, errLimitReached) {
					return err
				}
				_, err = rw.Close()
				return err
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 100, "Maximum number of records to print (0 for all)")
	return cmd
}
