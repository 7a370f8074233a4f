package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/alexanderjulianmartinez/datasnap/internal/drift"
	"github.com/alexanderjulianmartinez/datasnap/internal/publish"
	"github.com/alexanderjulianmartinez/datasnap/internal/render"
	"github.com/alexanderjulianmartinez/datasnap/internal/session"
)

func newCompareCmd(a *app) *cobra.Command {
	var (
		table      int
		column     int
		sendReport bool
	)
	cmd := &cobra.Command{
		Use:   "compare <older#> <newer#>",
		Short: "Compare two snapshots from 'snap list'",
		Long: "Compare two snapshots by their position in 'snap list'. --table picks a changed table by its\n" +
			"number in the compare output and --column one of that table's changed columns.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			older, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			newer, err := parseIndex(args[1])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("column") && !cmd.Flags().Changed("table") {
				return fmt.Errorf("--column requires --table")
			}

			s := session.New(a.store(), a.engineFor, a.logger.Named("session"))
			res, err := s.Compare(older, newer)
			if err != nil {
				return err
			}
			if sendReport {
				if err := a.publish(cmd, s); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if !cmd.Flags().Changed("table") {
				if a.json() {
					o, n := s.Pair()
					return render.JSON(out, drift.Report(o, n, res))
				}
				return render.Compare(out, res)
			}

			name, cols, err := s.SelectTable(table)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("column") {
				m, err := res.Matrix(name)
				if err != nil {
					return err
				}
				if a.json() {
					return render.JSON(out, map[string]interface{}{
						"table":   name,
						"columns": cols,
						"schema":  m.Schema,
					})
				}
				return render.ChangedColumns(out, m, cols)
			}

			slice, err := s.ColumnChanges(column)
			if err != nil {
				return err
			}
			if a.json() {
				return render.JSON(out, slice)
			}
			return render.ColumnSlice(out, slice)
		},
	}
	cmd.Flags().IntVarP(&table, "table", "t", 0, "Show the changed columns of changed table N")
	cmd.Flags().IntVar(&column, "column", 0, "Show the cells of changed column N of the selected table")
	cmd.Flags().BoolVar(&sendReport, "publish", false, "Publish the compare report to the configured Kafka topic")
	return cmd
}

func (a *app) publish(cmd *cobra.Command, s *session.Session) error {
	k := a.cfg.Publish.Kafka
	if k == nil {
		return fmt.Errorf("--publish requires publish.kafka in the config")
	}
	p := publish.NewKafka(*k, a.logger.Named("publish"))
	defer p.Close()

	o, n := s.Pair()
	return p.Publish(cmd.Context(), drift.Report(o, n, s.Result()))
}

func parseIndex(arg string) (int, error) {
	i, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid snapshot number %q", arg)
	}
	return i, nil
}
