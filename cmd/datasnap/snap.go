package main

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderjulianmartinez/datasnap/internal/render"
	"github.com/alexanderjulianmartinez/datasnap/internal/snapshot"
	"github.com/alexanderjulianmartinez/datasnap/internal/source"
)

func newSnapCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snap",
		Short: "Create, list and delete snapshots",
	}
	cmd.AddCommand(newSnapCreateCmd(a), newSnapListCmd(a), newSnapDeleteAllCmd(a))
	return cmd
}

func newSnapCreateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create <database>",
		Short: "Capture every table of a database into a new snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withBackend(cmd.Context(), args[0], func(b source.Backend) error {
				snap, err := snapshot.Capture(cmd.Context(), b, a.logger.Named("capture"))
				if err != nil {
					return err
				}
				path, err := a.store().Persist(snap)
				if err != nil {
					return err
				}

				if a.json() {
					return render.JSON(cmd.OutOrStdout(), map[string]interface{}{
						"id":          snap.ID().String(),
						"source":      snap.Source(),
						"captured_at": snap.CapturedAt(),
						"tables":      len(snap.TableNames()),
						"path":        path,
					})
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Snapshot of %s with %d table(s) written to %s\n",
					snap.Source(), len(snap.TableNames()), path)
				return err
			})
		},
	}
}

func newSnapListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored snapshots, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := a.store().List()
			if err != nil {
				return err
			}
			if a.json() {
				type view struct {
					Index      int       `json:"index"`
					Name       string    `json:"name"`
					Source     string    `json:"source"`
					CapturedAt time.Time `json:"captured_at"`
					Size       int64     `json:"size"`
				}
				out := make([]view, len(entries))
				for i, e := range entries {
					out[i] = view{Index: i, Name: e.Name, Source: e.Source, CapturedAt: e.CapturedAt, Size: e.Size}
				}
				return render.JSON(cmd.OutOrStdout(), out)
			}
			return render.Snapshots(cmd.OutOrStdout(), entries, time.Now())
		},
	}
}

func newSnapDeleteAllCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete-all",
		Short: "Delete every stored snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st := a.store()
			if !yes {
				fmt.Fprintf(cmd.OutOrStdout(), "Are you sure you want to delete all snapshots in %s? ([y], n) ", st.Dir())
				answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && answer == "" {
					// Stdin closed before any answer.
					_, err := fmt.Fprintln(cmd.OutOrStdout(), "\nAborted: no answer read, pass --yes to delete without asking")
					return err
				}
				switch strings.ToLower(strings.TrimSpace(answer)) {
				case "", "y", "yes":
				default:
					_, err := fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
					return err
				}
			}

			n, err := st.DeleteAll()
			if a.json() {
				if jerr := render.JSON(cmd.OutOrStdout(), map[string]int{"deleted": n}); jerr != nil {
					return jerr
				}
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d snapshot(s)\n", n)
			}
			return err
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}
