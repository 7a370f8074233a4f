package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderjulianmartinez/datasnap/internal/render"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the datasnap version",
		Args:  cobra.NoArgs,
		// version works without a config file.
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return validateOutputFormat(a.output)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.json() {
				return render.JSON(cmd.OutOrStdout(), map[string]string{
					"version": version,
					"commit":  commit,
				})
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "datasnap version %s (commit: %s)\n", version, commit)
			return err
		},
	}
}
