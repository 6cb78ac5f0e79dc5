package cli

import (
	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Export encounters as JSON",
		Long:  "Export the encounter list as a JSON array, newest first. The output can be fed back to import.",
		RunE: func(cmd *cobra.Command, args []string) error {
			l, m, err := a.openLog()
			if err != nil {
				return err
			}
			defer m.Close()

			return printJSON(cmd.OutOrStdout(), l.ListAll(cmd.Context()))
		},
	}
}
