package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List encounters, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			idsOnly, _ := cmd.Flags().GetBool("ids-only")

			l, m, err := a.openLog()
			if err != nil {
				return err
			}
			defer m.Close()

			encounters := l.ListAll(cmd.Context())
			if idsOnly {
				for _, e := range encounters {
					fmt.Fprintln(cmd.OutOrStdout(), e.ID)
				}
				return nil
			}
			return printJSON(cmd.OutOrStdout(), encounters)
		},
	}

	cmd.Flags().Bool("ids-only", false, "Only output encounter ids")
	return cmd
}
