package cli

import (
	"github.com/spf13/cobra"
)

func newGetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Retrieve an encounter by id",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := cmd.Flags().GetString("id")

			l, m, err := a.openLog()
			if err != nil {
				return err
			}
			defer m.Close()

			e, err := l.Get(cmd.Context(), id)
			if err != nil {
				return fail("get", err)
			}
			return printJSON(cmd.OutOrStdout(), e)
		},
	}

	cmd.Flags().String("id", "", "Encounter id (required)")
	cmd.MarkFlagRequired("id")
	return cmd
}
