package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all encounters",
		RunE: func(cmd *cobra.Command, args []string) error {
			l, m, err := a.openLog()
			if err != nil {
				return err
			}
			defer m.Close()

			if err := l.Clear(cmd.Context()); err != nil {
				return fail("clear", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"key":%q}`+"\n", a.key)
			return nil
		},
	}
}
