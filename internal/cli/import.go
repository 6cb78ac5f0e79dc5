package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/medsentinel/encounter-log/internal/model"
)

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Import encounters from JSON",
		Long:  "Import encounters from a JSON array on stdin. Expects the format produced by export.",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fail("read stdin", err)
			}

			var encounters []model.Encounter
			if err := json.Unmarshal(data, &encounters); err != nil {
				return fail("parse json", err)
			}

			l, m, err := a.openLog()
			if err != nil {
				return err
			}
			defer m.Close()

			imported, err := l.Import(cmd.Context(), encounters)
			if err != nil {
				return fail("import", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"imported":%d,"retained":%d}`+"\n",
				imported, len(l.ListAll(cmd.Context())))
			return nil
		},
	}
}
