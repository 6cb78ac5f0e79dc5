package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/medsentinel/encounter-log/internal/encounterlog"
)

func newSearchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search encounters by keyword",
		Long:  "Search note content, authors, and insight text for matching text.",
		RunE: func(cmd *cobra.Command, args []string) error {
			subject, _ := cmd.Flags().GetString("subject")
			limit, _ := cmd.Flags().GetInt("limit")

			l, m, err := a.openLog()
			if err != nil {
				return err
			}
			defer m.Close()

			results := l.Search(cmd.Context(), encounterlog.SearchParams{
				Query:      strings.Join(args, " "),
				SubjectRef: subject,
				Limit:      limit,
			})
			return printJSON(cmd.OutOrStdout(), results)
		},
	}

	cmd.Flags().StringP("subject", "s", "", "Filter by patient/subject reference")
	cmd.Flags().IntP("limit", "l", 20, "Max results")
	return cmd
}
