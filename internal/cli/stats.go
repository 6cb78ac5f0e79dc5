package cli

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/medsentinel/encounter-log/internal/encounterlog"
)

type statsOutput struct {
	DBPath      string     `json:"db_path"`
	DBSizeBytes int64      `json:"db_size_bytes"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	encounterlog.Stats
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show encounter log statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			l, m, err := a.openLog()
			if err != nil {
				return err
			}
			defer m.Close()

			out := statsOutput{
				DBPath: a.getDBPath(),
				Stats:  l.Stats(cmd.Context()),
			}
			if info, err := os.Stat(out.DBPath); err == nil {
				out.DBSizeBytes = info.Size()
			}
			blob, ok, err := m.Stat(cmd.Context(), a.key)
			if err != nil {
				return fail("stats", err)
			}
			if ok {
				out.UpdatedAt = &blob.UpdatedAt
			}

			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}
