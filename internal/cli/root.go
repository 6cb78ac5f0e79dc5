// Package cli implements the encounter-log CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/medsentinel/encounter-log/internal/encounterlog"
	"github.com/medsentinel/encounter-log/internal/store"
)

type app struct {
	dbPath   string
	logLevel string
	key      string
	gemini   Gemini
	logger   *slog.Logger
}

// NewRootCmd builds the top-level command and its subcommands.
func NewRootCmd() *cobra.Command {
	a := &app{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	root := &cobra.Command{
		Use:           "encounter-log",
		Short:         "Bounded local log of clinical encounters",
		Long:          "Keeps the 50 most recent clinical notes and their AI-derived insights in a single SQLite-backed blob.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), a.getLogLevel())
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&a.dbPath, "db", "d", "", "Database path (default: $MEDSENTINEL_DB or ~/.medsentinel/encounters.db)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error (default: $MEDSENTINEL_LOG_LEVEL or warn)")
	root.PersistentFlags().StringVar(&a.key, "key", encounterlog.DefaultKey, "Storage key of the encounter list")
	a.gemini.Flags(root.PersistentFlags())

	root.AddCommand(
		newPutCmd(a),
		newListCmd(a),
		newGetCmd(a),
		newClearCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newStatsCmd(a),
		newSearchCmd(a),
		newAnalyzeCmd(a),
	)
	return root
}

func (a *app) getDBPath() string {
	if a.dbPath != "" {
		return a.dbPath
	}
	if env := os.Getenv("MEDSENTINEL_DB"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".medsentinel", "encounters.db")
}

func (a *app) getLogLevel() string {
	if a.logLevel != "" {
		return a.logLevel
	}
	if env := os.Getenv("MEDSENTINEL_LOG_LEVEL"); env != "" {
		return env
	}
	return "warn"
}

// openLog opens the database and returns the log over it. Callers close the
// returned medium.
func (a *app) openLog() (*encounterlog.Log, *store.SQLiteMedium, error) {
	m, err := store.NewSQLiteMedium(a.getDBPath(), store.Options{})
	if err != nil {
		return nil, nil, fail("open store", err)
	}
	l := encounterlog.New(m,
		encounterlog.WithKey(a.key),
		encounterlog.WithLogger(a.logger),
	)
	return l, m, nil
}

func fail(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fail("encode output", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
