package cli

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"

	"github.com/medsentinel/encounter-log/internal/model"
)

var entropy = rand.New(rand.NewSource(time.Now().UnixNano()))

func newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

func newPutCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "put [content]",
		Short: "Store an encounter",
		Long:  "Store an encounter note, replacing any record with the same id. Content can be a positional arg or piped via stdin. With --image, the clinical text read from the image is appended to the note.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPut(a, cmd, args)
		},
	}

	cmd.Flags().String("id", "", "Encounter id (default: new ULID)")
	cmd.Flags().StringP("subject", "s", "LOCAL-1", "Patient/subject reference")
	cmd.Flags().StringP("author", "a", "", "Author display name")
	cmd.Flags().String("insights", "", "Path to an insight JSON file to attach")
	cmd.Flags().Bool("analyze", false, "Generate insights with Gemini before storing")
	cmd.Flags().String("image", "", "Path to an image (label, chart, symptom photo) to scan with Gemini")

	return cmd
}

func runPut(a *app, cmd *cobra.Command, args []string) error {
	id, _ := cmd.Flags().GetString("id")
	subject, _ := cmd.Flags().GetString("subject")
	author, _ := cmd.Flags().GetString("author")
	insightsPath, _ := cmd.Flags().GetString("insights")
	analyze, _ := cmd.Flags().GetBool("analyze")
	imagePath, _ := cmd.Flags().GetString("image")

	if insightsPath != "" && analyze {
		return fail("put", fmt.Errorf("--insights and --analyze are mutually exclusive"))
	}

	content, err := readContent(cmd, args)
	if err != nil {
		return fail("read stdin", err)
	}
	if content == "" && imagePath == "" {
		return fail("put", fmt.Errorf("content is required (positional arg, stdin, or --image)"))
	}
	if imagePath != "" {
		if content, err = a.scanInto(cmd.Context(), content, imagePath); err != nil {
			return fail("scan image", err)
		}
	}

	if id == "" {
		id = newID()
	}
	rec := model.Encounter{
		ID:         id,
		SubjectRef: subject,
		CreatedAt:  time.Now().UTC(),
		Author:     author,
		Content:    content,
	}

	switch {
	case insightsPath != "":
		b, err := os.ReadFile(insightsPath)
		if err != nil {
			return fail("read insights", err)
		}
		if rec.Insights, err = model.ParseInsight(b); err != nil {
			return fail("parse insights", err)
		}
	case analyze:
		analyzer, err := a.newAnalyzer(cmd.Context())
		if err != nil {
			return fail("analyze", err)
		}
		if rec.Insights, err = analyzer.Analyze(cmd.Context(), content); err != nil {
			return fail("analyze", err)
		}
	}

	l, m, err := a.openLog()
	if err != nil {
		return err
	}
	defer m.Close()

	if err := l.Upsert(cmd.Context(), rec); err != nil {
		return fail("put", err)
	}
	a.logger.Info("stored encounter", "id", rec.ID, "subject", rec.SubjectRef, "analyzed", rec.Insights != nil)

	return printJSON(cmd.OutOrStdout(), rec)
}

// readContent returns the positional args joined, or piped stdin.
func readContent(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.TrimSpace(strings.Join(args, " ")), nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok {
		stat, err := f.Stat()
		if err != nil || (stat.Mode()&os.ModeCharDevice) != 0 {
			return "", nil
		}
	}
	b, err := io.ReadAll(in)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
