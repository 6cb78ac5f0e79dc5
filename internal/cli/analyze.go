package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [content]",
		Short: "Generate insights for a note without storing it",
		Long:  "Send note content (positional arg or stdin) to Gemini and print the validated insight JSON. With --image, the clinical text read from the image is appended to the note first.",
		RunE: func(cmd *cobra.Command, args []string) error {
			imagePath, _ := cmd.Flags().GetString("image")

			content, err := readContent(cmd, args)
			if err != nil {
				return fail("read stdin", err)
			}
			if content == "" && imagePath == "" {
				return fail("analyze", fmt.Errorf("content is required (positional arg, stdin, or --image)"))
			}
			if imagePath != "" {
				if content, err = a.scanInto(cmd.Context(), content, imagePath); err != nil {
					return fail("scan image", err)
				}
			}

			analyzer, err := a.newAnalyzer(cmd.Context())
			if err != nil {
				return fail("analyze", err)
			}
			in, err := analyzer.Analyze(cmd.Context(), content)
			if err != nil {
				return fail("analyze", err)
			}
			return printJSON(cmd.OutOrStdout(), in)
		},
	}
	cmd.Flags().String("image", "", "Path to an image to scan and include in the analysis")
	return cmd
}
