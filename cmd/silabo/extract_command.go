package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"silabo/internal/syllabus"
)

// newExtractCommand analyzes a PDF on the spot without touching the
// catalog or queue. Useful for checking a syllabus before submitting it.
func newExtractCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "extract <syllabus.pdf>",
		Short:       "Extract and validate a syllabus without submitting it",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := syllabus.Extract(cmd.Context(), syllabus.PathSource{Path: args[0]})
			if err != nil {
				return fmt.Errorf("extract %s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			if !result.Readable {
				fmt.Fprintln(out, renderStatusLine("Readable", statusError, result.ErrorMessage, colorize))
				return nil
			}
			fmt.Fprintln(out, renderStatusLine("Readable", statusOK, "", colorize))
			if !result.OfficialSyllabus {
				fmt.Fprintln(out, renderStatusLine("Official syllabus", statusWarn, result.ErrorMessage, colorize))
				return nil
			}
			fmt.Fprintln(out, renderStatusLine("Official syllabus", statusOK, "", colorize))
			creditsKind := statusOK
			creditsText := fmt.Sprintf("%d", result.Credits)
			if result.Credits == 0 {
				creditsKind = statusWarn
				creditsText = "not found"
			}
			fmt.Fprintln(out, renderStatusLine("Credits", creditsKind, creditsText, colorize))
			fmt.Fprintln(out, renderStatusLine("Thematic content", statusInfo, fmt.Sprintf("%d chars", len(result.Content)), colorize))
			fmt.Fprintln(out)
			fmt.Fprintln(out, result.Content)
			return nil
		},
	}
}
