package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/phishwise/internal/answerkey"
	"github.com/abhisek/phishwise/internal/feedback"
)

var explanationsCmd = &cobra.Command{
	Use:   "explanations",
	Short: "Inspect the explanation bank",
}

var explanationsCoverageCmd = &cobra.Command{
	Use:   "coverage",
	Short: "Show explanation entries per question",
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := feedback.LoadExplanations(cfg.Paths.Explanations)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%d explanations in %s\n\n", table.Len(), cfg.Paths.Explanations)

		covered := map[string]bool{}
		fmt.Fprintf(out, "%-10s  %7s  %s\n", "Question", "Entries", "Options")
		fmt.Fprintln(out, strings.Repeat("─", 72))
		for _, c := range table.Coverage() {
			covered[c.QuestionID] = true
			fmt.Fprintf(out, "%-10s  %7d  %s\n", c.QuestionID, c.Entries, strings.Join(c.Options, " | "))
		}

		// Questions in the answer key with no entries at all.
		key, err := answerkey.Load(cfg.Paths.AnswerKey, logger)
		if err != nil {
			return nil
		}
		var missing []string
		for _, q := range key.Questions() {
			if !covered[q.ID] {
				missing = append(missing, q.ID)
			}
		}
		if len(missing) > 0 {
			fmt.Fprintf(out, "\nNo explanations for: %s\n", strings.Join(missing, ", "))
		}
		return nil
	},
}

func init() {
	explanationsCmd.AddCommand(explanationsCoverageCmd)
}
