package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/phishwise/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List completed assessments from the event store",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		name, _ := cmd.Flags().GetString("name")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryAssessments(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query assessments: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No assessments recorded yet.")
			return nil
		}

		fmt.Fprintf(out, "%-5s  %-16s  %-20s  %7s  %-12s  %3s  %-8s  %s\n",
			"Seq", "Timestamp", "Name", "Score", "Tier", "Qs", "Policy", "Mode")
		fmt.Fprintln(out, strings.Repeat("─", 96))
		for _, e := range events {
			if name != "" && !strings.EqualFold(strings.TrimSpace(e.Name), strings.TrimSpace(name)) {
				continue
			}
			mode := "interactive"
			if e.NonInteractive {
				mode = "auto"
			}
			fmt.Fprintf(out, "%-5d  %-16s  %-20s  %6.1f%%  %-12s  %3d  %-8s  %s\n",
				e.Sequence,
				e.Timestamp.Local().Format("2006-01-02 15:04"),
				truncate(e.Name, 20),
				e.Percentage,
				e.Tier,
				e.QuestionCount,
				e.MatchPolicy,
				mode,
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of assessments to show")
	historyCmd.Flags().String("name", "", "Only show assessments for this learner")
}
