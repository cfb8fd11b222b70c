package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/phishwise/internal/apperr"
	"github.com/abhisek/phishwise/internal/education"
	"github.com/abhisek/phishwise/internal/records"
)

var learnCmd = &cobra.Command{
	Use:   "learn",
	Short: "Show learning resources and a plan for your weak areas",
	Long: "Without --level the most recent result is used to pick the level and build\n" +
		"a learning plan. With --level (beginner, intermediate, advanced or 1-3) the\n" +
		"resources for that level are shown.",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if tips, _ := cmd.Flags().GetInt("tips"); tips > 0 {
			fmt.Fprintln(out, "QUICK TIPS:")
			for _, t := range education.QuickTips(tips) {
				fmt.Fprintf(out, "   - %s\n", t)
			}
			return nil
		}

		if lvl, _ := cmd.Flags().GetString("level"); lvl != "" {
			return education.NewSession(nil, education.ParseLevel(lvl)).WriteText(out)
		}

		rec, err := records.LoadResult(cfg.Paths.Results)
		if errors.Is(err, apperr.ErrMissingSource) {
			fmt.Fprintln(out, "No assessment result found; showing beginner resources.")
			fmt.Fprintln(out)
			return education.NewSession(nil, education.LevelBeginner).WriteText(out)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Based on %s's assessment from %s.\n\n",
			rec.Profile.Name, rec.Timestamp.Local().Format("2006-01-02 15:04"))
		return education.NewSession(&rec.Result, "").WriteText(out)
	},
}

func init() {
	learnCmd.Flags().String("level", "", "Resource level: beginner, intermediate, advanced (or 1-3)")
	learnCmd.Flags().Int("tips", 0, "Print this many quick tips and exit")
}
