package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/abhisek/phishwise/internal/answerkey"
	"github.com/abhisek/phishwise/internal/classifier"
	"github.com/abhisek/phishwise/internal/config"
	"github.com/abhisek/phishwise/internal/scoring"
	"github.com/abhisek/phishwise/internal/training"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the knowledge-tier classifier from a survey dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		tc := cfg.Training
		if p, _ := cmd.Flags().GetString("dataset"); p != "" {
			cfg.Paths.Dataset = p
		}
		if cmd.Flags().Changed("seed") {
			tc.Seed, _ = cmd.Flags().GetUint64("seed")
		}

		key, err := answerkey.Load(cfg.Paths.AnswerKey, logger)
		if err != nil {
			return err
		}
		tcfg, err := trainerConfig(tc)
		if err != nil {
			return err
		}

		model, report, err := training.New(key, tcfg, logger).Fit(cmd.Context(), cfg.Paths.Dataset)
		if err != nil {
			return err
		}
		if err := training.SaveArtifacts(model, cfg.Paths.Model, cfg.Paths.Features); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Dataset:    %s (%d rows)\n", cfg.Paths.Dataset, report.Rows)
		fmt.Fprintf(out, "Alignment:  %s\n", report.Alignment.Describe())
		if len(report.Alignment.Unmatched) > 0 {
			fmt.Fprintf(out, "Unmatched:  %v\n", report.Alignment.Unmatched)
		}
		fmt.Fprintf(out, "Features:   %d\n", report.Features)
		fmt.Fprintf(out, "Mean score: %.1f%%\n", report.MeanScore)

		tiers := make([]string, 0, len(report.TierCounts))
		for t := range report.TierCounts {
			tiers = append(tiers, string(t))
		}
		sort.Strings(tiers)
		fmt.Fprintln(out, "Tiers:")
		for _, t := range tiers {
			fmt.Fprintf(out, "  %-14s %d\n", t, report.TierCounts[scoring.Tier(t)])
		}
		if n := len(report.SyntheticRows); n > 0 {
			fmt.Fprintf(out, "Synthetic:  %d rows relabeled to diversify tiers\n", n)
		}
		split := "random"
		if report.Stratified {
			split = "stratified"
		}
		fmt.Fprintf(out, "Split:      %d train / %d test (%s)\n", report.TrainRows, report.TestRows, split)
		if report.MovedToTrain > 0 {
			fmt.Fprintf(out, "            %d test rows moved to train so every tier is learned\n", report.MovedToTrain)
		}
		if report.Evaluated {
			fmt.Fprintf(out, "\nAccuracy: %.3f\n\n%s", report.Accuracy, report.Metrics.String())
		} else {
			fmt.Fprintln(out, "\nAccuracy: not measured (no held-out rows)")
		}
		fmt.Fprintf(out, "\nSaved %s and %s\n", cfg.Paths.Model, cfg.Paths.Features)
		return nil
	},
}

// trainerConfig maps the training section of the config file.
func trainerConfig(tc config.TrainingConfig) (training.Config, error) {
	c := training.DefaultConfig()
	policy, err := scoring.ParseMatchPolicy(tc.MatchPolicy)
	if err != nil {
		return c, err
	}
	tiers, err := scoring.TierTableByName(tc.TierTable)
	if err != nil {
		return c, err
	}
	c.MatchPolicy = policy
	c.Tiers = tiers
	if tc.TestSize > 0 {
		c.TestSize = tc.TestSize
	}
	c.Seed = tc.Seed
	c.Tree = classifier.Config{
		MaxDepth:        tc.MaxDepth,
		MinSamplesSplit: tc.MinSamplesSplit,
		ClassWeight:     tc.ClassWeight,
	}
	if tc.SyntheticMaxFraction > 0 {
		c.SyntheticFraction = tc.SyntheticMaxFraction
	}
	return c, nil
}

func init() {
	trainCmd.Flags().String("dataset", "", "Survey CSV to train on (overrides paths.dataset)")
	trainCmd.Flags().Uint64("seed", 42, "Random seed for the split and tier diversification")
}
