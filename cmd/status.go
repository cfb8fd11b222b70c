package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/phishwise/internal/store"
	"github.com/abhisek/phishwise/internal/training"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report which data files and model artifacts are present",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg.File != "" {
			fmt.Fprintf(out, "Config: %s\n\n", cfg.File)
		}

		fmt.Fprintln(out, "Files:")
		for _, f := range []struct{ label, path string }{
			{"Answer key", cfg.Paths.AnswerKey},
			{"Dataset", cfg.Paths.Dataset},
			{"Explanations", cfg.Paths.Explanations},
			{"Last result", cfg.Paths.Results},
			{"Database", cfg.Paths.Database},
		} {
			fmt.Fprintf(out, "  %-13s %s  %s\n", f.label, fileMark(f.path), f.path)
		}

		st := training.CheckArtifacts(cfg.Paths.Model, cfg.Paths.Features)
		fmt.Fprintln(out, "\nModel artifacts:")
		fmt.Fprintf(out, "  %-13s %s  %s\n", "Model", mark(st.ModelExists), st.ModelPath)
		fmt.Fprintf(out, "  %-13s %s  %s\n", "Features", mark(st.FeaturesExists), st.FeaturesPath)
		switch {
		case st.Err != nil:
			fmt.Fprintf(out, "  Unusable: %v\n", st.Err)
		case st.Complete():
			fmt.Fprintf(out, "  Format %s, %d features, trained %s\n",
				st.FormatVersion, st.Features, st.TrainedAt.Local().Format("2006-01-02 15:04"))
		default:
			fmt.Fprintln(out, "  Incomplete: run `phishwise train`")
		}

		fmt.Fprintln(out, "\nEvent store:")
		s, err := openStore(cmd)
		if err != nil {
			fmt.Fprintf(out, "  Unavailable: %v\n", err)
			return nil
		}
		defer s.Close()
		assessments, err := s.EventRepo().QueryAssessments(cmd.Context(), store.QueryOpts{})
		if err != nil {
			return fmt.Errorf("query assessments: %w", err)
		}
		llmEvents, err := s.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		fmt.Fprintf(out, "  %s (%s)\n", s.Dialect(), cfg.Store.Driver)
		fmt.Fprintf(out, "  %d assessment events, %d LLM requests\n", len(assessments), len(llmEvents))
		return nil
	},
}

func fileMark(path string) string {
	_, err := os.Stat(path)
	return mark(err == nil || !errors.Is(err, fs.ErrNotExist))
}

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}
