package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/phishwise/internal/app"
	"github.com/abhisek/phishwise/internal/education"
	"github.com/abhisek/phishwise/internal/learner"
	"github.com/abhisek/phishwise/internal/llm"
	"github.com/abhisek/phishwise/internal/quiz"
	"github.com/abhisek/phishwise/internal/records"
	"github.com/abhisek/phishwise/internal/scoring"
	"github.com/abhisek/phishwise/internal/store"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Take the phishing awareness assessment",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuiz(cmd)
	},
}

func init() {
	addQuizFlags(quizCmd)
}

func addQuizFlags(c *cobra.Command) {
	c.Flags().Bool("non-interactive", false, "Answer every question with its best option (also NON_INTERACTIVE=1)")
	c.Flags().Bool("tui", false, "Use the full-screen interface")
	c.Flags().String("name", "", "Learner name")
	c.Flags().String("gender", "", "Gender (name or menu number)")
	c.Flags().String("education", "", "Education level (name or menu number)")
	c.Flags().String("proficiency", "", "IT proficiency (name or menu number)")
}

// profileFromFlags builds a profile when any profile flag was given.
func profileFromFlags(cmd *cobra.Command) (learner.Profile, bool) {
	var p learner.Profile
	set := false
	for _, f := range []struct {
		name    string
		choices []string
		dst     *string
	}{
		{"name", nil, &p.Name},
		{"gender", learner.GenderChoices, &p.Gender},
		{"education", learner.EducationChoices, &p.Education},
		{"proficiency", learner.ProficiencyChoices, &p.Proficiency},
	} {
		if !cmd.Flags().Changed(f.name) {
			continue
		}
		set = true
		v, _ := cmd.Flags().GetString(f.name)
		if f.choices != nil {
			v = learner.Choose(f.choices, v)
		}
		*f.dst = v
	}
	return p.Normalized(), set
}

func runQuiz(cmd *cobra.Command) error {
	ctx := cmd.Context()
	calc, err := loadCalculator()
	if err != nil {
		return err
	}

	nonInteractive, _ := cmd.Flags().GetBool("non-interactive")
	nonInteractive = nonInteractive || cfg.Quiz.NonInteractive
	useTUI, _ := cmd.Flags().GetBool("tui")
	profile, haveProfile := profileFromFlags(cmd)
	out := cmd.OutOrStdout()

	var (
		sess   *quiz.Session
		result scoring.AssessmentResult
	)
	switch {
	case nonInteractive:
		sess = quiz.NewSession(calc, profile)
		result, err = sess.AutoComplete()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Non-interactive run: answered %d questions with their best options.\n\n", result.QuestionCount)

	case useTUI:
		opts := app.Options{Calculator: calc, Logger: logger}
		if haveProfile {
			opts.Profile = &profile
		}
		outcome, err := app.RunQuiz(ctx, opts)
		if err != nil {
			return err
		}
		if !outcome.Completed {
			fmt.Fprintln(out, "Quiz ended early. Nothing was recorded.")
			return nil
		}
		sess, result = outcome.Session, outcome.Result

	default:
		driver := quiz.NewLineDriver(cmd.InOrStdin(), out)
		fmt.Fprintln(out, "PHISHING AWARENESS ASSESSMENT")
		fmt.Fprintln(out, "Answer each question with the number of your choice.")
		if !haveProfile {
			if profile, err = driver.PromptProfile(); err != nil {
				return err
			}
		}
		sess = quiz.NewSession(calc, profile)
		if result, err = driver.Run(sess); err != nil {
			return err
		}
	}

	return finishQuiz(cmd, sess, result, nonInteractive)
}

// finishQuiz persists the result, records the assessment event and prints
// the feedback report with the learning plan.
func finishQuiz(cmd *cobra.Command, sess *quiz.Session, result scoring.AssessmentResult, nonInteractive bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	now := time.Now()
	calc := sess.Calculator()

	rec := records.NewRecord(sess.ID, sess.Profile, calc.Key().Subcategory(), result, now)
	if err := records.SaveResult(cfg.Paths.Results, rec); err != nil {
		fmt.Fprintln(os.Stderr, "Could not save result:", err)
	}
	replaced, err := records.Upsert(cfg.Paths.Database, rec.Summary(), now)
	switch {
	case err != nil:
		fmt.Fprintln(os.Stderr, "Could not update assessment database:", err)
	case replaced:
		fmt.Fprintf(out, "Updated the existing record for %s.\n", rec.Profile.Name)
	default:
		fmt.Fprintf(out, "Saved a new record for %s.\n", rec.Profile.Name)
	}

	var sink llm.EventSink
	st, err := openStore(cmd)
	if err != nil {
		logger.Warn("event store unavailable", zap.Error(err))
	} else {
		defer st.Close()
		repo := st.EventRepo()
		sink = repo
		err := repo.AppendAssessment(ctx, store.AssessmentEventData{
			SessionID:      sess.ID,
			Name:           rec.Profile.Name,
			Category:       rec.Category,
			TotalScore:     result.TotalScore,
			Percentage:     result.Percentage,
			Tier:           string(result.Tier),
			QuestionCount:  result.QuestionCount,
			MatchPolicy:    string(calc.Policy()),
			TierTable:      calc.Tiers().Name,
			NonInteractive: nonInteractive,
		})
		if err != nil {
			logger.Warn("failed to record assessment event", zap.Error(err))
		}
	}

	fmt.Fprintln(out)
	report := buildComposer(ctx, sink).Compose(ctx, result, sess.Profile)
	if err := report.WriteText(out); err != nil {
		return err
	}

	edu := education.NewSession(&result, "")
	if edu.Plan != nil {
		fmt.Fprintln(out)
		fmt.Fprint(out, edu.Plan.String())
	}
	fmt.Fprintf(out, "\nRun `phishwise learn` for %s-level resources.\n", edu.Level)
	return nil
}
